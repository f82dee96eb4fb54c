// Package template is the tiny {{key}} substitution helper the renderers
// consume. Pure string work; unknown keys render as "".
package template

import "regexp"

var keyPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Render replaces every {{key}} in text with its mapped value.
func Render(text string, data map[string]string) string {
	return keyPattern.ReplaceAllStringFunc(text, func(m string) string {
		key := m[2 : len(m)-2]
		return data[key]
	})
}
