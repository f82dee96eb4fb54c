package content

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Result is a validation outcome. Errors accumulates every violation found
// rather than stopping at the first, so authors can fix a payload in one pass.
type Result struct {
	OK     bool
	Errors []string
}

// Validate runs the structural schema check over a raw content payload.
// It is a pure function over the bytes: no I/O, no mutation. A payload with
// zero accumulated errors is valid; anything else fails its loader tier.
func Validate(raw []byte) Result {
	var errs []string

	if !gjson.ValidBytes(raw) {
		return Result{OK: false, Errors: []string{"Content is not valid JSON."}}
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		errs = append(errs, "Content is not an object.")
		return Result{OK: false, Errors: errs}
	}

	if !root.Get("meta").IsObject() {
		errs = append(errs, "Missing meta object.")
	}

	home := root.Get("homePageId")
	if home.Type != gjson.String || home.Str == "" {
		errs = append(errs, "Missing homePageId string.")
	}

	pages := root.Get("pages")
	if !pages.IsObject() {
		errs = append(errs, "Missing pages object.")
		return Result{OK: len(errs) == 0, Errors: errs}
	}
	pageMap := pages.Map()

	if home.Str != "" {
		if _, ok := pageMap[home.Str]; !ok {
			errs = append(errs, fmt.Sprintf("homePageId %q not found in pages.", home.Str))
		}
	}

	for id, page := range pageMap {
		if !page.IsObject() {
			errs = append(errs, fmt.Sprintf("Page %q is not an object.", id))
			continue
		}
		tiles := page.Get("tiles")
		if !tiles.Exists() {
			continue
		}
		if !tiles.IsArray() {
			errs = append(errs, fmt.Sprintf("Page %q tiles must be an array.", id))
			continue
		}
		for _, t := range tiles.Array() {
			label := t.Get("label").Str
			if label == "" {
				errs = append(errs, fmt.Sprintf("Page %q has a tile missing label.", id))
			}
			to := t.Get("to").Str
			if to != "" {
				if _, ok := pageMap[to]; !ok {
					errs = append(errs, fmt.Sprintf("Tile %q on %q points to missing page %q.", label, id, to))
				}
			}
		}
	}

	return Result{OK: len(errs) == 0, Errors: errs}
}
