// Package schedule resolves a day-part schedule document for display:
// conditional line rules and today's matched events are injected into the
// right sections, idempotently, with original order preserved.
package schedule

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ArtByLance/kiosk-tv/pkg/clock"
	"github.com/ArtByLance/kiosk-tv/pkg/engine"
	"github.com/ArtByLance/kiosk-tv/pkg/events"
)

// Line is one row of a schedule section. Lines have no identity beyond
// structural equality: two lines are the same iff all four fields match.
// That equality is what makes injection idempotent.
type Line struct {
	Label string `json:"label"`
	Time  string `json:"time,omitempty"`
	Note  string `json:"note,omitempty"`
	Kind  string `json:"kind,omitempty"` // "normal" or "event"
}

// UnmarshalJSON accepts the current object form, the legacy bare-string
// form, and the even older {text: ...} form, normalizing all of them.
func (l *Line) UnmarshalJSON(b []byte) error {
	trimmed := strings.TrimSpace(string(b))
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = Line{Label: s, Kind: "normal"}
		return nil
	}

	var aux struct {
		Label string `json:"label"`
		Time  string `json:"time"`
		Note  string `json:"note"`
		Kind  string `json:"kind"`
		Text  string `json:"text"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if aux.Label == "" && aux.Time == "" && aux.Note == "" {
		aux.Label = aux.Text
	}
	if aux.Kind == "" {
		aux.Kind = "normal"
	}
	*l = Line{Label: aux.Label, Time: aux.Time, Note: aux.Note, Kind: aux.Kind}
	return nil
}

// Section is a day-part block ("Morning", "Midday", "Evening") with its
// ordered lines.
type Section struct {
	Heading string `json:"heading"`
	Lines   []Line `json:"lines,omitempty"`
}

// When guards a conditional line rule. Every present field must pass:
// Dow compares against the current 3-letter day code, After and Before
// bound the current minutes (inclusive on both ends).
type When struct {
	Dow    string `json:"dow,omitempty"`
	After  string `json:"after,omitempty"`
	Before string `json:"before,omitempty"`
}

// AddLine names the target section (exact heading, case-insensitive) and
// the line to append there.
type AddLine struct {
	Heading string `json:"heading"`
	Line    Line   `json:"line"`
}

// LineRule is one conditional rule authored on a schedule page.
type LineRule struct {
	When             When     `json:"when,omitempty"`
	AddLineToSection *AddLine `json:"addLineToSection,omitempty"`
}

// Document is a static schedule page body: day-part sections plus the
// conditional rules that annotate them.
type Document struct {
	Sections []Section  `json:"sections,omitempty"`
	Rules    []LineRule `json:"rules,omitempty"`
}

func copySections(src []Section) []Section {
	out := make([]Section, len(src))
	for i, s := range src {
		lines := make([]Line, len(s.Lines))
		copy(lines, s.Lines)
		out[i] = Section{Heading: s.Heading, Lines: lines}
	}
	return out
}

func normalizeLine(l Line) Line {
	if l.Kind == "" {
		l.Kind = "normal"
	}
	return l
}

func hasLine(lines []Line, want Line) bool {
	for _, l := range lines {
		if normalizeLine(l) == want {
			return true
		}
	}
	return false
}

func findSection(sections []Section, heading string) *Section {
	for i := range sections {
		if strings.EqualFold(sections[i].Heading, heading) {
			return &sections[i]
		}
	}
	return nil
}

// ApplyRules evaluates the document's conditional rules against now and
// returns a fresh, fully resolved section list. The input document is never
// mutated; applying the result a second time yields the same sections.
func ApplyRules(doc Document, np clock.NowParts) []Section {
	sections := copySections(doc.Sections)

	for _, r := range doc.Rules {
		w := r.When
		if w.Dow != "" && !strings.EqualFold(w.Dow, np.Dow3) {
			continue
		}
		if w.After != "" {
			if min, ok := clock.ParseMinutes(w.After); ok && np.Minutes < min {
				continue
			}
		}
		if w.Before != "" {
			if min, ok := clock.ParseMinutes(w.Before); ok && np.Minutes > min {
				continue
			}
		}
		if r.AddLineToSection == nil {
			continue
		}
		sec := findSection(sections, r.AddLineToSection.Heading)
		if sec == nil {
			continue
		}
		line := normalizeLine(r.AddLineToSection.Line)
		if !hasLine(sec.Lines, line) {
			sec.Lines = append(sec.Lines, line)
		}
	}

	for i := range sections {
		for j := range sections[i].Lines {
			sections[i].Lines[j] = normalizeLine(sections[i].Lines[j])
		}
	}
	return sections
}

// CollectToday returns the payload entries announcing today, ordered for
// injection: priority descending, then start time ascending, ties keeping
// authored order.
func CollectToday(p *events.Payload, np clock.NowParts) []events.Rule {
	var todays []events.Rule
	for _, r := range engine.Flatten(p) {
		if !r.Enabled || r.Kind == "template" {
			continue
		}
		if engine.MatchesToday(r, np) {
			todays = append(todays, r)
		}
	}
	sort.SliceStable(todays, func(i, j int) bool {
		pi, pj := todays[i].PriorityValue(), todays[j].PriorityValue()
		if pi != pj {
			return pi > pj
		}
		return startMinutes(todays[i]) < startMinutes(todays[j])
	})
	return todays
}

func startMinutes(r events.Rule) int {
	if min, ok := clock.ParseMinutes(r.Schedule.StartLocal); ok {
		return min
	}
	return 99999 // unparsable starts sort last
}

func splitMessageLines(msg string) []string {
	var out []string
	for _, s := range strings.Split(msg, "\n") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// EventLine converts a matched event into a display line: label from the
// title (or the message's first line for older entries), 12-hour start
// time, note from the note field (or the message's second line).
func EventLine(ev events.Rule) Line {
	t := FormatTime12(ev.Schedule.StartLocal)

	title := strings.TrimSpace(ev.Title)
	if title == "" {
		msg := splitMessageLines(ev.Message)
		label := "Event"
		note := ""
		if len(msg) > 0 {
			label = msg[0]
		}
		if len(msg) > 1 {
			note = msg[1]
		}
		return Line{Label: label, Time: t, Note: note, Kind: "event"}
	}
	return Line{Label: title, Time: t, Note: strings.TrimSpace(ev.Note), Kind: "event"}
}

// BucketFor places an event start time into a day-part bucket: before
// 11:00 is morning, 11:00-15:59 is midday, 16:00 onward is evening.
// An unparsable start defaults to midday.
func BucketFor(startLocal string) string {
	min, ok := clock.ParseMinutes(startLocal)
	if !ok {
		return "midday"
	}
	switch h := min / 60; {
	case h < 11:
		return "morning"
	case h < 16:
		return "midday"
	default:
		return "evening"
	}
}

func findSectionByBucket(sections []Section, bucket string) *Section {
	want := strings.ToLower(bucket)
	for i := range sections {
		if strings.Contains(strings.ToLower(sections[i].Heading), want) {
			return &sections[i]
		}
	}
	return nil
}

// ResolveToday fully resolves a schedule document for the Today screen:
// conditional rules first, then today's matched events placed into their
// time-of-day bucket. Events with no matching section are silently dropped.
// Re-running with the same inputs never duplicates a line.
func ResolveToday(doc Document, p *events.Payload, np clock.NowParts) []Section {
	sections := ApplyRules(doc, np)

	for _, ev := range CollectToday(p, np) {
		sec := findSectionByBucket(sections, BucketFor(ev.Schedule.StartLocal))
		if sec == nil {
			continue
		}
		line := EventLine(ev)
		if !hasLine(sec.Lines, line) {
			sec.Lines = append(sec.Lines, line)
		}
	}
	return sections
}

// FirstEventLine returns the first event-kind line in document order, or
// nil. The home screen shows it as today's highlight.
func FirstEventLine(sections []Section) *Line {
	for i := range sections {
		for j := range sections[i].Lines {
			if sections[i].Lines[j].Kind == "event" {
				return &sections[i].Lines[j]
			}
		}
	}
	return nil
}

// FormatTime12 renders a local "HH:MM" string as 12-hour clock text like
// "9:15 AM". Invalid input renders as "".
func FormatTime12(hm string) string {
	min, ok := clock.ParseMinutes(hm)
	if !ok {
		return ""
	}
	h := min / 60
	m := min % 60
	ampm := "AM"
	if h >= 12 {
		ampm = "PM"
	}
	h = h % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, m, ampm)
}
