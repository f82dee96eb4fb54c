// Package events models the rules/events payload: schedule-bound entries
// that may activate a home-screen message or inject a line into the daily
// schedule. Decoding is deliberately tolerant; a malformed entry becomes
// inert instead of failing the whole payload.
package events

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// Schedule is an entry's time rule. Type is "weekly" (Dow + window) or
// "date" (DateLocal + window). Start/end are local "HH:MM" strings; a
// string that does not parse makes the entry permanently non-matching.
type Schedule struct {
	Type       string `json:"type"`
	Dow        string `json:"dow,omitempty"`
	DateLocal  string `json:"dateLocal,omitempty"`
	StartLocal string `json:"startLocal"`
	EndLocal   string `json:"endLocal"`
}

// Rule is one entry from either the rules or events array; the two arrays
// share this shape and are treated identically by the engine.
type Rule struct {
	ID       string   `json:"id"`
	Kind     string   `json:"kind,omitempty"`
	Enabled  bool     `json:"enabled"`
	Priority any      `json:"priority,omitempty"`
	Schedule Schedule `json:"schedule"`
	Title    string   `json:"title,omitempty"`
	Note     string   `json:"note,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// PriorityValue coerces the authored priority to a number the way the
// engine ranks entries: absent or non-numeric values count as 0.
func (r Rule) PriorityValue() float64 {
	switch v := r.Priority.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Payload is an activated events payload. Rules and Events keep their
// authored order; the engine flattens them rules-first.
type Payload struct {
	Meta   map[string]interface{}
	Rules  []Rule
	Events []Rule
}

// Empty returns the well-defined empty payload the events loader resolves
// to on total exhaustion. Absence of events must never block the app.
func Empty() *Payload {
	return &Payload{Meta: map[string]interface{}{}, Rules: []Rule{}, Events: []Rule{}}
}

// Decode unmarshals a raw events payload, normalizing as the original
// authoring tool allows: a missing or non-object meta becomes {}, missing
// or non-array rules/events become empty, and entries that fail to decode
// are skipped rather than failing the payload.
func Decode(raw []byte) (*Payload, error) {
	var rp struct {
		Meta   json.RawMessage `json:"meta"`
		Rules  json.RawMessage `json:"rules"`
		Events json.RawMessage `json:"events"`
	}
	if err := json.Unmarshal(raw, &rp); err != nil {
		return nil, err
	}

	p := Empty()
	if len(rp.Meta) > 0 {
		var meta map[string]interface{}
		if err := json.Unmarshal(rp.Meta, &meta); err == nil && meta != nil {
			p.Meta = meta
		}
	}
	p.Rules = decodeList(rp.Rules)
	p.Events = decodeList(rp.Events)
	return p, nil
}

func decodeList(raw json.RawMessage) []Rule {
	out := []Rule{}
	if len(raw) == 0 {
		return out
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return out
	}
	for _, item := range items {
		if string(item) == "null" {
			continue
		}
		var r Rule
		if err := json.Unmarshal(item, &r); err != nil {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Validate performs the structural check an events payload must pass on a
// fetch-and-validate tier: top-level object, and rules/events arrays when
// present. Returns accumulated violations; empty means valid.
func Validate(raw []byte) []string {
	if !gjson.ValidBytes(raw) {
		return []string{"Events payload is not valid JSON."}
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return []string{"Events payload is not an object."}
	}

	var errs []string
	for _, key := range []string{"rules", "events"} {
		v := root.Get(key)
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		if !v.IsArray() {
			errs = append(errs, fmt.Sprintf("Field %q must be an array.", key))
		}
	}
	return errs
}
