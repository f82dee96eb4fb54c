package content

import (
	"encoding/json"

	"github.com/ArtByLance/kiosk-tv/pkg/schedule"
)

// Tile is a single button on a tiles page. To, when set, must reference
// another page id in the same payload.
type Tile struct {
	Label string `json:"label"`
	To    string `json:"to,omitempty"`
}

// Page is one screen of the kiosk. The core only interprets the fields it
// needs for validation and schedule resolution; everything else stays in Raw
// for the rendering layer.
type Page struct {
	Type     string              `json:"type"`
	Title    string              `json:"title"`
	Disabled bool                `json:"_disabled,omitempty"`
	Tiles    []Tile              `json:"tiles,omitempty"`
	Sections []schedule.Section  `json:"sections,omitempty"`
	Rules    []schedule.LineRule `json:"rules,omitempty"`

	// Raw holds the page exactly as authored, for renderers.
	Raw json.RawMessage `json:"-"`
}

// ScheduleDoc returns the page's schedule document (sections plus
// conditional line rules). Empty for non-schedule pages.
func (p *Page) ScheduleDoc() schedule.Document {
	return schedule.Document{Sections: p.Sections, Rules: p.Rules}
}

// Payload is an activated content payload. It is built once per load cycle
// and never mutated afterwards; a new load replaces it wholesale.
type Payload struct {
	Meta       map[string]interface{}
	HomePageID string
	Pages      map[string]*Page
}

// GetPage returns the page for id, or nil.
func (p *Payload) GetPage(id string) *Page {
	if p == nil {
		return nil
	}
	return p.Pages[id]
}

// Decode unmarshals a raw payload into the typed model and applies the
// validator's defaults: missing page type becomes "info", missing title
// becomes "". Callers are expected to have run Validate on raw first;
// Decode only fails on malformed JSON.
func Decode(raw []byte) (*Payload, error) {
	var rp struct {
		Meta       map[string]interface{}     `json:"meta"`
		HomePageID string                     `json:"homePageId"`
		Pages      map[string]json.RawMessage `json:"pages"`
	}
	if err := json.Unmarshal(raw, &rp); err != nil {
		return nil, err
	}

	p := &Payload{
		Meta:       rp.Meta,
		HomePageID: rp.HomePageID,
		Pages:      make(map[string]*Page, len(rp.Pages)),
	}
	if p.Meta == nil {
		p.Meta = map[string]interface{}{}
	}

	for id, rawPage := range rp.Pages {
		page := &Page{}
		if err := json.Unmarshal(rawPage, page); err != nil {
			return nil, err
		}
		if page.Type == "" {
			page.Type = "info"
		}
		page.Raw = rawPage
		p.Pages[id] = page
	}
	return p, nil
}

// PruneDisabled drops pages flagged _disabled: true. Authors keep disabled
// pages in the JSON for reference; they must never be reachable once active.
func (p *Payload) PruneDisabled() {
	for id, page := range p.Pages {
		if page != nil && page.Disabled {
			delete(p.Pages, id)
		}
	}
}
