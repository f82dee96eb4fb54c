// Package engine answers "which entry is active right now" and "which entry
// is active today" over a flattened rule list. Every function here is total:
// malformed entries resolve to "no match", never an error, so adversarial
// data degrades availability-first.
package engine

import (
	"strings"

	"github.com/ArtByLance/kiosk-tv/pkg/clock"
	"github.com/ArtByLance/kiosk-tv/pkg/events"
)

// Flatten concatenates a payload's rules and events into one evaluation
// list, rules first, preserving authored order. Priority ties are broken by
// position in this list, so ordering must survive flattening exactly.
func Flatten(p *events.Payload) []events.Rule {
	if p == nil {
		return nil
	}
	out := make([]events.Rule, 0, len(p.Rules)+len(p.Events))
	out = append(out, p.Rules...)
	out = append(out, p.Events...)
	return out
}

// InWindow reports whether nowMin falls inside the half-open minute window
// [start, end). A window with start > end wraps past midnight. Equal start
// and end never matches; treating it as "all day" would turn a data-entry
// mistake into an always-on rule.
func InWindow(nowMin, startMin, endMin int) bool {
	if startMin == endMin {
		return false
	}
	if startMin < endMin {
		return nowMin >= startMin && nowMin < endMin
	}
	// Cross-midnight: 22:00 -> 02:00
	return nowMin >= startMin || nowMin < endMin
}

// MatchesToday reports whether the entry's day-or-date matches now,
// ignoring its time window. Weekly entries compare the 3-letter day code;
// date entries compare the literal local date. A cross-midnight date window
// therefore never extends into the following calendar day.
func MatchesToday(r events.Rule, np clock.NowParts) bool {
	s := r.Schedule
	switch s.Type {
	case "weekly":
		want := strings.ToUpper(s.Dow)
		return want != "" && want == strings.ToUpper(np.Dow3)
	case "date":
		return s.DateLocal == np.DateLocal
	default:
		return false
	}
}

// MatchesNow reports whether the entry is active at this exact instant:
// the day-or-date matches and now falls inside the parsed time window.
// An unparsable start or end time makes the entry permanently inert.
func MatchesNow(r events.Rule, np clock.NowParts) bool {
	startMin, ok := clock.ParseMinutes(r.Schedule.StartLocal)
	if !ok {
		return false
	}
	endMin, ok := clock.ParseMinutes(r.Schedule.EndLocal)
	if !ok {
		return false
	}
	if !InWindow(np.Minutes, startMin, endMin) {
		return false
	}
	return MatchesToday(r, np)
}

// eligible filters out disabled entries and authoring templates.
func eligible(r events.Rule) bool {
	return r.Enabled && r.Kind != "template"
}

// pickBest scans matching entries and keeps the one with the strictly
// greatest priority. Ties keep the first-seen entry; later entries of equal
// priority never displace it.
func pickBest(rules []events.Rule, np clock.NowParts, match func(events.Rule, clock.NowParts) bool) *events.Rule {
	var best *events.Rule
	for i := range rules {
		r := rules[i]
		if !eligible(r) || !match(r, np) {
			continue
		}
		if best == nil || r.PriorityValue() > best.PriorityValue() {
			best = &rules[i]
		}
	}
	return best
}

// ActiveNow returns the highest-priority entry whose day/date and minute
// window both contain now, or nil.
func ActiveNow(rules []events.Rule, np clock.NowParts) *events.Rule {
	return pickBest(rules, np, MatchesNow)
}

// ActiveToday returns the highest-priority entry whose day/date matches
// now regardless of its time window, or nil. Used for whole-day
// announcements like the home-screen banner.
func ActiveToday(rules []events.Rule, np clock.NowParts) *events.Rule {
	return pickBest(rules, np, MatchesToday)
}

// TodayEvent is ActiveToday over a whole payload.
func TodayEvent(p *events.Payload, np clock.NowParts) *events.Rule {
	return ActiveToday(Flatten(p), np)
}

// ActiveEvent is ActiveNow over a whole payload.
func ActiveEvent(p *events.Payload, np clock.NowParts) *events.Rule {
	return ActiveNow(Flatten(p), np)
}

// ResolveHomeMessage returns today's highest-priority event message for the
// home screen, or "" when nothing announces today.
func ResolveHomeMessage(p *events.Payload, np clock.NowParts) string {
	e := TodayEvent(p, np)
	if e != nil && strings.TrimSpace(e.Message) != "" {
		return e.Message
	}
	return ""
}
