package engine

import (
	"testing"

	"github.com/ArtByLance/kiosk-tv/pkg/clock"
	"github.com/ArtByLance/kiosk-tv/pkg/events"
)

func monday(minutes int) clock.NowParts {
	return clock.NowParts{
		Timezone:  "America/New_York",
		DowLong:   "Monday",
		Dow3:      "MON",
		DateLocal: "2026-01-05",
		Minutes:   minutes,
	}
}

func weeklyRule(id, dow, start, end string, priority float64) events.Rule {
	return events.Rule{
		ID: id, Enabled: true, Priority: priority,
		Schedule: events.Schedule{Type: "weekly", Dow: dow, StartLocal: start, EndLocal: end},
	}
}

func TestInWindow(t *testing.T) {
	cases := []struct {
		now, start, end int
		want            bool
	}{
		{540, 540, 600, true},  // at start
		{599, 540, 600, true},  // just inside
		{600, 540, 600, false}, // end is exclusive
		{539, 540, 600, false},
		{1410, 1320, 120, true},  // 23:30 in 22:00->02:00 wrap
		{60, 1320, 120, true},    // 01:00 in wrap
		{120, 1320, 120, false},  // wrap end exclusive
		{720, 1320, 120, false},  // noon outside wrap
		{720, 720, 720, false},   // equal bounds never match
		{0, 0, 0, false},
	}
	for _, tc := range cases {
		if got := InWindow(tc.now, tc.start, tc.end); got != tc.want {
			t.Errorf("InWindow(%d, %d, %d) = %v, want %v", tc.now, tc.start, tc.end, got, tc.want)
		}
	}
}

func TestActiveNowBasics(t *testing.T) {
	rules := []events.Rule{weeklyRule("r1", "MON", "09:00", "10:00", 0)}

	if got := ActiveNow(rules, monday(9*60+30)); got == nil || got.ID != "r1" {
		t.Fatalf("expected r1 active, got %+v", got)
	}
	if got := ActiveNow(rules, monday(10*60)); got != nil {
		t.Fatalf("expected nil at window end, got %+v", got)
	}
	// Wrong day, same time.
	np := monday(9*60 + 30)
	np.Dow3 = "TUE"
	if got := ActiveNow(rules, np); got != nil {
		t.Fatalf("expected nil on TUE, got %+v", got)
	}
}

func TestDisabledAndTemplateFiltered(t *testing.T) {
	disabled := weeklyRule("off", "MON", "00:00", "23:59", 9)
	disabled.Enabled = false
	tmpl := weeklyRule("tmpl", "MON", "00:00", "23:59", 9)
	tmpl.Kind = "template"
	rules := []events.Rule{disabled, tmpl}

	if got := ActiveNow(rules, monday(600)); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
	if got := ActiveToday(rules, monday(600)); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestUnparsableWindowIsInert(t *testing.T) {
	r := weeklyRule("r", "MON", "soon", "10:00", 0)
	if got := ActiveNow([]events.Rule{r}, monday(500)); got != nil {
		t.Fatalf("expected nil for unparsable start, got %+v", got)
	}
	// ...but the day still matches for "today".
	if got := ActiveToday([]events.Rule{r}, monday(500)); got == nil {
		t.Fatal("expected today match despite broken window")
	}
}

func TestActiveTodayIgnoresWindow(t *testing.T) {
	rules := []events.Rule{weeklyRule("r1", "MON", "09:00", "10:00", 0)}
	if got := ActiveToday(rules, monday(23*60)); got == nil || got.ID != "r1" {
		t.Fatalf("expected r1 today, got %+v", got)
	}
}

func TestPriorityStrictlyGreaterWins(t *testing.T) {
	rules := []events.Rule{
		weeklyRule("low", "MON", "09:00", "10:00", 1),
		weeklyRule("high", "MON", "09:00", "10:00", 5),
	}
	if got := ActiveNow(rules, monday(9*60)); got == nil || got.ID != "high" {
		t.Fatalf("expected high, got %+v", got)
	}
}

func TestPriorityTieFirstSeenWins(t *testing.T) {
	rules := []events.Rule{
		weeklyRule("first", "MON", "09:00", "10:00", 3),
		weeklyRule("second", "MON", "09:00", "10:00", 3),
		weeklyRule("third", "MON", "09:00", "10:00", 3),
	}
	if got := ActiveNow(rules, monday(9*60)); got == nil || got.ID != "first" {
		t.Fatalf("expected first-seen entry on tie, got %+v", got)
	}
	if got := ActiveToday(rules, monday(9*60)); got == nil || got.ID != "first" {
		t.Fatalf("expected first-seen entry on tie, got %+v", got)
	}
}

func TestFlattenRulesBeforeEvents(t *testing.T) {
	p := &events.Payload{
		Rules:  []events.Rule{weeklyRule("rule", "MON", "09:00", "10:00", 3)},
		Events: []events.Rule{weeklyRule("event", "MON", "09:00", "10:00", 3)},
	}
	flat := Flatten(p)
	if len(flat) != 2 || flat[0].ID != "rule" || flat[1].ID != "event" {
		t.Fatalf("unexpected flatten order: %+v", flat)
	}
	// The rules-array entry wins the tie because it flattens first.
	if got := ActiveNow(flat, monday(9*60)); got == nil || got.ID != "rule" {
		t.Fatalf("expected rules-first tie-break, got %+v", got)
	}
}

// A date rule whose window wraps past midnight stays bound to its literal
// date: it is active late on Jan 5 but NOT in the early hours of Jan 6,
// because the date equality is re-checked against the current date. This
// asymmetry with weekly rules is intentional, documented source behavior.
func TestDateRuleCrossMidnightStaysOnLiteralDate(t *testing.T) {
	r := events.Rule{
		ID: "late", Enabled: true,
		Schedule: events.Schedule{Type: "date", DateLocal: "2026-01-05", StartLocal: "22:00", EndLocal: "02:00"},
	}

	jan5 := monday(23*60 + 30)
	if got := ActiveNow([]events.Rule{r}, jan5); got == nil {
		t.Fatal("expected active at 23:30 on the literal date")
	}

	jan6 := clock.NowParts{Dow3: "TUE", DowLong: "Tuesday", DateLocal: "2026-01-06", Minutes: 60}
	if got := ActiveNow([]events.Rule{r}, jan6); got != nil {
		t.Fatalf("expected inactive at 01:00 the next date, got %+v", got)
	}

	// A weekly rule with the same window DOES carry into the day it names.
	w := weeklyRule("w", "MON", "22:00", "02:00", 0)
	if got := ActiveNow([]events.Rule{w}, monday(60)); got == nil {
		t.Fatal("expected weekly wrap active at 01:00 Monday")
	}
}

func TestResolveHomeMessage(t *testing.T) {
	withMsg := weeklyRule("m", "MON", "09:00", "10:00", 0)
	withMsg.Message = "Dentist today"
	p := &events.Payload{Events: []events.Rule{withMsg}}

	if got := ResolveHomeMessage(p, monday(8*60)); got != "Dentist today" {
		t.Errorf("ResolveHomeMessage = %q", got)
	}

	np := monday(8 * 60)
	np.Dow3 = "SUN"
	if got := ResolveHomeMessage(p, np); got != "" {
		t.Errorf("expected empty message on non-matching day, got %q", got)
	}

	blank := weeklyRule("b", "MON", "09:00", "10:00", 0)
	blank.Message = "   "
	if got := ResolveHomeMessage(&events.Payload{Events: []events.Rule{blank}}, monday(0)); got != "" {
		t.Errorf("expected empty for whitespace message, got %q", got)
	}
}

func TestNoMatchReturnsNil(t *testing.T) {
	rules := []events.Rule{
		weeklyRule("tue", "TUE", "09:00", "10:00", 0),
		{ID: "no-schedule", Enabled: true},
		{ID: "odd-type", Enabled: true, Schedule: events.Schedule{Type: "lunar", StartLocal: "09:00", EndLocal: "10:00"}},
	}
	if got := ActiveNow(rules, monday(9*60)); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
	if got := ActiveToday(rules, monday(9*60)); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}
