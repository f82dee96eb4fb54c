package clock

import (
	"testing"
	"time"
)

func TestPartsLocalizesAcrossZones(t *testing.T) {
	c, err := New("America/New_York")
	if err != nil {
		t.Fatal(err)
	}

	// 03:30 UTC on Jan 6 is still 22:30 on Monday Jan 5 in New York (EST).
	np := c.Parts(time.Date(2026, 1, 6, 3, 30, 0, 0, time.UTC))
	if np.DateLocal != "2026-01-05" {
		t.Errorf("DateLocal = %q, want 2026-01-05", np.DateLocal)
	}
	if np.DowLong != "Monday" || np.Dow3 != "MON" {
		t.Errorf("weekday = %q/%q, want Monday/MON", np.DowLong, np.Dow3)
	}
	if np.Minutes != 22*60+30 {
		t.Errorf("Minutes = %d, want %d", np.Minutes, 22*60+30)
	}
	if np.DateLong != "MONDAY\nJanuary 5, 2026" {
		t.Errorf("DateLong = %q", np.DateLong)
	}
}

func TestPartsDST(t *testing.T) {
	c, err := New("America/New_York")
	if err != nil {
		t.Fatal(err)
	}
	// EDT is UTC-4: 16:00 UTC on July 4 is noon local.
	np := c.Parts(time.Date(2026, 7, 4, 16, 0, 0, 0, time.UTC))
	if np.Minutes != 12*60 {
		t.Errorf("Minutes = %d, want %d", np.Minutes, 12*60)
	}
	if np.Dow3 != "SAT" {
		t.Errorf("Dow3 = %q, want SAT", np.Dow3)
	}
}

func TestNewUnknownZone(t *testing.T) {
	if _, err := New("Mars/Olympus_Mons"); err == nil {
		t.Fatal("expected error for unknown zone")
	}
}

func TestDow3(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Monday", "MON"},
		{"sunday", "SUN"},
		{" Friday ", "FRI"},
		{"Funday", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Dow3(tc.in); got != tc.want {
			t.Errorf("Dow3(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"00:00", 0, true},
		{"9:15", 555, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"9:5", 0, false},
		{"09:15 AM", 0, false},
		{"", 0, false},
		{"soon", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseMinutes(tc.in)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("ParseMinutes(%q) = (%d, %v), want (%d, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
