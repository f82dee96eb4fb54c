// Package clock converts an instant into the timezone-localized parts the
// rule engine matches against. The whole system runs on a single named IANA
// zone; the evaluating machine's local zone never leaks into matching.
package clock

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultTimezone is the zone the kiosk ships with.
const DefaultTimezone = "America/New_York"

// NowParts are the derived time parts for one evaluation. They are computed
// fresh per render pass and never stored.
type NowParts struct {
	Timezone  string
	DowLong   string // "Friday"
	Dow3      string // "FRI"; "" when the long name is unrecognized
	DateLong  string // "FRIDAY\nJanuary 5, 2026", for the home banner
	DateLocal string // "2026-01-05"
	Minutes   int    // minutes since local midnight
}

// Clock samples wall-clock time in a fixed zone.
type Clock struct {
	tz  string
	loc *time.Location
}

// New builds a clock for the named IANA zone.
func New(tz string) (*Clock, error) {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", tz, err)
	}
	return &Clock{tz: tz, loc: loc}, nil
}

// Timezone returns the zone name the clock was built with.
func (c *Clock) Timezone() string { return c.tz }

// Now returns the parts for the current instant.
func (c *Clock) Now() NowParts { return c.Parts(time.Now()) }

// Parts localizes t into the clock's zone and derives the matchable parts.
func (c *Clock) Parts(t time.Time) NowParts {
	lt := t.In(c.loc)
	dowLong := lt.Weekday().String()
	return NowParts{
		Timezone:  c.tz,
		DowLong:   dowLong,
		Dow3:      Dow3(dowLong),
		DateLong:  strings.ToUpper(dowLong) + "\n" + lt.Format("January 2, 2006"),
		DateLocal: lt.Format("2006-01-02"),
		Minutes:   lt.Hour()*60 + lt.Minute(),
	}
}

var dow3ByLong = map[string]string{
	"monday":    "MON",
	"tuesday":   "TUE",
	"wednesday": "WED",
	"thursday":  "THU",
	"friday":    "FRI",
	"saturday":  "SAT",
	"sunday":    "SUN",
}

// Dow3 maps a long weekday name to its 3-letter code. Unrecognized names
// yield "", which can never match a rule; safer than guessing.
func Dow3(long string) string {
	return dow3ByLong[strings.ToLower(strings.TrimSpace(long))]
}

var hmPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ParseMinutes parses a local "HH:MM" string to minutes since midnight.
// Returns ok=false for anything malformed or out of range; callers treat
// such rules as permanently inert rather than erroring.
func ParseMinutes(s string) (int, bool) {
	m := hmPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	hh, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	if hh > 23 || mm > 59 {
		return 0, false
	}
	return hh*60 + mm, true
}
