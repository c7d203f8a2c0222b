// Package dates implements calendar arithmetic over YYYY-MM-DD date tokens.
package dates

import (
	"fmt"
	"regexp"
	"time"
	_ "time/tzdata"
)

// Layout is the canonical textual form of a date token.
const Layout = "2006-01-02"

// Earliest is the first date the picture feed has content for.
const Earliest = "1995-06-16"

var tokenPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Parse validates a date token and returns it as a UTC midnight time.
func Parse(date string) (time.Time, error) {
	if !tokenPattern.MatchString(date) {
		return time.Time{}, fmt.Errorf("invalid date token %q", date)
	}
	t, err := time.Parse(Layout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date token %q: %w", date, err)
	}
	return t, nil
}

// Previous returns the calendar day before date.
func Previous(date string) (string, error) {
	t, err := Parse(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, -1).Format(Layout), nil
}

// Next returns the calendar day after date.
func Next(date string) (string, error) {
	t, err := Parse(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, 1).Format(Layout), nil
}

// Calendar knows the feed's bounds: the earliest published date and
// "today" in the zone the feed publishes on.
type Calendar struct {
	earliest string
	loc      *time.Location
	now      func() time.Time
}

// NewCalendar creates a calendar bounded below by earliest, with today
// evaluated in the named time zone.
func NewCalendar(earliest, timezone string) (*Calendar, error) {
	if _, err := Parse(earliest); err != nil {
		return nil, fmt.Errorf("failed to parse earliest date: %w", err)
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone %q: %w", timezone, err)
	}
	return &Calendar{earliest: earliest, loc: loc, now: time.Now}, nil
}

// WithClock returns a copy of c that reads the current time from now.
func (c *Calendar) WithClock(now func() time.Time) *Calendar {
	cp := *c
	cp.now = now
	return &cp
}

// Earliest returns the lower bound date.
func (c *Calendar) Earliest() string {
	return c.earliest
}

// Today returns the current date in the calendar's time zone.
func (c *Calendar) Today() string {
	return c.now().In(c.loc).Format(Layout)
}

// IsAtLowerBound reports whether date is the earliest date (or before it),
// so that no earlier page exists.
func (c *Calendar) IsAtLowerBound(date string) bool {
	// Canonical tokens compare chronologically as strings.
	return date <= c.earliest
}

// IsToday reports whether date is today or later, so that no later page exists.
func (c *Calendar) IsToday(date string) bool {
	return date >= c.Today()
}

// InRange reports whether date is a well-formed token within
// [earliest, today].
func (c *Calendar) InRange(date string) bool {
	if _, err := Parse(date); err != nil {
		return false
	}
	return date >= c.earliest && date <= c.Today()
}
