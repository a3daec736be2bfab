package model

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day in UTC. Scheduling works in whole days, so
// time-of-day never enters interval arithmetic.
type Date struct {
	t time.Time
}

// DateOf truncates a timestamp to its UTC calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, &ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not an ISO date (YYYY-MM-DD)", s)}
	}
	return Date{t.UTC()}, nil
}

// AddDays returns the date n days later.
func (d Date) AddDays(n int) Date {
	return Date{d.t.AddDate(0, 0, n)}
}

// DaysSince returns the whole-day difference d - other.
func (d Date) DaysSince(other Date) int {
	return int(d.t.Sub(other.t).Hours() / 24)
}

func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }
func (d Date) IsZero() bool           { return d.t.IsZero() }

func (d Date) String() string {
	return d.t.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.t.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s", s)
	}
	t, err := time.Parse(dateLayout, s[1:len(s)-1])
	if err != nil {
		return fmt.Errorf("invalid date %s: %w", s, err)
	}
	d.t = t.UTC()
	return nil
}
