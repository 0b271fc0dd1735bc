package models

import (
	"strings"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04:05"

	// Fixed width so stored timestamps sort chronologically as text.
	timestampLayout = "2006-01-02T15:04:05.000000Z"
)

// Date is a calendar date in YYYY-MM-DD form.
type Date string

func DateOf(t time.Time) Date { return Date(t.Format(dateLayout)) }

func (d Date) Time() (time.Time, error) { return time.Parse(dateLayout, string(d)) }

func (d Date) validate(field string) error {
	if d == "" {
		return nil
	}
	if _, err := d.Time(); err != nil {
		return invalid("%s must be YYYY-MM-DD, got %q", field, string(d))
	}
	return nil
}

// Clock is a wall-clock time in HH:MM:SS form.
type Clock string

func ClockOf(t time.Time) Clock { return Clock(t.Format(clockLayout)) }

// Timestamp is a UTC instant with microsecond precision.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to what survives a round trip through storage.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Microsecond)}
}

func (t Timestamp) String() string { return t.UTC().Format(timestampLayout) }

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return invalid("bad timestamp %q", s)
	}
	*t = NewTimestamp(parsed)
	return nil
}
