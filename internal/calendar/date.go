// Package calendar implements the immutable civil Date type and the
// monotonic time cursor the rest of the engine advances. No timezone
// handling is performed — every date is a nominal civil date, matching the
// spec's explicit scope.
package calendar

import (
	"fmt"
	"time"
)

// Date is an immutable civil (year, month, day) value.
type Date struct {
	Year  int
	Month int
	Day   int
}

// New constructs a Date, normalizing via time.Date so overflowed days/months
// roll forward the same way AddDays expects.
func New(year, month, day int) Date {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// Today is not exposed: the engine never reads the wall clock for
// simulation time, only the persisted calendar cursor, so dates always flow
// in via New/Parse or calendar arithmetic.

func (d Date) toTime() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns a new Date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	t := d.toTime().AddDate(0, 0, n)
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// Weekday returns the day of week for d.
func (d Date) Weekday() time.Weekday {
	return d.toTime().Weekday()
}

// NextWeekday returns the first date on or after d that falls on wd.
func (d Date) NextWeekday(wd time.Weekday) Date {
	delta := (int(wd) - int(d.Weekday()) + 7) % 7
	return d.AddDays(delta)
}

// Before reports whether d is strictly before o.
func (d Date) Before(o Date) bool {
	return d.toTime().Before(o.toTime())
}

// After reports whether d is strictly after o.
func (d Date) After(o Date) bool {
	return d.toTime().After(o.toTime())
}

// Equal reports whether d and o denote the same civil date.
func (d Date) Equal(o Date) bool {
	return d.Year == o.Year && d.Month == o.Month && d.Day == o.Day
}

// Compare returns -1, 0, or 1 if d is before, equal to, or after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Before(o):
		return -1
	case d.After(o):
		return 1
	default:
		return 0
	}
}

// String renders d as an ISO-8601 civil date (YYYY-MM-DD).
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Compact renders d as YYYYMMDD, the form used in regular-season game ids.
func (d Date) Compact() string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, d.Month, d.Day)
}

// ParseISO parses a YYYY-MM-DD string into a Date.
func ParseISO(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("calendar: invalid ISO date %q: %w", s, err)
	}
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}

// defaultEventHour is the fixed local hour used for event timestamps unless
// a caller overrides it (spec: 19:00 local unless overridden).
const defaultEventHour = 19

// ToTimestampMillis converts d to an absolute timestamp in milliseconds,
// using the fixed default hour unless hour/minute overrides are supplied.
func (d Date) ToTimestampMillis(hourMinute ...int) int64 {
	hour, minute := defaultEventHour, 0
	if len(hourMinute) > 0 {
		hour = hourMinute[0]
	}
	if len(hourMinute) > 1 {
		minute = hourMinute[1]
	}
	t := time.Date(d.Year, time.Month(d.Month), d.Day, hour, minute, 0, 0, time.UTC)
	return t.UnixMilli()
}

// FromTimestampMillis returns the civil Date containing the given absolute
// millisecond timestamp (UTC).
func FromTimestampMillis(ms int64) Date {
	t := time.UnixMilli(ms).UTC()
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}
