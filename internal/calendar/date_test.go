package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateAddDaysRollsMonthsAndYears(t *testing.T) {
	d := New(2025, 12, 30)
	assert.Equal(t, "2026-01-04", d.AddDays(5).String())
}

func TestDateCompare(t *testing.T) {
	a := New(2025, 9, 5)
	b := New(2025, 9, 6)
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
}

func TestNextWeekdaySaturday(t *testing.T) {
	// 2025-09-05 is a Friday.
	d := New(2025, 9, 5)
	sat := d.NextWeekday(time.Saturday)
	assert.Equal(t, "2025-09-06", sat.String())

	// Already a Saturday stays put.
	alreadySat := New(2025, 9, 6)
	assert.True(t, alreadySat.Equal(alreadySat.NextWeekday(time.Saturday)))
}

func TestParseISORoundTrip(t *testing.T) {
	d, err := ParseISO("2025-11-01")
	require.NoError(t, err)
	assert.Equal(t, "2025-11-01", d.String())
	assert.Equal(t, "20251101", d.Compact())
}

func TestCalendarAdvanceIsAtomicPerCall(t *testing.T) {
	c := NewCalendar(New(2025, 9, 5))
	got := c.Advance(1)
	assert.Equal(t, "2025-09-06", got.String())
	assert.Equal(t, "2025-09-06", c.CurrentDate().String())
}

func TestTimestampRoundTrip(t *testing.T) {
	d := New(2025, 9, 5)
	ms := d.ToTimestampMillis()
	assert.Equal(t, d, FromTimestampMillis(ms))
}
