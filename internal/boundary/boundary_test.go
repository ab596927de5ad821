package boundary

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrab54/gridiron-dynasty/internal/calendar"
	"github.com/mrab54/gridiron-dynasty/internal/phasekind"
)

type fakeEventStore struct {
	calls int
	first map[phasekind.Phase]calendar.Date
	last  map[phasekind.Phase]calendar.Date
}

func (f *fakeEventStore) GetFirstGameDate(ctx context.Context, dynastyID string, phase phasekind.Phase, onOrAfter calendar.Date) (calendar.Date, bool, error) {
	f.calls++
	d, ok := f.first[phase]
	return d, ok, nil
}

func (f *fakeEventStore) GetLastGameDate(ctx context.Context, dynastyID string, phase phasekind.Phase, onOrAfter calendar.Date) (calendar.Date, bool, error) {
	f.calls++
	d, ok := f.last[phase]
	return d, ok, nil
}

func TestGetFirstGameDateUsesInProcessFallbackCache(t *testing.T) {
	fake := &fakeEventStore{
		first: map[phasekind.Phase]calendar.Date{
			phasekind.RegularSeason: calendar.New(2025, 9, 4),
		},
	}
	d := NewDetector(fake, nil, zerolog.Nop())

	date, ok, err := d.GetFirstGameDate(context.Background(), "dyn1", phasekind.RegularSeason, 2025, calendar.New(2025, 1, 1))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, calendar.New(2025, 9, 4), date)

	_, _, err = d.GetFirstGameDate(context.Background(), "dyn1", phasekind.RegularSeason, 2025, calendar.New(2025, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, fake.calls, "second call should be served from the in-process fallback cache")
}

func TestGetPlayoffStartDateRollsToSaturday(t *testing.T) {
	// 2025-01-04 is a Saturday; last regular season game on 2025-01-04 means
	// +14 days lands on 2025-01-18, also a Saturday, so it should stay put.
	fake := &fakeEventStore{
		last: map[phasekind.Phase]calendar.Date{
			phasekind.RegularSeason: calendar.New(2025, 1, 4),
		},
	}
	d := NewDetector(fake, nil, zerolog.Nop())

	date, ok, err := d.GetPlayoffStartDate(context.Background(), "dyn1", 2025, calendar.New(2025, 1, 1))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Saturday, date.Weekday())
	assert.True(t, date.After(fake.last[phasekind.RegularSeason]) || date.Equal(fake.last[phasekind.RegularSeason]))
}

func TestGetPlayoffStartDateMissingLastGame(t *testing.T) {
	fake := &fakeEventStore{last: map[phasekind.Phase]calendar.Date{}}
	d := NewDetector(fake, nil, zerolog.Nop())

	_, ok, err := d.GetPlayoffStartDate(context.Background(), "dyn1", 2025, calendar.New(2025, 1, 1))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInvalidateClearsFallback(t *testing.T) {
	fake := &fakeEventStore{
		first: map[phasekind.Phase]calendar.Date{phasekind.Preseason: calendar.New(2025, 8, 1)},
	}
	d := NewDetector(fake, nil, zerolog.Nop())

	_, _, _ = d.GetFirstGameDate(context.Background(), "dyn1", phasekind.Preseason, 2025, calendar.New(2025, 1, 1))
	require.NoError(t, d.Invalidate(context.Background(), "dyn1", 2025))

	_, _, _ = d.GetFirstGameDate(context.Background(), "dyn1", phasekind.Preseason, 2025, calendar.New(2025, 1, 1))
	assert.Equal(t, 2, fake.calls, "invalidate should force a recompute")
}
