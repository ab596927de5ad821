package season

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrab54/gridiron-dynasty/internal/boundary"
	"github.com/mrab54/gridiron-dynasty/internal/calendar"
	"github.com/mrab54/gridiron-dynasty/internal/phasekind"
)

// fakeEventStore satisfies boundary's unexported eventStore interface
// structurally, letting tests build a real *boundary.Detector without a
// database.
type fakeEventStore struct {
	lastGameOK   bool
	lastGameDate calendar.Date
}

func (f *fakeEventStore) GetFirstGameDate(ctx context.Context, dynastyID string, phase phasekind.Phase, onOrAfter calendar.Date) (calendar.Date, bool, error) {
	return calendar.Date{}, false, nil
}

func (f *fakeEventStore) GetLastGameDate(ctx context.Context, dynastyID string, phase phasekind.Phase, onOrAfter calendar.Date) (calendar.Date, bool, error) {
	return f.lastGameDate, f.lastGameOK, nil
}

func newTestControllerAtPhase(phase phasekind.Phase, today, kickoff calendar.Date, det *boundary.Detector) *Controller {
	return &Controller{
		logger:  zerolog.Nop(),
		cal:     calendar.NewCalendar(today),
		season:  2026,
		phase:   phase,
		kickoff: kickoff,
		boundary: det,
	}
}

func TestCheckPreseasonToRegularSeasonDoesNothingBeforeKickoff(t *testing.T) {
	kickoff := calendar.New(2026, 9, 10)
	c := newTestControllerAtPhase(phasekind.Preseason, calendar.New(2026, 8, 1), kickoff, nil)

	transition, err := c.checkPreseasonToRegularSeason(context.Background())
	require.NoError(t, err)
	assert.Empty(t, transition)
	assert.Equal(t, phasekind.Preseason, c.phase)
}

func TestCheckRegularSeasonToPlayoffsDoesNothingBeforeLastGame(t *testing.T) {
	kickoff := calendar.New(2026, 9, 10)
	det := boundary.NewDetector(&fakeEventStore{lastGameOK: false}, nil, zerolog.Nop())
	c := newTestControllerAtPhase(phasekind.RegularSeason, calendar.New(2027, 1, 2), kickoff, det)

	transition, err := c.checkRegularSeasonToPlayoffs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, transition)
	assert.Equal(t, phasekind.RegularSeason, c.phase)
}

func TestCheckRegularSeasonToPlayoffsDoesNothingWhileGamesRemain(t *testing.T) {
	kickoff := calendar.New(2026, 9, 10)
	det := boundary.NewDetector(&fakeEventStore{lastGameOK: true, lastGameDate: calendar.New(2027, 1, 7)}, nil, zerolog.Nop())
	// Still a week before the last scheduled regular-season game.
	c := newTestControllerAtPhase(phasekind.RegularSeason, calendar.New(2026, 12, 31), kickoff, det)

	transition, err := c.checkRegularSeasonToPlayoffs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, transition)
}

func TestCheckPlayoffsToOffseasonDoesNothingWithoutACompletedBracket(t *testing.T) {
	c := newTestControllerAtPhase(phasekind.Playoffs, calendar.New(2027, 1, 20), calendar.New(2026, 9, 10), nil)

	transition, err := c.checkPlayoffsToOffseason(context.Background())
	require.NoError(t, err)
	assert.Empty(t, transition)
}

func TestCheckOffseasonToPreseasonDoesNothingBeforeNextPreseasonWindow(t *testing.T) {
	kickoff := calendar.New(2026, 9, 10)
	c := newTestControllerAtPhase(phasekind.Offseason, calendar.New(2027, 3, 1), kickoff, nil)

	transition, err := c.checkOffseasonToPreseason(context.Background())
	require.NoError(t, err)
	assert.Empty(t, transition)
	assert.Equal(t, 2026, c.season)
}

func TestGetPlayoffBracketErrorsWithoutAConstructedBracket(t *testing.T) {
	c := &Controller{}
	_, _, err := c.GetPlayoffBracket()
	assert.ErrorIs(t, err, ErrNoPlayoffBracket)
}
