package simulator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrab54/gridiron-dynasty/internal/seasontype"
)

func TestInstantSimulatorRegularSeasonAllowsTie(t *testing.T) {
	sawTie := false
	for i := int64(0); i < 500; i++ {
		s := NewInstantSimulator(i)
		res, err := s.SimulateGame(context.Background(), Params{
			SeasonType: seasontype.Regular,
			HomeTeamID: "KC", AwayTeamID: "BUF",
			Playoff: false,
		})
		assert.NoError(t, err)
		if res.HomeScore == res.AwayScore {
			sawTie = true
			assert.Equal(t, "", res.WinnerTeamID)
		}
	}
	assert.True(t, sawTie, "expected at least one tie across 500 regular-season samples")
}

func TestInstantSimulatorPlayoffNeverTies(t *testing.T) {
	for i := int64(0); i < 200; i++ {
		s := NewInstantSimulator(i)
		res, err := s.SimulateGame(context.Background(), Params{
			SeasonType: seasontype.Playoffs,
			HomeTeamID: "KC", AwayTeamID: "BUF",
			Playoff: true,
		})
		assert.NoError(t, err)
		assert.NotEqual(t, res.HomeScore, res.AwayScore)
		assert.NotEmpty(t, res.WinnerTeamID)
	}
}

func TestInstantSimulatorWinnerMatchesScore(t *testing.T) {
	s := NewInstantSimulator(7)
	res, err := s.SimulateGame(context.Background(), Params{HomeTeamID: "KC", AwayTeamID: "BUF"})
	assert.NoError(t, err)
	switch {
	case res.HomeScore > res.AwayScore:
		assert.Equal(t, "KC", res.WinnerTeamID)
	case res.AwayScore > res.HomeScore:
		assert.Equal(t, "BUF", res.WinnerTeamID)
	default:
		assert.Equal(t, "", res.WinnerTeamID)
	}
}
