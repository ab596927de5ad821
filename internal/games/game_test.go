package games

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrab54/gridiron-dynasty/internal/seasontype"
)

func TestWinnerTeamID(t *testing.T) {
	g := Game{HomeTeamID: "KC", AwayTeamID: "BUF", HomeScore: 24, AwayScore: 17}
	assert.Equal(t, "KC", g.WinnerTeamID())

	g.HomeScore, g.AwayScore = 17, 24
	assert.Equal(t, "BUF", g.WinnerTeamID())

	g.HomeScore, g.AwayScore = 20, 20
	assert.Equal(t, "", g.WinnerTeamID())
	assert.True(t, g.IsTie())
}

func TestValidateRejectsNegativeScores(t *testing.T) {
	g := Game{SeasonType: seasontype.Regular, HomeScore: -1, AwayScore: 10}
	assert.ErrorIs(t, g.Validate(), errGameNegativeScore)
}

func TestValidateRejectsPlayoffTie(t *testing.T) {
	g := Game{SeasonType: seasontype.Playoffs, HomeScore: 20, AwayScore: 20}
	assert.ErrorIs(t, g.Validate(), errGamePlayoffTie)
}

func TestValidateAllowsRegularSeasonTie(t *testing.T) {
	g := Game{SeasonType: seasontype.Regular, HomeScore: 20, AwayScore: 20}
	assert.NoError(t, g.Validate())
}
