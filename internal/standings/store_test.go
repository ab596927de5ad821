package standings

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrab54/gridiron-dynasty/internal/games"
	"github.com/mrab54/gridiron-dynasty/internal/seasontype"
)

func testStore() *Store {
	return &Store{teams: TeamMetadata{
		"KC":  {TeamID: "KC", Conference: "AFC", Division: "AFC West"},
		"LAC": {TeamID: "LAC", Conference: "AFC", Division: "AFC West"},
		"BUF": {TeamID: "BUF", Conference: "AFC", Division: "AFC East"},
		"SF":  {TeamID: "SF", Conference: "NFC", Division: "NFC West"},
	}}
}

func TestDeltaDivisionAndConferenceWin(t *testing.T) {
	s := testStore()
	g := games.Game{HomeTeamID: "KC", AwayTeamID: "LAC", HomeScore: 24, AwayScore: 17, SeasonType: seasontype.Regular}

	home := s.delta(g, "KC", "LAC", 24, 17)
	assert.Equal(t, 1, home.win)
	assert.Equal(t, 1, home.divWin, "KC/LAC share a division")
	assert.Equal(t, 1, home.confWin, "KC/LAC share a conference")
	assert.Equal(t, 1, home.homeWin)
	assert.Equal(t, 0, home.awayWin)
}

func TestDeltaConferenceOnlyWin(t *testing.T) {
	s := testStore()
	g := games.Game{HomeTeamID: "KC", AwayTeamID: "BUF", HomeScore: 10, AwayScore: 20, SeasonType: seasontype.Regular}

	away := s.delta(g, "BUF", "KC", 20, 10)
	assert.Equal(t, 1, away.win)
	assert.Equal(t, 0, away.divWin, "different divisions")
	assert.Equal(t, 1, away.confWin, "both AFC")
	assert.Equal(t, 1, away.awayWin)
}

func TestDeltaNoSharedGroupingCrossConferenceTie(t *testing.T) {
	s := testStore()
	g := games.Game{HomeTeamID: "KC", AwayTeamID: "SF", HomeScore: 10, AwayScore: 10, SeasonType: seasontype.Regular}

	home := s.delta(g, "KC", "SF", 10, 10)
	assert.Equal(t, 1, home.tie)
	assert.Equal(t, 0, home.divWin+home.divLoss+home.divTie, "different divisions, no division credit")
	assert.Equal(t, 0, home.confWin+home.confLoss+home.confTie, "different conferences, no conference credit")
}

func TestStreakSeed(t *testing.T) {
	assert.Equal(t, 1, streakSeed(teamDelta{win: 1}))
	assert.Equal(t, -1, streakSeed(teamDelta{loss: 1}))
	assert.Equal(t, 0, streakSeed(teamDelta{tie: 1}))
}
