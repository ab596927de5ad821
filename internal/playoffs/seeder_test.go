package playoffs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrab54/gridiron-dynasty/internal/seasontype"
	"github.com/mrab54/gridiron-dynasty/internal/standings"
)

func afcTeams() standings.TeamMetadata {
	return standings.TeamMetadata{
		"KC":  {TeamID: "KC", Conference: "AFC", Division: "AFC West"},
		"LAC": {TeamID: "LAC", Conference: "AFC", Division: "AFC West"},
		"DEN": {TeamID: "DEN", Conference: "AFC", Division: "AFC West"},
		"LV":  {TeamID: "LV", Conference: "AFC", Division: "AFC West"},
		"BUF": {TeamID: "BUF", Conference: "AFC", Division: "AFC East"},
		"MIA": {TeamID: "MIA", Conference: "AFC", Division: "AFC East"},
		"NYJ": {TeamID: "NYJ", Conference: "AFC", Division: "AFC East"},
		"NE":  {TeamID: "NE", Conference: "AFC", Division: "AFC East"},
		"BAL": {TeamID: "BAL", Conference: "AFC", Division: "AFC North"},
		"PIT": {TeamID: "PIT", Conference: "AFC", Division: "AFC North"},
		"CIN": {TeamID: "CIN", Conference: "AFC", Division: "AFC North"},
		"CLE": {TeamID: "CLE", Conference: "AFC", Division: "AFC North"},
		"HOU": {TeamID: "HOU", Conference: "AFC", Division: "AFC South"},
		"IND": {TeamID: "IND", Conference: "AFC", Division: "AFC South"},
		"JAX": {TeamID: "JAX", Conference: "AFC", Division: "AFC South"},
		"TEN": {TeamID: "TEN", Conference: "AFC", Division: "AFC South"},
	}
}

func standing(teamID string, wins, losses, ties int) standings.Standing {
	return standings.Standing{
		TeamID: teamID, SeasonType: seasontype.Regular,
		Wins: wins, Losses: losses, Ties: ties,
		PointsFor: 300, PointsAgainst: 280,
	}
}

func TestSeedConferenceRanksDivisionWinnersFirst(t *testing.T) {
	teams := afcTeams()
	standingsList := []standings.Standing{
		standing("KC", 14, 3, 0),
		standing("LAC", 10, 7, 0),
		standing("DEN", 8, 9, 0),
		standing("LV", 4, 13, 0),
		standing("BUF", 13, 4, 0),
		standing("MIA", 9, 8, 0),
		standing("NYJ", 7, 10, 0),
		standing("NE", 3, 14, 0),
		standing("BAL", 12, 5, 0),
		standing("PIT", 11, 6, 0),
		standing("CIN", 6, 11, 0),
		standing("CLE", 2, 15, 0),
		standing("HOU", 11, 6, 0),
		standing("IND", 5, 12, 0),
		standing("JAX", 1, 16, 0),
		standing("TEN", 0, 17, 0),
	}

	seeds, apps := SeedConference("d1", 2025, "AFC", standingsList, teams, nil)
	require.Len(t, seeds, 7)
	assert.Equal(t, "KC", seeds[0].TeamID)
	assert.Equal(t, 1, seeds[0].SeedNumber)
	assert.Equal(t, "BUF", seeds[1].TeamID)
	assert.Equal(t, "division winner", seeds[0].TiebreakerNote)
	assert.Equal(t, "wild card", seeds[len(seeds)-1].TiebreakerNote)
	assert.Empty(t, apps, "no ties in this fixture, so no tiebreaker should fire")
}

func TestSeedConferenceOnlyFourDivisionWinnersMakeSeedsOneThroughFour(t *testing.T) {
	teams := afcTeams()
	standingsList := []standings.Standing{
		standing("KC", 12, 5, 0),
		standing("LAC", 11, 6, 0), // best non-division-winner: should land seed 5
		standing("DEN", 6, 11, 0),
		standing("LV", 3, 14, 0),
		standing("BUF", 10, 7, 0),
		standing("MIA", 9, 8, 0),
		standing("NYJ", 7, 10, 0),
		standing("NE", 5, 12, 0),
		standing("BAL", 13, 4, 0),
		standing("PIT", 8, 9, 0),
		standing("CIN", 4, 13, 0),
		standing("CLE", 2, 15, 0),
		standing("HOU", 14, 3, 0),
		standing("IND", 1, 16, 0),
		standing("JAX", 0, 17, 0),
		standing("TEN", 10, 7, 0),
	}
	seeds, _ := SeedConference("d1", 2025, "AFC", standingsList, teams, nil)
	require.Len(t, seeds, 7)
	assert.Equal(t, "LAC", seeds[4].TeamID, "best remaining non-division-winner gets seed 5")
}
