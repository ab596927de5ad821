package regularseason

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrab54/gridiron-dynasty/internal/calendar"
	"github.com/mrab54/gridiron-dynasty/internal/standings"
)

// league32 builds a standard NFL alignment: 2 conferences, 4 divisions
// each, 4 teams per division.
func league32() standings.TeamMetadata {
	meta := make(standings.TeamMetadata)
	conferences := []string{"AFC", "NFC"}
	divisions := []string{"North", "South", "East", "West"}
	for _, conf := range conferences {
		for _, div := range divisions {
			for n := 1; n <= 4; n++ {
				id := fmt.Sprintf("%s-%s-%d", conf, div, n)
				meta[id] = standings.TeamMeta{TeamID: id, Conference: conf, Division: div}
			}
		}
	}
	return meta
}

func TestGenerateScheduleProducesExactly272Games(t *testing.T) {
	meta := league32()
	games, err := GenerateSchedule(meta, 2025, calendar.New(2025, 9, 4))
	require.NoError(t, err)
	assert.Len(t, games, 272)
}

func TestGenerateScheduleEveryTeamPlays17Games(t *testing.T) {
	meta := league32()
	games, err := GenerateSchedule(meta, 2025, calendar.New(2025, 9, 4))
	require.NoError(t, err)

	count := make(map[string]int)
	for _, g := range games {
		count[g.HomeTeamID]++
		count[g.AwayTeamID]++
	}
	assert.Len(t, count, 32)
	for team, n := range count {
		assert.Equalf(t, GamesPerTeam, n, "team %s played %d games, want %d", team, n, GamesPerTeam)
	}
}

func TestGenerateScheduleNoTeamPlaysTwiceInOneWeek(t *testing.T) {
	meta := league32()
	games, err := GenerateSchedule(meta, 2025, calendar.New(2025, 9, 4))
	require.NoError(t, err)

	seen := make(map[string]map[string]bool)
	for _, g := range games {
		week := fmt.Sprintf("%d", g.Week)
		if seen[week] == nil {
			seen[week] = make(map[string]bool)
		}
		require.Falsef(t, seen[week][g.HomeTeamID], "team %s double-booked in week %d", g.HomeTeamID, g.Week)
		require.Falsef(t, seen[week][g.AwayTeamID], "team %s double-booked in week %d", g.AwayTeamID, g.Week)
		seen[week][g.HomeTeamID] = true
		seen[week][g.AwayTeamID] = true
		assert.GreaterOrEqual(t, g.Week, 1)
		assert.LessOrEqual(t, g.Week, TotalWeeks)
	}
}

func TestGenerateScheduleDivisionRivalsPlayTwice(t *testing.T) {
	meta := league32()
	games, err := GenerateSchedule(meta, 2025, calendar.New(2025, 9, 4))
	require.NoError(t, err)

	matchCount := 0
	for _, g := range games {
		if (g.HomeTeamID == "AFC-North-1" && g.AwayTeamID == "AFC-North-2") ||
			(g.HomeTeamID == "AFC-North-2" && g.AwayTeamID == "AFC-North-1") {
			matchCount++
		}
	}
	assert.Equal(t, 2, matchCount)
}

func TestGenerateScheduleRejectsMisalignedLeague(t *testing.T) {
	meta := standings.TeamMetadata{
		"A": {TeamID: "A", Conference: "AFC", Division: "North"},
		"B": {TeamID: "B", Conference: "AFC", Division: "North"},
	}
	_, err := GenerateSchedule(meta, 2025, calendar.New(2025, 9, 4))
	require.Error(t, err)
}

func TestGenerateScheduleVariesBySeason(t *testing.T) {
	meta := league32()
	gamesA, err := GenerateSchedule(meta, 2025, calendar.New(2025, 9, 4))
	require.NoError(t, err)
	gamesB, err := GenerateSchedule(meta, 2026, calendar.New(2026, 9, 3))
	require.NoError(t, err)

	matchupKey := func(g ScheduledGame) string {
		if g.HomeTeamID < g.AwayTeamID {
			return g.HomeTeamID + "|" + g.AwayTeamID
		}
		return g.AwayTeamID + "|" + g.HomeTeamID
	}
	setA := make(map[string]bool)
	for _, g := range gamesA {
		setA[matchupKey(g)] = true
	}
	differs := false
	for _, g := range gamesB {
		if !setA[matchupKey(g)] {
			differs = true
			break
		}
	}
	assert.True(t, differs, "expected next season's slate to include at least one new matchup")
}
