package playoffs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrab54/gridiron-dynasty/internal/events"
	"github.com/mrab54/gridiron-dynasty/pkg/ids"
)

func seedSet(conf string) []Seed {
	var out []Seed
	for n := 1; n <= 7; n++ {
		out = append(out, Seed{Conference: conf, SeedNumber: n, TeamID: conf[:3] + string(rune('0'+n))})
	}
	return out
}

func playedEvent(t *testing.T, season int, round Round, n int, conference, home, away, winner string) events.Event {
	t.Helper()
	params, err := json.Marshal(map[string]any{
		"home_team_id": home, "away_team_id": away, "round": round, "conference": conference,
	})
	require.NoError(t, err)
	results, err := json.Marshal(map[string]any{
		"home_score": 20, "away_score": 10, "winner_id": winner, "total_plays": 130, "overtime_periods": 0,
	})
	require.NoError(t, err)

	return events.Event{
		GameID: ids.PlayoffGameID(season, string(round), n),
		Data:   events.Payload{Parameters: params, Results: results},
	}
}

func newTestController() *Controller {
	return &Controller{
		season:          2025,
		conferenceOrder: []string{"AFC", "NFC"},
		originalSeeding: map[string][]Seed{"AFC": seedSet("AFC"), "NFC": seedSet("NFC")},
		completedGames:  make(map[Round][]Matchup),
		brackets:        make(map[Round][]Matchup),
	}
}

// wildCardEvents builds the 3 Wild Card games for one conference, home team
// (the higher seed) always winning.
func wildCardEvents(t *testing.T, season int, conf string, startN int) []events.Event {
	pairs := [3][2]int{{2, 7}, {3, 6}, {4, 5}}
	var out []events.Event
	for i, pair := range pairs {
		home := conf[:3] + string(rune('0'+pair[0]))
		away := conf[:3] + string(rune('0'+pair[1]))
		out = append(out, playedEvent(t, season, RoundWildCard, startN+i, conf, home, away, home))
	}
	return out
}

// TestPlayoffReconstructionFidelity exercises spec invariant 4: 6 completed
// WC events (3 AFC + 3 NFC) + 2 completed Divisional events (1 per
// conference) should report current_round = divisional and populate the
// wild_card and divisional brackets but not conference.
func TestPlayoffReconstructionFidelity(t *testing.T) {
	c := newTestController()

	var evts []events.Event
	evts = append(evts, wildCardEvents(t, 2025, "AFC", 1)...)
	evts = append(evts, wildCardEvents(t, 2025, "NFC", 1)...)
	// One Divisional game per conference completed; the other still pending.
	evts = append(evts, playedEvent(t, 2025, RoundDivisional, 1, "AFC", "AFC1", "AFC5", "AFC1"))
	evts = append(evts, playedEvent(t, 2025, RoundDivisional, 1, "NFC", "NFC1", "NFC5", "NFC1"))

	require.NoError(t, c.reconstructResults(evts))
	require.Len(t, c.completedGames[RoundWildCard], 6)
	require.Len(t, c.completedGames[RoundDivisional], 2)

	require.NoError(t, c.rebuildBracketStructures())
	require.NoError(t, c.determineCurrentRound())

	assert.Equal(t, RoundDivisional, c.CurrentRound())
	assert.NotEmpty(t, c.Brackets()[RoundWildCard])
	assert.NotEmpty(t, c.Brackets()[RoundDivisional])
	assert.Empty(t, c.Brackets()[RoundConference])
}

func TestDetermineCurrentRoundDetectsCorruption(t *testing.T) {
	c := newTestController()
	// Divisional "complete" (4 games) while Wild Card has only 1 recorded —
	// an earlier round can't be behind a completed later one.
	c.completedGames[RoundWildCard] = []Matchup{{}}
	c.completedGames[RoundDivisional] = []Matchup{{}, {}, {}, {}}

	err := c.determineCurrentRound()
	require.Error(t, err)
	var corruption *StateCorruption
	assert.ErrorAs(t, err, &corruption)
}

func TestDetermineCurrentRoundAllCompleteIsSuperBowl(t *testing.T) {
	c := newTestController()
	c.completedGames[RoundWildCard] = make([]Matchup, 6)
	c.completedGames[RoundDivisional] = make([]Matchup, 4)
	c.completedGames[RoundConference] = make([]Matchup, 2)
	c.completedGames[RoundSuperBowl] = make([]Matchup, 1)

	require.NoError(t, c.determineCurrentRound())
	assert.Equal(t, RoundSuperBowl, c.CurrentRound())
}
