package playoffs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedsFor(conf string) []Seed {
	return []Seed{
		{Conference: conf, SeedNumber: 1, TeamID: conf + "1"},
		{Conference: conf, SeedNumber: 2, TeamID: conf + "2"},
		{Conference: conf, SeedNumber: 3, TeamID: conf + "3"},
		{Conference: conf, SeedNumber: 4, TeamID: conf + "4"},
		{Conference: conf, SeedNumber: 5, TeamID: conf + "5"},
		{Conference: conf, SeedNumber: 6, TeamID: conf + "6"},
		{Conference: conf, SeedNumber: 7, TeamID: conf + "7"},
	}
}

func TestGenerateWildCardBracketPairsCorrectly(t *testing.T) {
	seeds := map[string][]Seed{"AFC": seedsFor("AFC"), "NFC": seedsFor("NFC")}
	matchups := GenerateWildCardBracket([]string{"AFC", "NFC"}, seeds)
	require.Len(t, matchups, 6)

	afc := matchups[:3]
	assert.Equal(t, "AFC2", afc[0].HighSeed.TeamID)
	assert.Equal(t, "AFC7", afc[0].LowSeed.TeamID)
	assert.Equal(t, "AFC3", afc[1].HighSeed.TeamID)
	assert.Equal(t, "AFC6", afc[1].LowSeed.TeamID)
	assert.Equal(t, "AFC4", afc[2].HighSeed.TeamID)
	assert.Equal(t, "AFC5", afc[2].LowSeed.TeamID)

	for i, m := range matchups {
		assert.Equal(t, i+1, m.MatchupNumber)
		assert.Equal(t, RoundWildCard, m.Round)
	}
}

func TestGenerateDivisionalBracketReseedsAgainstBye(t *testing.T) {
	seeds := map[string][]Seed{"AFC": seedsFor("AFC")}
	wcWinners := map[string][]Seed{
		"AFC": {
			{Conference: "AFC", SeedNumber: 7, TeamID: "AFC7"}, // upset: 7 beat 2
			{Conference: "AFC", SeedNumber: 6, TeamID: "AFC6"},
			{Conference: "AFC", SeedNumber: 4, TeamID: "AFC4"},
		},
	}
	matchups := GenerateDivisionalBracket([]string{"AFC"}, seeds, wcWinners)
	require.Len(t, matchups, 2)
	// remaining sorted by seed: 1, 4, 6, 7 -> (1 v 7), (4 v 6)
	assert.Equal(t, "AFC1", matchups[0].HighSeed.TeamID)
	assert.Equal(t, "AFC7", matchups[0].LowSeed.TeamID)
	assert.Equal(t, "AFC4", matchups[1].HighSeed.TeamID)
	assert.Equal(t, "AFC6", matchups[1].LowSeed.TeamID)
}

func TestGenerateConferenceBracketPairsTwoRemaining(t *testing.T) {
	winners := map[string][]Seed{
		"AFC": {
			{Conference: "AFC", SeedNumber: 4, TeamID: "AFC4"},
			{Conference: "AFC", SeedNumber: 1, TeamID: "AFC1"},
		},
	}
	matchups := GenerateConferenceBracket([]string{"AFC"}, winners)
	require.Len(t, matchups, 1)
	assert.Equal(t, "AFC1", matchups[0].HighSeed.TeamID)
	assert.Equal(t, "AFC4", matchups[0].LowSeed.TeamID)
}

func TestGenerateSuperBowlMatchup(t *testing.T) {
	m := GenerateSuperBowlMatchup(Seed{TeamID: "AFC1"}, Seed{TeamID: "NFC1"})
	assert.Equal(t, RoundSuperBowl, m.Round)
	assert.Equal(t, 1, m.MatchupNumber)
	assert.Equal(t, "AFC1", m.HighSeed.TeamID)
	assert.Equal(t, "NFC1", m.LowSeed.TeamID)
}
