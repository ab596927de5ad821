package playoffs

import "sort"

// Round names a playoff round, matching the game_id convention in spec §6.
type Round string

const (
	RoundWildCard   Round = "wild_card"
	RoundDivisional Round = "divisional"
	RoundConference Round = "conference"
	RoundSuperBowl  Round = "super_bowl"
)

// ExpectedGames is how many games complete each round — used by the
// controller to determine current_round and to detect corrupt reload state.
var ExpectedGames = map[Round]int{
	RoundWildCard:   6,
	RoundDivisional: 4,
	RoundConference: 2,
	RoundSuperBowl:  1,
}

// Matchup is one scheduled or completed playoff game, expressed purely in
// terms of seeds — no database identifiers.
type Matchup struct {
	Round         Round
	MatchupNumber int
	Conference    string // empty for the Super Bowl
	HighSeed      Seed
	LowSeed       Seed
	WinnerTeamID  string // empty until the game is decided
}

func seedMap(seeds []Seed) map[int]Seed {
	out := make(map[int]Seed, len(seeds))
	for _, s := range seeds {
		out[s.SeedNumber] = s
	}
	return out
}

// GenerateWildCardBracket yields the six Wild Card matchups: 2v7, 3v6, 4v5 in
// each conference (seed 1 has a bye). Pure function — no I/O (spec §4.8).
func GenerateWildCardBracket(conferenceOrder []string, seedsByConference map[string][]Seed) []Matchup {
	pairs := [3][2]int{{2, 7}, {3, 6}, {4, 5}}

	var out []Matchup
	n := 1
	for _, conf := range conferenceOrder {
		seeds := seedMap(seedsByConference[conf])
		for _, pair := range pairs {
			out = append(out, Matchup{
				Round: RoundWildCard, MatchupNumber: n, Conference: conf,
				HighSeed: seeds[pair[0]], LowSeed: seeds[pair[1]],
			})
			n++
		}
	}
	return out
}

// byeSeed returns the conference's #1 seed, which sits out the Wild Card
// round.
func byeSeed(seedsByConference map[string][]Seed, conf string) Seed {
	for _, s := range seedsByConference[conf] {
		if s.SeedNumber == 1 {
			return s
		}
	}
	return Seed{}
}

// GenerateDivisionalBracket reseeds each conference's bye team plus the
// three Wild Card winners: highest remaining seed plays lowest remaining
// seed, and the middle two play each other. Pure function of seeding plus
// the prior round's winners (spec §4.8).
func GenerateDivisionalBracket(conferenceOrder []string, seedsByConference map[string][]Seed, wildCardWinners map[string][]Seed) []Matchup {
	var out []Matchup
	n := 1
	for _, conf := range conferenceOrder {
		remaining := append([]Seed{byeSeed(seedsByConference, conf)}, wildCardWinners[conf]...)
		sort.Slice(remaining, func(i, j int) bool { return remaining[i].SeedNumber < remaining[j].SeedNumber })
		if len(remaining) != 4 {
			continue // corrupt state: this conference gets no Divisional matchups and no error is returned
		}
		out = append(out,
			Matchup{Round: RoundDivisional, MatchupNumber: n, Conference: conf, HighSeed: remaining[0], LowSeed: remaining[3]},
			Matchup{Round: RoundDivisional, MatchupNumber: n + 1, Conference: conf, HighSeed: remaining[1], LowSeed: remaining[2]},
		)
		n += 2
	}
	return out
}

// GenerateConferenceBracket pairs each conference's two remaining teams
// (the Divisional round winners) by seed.
func GenerateConferenceBracket(conferenceOrder []string, divisionalWinners map[string][]Seed) []Matchup {
	var out []Matchup
	n := 1
	for _, conf := range conferenceOrder {
		remaining := append([]Seed{}, divisionalWinners[conf]...)
		sort.Slice(remaining, func(i, j int) bool { return remaining[i].SeedNumber < remaining[j].SeedNumber })
		if len(remaining) != 2 {
			continue
		}
		out = append(out, Matchup{Round: RoundConference, MatchupNumber: n, Conference: conf, HighSeed: remaining[0], LowSeed: remaining[1]})
		n++
	}
	return out
}

// GenerateSuperBowlMatchup pairs the two conference champions. Conference
// seed number is retained for display only; home-field advantage rules are
// out of scope.
func GenerateSuperBowlMatchup(championA, championB Seed) Matchup {
	return Matchup{Round: RoundSuperBowl, MatchupNumber: 1, HighSeed: championA, LowSeed: championB}
}
