// Package regularseason implements the pure 272-game schedule generator and
// the Regular-Season Controller that drives day-by-day simulation of it
// (spec §4.6). Schedule generation touches no I/O; only the Controller
// persists anything.
package regularseason

import (
	"fmt"
	"sort"

	"github.com/mrab54/gridiron-dynasty/internal/calendar"
	"github.com/mrab54/gridiron-dynasty/internal/standings"
)

// GamesPerTeam and TotalWeeks are the fixed NFL regular-season parameters
// this generator targets: 17 games across 18 weeks, one bye per team.
const (
	GamesPerTeam = 17
	TotalWeeks   = 18
)

// ScheduledGame is one unscheduled-as-yet matchup the controller turns into
// a GAME event.
type ScheduledGame struct {
	Week       int
	Date       calendar.Date
	HomeTeamID string
	AwayTeamID string
}

type division struct {
	conference string
	name       string
	teamIDs    []string
}

// GenerateSchedule builds a round-robin 17-game/18-week schedule across the
// teams in meta, assumed to be the standard NFL alignment: two conferences
// of four four-team divisions each (32 teams total). Matchups rotate across
// seasons via season's parity/modulus so repeated calls for different
// seasons don't produce the identical slate (spec's "17 games x 18 weeks x
// 32/2 teams" sizing, §4.6).
func GenerateSchedule(meta standings.TeamMetadata, season int, startDate calendar.Date) ([]ScheduledGame, error) {
	divisions, err := groupByDivision(meta)
	if err != nil {
		return nil, err
	}

	pairs, err := buildOpponentPairs(divisions, season)
	if err != nil {
		return nil, err
	}

	return assignWeeks(pairs, season, startDate)
}

// groupByDivision partitions meta into its divisions, sorted for determinism.
// Exactly 32 teams in 8 divisions of 4, two conferences of four divisions,
// are required — the standard NFL alignment this generator assumes.
func groupByDivision(meta standings.TeamMetadata) ([]division, error) {
	byKey := make(map[string]*division)
	var keys []string
	for id, m := range meta {
		key := m.Conference + "/" + m.Division
		d, ok := byKey[key]
		if !ok {
			d = &division{conference: m.Conference, name: m.Division}
			byKey[key] = d
			keys = append(keys, key)
		}
		d.teamIDs = append(d.teamIDs, id)
	}
	sort.Strings(keys)

	var out []division
	for _, k := range keys {
		d := *byKey[k]
		sort.Strings(d.teamIDs)
		if len(d.teamIDs) != 4 {
			return nil, fmt.Errorf("regularseason: division %s has %d teams, expected 4", k, len(d.teamIDs))
		}
		out = append(out, d)
	}
	if len(out) != 8 {
		return nil, fmt.Errorf("regularseason: found %d divisions, expected 8 (standard NFL alignment)", len(out))
	}
	return out, nil
}

// opponentPair is one unordered matchup, home/away still to be assigned.
type opponentPair struct {
	teamA, teamB string
	homeIsA      bool
}

// buildOpponentPairs derives the 272 league-wide games (17 per team, 14
// distinct opponents: 3 division rivals home-and-away plus 11 single
// games) from the divisional alignment, rotating cross-division pairings
// by season so the slate varies year to year.
func buildOpponentPairs(divisions []division, season int) ([]opponentPair, error) {
	var out []opponentPair
	add := func(a, b string, homeIsA bool) {
		out = append(out, opponentPair{teamA: a, teamB: b, homeIsA: homeIsA})
	}

	// 1. Division games: every team plays its 3 division rivals home and away.
	for _, d := range divisions {
		for i := 0; i < len(d.teamIDs); i++ {
			for j := i + 1; j < len(d.teamIDs); j++ {
				add(d.teamIDs[i], d.teamIDs[j], true)
				add(d.teamIDs[j], d.teamIDs[i], true)
			}
		}
	}

	confDivisions := map[string][]int{}
	for i, d := range divisions {
		confDivisions[d.conference] = append(confDivisions[d.conference], i)
	}
	var conferences []string
	for c := range confDivisions {
		conferences = append(conferences, c)
	}
	sort.Strings(conferences)
	if len(conferences) != 2 {
		return nil, fmt.Errorf("regularseason: found %d conferences, expected 2", len(conferences))
	}

	// 2. Intra-conference division pairing: a fixed perfect matching among
	// the 4 divisions in each conference, rotated across 3 possible
	// matchings by season.
	matchings := [3][2][2]int{
		{{0, 1}, {2, 3}},
		{{0, 2}, {1, 3}},
		{{0, 3}, {1, 2}},
	}
	matching := matchings[((season%3)+3)%3]

	for _, conf := range conferences {
		idxs := confDivisions[conf]
		for _, pair := range matching {
			d1, d2 := divisions[idxs[pair[0]]], divisions[idxs[pair[1]]]
			pairAllTeams(d1.teamIDs, d2.teamIDs, add)
		}
	}

	// 3. Inter-conference division pairing: a cyclic bijection between AFC
	// divisions and NFC divisions, rotated by season.
	afcIdxs, nfcIdxs := confDivisions[conferences[0]], confDivisions[conferences[1]]
	for i := 0; i < 4; i++ {
		partner := (i + season) % 4
		d1, d2 := divisions[afcIdxs[i]], divisions[nfcIdxs[partner]]
		pairAllTeams(d1.teamIDs, d2.teamIDs, add)
	}

	// 4. Remaining 2 in-conference games: each division plays the two
	// conference divisions not already matched in step 2, one game each,
	// paired by within-division rank (a stand-in for prior-season
	// standings, which this generator has no access to — spec.md's
	// external-collaborator carve-out for standings/ranking data).
	for _, conf := range conferences {
		idxs := confDivisions[conf]
		matchedWith := map[int]int{
			matching[0][0]: matching[0][1], matching[0][1]: matching[0][0],
			matching[1][0]: matching[1][1], matching[1][1]: matching[1][0],
		}
		for i := range idxs {
			for j := range idxs {
				if i >= j || matchedWith[i] == j {
					continue
				}
				d1, d2 := divisions[idxs[i]], divisions[idxs[j]]
				for r := 0; r < 4; r++ {
					add(d1.teamIDs[r], d2.teamIDs[r], r%2 == 0)
				}
			}
		}
	}

	// 5. The 17th game: one cross-conference game per team against the
	// rank-equivalent team in the division diagonally opposite its
	// inter-conference partner, rotated by season so it isn't static.
	for i := 0; i < 4; i++ {
		partner := (i + season + 1) % 4
		d1, d2 := divisions[afcIdxs[i]], divisions[nfcIdxs[partner]]
		for r := 0; r < 4; r++ {
			add(d1.teamIDs[r], d2.teamIDs[r], r%2 == 1)
		}
	}

	return out, nil
}

// pairAllTeams matches every team in a with every team in b, alternating
// home field so each team hosts half of its games against the other
// division.
func pairAllTeams(a, b []string, add func(a, b string, homeIsA bool)) {
	for r := 0; r < len(a); r++ {
		for s := 0; s < len(b); s++ {
			add(a[r], b[s], (r+s)%2 == 0)
		}
	}
}

// assignWeeks greedily edge-colors the opponent-pair graph into 18 weekly
// rounds: each pair is placed in the earliest week where neither team is
// already scheduled. The graph's max degree is 17 over 18 available
// weeks, so a valid coloring always exists (Vizing's theorem); greedy
// assignment in a stable, deterministic order finds one in practice for
// this structured a graph.
func assignWeeks(pairs []opponentPair, season int, startDate calendar.Date) ([]ScheduledGame, error) {
	weekTeams := make([]map[string]bool, TotalWeeks+1)
	for w := 1; w <= TotalWeeks; w++ {
		weekTeams[w] = make(map[string]bool)
	}

	var out []ScheduledGame
	for _, p := range pairs {
		placed := false
		for w := 1; w <= TotalWeeks; w++ {
			if weekTeams[w][p.teamA] || weekTeams[w][p.teamB] {
				continue
			}
			weekTeams[w][p.teamA] = true
			weekTeams[w][p.teamB] = true

			home, away := p.teamA, p.teamB
			if !p.homeIsA {
				home, away = p.teamB, p.teamA
			}
			out = append(out, ScheduledGame{
				Week:       w,
				Date:       startDate.AddDays(7 * (w - 1)),
				HomeTeamID: home,
				AwayTeamID: away,
			})
			placed = true
			break
		}
		if !placed {
			return nil, fmt.Errorf("regularseason: could not place game %s vs %s in season %d within %d weeks",
				p.teamA, p.teamB, season, TotalWeeks)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out, nil
}
