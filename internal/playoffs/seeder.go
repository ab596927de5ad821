// Package playoffs implements the Playoff Seeder (pure tiebreaker ladder),
// the Bracket Engine (pure generators + DB-writing schedulers), and the
// Playoff Controller that owns the playoff lifecycle (spec §4.7-4.9).
package playoffs

import (
	"hash/fnv"
	"sort"

	"github.com/mrab54/gridiron-dynasty/internal/games"
	"github.com/mrab54/gridiron-dynasty/internal/standings"
)

// TiebreakerStep names one rung of the NFL tiebreaker ladder (spec §4.7).
type TiebreakerStep string

const (
	StepHeadToHead           TiebreakerStep = "head_to_head"
	StepDivisionRecord       TiebreakerStep = "division_record"
	StepCommonGames          TiebreakerStep = "common_games"
	StepConferenceRecord     TiebreakerStep = "conference_record"
	StepStrengthOfVictory    TiebreakerStep = "strength_of_victory"
	StepStrengthOfSchedule   TiebreakerStep = "strength_of_schedule"
	StepConferencePointsRank TiebreakerStep = "conference_points_rank"
	StepNetPointsCommon      TiebreakerStep = "net_points_common_games"
	StepNetPointsAll         TiebreakerStep = "net_points_all_games"
	StepCoinToss             TiebreakerStep = "coin_toss"
)

// TiebreakerApplication is an audit record of one resolved tie, persisted to
// tiebreaker_applications by the caller after seeding completes.
type TiebreakerApplication struct {
	DynastyID    string
	Season       int
	Conference   string
	Step         TiebreakerStep
	TeamIDs      []string
	WinnerTeamID string
}

// Seed is one conference seed (1-7) assigned to a team.
type Seed struct {
	Conference     string
	SeedNumber     int
	TeamID         string
	TiebreakerNote string
}

// seeder holds the read-only inputs needed to rank and break ties within one
// conference. It never touches a database.
type seeder struct {
	dynastyID  string
	season     int
	conference string
	standings  map[string]standings.Standing
	teams      standings.TeamMetadata
	games      []games.Game
	apps       []TiebreakerApplication
}

// SeedConference computes the 7 seeds for one conference: the four division
// winners (ordered 1-4 by record), then the three best remaining teams
// (ordered 5-7). Pure function of its inputs — no I/O (spec §4.7/§4.8).
func SeedConference(dynastyID string, season int, conference string, standingsList []standings.Standing, teams standings.TeamMetadata, gamesPlayed []games.Game) ([]Seed, []TiebreakerApplication) {
	byTeam := make(map[string]standings.Standing, len(standingsList))
	for _, s := range standingsList {
		byTeam[s.TeamID] = s
	}

	s := &seeder{dynastyID: dynastyID, season: season, conference: conference, standings: byTeam, teams: teams, games: gamesPlayed}

	conferenceTeams := s.teamsInConference()
	divisions := s.divisionsOf(conferenceTeams)

	var divisionWinners []string
	for _, div := range sortedKeys(divisions) {
		ranked := s.rankGroup(divisions[div])
		if len(ranked) > 0 {
			divisionWinners = append(divisionWinners, ranked[0])
		}
	}
	divisionWinners = s.rankGroup(divisionWinners)

	winnerSet := make(map[string]bool, len(divisionWinners))
	for _, t := range divisionWinners {
		winnerSet[t] = true
	}
	var wildcardPool []string
	for _, t := range conferenceTeams {
		if !winnerSet[t] {
			wildcardPool = append(wildcardPool, t)
		}
	}
	wildcards := s.rankGroup(wildcardPool)
	if len(wildcards) > 3 {
		wildcards = wildcards[:3]
	}

	var seeds []Seed
	for i, teamID := range divisionWinners {
		if i >= 4 {
			break
		}
		seeds = append(seeds, Seed{Conference: conference, SeedNumber: i + 1, TeamID: teamID, TiebreakerNote: "division winner"})
	}
	for i, teamID := range wildcards {
		seeds = append(seeds, Seed{Conference: conference, SeedNumber: 5 + i, TeamID: teamID, TiebreakerNote: "wild card"})
	}

	return seeds, s.apps
}

func (s *seeder) teamsInConference() []string {
	var out []string
	for teamID, meta := range s.teams {
		if meta.Conference == s.conference {
			out = append(out, teamID)
		}
	}
	sort.Strings(out) // stable starting order before any ranking is applied
	return out
}

func (s *seeder) divisionsOf(teamIDs []string) map[string][]string {
	out := make(map[string][]string)
	for _, teamID := range teamIDs {
		div := s.teams[teamID].Division
		out[div] = append(out[div], teamID)
	}
	return out
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// rankGroup orders teamIDs best-to-worst by winning percentage, recursively
// resolving ties via the NFL tiebreaker ladder.
func (s *seeder) rankGroup(teamIDs []string) []string {
	if len(teamIDs) <= 1 {
		return teamIDs
	}

	buckets := make(map[float64][]string)
	var pcts []float64
	for _, t := range teamIDs {
		pct := s.standings[t].WinPct()
		if _, ok := buckets[pct]; !ok {
			pcts = append(pcts, pct)
		}
		buckets[pct] = append(buckets[pct], t)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(pcts)))

	var ordered []string
	for _, pct := range pcts {
		group := buckets[pct]
		if len(group) == 1 {
			ordered = append(ordered, group[0])
			continue
		}
		ordered = append(ordered, s.breakTies(group)...)
	}
	return ordered
}

type ladderStep struct {
	step        TiebreakerStep
	applicable  func(s *seeder, group []string) bool
	metric      func(s *seeder, teamID string, group []string) float64
}

var ladder = []ladderStep{
	{StepHeadToHead, (*seeder).headToHeadApplicable, (*seeder).headToHeadPct},
	{StepDivisionRecord, (*seeder).sameDivisionApplicable, (*seeder).divisionPct},
	{StepCommonGames, (*seeder).commonGamesApplicable, (*seeder).commonGamesPct},
	{StepConferenceRecord, (*seeder).always, (*seeder).conferencePct},
	{StepStrengthOfVictory, (*seeder).always, (*seeder).strengthOfVictory},
	{StepStrengthOfSchedule, (*seeder).always, (*seeder).strengthOfSchedule},
	{StepConferencePointsRank, (*seeder).always, (*seeder).conferencePointsRank},
	{StepNetPointsCommon, (*seeder).commonGamesApplicable, (*seeder).netPointsCommon},
	{StepNetPointsAll, (*seeder).always, (*seeder).netPointsAll},
}

// breakTies resolves a group of teams tied on winning percentage, walking
// the ladder until one step produces a proper subset; ties surviving the
// whole ladder fall to a deterministic coin toss (spec §9 open question:
// true randomness would make seeding non-reproducible, so this uses a
// stable hash of the team ids instead of an RNG).
func (s *seeder) breakTies(group []string) []string {
	for _, step := range ladder {
		if !step.applicable(s, group) {
			continue
		}
		best := bestByMetric(group, func(t string) float64 { return step.metric(s, t, group) })
		if len(best) < len(group) {
			s.recordApplication(step.step, group, best[0])
			rest := difference(group, best)
			return append(s.rankSubgroup(best), s.rankSubgroup(rest)...)
		}
	}

	sorted := append([]string{}, group...)
	sort.Slice(sorted, func(i, j int) bool { return teamHash(sorted[i]) < teamHash(sorted[j]) })
	s.recordApplication(StepCoinToss, group, sorted[0])
	return sorted
}

// rankSubgroup re-applies the full tie-breaking process to a subgroup that
// survived one ladder step (it may itself still contain ties).
func (s *seeder) rankSubgroup(group []string) []string {
	if len(group) <= 1 {
		return group
	}
	return s.breakTies(group)
}

func (s *seeder) recordApplication(step TiebreakerStep, group []string, winner string) {
	s.apps = append(s.apps, TiebreakerApplication{
		DynastyID: s.dynastyID, Season: s.season, Conference: s.conference,
		Step: step, TeamIDs: append([]string{}, group...), WinnerTeamID: winner,
	})
}

func bestByMetric(group []string, metric func(string) float64) []string {
	best := metric(group[0])
	for _, t := range group[1:] {
		if m := metric(t); m > best {
			best = m
		}
	}
	var out []string
	for _, t := range group {
		if metric(t) == best {
			out = append(out, t)
		}
	}
	return out
}

func difference(all, subset []string) []string {
	in := make(map[string]bool, len(subset))
	for _, t := range subset {
		in[t] = true
	}
	var out []string
	for _, t := range all {
		if !in[t] {
			out = append(out, t)
		}
	}
	return out
}

func teamHash(teamID string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(teamID))
	return h.Sum32()
}

func (s *seeder) always(group []string) bool { return true }

func (s *seeder) gamesBetween(a, b string) []games.Game {
	var out []games.Game
	for _, g := range s.games {
		if (g.HomeTeamID == a && g.AwayTeamID == b) || (g.HomeTeamID == b && g.AwayTeamID == a) {
			out = append(out, g)
		}
	}
	return out
}

func (s *seeder) opponentsOf(teamID string) map[string]bool {
	out := make(map[string]bool)
	for _, g := range s.games {
		switch teamID {
		case g.HomeTeamID:
			out[g.AwayTeamID] = true
		case g.AwayTeamID:
			out[g.HomeTeamID] = true
		}
	}
	return out
}

// headToHeadApplicable requires every team in the group to have played
// every other team at least once (the simple 2-team and full-round-robin
// sweep cases; partial head-to-head coverage falls through to later steps).
func (s *seeder) headToHeadApplicable(group []string) bool {
	for i, a := range group {
		for _, b := range group[i+1:] {
			if len(s.gamesBetween(a, b)) == 0 {
				return false
			}
		}
	}
	return true
}

func (s *seeder) headToHeadPct(teamID string, group []string) float64 {
	wins, losses, ties := 0, 0, 0
	for _, other := range group {
		if other == teamID {
			continue
		}
		for _, g := range s.gamesBetween(teamID, other) {
			switch {
			case g.WinnerTeamID() == teamID:
				wins++
			case g.IsTie():
				ties++
			default:
				losses++
			}
		}
	}
	return winPct(wins, losses, ties)
}

func (s *seeder) sameDivisionApplicable(group []string) bool {
	div := s.teams[group[0]].Division
	for _, t := range group[1:] {
		if s.teams[t].Division != div {
			return false
		}
	}
	return true
}

func (s *seeder) divisionPct(teamID string, group []string) float64 {
	st := s.standings[teamID]
	return winPct(st.DivisionWins, st.DivisionLosses, st.DivisionTies)
}

// commonGamesApplicable requires at least one opponent common to every team
// in the group (the NFL's own minimum-four-games threshold is not modeled;
// any nonzero overlap is used).
func (s *seeder) commonGamesApplicable(group []string) bool {
	common := s.commonOpponents(group)
	return len(common) > 0
}

func (s *seeder) commonOpponents(group []string) map[string]bool {
	common := s.opponentsOf(group[0])
	for _, t := range group[1:] {
		next := s.opponentsOf(t)
		for opp := range common {
			if !next[opp] {
				delete(common, opp)
			}
		}
	}
	return common
}

func (s *seeder) commonGamesPct(teamID string, group []string) float64 {
	common := s.commonOpponents(group)
	wins, losses, ties := 0, 0, 0
	for _, g := range s.games {
		var opp string
		switch teamID {
		case g.HomeTeamID:
			opp = g.AwayTeamID
		case g.AwayTeamID:
			opp = g.HomeTeamID
		default:
			continue
		}
		if !common[opp] {
			continue
		}
		switch {
		case g.WinnerTeamID() == teamID:
			wins++
		case g.IsTie():
			ties++
		default:
			losses++
		}
	}
	return winPct(wins, losses, ties)
}

func (s *seeder) conferencePct(teamID string, group []string) float64 {
	st := s.standings[teamID]
	return winPct(st.ConferenceWins, st.ConferenceLosses, st.ConferenceTies)
}

// strengthOfVictory averages the winning percentage of every opponent this
// team has defeated.
func (s *seeder) strengthOfVictory(teamID string, group []string) float64 {
	var total float64
	var n int
	for _, g := range s.games {
		winner := g.WinnerTeamID()
		if winner != teamID {
			continue
		}
		opp := g.HomeTeamID
		if g.HomeTeamID == teamID {
			opp = g.AwayTeamID
		}
		total += s.standings[opp].WinPct()
		n++
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// strengthOfSchedule averages the winning percentage of every opponent
// faced, win or lose.
func (s *seeder) strengthOfSchedule(teamID string, group []string) float64 {
	opponents := s.opponentsOf(teamID)
	if len(opponents) == 0 {
		return 0
	}
	var total float64
	for opp := range opponents {
		total += s.standings[opp].WinPct()
	}
	return total / float64(len(opponents))
}

// conferencePointsRank approximates the combined points-scored/points-allowed
// conference ranking step: higher is better, expressed as the negative
// combined rank so bestByMetric's "higher wins" comparator works unchanged.
func (s *seeder) conferencePointsRank(teamID string, group []string) float64 {
	conferenceTeams := s.teamsInConference()

	scoredRank := rankAmong(conferenceTeams, teamID, func(t string) float64 { return float64(s.standings[t].PointsFor) })
	allowedRank := rankAmong(conferenceTeams, teamID, func(t string) float64 { return -float64(s.standings[t].PointsAgainst) })
	return -float64(scoredRank + allowedRank)
}

func rankAmong(teamIDs []string, target string, metric func(string) float64) int {
	targetVal := metric(target)
	rank := 1
	for _, t := range teamIDs {
		if metric(t) > targetVal {
			rank++
		}
	}
	return rank
}

func (s *seeder) netPointsCommon(teamID string, group []string) float64 {
	common := s.commonOpponents(group)
	var pointsFor, pointsAgainst int
	for _, g := range s.games {
		switch teamID {
		case g.HomeTeamID:
			if common[g.AwayTeamID] {
				pointsFor += g.HomeScore
				pointsAgainst += g.AwayScore
			}
		case g.AwayTeamID:
			if common[g.HomeTeamID] {
				pointsFor += g.AwayScore
				pointsAgainst += g.HomeScore
			}
		}
	}
	return float64(pointsFor - pointsAgainst)
}

func (s *seeder) netPointsAll(teamID string, group []string) float64 {
	return float64(s.standings[teamID].PointDifferential())
}

func winPct(wins, losses, ties int) float64 {
	total := wins + losses + ties
	if total == 0 {
		return 0
	}
	return (float64(wins) + 0.5*float64(ties)) / float64(total)
}
