// Package standings maintains per-(dynasty, season, season_type) team
// records: wins/losses/ties, division/conference/home/away splits, points,
// and current streak. Rows are written only by the component finalizing a
// game result (spec §3).
package standings

import "github.com/mrab54/gridiron-dynasty/internal/seasontype"

// SeasonType discriminates regular-season records from playoff records for
// the same team-year — a team's 17-0 regular season and 4-0 playoff run are
// two separate rows.
type SeasonType = seasontype.Type

const (
	SeasonTypeRegular  = seasontype.Regular
	SeasonTypePlayoffs = seasontype.Playoffs
)

// TeamMeta is the minimal team metadata the standings store needs to infer
// division/conference splits. Team JSON loading itself is out of scope
// (spec §1); this is the narrow shape an external loader supplies.
type TeamMeta struct {
	TeamID     string
	Conference string
	Division   string
}

// Standing is one team's record for one (dynasty, season, season_type).
type Standing struct {
	DynastyID  string
	TeamID     string
	Season     int
	SeasonType SeasonType

	Wins   int
	Losses int
	Ties   int

	DivisionWins, DivisionLosses, DivisionTies    int
	ConferenceWins, ConferenceLosses, ConferenceTies int
	HomeWins, HomeLosses, HomeTies                int
	AwayWins, AwayLosses, AwayTies                int

	PointsFor     int
	PointsAgainst int

	CurrentStreak int // positive = win streak, negative = loss streak, 0 = none or tie last
}

// WinPct returns the standard winning percentage, treating ties as half a win.
func (s Standing) WinPct() float64 {
	total := s.Wins + s.Losses + s.Ties
	if total == 0 {
		return 0
	}
	return (float64(s.Wins) + 0.5*float64(s.Ties)) / float64(total)
}

// GamesPlayed returns the total game count recorded in this row.
func (s Standing) GamesPlayed() int {
	return s.Wins + s.Losses + s.Ties
}

// PointDifferential returns points for minus points against.
func (s Standing) PointDifferential() int {
	return s.PointsFor - s.PointsAgainst
}
