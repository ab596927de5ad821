// Package games defines the materialized Game row — the persisted result
// of an executed GAME event — consumed by the standings store, playoff
// reconstruction, and the game simulator contract.
package games

import "github.com/mrab54/gridiron-dynasty/internal/seasontype"

// Type discriminates the kind of game for display and bracket bookkeeping.
type Type string

const (
	TypeRegular    Type = "regular"
	TypeWildCard   Type = "wildcard"
	TypeDivisional Type = "divisional"
	TypeConference Type = "conference"
	TypeSuperBowl  Type = "super_bowl"
)

// Game is the materialized result of an executed GAME event.
type Game struct {
	GameID     string
	DynastyID  string
	Season     int
	Week       int
	SeasonType seasontype.Type
	GameType   Type

	HomeTeamID string
	AwayTeamID string
	HomeScore  int
	AwayScore  int

	TotalPlays       int
	OvertimePeriods  int
}

// WinnerTeamID returns the winning team id, or "" for a tie (only legal in
// the regular season — spec invariant: playoffs never tie).
func (g Game) WinnerTeamID() string {
	switch {
	case g.HomeScore > g.AwayScore:
		return g.HomeTeamID
	case g.AwayScore > g.HomeScore:
		return g.AwayTeamID
	default:
		return ""
	}
}

// IsTie reports whether the game ended level.
func (g Game) IsTie() bool {
	return g.HomeScore == g.AwayScore
}

// Validate enforces the two invariants from spec §3: non-negative scores,
// and no ties in the playoffs.
func (g Game) Validate() error {
	if g.HomeScore < 0 || g.AwayScore < 0 {
		return errGameNegativeScore
	}
	if g.SeasonType == seasontype.Playoffs && g.IsTie() {
		return errGamePlayoffTie
	}
	return nil
}
