// Package simulator implements the Game Simulator external-collaborator
// contract (spec §4.11): given two teams and a mode, produce a final score.
package simulator

import (
	"context"
	"errors"

	"github.com/mrab54/gridiron-dynasty/internal/seasontype"
)

// Mode selects which engine resolves the game.
type Mode string

const (
	ModeInstant Mode = "instant"
	ModeFull    Mode = "full"
)

// Params carries everything a simulator needs to resolve one game.
type Params struct {
	DynastyID  string
	Season     int
	Week       int
	SeasonType seasontype.Type
	HomeTeamID string
	AwayTeamID string
	// Playoff is true when an undecided result is illegal and the engine
	// must keep playing overtime until there is a winner.
	Playoff bool
}

// Result is the outcome of one simulated game.
type Result struct {
	HomeScore       int
	AwayScore       int
	WinnerTeamID    string // empty only for a legal regular-season tie
	TotalPlays      int
	OvertimePeriods int
	TeamGameStats   map[string]any
	PlayerGameStats map[string]any
}

// ErrSimulation wraps any failure to resolve a game — the caller (Regular
// Season or Playoff Controller) must abort the day without advancing the
// calendar when this is returned (spec §7).
type ErrSimulation struct {
	GameID string
	Err    error
}

func (e *ErrSimulation) Error() string {
	return "simulator: game " + e.GameID + ": " + e.Err.Error()
}

func (e *ErrSimulation) Unwrap() error { return e.Err }

var errUndecidedPlayoffGame = errors.New("simulator: playoff game resolved without a winner")

// Simulator is the interface both controllers depend on; InstantSimulator
// and HTTPSimulator are the two shipped implementations.
type Simulator interface {
	SimulateGame(ctx context.Context, p Params) (Result, error)
}
