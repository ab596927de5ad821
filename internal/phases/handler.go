// Package phases implements the Phase Handler strategy (spec §4.12): one
// handler per phase, each delegating advance_day to the controller that
// actually owns that phase's games. The Season Cycle Controller selects a
// handler by the dynasty's current phase and never constructs handlers for
// phases the dynasty isn't in.
package phases

import (
	"context"

	"github.com/mrab54/gridiron-dynasty/internal/calendar"
)

// Result is the common shape every handler's AdvanceDay returns, mirroring
// the Regular-Season and Playoff controllers' AdvanceDayResult (spec §6
// Driver API).
type Result struct {
	GamesPlayed int
	CurrentDate calendar.Date
}

// Handler is one phase's day-advance strategy.
type Handler interface {
	AdvanceDay(ctx context.Context) (Result, error)
}

// PreseasonHandler advances the calendar with no game simulation. No
// component in this engine's scope (L1-L12) generates a preseason schedule —
// the Season Cycle Controller transitions out of Preseason on a configured
// boundary date rather than a played-game count (see season.Controller's
// checkPhaseTransition and DESIGN.md's Open Question decision for this).
type PreseasonHandler struct {
	cal *calendar.Calendar
}

// NewPreseasonHandler builds a PreseasonHandler over cal.
func NewPreseasonHandler(cal *calendar.Calendar) *PreseasonHandler {
	return &PreseasonHandler{cal: cal}
}

// AdvanceDay advances the calendar by one day without playing any games.
func (h *PreseasonHandler) AdvanceDay(ctx context.Context) (Result, error) {
	h.cal.Advance(1)
	return Result{GamesPlayed: 0, CurrentDate: h.cal.CurrentDate()}, nil
}

// OffseasonHandler advances the calendar by one day. Cap transactions during
// the offseason are driven separately by the Season Cycle Controller's own
// TransactionService wiring decision (see season.Controller), not by this
// handler.
type OffseasonHandler struct {
	cal *calendar.Calendar
}

// NewOffseasonHandler builds an OffseasonHandler over cal.
func NewOffseasonHandler(cal *calendar.Calendar) *OffseasonHandler {
	return &OffseasonHandler{cal: cal}
}

// AdvanceDay advances the calendar by one day.
func (h *OffseasonHandler) AdvanceDay(ctx context.Context) (Result, error) {
	h.cal.Advance(1)
	return Result{GamesPlayed: 0, CurrentDate: h.cal.CurrentDate()}, nil
}

// RegularSeasonHandler delegates to the Regular-Season Controller. It holds
// a closure rather than the concrete *regularseason.Controller type so this
// package never imports regularseason; season.Controller builds the closure
// over its own controller instance.
type RegularSeasonHandler struct {
	advanceDay func(ctx context.Context) (Result, error)
}

// NewRegularSeasonHandler wraps advanceDay — supplied by season.Controller as
// a closure over its concrete *regularseason.Controller — as a Handler.
func NewRegularSeasonHandler(advanceDay func(ctx context.Context) (Result, error)) *RegularSeasonHandler {
	return &RegularSeasonHandler{advanceDay: advanceDay}
}

// AdvanceDay delegates to the wrapped controller.
func (h *RegularSeasonHandler) AdvanceDay(ctx context.Context) (Result, error) {
	return h.advanceDay(ctx)
}

// PlayoffsHandler delegates to the Playoff Controller.
type PlayoffsHandler struct {
	advanceDay func(ctx context.Context) (Result, error)
}

// NewPlayoffsHandler wraps advanceDay — supplied by season.Controller as a
// closure over its concrete *playoffs.Controller — as a Handler.
func NewPlayoffsHandler(advanceDay func(ctx context.Context) (Result, error)) *PlayoffsHandler {
	return &PlayoffsHandler{advanceDay: advanceDay}
}

// AdvanceDay delegates to the wrapped controller.
func (h *PlayoffsHandler) AdvanceDay(ctx context.Context) (Result, error) {
	return h.advanceDay(ctx)
}
