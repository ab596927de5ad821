// Package season implements the Season Cycle Controller (spec §4.12): the
// top-level orchestrator that loads persisted phase on construction,
// delegates advance_day to the handler for whatever phase the dynasty is
// currently in, and checks for phase transitions after every day's work.
package season

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/mrab54/gridiron-dynasty/internal/boundary"
	"github.com/mrab54/gridiron-dynasty/internal/calendar"
	"github.com/mrab54/gridiron-dynasty/internal/cap"
	"github.com/mrab54/gridiron-dynasty/internal/database"
	"github.com/mrab54/gridiron-dynasty/internal/dynasty"
	"github.com/mrab54/gridiron-dynasty/internal/dynastystate"
	"github.com/mrab54/gridiron-dynasty/internal/events"
	"github.com/mrab54/gridiron-dynasty/internal/games"
	"github.com/mrab54/gridiron-dynasty/internal/phasekind"
	"github.com/mrab54/gridiron-dynasty/internal/phases"
	"github.com/mrab54/gridiron-dynasty/internal/playoffs"
	"github.com/mrab54/gridiron-dynasty/internal/regularseason"
	"github.com/mrab54/gridiron-dynasty/internal/seasontype"
	"github.com/mrab54/gridiron-dynasty/internal/simulator"
	"github.com/mrab54/gridiron-dynasty/internal/standings"
)

// daysPerNFLYearCycle keeps the following season's kickoff on the same
// weekday as this one's (52 weeks), rather than re-deriving a calendar date
// from scratch every rollover.
const daysPerNFLYearCycle = 364

// preseasonWindowDays is how long Preseason runs before the configured
// kickoff date. No preseason-schedule generator exists in this engine's
// scope (L1-L12 name no such component), so Preseason is a pure calendar
// advance and this constant is the only signal that ends it — see
// DESIGN.md's Open Question decision for this simplification.
const preseasonWindowDays = 21

// ErrNoPlayoffBracket is returned by GetPlayoffBracket when the dynasty has
// not yet reached (or has moved past reconstructing) a playoff bracket.
var ErrNoPlayoffBracket = errors.New("season: no playoff bracket constructed for this dynasty/season")

// AdvanceResult is the Driver API's advance_day/advance_week return shape
// (spec §6): games_played, the resulting phase/date, and an optional
// transition description when one occurred on this call.
type AdvanceResult struct {
	GamesPlayed       int
	NumTrades         int
	CurrentPhase      phasekind.Phase
	CurrentDate       calendar.Date
	PhaseTransition   string
	TransitionOccured bool
}

// Controller is the Season Cycle Controller for one (dynasty, season).
// Reload discipline: it loads persisted phase from Dynasty State first,
// then constructs only the handler for that phase — handlers for phases the
// dynasty isn't in are never built (spec §4.12).
type Controller struct {
	db         *database.DB
	eventStore *events.Store
	gamesStore *games.Store
	standings  *standings.Store
	state      *dynastystate.Store
	boundary   *boundary.Detector
	seeding    *playoffs.SeedingStore
	sim          simulator.Simulator
	capService   *cap.TransactionService
	dynastyStore *dynasty.Store
	logger       zerolog.Logger

	dynastyID       string
	ownerTeamID     string
	teams           standings.TeamMetadata
	conferenceOrder []string
	teamIDs         []string

	cal     *calendar.Calendar
	season  int
	phase   phasekind.Phase
	week    int
	kickoff calendar.Date

	handlers           map[phasekind.Phase]phases.Handler
	playoffsController *playoffs.Controller
}

// Deps bundles the shared, already-constructed dependencies every
// (dynasty, season) controller is built over.
type Deps struct {
	DB         *database.DB
	EventStore *events.Store
	GamesStore *games.Store
	Standings  *standings.Store
	State      *dynastystate.Store
	Boundary   *boundary.Detector
	Seeding    *playoffs.SeedingStore
	Sim        simulator.Simulator
	// CapService is nil-able: a dynasty running without AI-manager cap
	// transactions simply never evaluates them (spec §4.10 scopes cap
	// evaluation to the regular season only, so its absence never blocks
	// any other phase).
	CapService *cap.TransactionService
	// DynastyStore is nil-able: a caller that never needs career-total
	// tracking (e.g. the scenario harness replaying a single season) can
	// leave it unset, and the Playoffs->Offseason transition simply skips
	// recording the owner team's outcome.
	DynastyStore    *dynasty.Store
	Teams           standings.TeamMetadata
	ConferenceOrder []string
}

// NewController constructs the Season Cycle Controller for (dynastyID,
// season), initializing its Dynasty State row if this is a fresh dynasty
// (spec §4.3), then building the handler for whatever phase was persisted.
// kickoff is the configured date Preseason ends and Regular Season begins —
// also the Regular-Season schedule's week-1 date and the boundary search
// start for every date lookup this season.
func NewController(ctx context.Context, deps Deps, dynastyID string, season int, kickoff calendar.Date) (*Controller, error) {
	st, err := deps.State.InitializeState(ctx, dynastyID, season, kickoff.AddDays(-preseasonWindowDays))
	if err != nil {
		return nil, fmt.Errorf("season: initialize state: %w", err)
	}

	teamIDs := make([]string, 0, len(deps.Teams))
	for id := range deps.Teams {
		teamIDs = append(teamIDs, id)
	}
	sort.Strings(teamIDs)

	// Resolved once, best-effort: a dynasty row created after this call (or
	// never created at all, as in the scenario harness) simply leaves
	// ownerTeamID empty, and the Playoffs->Offseason transition below skips
	// recording a season outcome for it.
	var ownerTeamID string
	if deps.DynastyStore != nil {
		if dyn, err := deps.DynastyStore.Get(ctx, dynastyID); err == nil {
			ownerTeamID = dyn.OwnerTeamID
		}
	}

	c := &Controller{
		db: deps.DB, eventStore: deps.EventStore, gamesStore: deps.GamesStore,
		standings: deps.Standings, state: deps.State, boundary: deps.Boundary,
		seeding: deps.Seeding, sim: deps.Sim, capService: deps.CapService,
		dynastyStore:    deps.DynastyStore,
		logger:          zerolog.Nop(),
		dynastyID:       dynastyID,
		ownerTeamID:     ownerTeamID,
		teams:           deps.Teams,
		conferenceOrder: deps.ConferenceOrder,
		teamIDs:         teamIDs,
		cal:             calendar.NewCalendar(st.CurrentDate),
		season:          st.Season,
		phase:           st.Phase,
		week:            st.CurrentWeek,
		kickoff:         kickoff,
		handlers:        make(map[phasekind.Phase]phases.Handler),
	}

	if err := c.constructHandlerFor(ctx, c.phase); err != nil {
		return nil, err
	}
	return c, nil
}

// WithLogger returns c with logger attached, for callers that want
// component-scoped logging (construction keeps the signature above
// dependency-light; this mirrors the rest of the engine's lazy-DI style).
func (c *Controller) WithLogger(logger zerolog.Logger) *Controller {
	c.logger = logger.With().Str("component", "season.controller").Str("dynasty_id", c.dynastyID).Logger()
	return c
}

// constructHandlerFor lazily builds the handler for phase, the first time
// the dynasty enters it (fresh construction or transition), never for any
// other phase.
func (c *Controller) constructHandlerFor(ctx context.Context, phase phasekind.Phase) error {
	if _, ok := c.handlers[phase]; ok {
		return nil
	}

	switch phase {
	case phasekind.Preseason:
		c.handlers[phase] = phases.NewPreseasonHandler(c.cal)

	case phasekind.RegularSeason:
		rc, err := regularseason.NewController(ctx, c.db, c.eventStore, c.gamesStore, c.standings,
			c.sim, c.cal, c.logger, c.dynastyID, c.season, c.teams, c.kickoff)
		if err != nil {
			return fmt.Errorf("season: construct regular season controller: %w", err)
		}
		c.handlers[phase] = phases.NewRegularSeasonHandler(func(ctx context.Context) (phases.Result, error) {
			res, err := rc.AdvanceDay(ctx)
			if err != nil {
				return phases.Result{}, err
			}
			if c.capService != nil {
				if _, err := c.capService.EvaluateDay(ctx, c.dynastyID, c.teamIDs, c.season, c.week, res.CurrentDate); err != nil {
					return phases.Result{}, fmt.Errorf("season: evaluate cap transactions: %w", err)
				}
			}
			return phases.Result{GamesPlayed: res.GamesPlayed, CurrentDate: res.CurrentDate}, nil
		})

	case phasekind.Playoffs:
		return c.constructPlayoffHandler(ctx, nil)

	case phasekind.Offseason:
		c.handlers[phase] = phases.NewOffseasonHandler(c.cal)

	default:
		return fmt.Errorf("season: unknown phase %q", phase)
	}
	return nil
}

// constructPlayoffHandler builds the playoff controller and its handler.
// initialSeeding is non-nil only on the RegularSeason->Playoffs transition;
// on reload it is nil and the playoff controller reconstructs seeding from
// the persisted Wild Card matchups itself.
func (c *Controller) constructPlayoffHandler(ctx context.Context, initialSeeding map[string][]playoffs.Seed) error {
	wildCardStart := c.cal.CurrentDate()
	if initialSeeding != nil {
		if date, ok, err := c.boundary.GetPlayoffStartDate(ctx, c.dynastyID, c.season, c.kickoff); err != nil {
			return fmt.Errorf("season: compute playoff start date: %w", err)
		} else if ok {
			wildCardStart = date
		}
	}

	pc, err := playoffs.NewController(ctx, c.db, c.eventStore, c.gamesStore, c.standings,
		c.sim, c.cal, c.logger, c.dynastyID, c.season, c.conferenceOrder, c.teams, wildCardStart, initialSeeding)
	if err != nil {
		return fmt.Errorf("season: construct playoff controller: %w", err)
	}
	c.playoffsController = pc
	c.handlers[phasekind.Playoffs] = phases.NewPlayoffsHandler(func(ctx context.Context) (phases.Result, error) {
		res, err := pc.AdvanceDay(ctx)
		if err != nil {
			return phases.Result{}, err
		}
		return phases.Result{GamesPlayed: res.GamesPlayed, CurrentDate: res.CurrentDate}, nil
	})
	return nil
}

// AdvanceDay runs one day of the current phase's handler, then checks
// whether that day's work crossed a phase boundary (spec §4.12). Repeating
// the call after a transition already took effect is a no-op beyond
// advancing the next day — each transition's trigger condition stops
// matching once it has fired, making the whole sequence idempotent.
func (c *Controller) AdvanceDay(ctx context.Context) (AdvanceResult, error) {
	handler, ok := c.handlers[c.phase]
	if !ok {
		return AdvanceResult{}, fmt.Errorf("season: no handler constructed for phase %q", c.phase)
	}

	res, err := handler.AdvanceDay(ctx)
	if err != nil {
		return AdvanceResult{}, err
	}

	transition, err := c.checkPhaseTransition(ctx)
	if err != nil {
		return AdvanceResult{}, err
	}

	return AdvanceResult{
		GamesPlayed:       res.GamesPlayed,
		CurrentPhase:      c.phase,
		CurrentDate:       c.cal.CurrentDate(),
		PhaseTransition:   transition,
		TransitionOccured: transition != "",
	}, nil
}

// AdvanceWeek runs AdvanceDay seven times, stopping early only on error.
// A phase transition mid-week is expected and handled transparently — the
// week simply continues under whatever handler now owns the new phase.
func (c *Controller) AdvanceWeek(ctx context.Context) (AdvanceResult, error) {
	var total AdvanceResult
	for i := 0; i < 7; i++ {
		res, err := c.AdvanceDay(ctx)
		if err != nil {
			return AdvanceResult{}, err
		}
		total.GamesPlayed += res.GamesPlayed
		total.CurrentPhase = res.CurrentPhase
		total.CurrentDate = res.CurrentDate
		if res.TransitionOccured {
			total.PhaseTransition = res.PhaseTransition
			total.TransitionOccured = true
		}
	}
	return total, nil
}

// checkPhaseTransition evaluates the four transition rules from spec §4.12
// in phase order and applies at most one per call — a dynasty that
// completes two phases in a single advance_day (vanishingly rare given the
// boundaries involved) simply catches the second on its next call.
func (c *Controller) checkPhaseTransition(ctx context.Context) (string, error) {
	switch c.phase {
	case phasekind.Preseason:
		return c.checkPreseasonToRegularSeason(ctx)
	case phasekind.RegularSeason:
		return c.checkRegularSeasonToPlayoffs(ctx)
	case phasekind.Playoffs:
		return c.checkPlayoffsToOffseason(ctx)
	case phasekind.Offseason:
		return c.checkOffseasonToPreseason(ctx)
	default:
		return "", nil
	}
}

func (c *Controller) checkPreseasonToRegularSeason(ctx context.Context) (string, error) {
	if c.cal.CurrentDate().Before(c.kickoff) {
		return "", nil
	}
	c.phase = phasekind.RegularSeason
	c.week = 1
	if err := c.constructHandlerFor(ctx, c.phase); err != nil {
		return "", err
	}
	if err := c.state.Update(ctx, c.dynastyID, c.season, dynastystate.Fields{Phase: &c.phase, CurrentWeek: &c.week}); err != nil {
		return "", fmt.Errorf("season: persist preseason->regular season transition: %w", err)
	}
	return "preseason_to_regular_season", nil
}

func (c *Controller) checkRegularSeasonToPlayoffs(ctx context.Context) (string, error) {
	lastRegularDate, ok, err := c.boundary.GetLastGameDate(ctx, c.dynastyID, phasekind.RegularSeason, c.season, c.kickoff)
	if err != nil {
		return "", fmt.Errorf("season: check regular season completion: %w", err)
	}
	if !ok || c.cal.CurrentDate().Before(lastRegularDate.AddDays(1)) {
		return "", nil
	}

	standingsList, err := c.standings.ListBySeason(ctx, c.dynastyID, c.season, seasontype.Regular)
	if err != nil {
		return "", fmt.Errorf("season: load standings for playoff seeding: %w", err)
	}
	gamesPlayed, err := c.gamesStore.ListBySeason(ctx, c.dynastyID, c.season, seasontype.Regular)
	if err != nil {
		return "", fmt.Errorf("season: load games for playoff seeding: %w", err)
	}

	seeding := make(map[string][]playoffs.Seed, len(c.conferenceOrder))
	for _, conf := range c.conferenceOrder {
		seeds, apps := playoffs.SeedConference(c.dynastyID, c.season, conf, standingsList, c.teams, gamesPlayed)
		seeding[conf] = seeds
		if c.seeding != nil {
			if err := c.seeding.InsertSeeding(ctx, c.dynastyID, c.season, conf, seeds); err != nil {
				return "", fmt.Errorf("season: persist playoff seeding: %w", err)
			}
			if err := c.seeding.InsertTiebreakerApplications(ctx, apps); err != nil {
				return "", fmt.Errorf("season: persist tiebreaker applications: %w", err)
			}
		}
	}

	if err := c.constructPlayoffHandler(ctx, seeding); err != nil {
		return "", err
	}

	c.phase = phasekind.Playoffs
	if err := c.state.Update(ctx, c.dynastyID, c.season, dynastystate.Fields{Phase: &c.phase}); err != nil {
		return "", fmt.Errorf("season: persist regular season->playoffs transition: %w", err)
	}
	return "regular_season_to_playoffs", nil
}

func (c *Controller) checkPlayoffsToOffseason(ctx context.Context) (string, error) {
	if c.playoffsController == nil || !c.playoffsController.IsComplete() {
		return "", nil
	}

	if c.dynastyStore != nil && c.ownerTeamID != "" {
		if err := c.recordOwnerSeasonOutcome(ctx); err != nil {
			return "", err
		}
	}

	c.phase = phasekind.Offseason
	if err := c.constructHandlerFor(ctx, c.phase); err != nil {
		return "", err
	}
	if err := c.state.Update(ctx, c.dynastyID, c.season, dynastystate.Fields{Phase: &c.phase}); err != nil {
		return "", fmt.Errorf("season: persist playoffs->offseason transition: %w", err)
	}
	return "playoffs_to_offseason", nil
}

// recordOwnerSeasonOutcome folds the owner team's just-finished season into
// the dynasty's career totals (spec §3's Dynasty aggregate fields): its
// regular-season record, whether it made the playoffs, and whether it won
// the Super Bowl.
func (c *Controller) recordOwnerSeasonOutcome(ctx context.Context) error {
	standing, err := c.standings.Get(ctx, c.dynastyID, c.ownerTeamID, c.season, seasontype.Regular)
	if err != nil {
		return fmt.Errorf("season: load owner team's regular season record: %w", err)
	}

	madePlayoffs := c.playoffsController.MadePlayoffs(c.ownerTeamID)
	wonChampionship := c.playoffsController.Champion() == c.ownerTeamID

	if err := c.dynastyStore.RecordSeasonOutcome(ctx, c.dynastyID, standing.Wins, standing.Losses, standing.Ties, madePlayoffs, wonChampionship); err != nil {
		return fmt.Errorf("season: record owner team's season outcome: %w", err)
	}
	return nil
}

func (c *Controller) checkOffseasonToPreseason(ctx context.Context) (string, error) {
	nextKickoff := c.kickoff.AddDays(daysPerNFLYearCycle)
	nextPreseasonStart := nextKickoff.AddDays(-preseasonWindowDays)
	if c.cal.CurrentDate().Before(nextPreseasonStart) {
		return "", nil
	}

	c.season++
	c.kickoff = nextKickoff
	c.phase = phasekind.Preseason
	c.week = 0
	c.playoffsController = nil
	c.handlers = make(map[phasekind.Phase]phases.Handler)

	if _, err := c.state.InitializeState(ctx, c.dynastyID, c.season, c.cal.CurrentDate()); err != nil {
		return "", fmt.Errorf("season: initialize next season state: %w", err)
	}
	if err := c.boundary.Invalidate(ctx, c.dynastyID, c.season); err != nil {
		return "", fmt.Errorf("season: invalidate boundary cache for next season: %w", err)
	}
	if err := c.constructHandlerFor(ctx, c.phase); err != nil {
		return "", err
	}
	if err := c.state.Update(ctx, c.dynastyID, c.season, dynastystate.Fields{Phase: &c.phase, CurrentWeek: &c.week}); err != nil {
		return "", fmt.Errorf("season: persist offseason->preseason transition: %w", err)
	}
	return "offseason_to_preseason_next_year", nil
}

// GetCurrentStandings returns every team's record for whatever season type
// the current phase implies (Playoffs standings while in the playoffs,
// Regular standings otherwise), optionally filtered to one conference
// and/or division.
func (c *Controller) GetCurrentStandings(ctx context.Context, conference, division string) ([]standings.Standing, error) {
	st := seasontype.Regular
	if c.phase == phasekind.Playoffs {
		st = seasontype.Playoffs
	}

	all, err := c.standings.ListBySeason(ctx, c.dynastyID, c.season, st)
	if err != nil {
		return nil, fmt.Errorf("season: load standings: %w", err)
	}
	if conference == "" && division == "" {
		return all, nil
	}

	filtered := make([]standings.Standing, 0, len(all))
	for _, s := range all {
		meta, ok := c.teams[s.TeamID]
		if !ok {
			continue
		}
		if conference != "" && meta.Conference != conference {
			continue
		}
		if division != "" && meta.Division != division {
			continue
		}
		filtered = append(filtered, s)
	}
	return filtered, nil
}

// GetPlayoffBracket returns the current playoff bracket structures, keyed
// by round. Returns ErrNoPlayoffBracket before the dynasty has reached the
// playoffs for the current season.
func (c *Controller) GetPlayoffBracket() (map[playoffs.Round][]playoffs.Matchup, playoffs.Round, error) {
	if c.playoffsController == nil {
		return nil, "", ErrNoPlayoffBracket
	}
	return c.playoffsController.Brackets(), c.playoffsController.CurrentRound(), nil
}

// CurrentPhase reports the dynasty's current phase.
func (c *Controller) CurrentPhase() phasekind.Phase { return c.phase }

// CurrentDate reports the dynasty's current calendar date.
func (c *Controller) CurrentDate() calendar.Date { return c.cal.CurrentDate() }

// Season reports the dynasty's current season year.
func (c *Controller) Season() int { return c.season }
