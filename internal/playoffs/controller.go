package playoffs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mrab54/gridiron-dynasty/internal/calendar"
	"github.com/mrab54/gridiron-dynasty/internal/database"
	"github.com/mrab54/gridiron-dynasty/internal/events"
	"github.com/mrab54/gridiron-dynasty/internal/games"
	"github.com/mrab54/gridiron-dynasty/internal/seasontype"
	"github.com/mrab54/gridiron-dynasty/internal/simulator"
	"github.com/mrab54/gridiron-dynasty/internal/standings"
	"github.com/mrab54/gridiron-dynasty/pkg/ids"
)

// StateCorruption is raised when reconstructed current_round is inconsistent
// with event completion counts. The repo fails loud rather than guess (spec
// §7).
type StateCorruption struct {
	Reason string
}

func (e *StateCorruption) Error() string {
	return "playoffs: state corruption: " + e.Reason
}

// roundOrder is the fixed progression the controller walks.
var roundOrder = []Round{RoundWildCard, RoundDivisional, RoundConference, RoundSuperBowl}

// Controller owns the playoff lifecycle for one (dynasty, season): seeding,
// bracket reconstruction, round scheduling, and day-by-day advancement
// (spec §4.9).
type Controller struct {
	db         *database.DB
	events     *events.Store
	gamesStore *games.Store
	standings  *standings.Store
	sim        simulator.Simulator
	scheduler  *Scheduler
	cal        *calendar.Calendar
	logger     zerolog.Logger

	dynastyID       string
	season          int
	conferenceOrder []string
	teams           standings.TeamMetadata

	originalSeeding map[string][]Seed
	completedGames  map[Round][]Matchup
	brackets        map[Round][]Matchup
	currentRound    Round
	superBowlWinner string
}

// gameResult is the JSON shape stored in an executed GAME event's
// data.results, shared with the Regular-Season Controller's convention.
type gameResult struct {
	HomeScore       int    `json:"home_score"`
	AwayScore       int    `json:"away_score"`
	WinnerTeamID    string `json:"winner_id"`
	TotalPlays      int    `json:"total_plays"`
	OvertimePeriods int    `json:"overtime_periods"`
}

// NewController constructs (or reconstructs, on reload) the playoff
// lifecycle for (dynastyID, season). initialSeeding is required on a fresh
// start (no persisted playoff events yet). On reload a non-nil
// initialSeeding is used as given; a nil one is reconstructed from the Wild
// Card matchups actually scheduled.
func NewController(
	ctx context.Context,
	db *database.DB,
	eventStore *events.Store,
	gamesStore *games.Store,
	standingsStore *standings.Store,
	sim simulator.Simulator,
	cal *calendar.Calendar,
	logger zerolog.Logger,
	dynastyID string,
	season int,
	conferenceOrder []string,
	teams standings.TeamMetadata,
	wildCardStartDate calendar.Date,
	initialSeeding map[string][]Seed,
) (*Controller, error) {
	c := &Controller{
		db: db, events: eventStore, gamesStore: gamesStore, standings: standingsStore,
		sim: sim, scheduler: NewScheduler(eventStore, logger), cal: cal,
		logger:          logger.With().Str("component", "playoffs.controller").Logger(),
		dynastyID:       dynastyID,
		season:          season,
		conferenceOrder: conferenceOrder,
		teams:           teams,
		completedGames:  make(map[Round][]Matchup),
		brackets:        make(map[Round][]Matchup),
	}

	playoffEvents, err := c.playoffEventsForSeason(ctx)
	if err != nil {
		return nil, err
	}

	if len(playoffEvents) == 0 {
		if initialSeeding == nil {
			return nil, fmt.Errorf("playoffs: fresh controller for dynasty %s season %d requires initial seeding", dynastyID, season)
		}
		c.originalSeeding = initialSeeding
		c.currentRound = RoundWildCard
		wildCard := GenerateWildCardBracket(conferenceOrder, initialSeeding)
		c.brackets[RoundWildCard] = wildCard
		if err := c.scheduler.ScheduleRound(ctx, dynastyID, season, wildCardStartDate, wildCard); err != nil {
			return nil, fmt.Errorf("playoffs: schedule wild card round: %w", err)
		}
		return c, nil
	}

	c.originalSeeding = initialSeeding
	if c.originalSeeding == nil {
		c.originalSeeding, err = c.reconstructSeedingFromWildCard(playoffEvents)
		if err != nil {
			return nil, err
		}
	}

	if err := c.reconstructResults(playoffEvents); err != nil {
		return nil, err
	}
	if err := c.rebuildBracketStructures(); err != nil {
		return nil, err
	}
	if err := c.determineCurrentRound(); err != nil {
		return nil, err
	}

	return c, nil
}

// playoffEventsForSeason returns every playoff GAME event for this dynasty
// that belongs to season, matched by dynasty_id column AND game_id prefix
// (not dynasty_id derived from the string — spec §4.9).
func (c *Controller) playoffEventsForSeason(ctx context.Context) ([]events.Event, error) {
	all, err := c.events.GetByDynasty(ctx, c.dynastyID, events.TypeGame)
	if err != nil {
		return nil, fmt.Errorf("playoffs: load events: %w", err)
	}
	var out []events.Event
	for _, e := range all {
		season, _, _, ok := ids.ParsePlayoffGameID(e.GameID)
		if ok && season == c.season {
			out = append(out, e)
		}
	}
	return out, nil
}

// reconstructSeedingFromWildCard rebuilds per-conference seeding from the
// Wild Card matchups' parameters when the caller doesn't supply seeding on
// reload (e.g. a CLI reattaching to an existing dynasty).
func (c *Controller) reconstructSeedingFromWildCard(playoffEvents []events.Event) (map[string][]Seed, error) {
	type params struct {
		HomeTeamID string `json:"home_team_id"`
		AwayTeamID string `json:"away_team_id"`
		Round      Round  `json:"round"`
		Conference string `json:"conference"`
	}

	out := make(map[string][]Seed)
	for _, e := range playoffEvents {
		_, round, n, ok := ids.ParsePlayoffGameID(e.GameID)
		if !ok || Round(round) != RoundWildCard {
			continue
		}
		var p params
		if err := json.Unmarshal(e.Data.Parameters, &p); err != nil {
			return nil, &StateCorruption{Reason: fmt.Sprintf("wild card event %s has unparseable parameters: %v", e.GameID, err)}
		}
		pairs := [3][2]int{{2, 7}, {3, 6}, {4, 5}}
		idx := (n - 1) % 3
		out[p.Conference] = append(out[p.Conference],
			Seed{Conference: p.Conference, SeedNumber: pairs[idx][0], TeamID: p.HomeTeamID},
			Seed{Conference: p.Conference, SeedNumber: pairs[idx][1], TeamID: p.AwayTeamID},
		)
	}
	return out, nil
}

// reconstructResults parses each playoff event's results (if present) and
// assigns it to its round via the game_id pattern — never the opaque
// event_id (spec §4.9's historical-bug warning).
func (c *Controller) reconstructResults(playoffEvents []events.Event) error {
	for _, e := range playoffEvents {
		if !e.HasResults() {
			continue
		}
		_, roundStr, n, ok := ids.ParsePlayoffGameID(e.GameID)
		if !ok {
			return &StateCorruption{Reason: fmt.Sprintf("playoff event %s has an unparseable game_id", e.GameID)}
		}
		round := Round(roundStr)

		var res gameResult
		if err := json.Unmarshal(e.Data.Results, &res); err != nil {
			return &StateCorruption{Reason: fmt.Sprintf("playoff event %s has unparseable results: %v", e.GameID, err)}
		}

		var params struct {
			HomeTeamID string `json:"home_team_id"`
			AwayTeamID string `json:"away_team_id"`
			Conference string `json:"conference"`
		}
		_ = json.Unmarshal(e.Data.Parameters, &params)

		c.completedGames[round] = append(c.completedGames[round], Matchup{
			Round: round, MatchupNumber: n, Conference: params.Conference,
			HighSeed: Seed{TeamID: params.HomeTeamID, Conference: params.Conference},
			LowSeed:  Seed{TeamID: params.AwayTeamID, Conference: params.Conference},
			WinnerTeamID: res.WinnerTeamID,
		})

		if round == RoundSuperBowl && res.WinnerTeamID != "" {
			c.superBowlWinner = res.WinnerTeamID
		}
	}
	return nil
}

// winnersByConference extracts the winning Seed for each completed matchup
// in round, grouped by conference.
func (c *Controller) winnersByConference(round Round) map[string][]Seed {
	out := make(map[string][]Seed)
	for _, m := range c.completedGames[round] {
		seed := m.HighSeed
		if m.WinnerTeamID == m.LowSeed.TeamID {
			seed = m.LowSeed
		}
		seed.SeedNumber = c.seedNumberFor(m.Conference, m.WinnerTeamID)
		out[m.Conference] = append(out[m.Conference], seed)
	}
	return out
}

func (c *Controller) seedNumberFor(conference, teamID string) int {
	for _, s := range c.originalSeeding[conference] {
		if s.TeamID == teamID {
			return s.SeedNumber
		}
	}
	return 0
}

// rebuildBracketStructures regenerates in-memory bracket structures from
// seeding plus completed-round results via the pure generators — never by
// persisting the brackets themselves (spec §9).
func (c *Controller) rebuildBracketStructures() error {
	c.brackets[RoundWildCard] = GenerateWildCardBracket(c.conferenceOrder, c.originalSeeding)

	if c.roundFullyComplete(RoundWildCard) {
		wcWinners := c.winnersByConference(RoundWildCard)
		c.brackets[RoundDivisional] = GenerateDivisionalBracket(c.conferenceOrder, c.originalSeeding, wcWinners)
	}

	if c.roundFullyComplete(RoundDivisional) {
		divWinners := c.winnersByConference(RoundDivisional)
		c.brackets[RoundConference] = GenerateConferenceBracket(c.conferenceOrder, divWinners)
	}

	if c.roundFullyComplete(RoundConference) && len(c.conferenceOrder) == 2 {
		confWinners := c.winnersByConference(RoundConference)
		a := confWinners[c.conferenceOrder[0]]
		b := confWinners[c.conferenceOrder[1]]
		if len(a) == 1 && len(b) == 1 {
			c.brackets[RoundSuperBowl] = []Matchup{GenerateSuperBowlMatchup(a[0], b[0])}
		}
	}

	return nil
}

func (c *Controller) roundFullyComplete(round Round) bool {
	return len(c.completedGames[round]) >= ExpectedGames[round]
}

// determineCurrentRound sets currentRound to the earliest round with fewer
// completed games than expected, raising StateCorruption if completion
// counts are internally inconsistent (more completed than scheduled, or a
// later round complete while an earlier one is not).
func (c *Controller) determineCurrentRound() error {
	seenIncomplete := false
	for _, round := range roundOrder {
		completed := len(c.completedGames[round])
		expected := ExpectedGames[round]

		if completed > expected {
			return &StateCorruption{Reason: fmt.Sprintf("round %s has %d completed games but only %d are expected", round, completed, expected)}
		}
		if completed < expected {
			if !seenIncomplete {
				c.currentRound = round
			}
			seenIncomplete = true
		} else if seenIncomplete {
			return &StateCorruption{Reason: fmt.Sprintf("round %s is fully complete but an earlier round is not", round)}
		}
	}
	if !seenIncomplete {
		c.currentRound = RoundSuperBowl
	}
	return nil
}

// CurrentRound returns the round the controller believes is in progress.
func (c *Controller) CurrentRound() Round { return c.currentRound }

// Brackets returns the reconstructed in-memory bracket dict for UI
// consumption, keyed by round; rounds not yet reachable are absent.
func (c *Controller) Brackets() map[Round][]Matchup { return c.brackets }

// IsComplete reports whether the Super Bowl has been played to a decision —
// the signal the Season Cycle Controller uses to transition to Offseason.
func (c *Controller) IsComplete() bool { return c.superBowlWinner != "" }

// Champion returns the Super Bowl winner's team id, or "" if the bracket
// hasn't been decided yet.
func (c *Controller) Champion() string { return c.superBowlWinner }

// MadePlayoffs reports whether teamID was seeded into this bracket.
func (c *Controller) MadePlayoffs(teamID string) bool {
	for _, seeds := range c.originalSeeding {
		for _, s := range seeds {
			if s.TeamID == teamID {
				return true
			}
		}
	}
	return false
}

// AdvanceDayResult mirrors the Regular-Season Controller's day-advance
// result shape (spec §6 Driver API).
type AdvanceDayResult struct {
	GamesPlayed int
	CurrentDate calendar.Date
}

// AdvanceDay simulates every playoff game scheduled for the calendar's
// current date, persists results transactionally, and advances the
// calendar by one day. When a round completes, the next round is scheduled
// immediately using that round's pure generator output (spec §4.9).
func (c *Controller) AdvanceDay(ctx context.Context) (AdvanceDayResult, error) {
	today := c.cal.CurrentDate()

	dayEvents, err := c.eventsOnDate(ctx, today)
	if err != nil {
		return AdvanceDayResult{}, err
	}

	played := 0
	for _, e := range dayEvents {
		if e.HasResults() {
			continue
		}
		if err := c.playGame(ctx, e); err != nil {
			return AdvanceDayResult{}, err
		}
		played++
	}

	if played > 0 {
		if err := c.reconstructAfterPlay(ctx); err != nil {
			return AdvanceDayResult{}, err
		}
		if err := c.scheduleNextRoundIfComplete(ctx, today); err != nil {
			return AdvanceDayResult{}, err
		}
	}

	c.cal.Advance(1)
	return AdvanceDayResult{GamesPlayed: played, CurrentDate: c.cal.CurrentDate()}, nil
}

func (c *Controller) eventsOnDate(ctx context.Context, date calendar.Date) ([]events.Event, error) {
	all, err := c.playoffEventsForSeason(ctx)
	if err != nil {
		return nil, err
	}
	var out []events.Event
	for _, e := range all {
		if calendar.FromTimestampMillis(e.TimestampMillis).Equal(date) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (c *Controller) playGame(ctx context.Context, e events.Event) error {
	var params struct {
		HomeTeamID string `json:"home_team_id"`
		AwayTeamID string `json:"away_team_id"`
		Round      Round  `json:"round"`
		Conference string `json:"conference"`
	}
	if err := json.Unmarshal(e.Data.Parameters, &params); err != nil {
		return &StateCorruption{Reason: fmt.Sprintf("playoff event %s has unparseable parameters: %v", e.GameID, err)}
	}

	result, err := c.sim.SimulateGame(ctx, simulator.Params{
		DynastyID: c.dynastyID, Season: c.season, SeasonType: seasontype.Playoffs,
		HomeTeamID: params.HomeTeamID, AwayTeamID: params.AwayTeamID, Playoff: true,
	})
	if err != nil {
		// A failed simulation aborts the day without advancing the calendar
		// or persisting a partial result (spec §7 SimulationError policy).
		return &simulator.ErrSimulation{GameID: e.GameID, Err: err}
	}

	resultsJSON, err := json.Marshal(gameResult{
		HomeScore: result.HomeScore, AwayScore: result.AwayScore,
		WinnerTeamID: result.WinnerTeamID, TotalPlays: result.TotalPlays,
		OvertimePeriods: result.OvertimePeriods,
	})
	if err != nil {
		return fmt.Errorf("playoffs: marshal result for %s: %w", e.GameID, err)
	}

	tx, err := c.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("playoffs: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE gridiron.events SET data = jsonb_set(data, '{results}', $2::jsonb) WHERE event_id = $1`,
		e.EventID, resultsJSON); err != nil {
		return fmt.Errorf("playoffs: persist result for %s: %w", e.GameID, err)
	}

	g := games.Game{
		GameID: e.GameID, DynastyID: c.dynastyID, Season: c.season, Week: 0,
		SeasonType: seasontype.Playoffs, GameType: playoffGameType(params.Round),
		HomeTeamID: params.HomeTeamID, AwayTeamID: params.AwayTeamID,
		HomeScore: result.HomeScore, AwayScore: result.AwayScore,
		TotalPlays: result.TotalPlays, OvertimePeriods: result.OvertimePeriods,
	}
	if err := c.gamesStore.Insert(ctx, tx, g); err != nil {
		return err
	}
	if err := c.standings.UpdateFromGame(ctx, tx, g); err != nil {
		return fmt.Errorf("playoffs: update standings for %s: %w", e.GameID, err)
	}

	return tx.Commit(ctx)
}

func playoffGameType(round Round) games.Type {
	switch round {
	case RoundWildCard:
		return games.TypeWildCard
	case RoundDivisional:
		return games.TypeDivisional
	case RoundConference:
		return games.TypeConference
	case RoundSuperBowl:
		return games.TypeSuperBowl
	default:
		return games.TypeRegular
	}
}

func (c *Controller) reconstructAfterPlay(ctx context.Context) error {
	playoffEvents, err := c.playoffEventsForSeason(ctx)
	if err != nil {
		return err
	}
	c.completedGames = make(map[Round][]Matchup)
	if err := c.reconstructResults(playoffEvents); err != nil {
		return err
	}
	if err := c.rebuildBracketStructures(); err != nil {
		return err
	}
	return c.determineCurrentRound()
}

// scheduleNextRoundIfComplete checks whether the round that just played
// finished, and if so schedules the next round's games one week out.
func (c *Controller) scheduleNextRoundIfComplete(ctx context.Context, lastPlayedDate calendar.Date) error {
	nextDate := lastPlayedDate.AddDays(7)

	for i, round := range roundOrder[:len(roundOrder)-1] {
		next := roundOrder[i+1]
		if c.roundFullyComplete(round) && len(c.completedGames[next]) == 0 && len(c.brackets[next]) > 0 {
			if err := c.scheduler.ScheduleRound(ctx, c.dynastyID, c.season, nextDate, c.brackets[next]); err != nil {
				return fmt.Errorf("playoffs: schedule %s round: %w", next, err)
			}
		}
	}
	return nil
}
