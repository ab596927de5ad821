package regularseason

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
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

// gameParameters is the JSON shape stored in a regular-season GAME event's
// data.parameters.
type gameParameters struct {
	HomeTeamID string `json:"home_team_id"`
	AwayTeamID string `json:"away_team_id"`
	Week       int    `json:"week"`
}

// gameResult mirrors the playoff controller's result shape so both
// controllers write/read the same data.results convention.
type gameResult struct {
	HomeScore       int    `json:"home_score"`
	AwayScore       int    `json:"away_score"`
	WinnerTeamID    string `json:"winner_id"`
	TotalPlays      int    `json:"total_plays"`
	OvertimePeriods int    `json:"overtime_periods"`
}

// Controller owns the regular-season lifecycle for one (dynasty, season):
// idempotent schedule generation and day-by-day advancement (spec §4.6).
type Controller struct {
	db         *database.DB
	events     *events.Store
	gamesStore *games.Store
	standings  *standings.Store
	sim        simulator.Simulator
	cal        *calendar.Calendar
	logger     zerolog.Logger

	dynastyID string
	season    int
}

// NewController constructs a Regular-Season Controller for (dynastyID,
// season). On a fresh dynasty (no regular-season GAME events yet) it
// generates and bulk-inserts the 272-game schedule; on reload it detects
// the existing schedule via the 272-count check and performs no writes —
// constructing it twice for the same (dynasty, season) never duplicates
// events (spec invariant 2).
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
	teams standings.TeamMetadata,
	startDate calendar.Date,
) (*Controller, error) {
	c := &Controller{
		db: db, events: eventStore, gamesStore: gamesStore, standings: standingsStore,
		sim: sim, cal: cal,
		logger:    logger.With().Str("component", "regularseason.controller").Logger(),
		dynastyID: dynastyID,
		season:    season,
	}

	count, err := eventStore.CountRegularSeasonGames(ctx, dynastyID)
	if err != nil {
		return nil, err
	}
	if count >= len(teams)/2*GamesPerTeam {
		c.logger.Debug().Int("existing", count).Msg("regular season schedule already present, skipping generation")
		return c, nil
	}
	if count != 0 {
		return nil, fmt.Errorf("regularseason: dynasty %s season %d has a partial schedule (%d events); refusing to generate on top of it", dynastyID, season, count)
	}

	schedule, err := GenerateSchedule(teams, season, startDate)
	if err != nil {
		return nil, fmt.Errorf("regularseason: generate schedule: %w", err)
	}

	if err := c.bulkInsertSchedule(ctx, schedule); err != nil {
		return nil, err
	}
	return c, nil
}

// bulkInsertSchedule writes every scheduled game as a GAME event in one
// batched round trip (spec §4.6: "bulk-inserts them").
func (c *Controller) bulkInsertSchedule(ctx context.Context, schedule []ScheduledGame) error {
	batch := &pgx.Batch{}
	for _, g := range schedule {
		gameID := ids.RegularSeasonGameID(g.Date.Compact(), g.AwayTeamID, g.HomeTeamID)
		params, err := json.Marshal(gameParameters{HomeTeamID: g.HomeTeamID, AwayTeamID: g.AwayTeamID, Week: g.Week})
		if err != nil {
			return fmt.Errorf("regularseason: marshal game parameters for %s: %w", gameID, err)
		}
		batch.Queue(`
			INSERT INTO gridiron.events (event_id, event_type, timestamp_ms, game_id, dynasty_id, data)
			VALUES (gen_random_uuid(), 'GAME', $1, $2, $3, $4)
			ON CONFLICT (dynasty_id, game_id) DO NOTHING`,
			g.Date.ToTimestampMillis(), gameID, c.dynastyID, events.Payload{Parameters: params})
	}

	br := c.db.Pool().SendBatch(ctx, batch)
	defer br.Close()
	for range schedule {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("regularseason: bulk insert schedule: %w", err)
		}
	}
	return nil
}

// AdvanceDayResult mirrors the Playoff Controller's day-advance result
// shape (spec §6 Driver API).
type AdvanceDayResult struct {
	GamesPlayed int
	CurrentDate calendar.Date
}

// AdvanceDay simulates every regular-season game scheduled for the
// calendar's current date, persists results transactionally, and advances
// the calendar by one day.
func (c *Controller) AdvanceDay(ctx context.Context) (AdvanceDayResult, error) {
	today := c.cal.CurrentDate()

	dayEvents, err := c.events.GetEventsOn(ctx, c.dynastyID, today)
	if err != nil {
		return AdvanceDayResult{}, err
	}

	played := 0
	for _, e := range dayEvents {
		if e.EventType != events.TypeGame || e.HasResults() || ids.IsPlayoffGameID(e.GameID) || ids.IsPreseasonGameID(e.GameID) {
			continue
		}
		if err := c.playGame(ctx, e); err != nil {
			return AdvanceDayResult{}, err
		}
		played++
	}

	c.cal.Advance(1)
	return AdvanceDayResult{GamesPlayed: played, CurrentDate: c.cal.CurrentDate()}, nil
}

func (c *Controller) playGame(ctx context.Context, e events.Event) error {
	var params gameParameters
	if err := json.Unmarshal(e.Data.Parameters, &params); err != nil {
		return fmt.Errorf("regularseason: unparseable parameters for %s: %w", e.GameID, err)
	}

	result, err := c.sim.SimulateGame(ctx, simulator.Params{
		DynastyID: c.dynastyID, Season: c.season, Week: params.Week, SeasonType: seasontype.Regular,
		HomeTeamID: params.HomeTeamID, AwayTeamID: params.AwayTeamID, Playoff: false,
	})
	if err != nil {
		return &simulator.ErrSimulation{GameID: e.GameID, Err: err}
	}

	resultsJSON, err := json.Marshal(gameResult{
		HomeScore: result.HomeScore, AwayScore: result.AwayScore,
		WinnerTeamID: result.WinnerTeamID, TotalPlays: result.TotalPlays,
		OvertimePeriods: result.OvertimePeriods,
	})
	if err != nil {
		return fmt.Errorf("regularseason: marshal result for %s: %w", e.GameID, err)
	}

	tx, err := c.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("regularseason: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE gridiron.events SET data = jsonb_set(data, '{results}', $2::jsonb) WHERE event_id = $1`,
		e.EventID, resultsJSON); err != nil {
		return fmt.Errorf("regularseason: persist result for %s: %w", e.GameID, err)
	}

	g := games.Game{
		GameID: e.GameID, DynastyID: c.dynastyID, Season: c.season, Week: params.Week,
		SeasonType: seasontype.Regular, GameType: games.TypeRegular,
		HomeTeamID: params.HomeTeamID, AwayTeamID: params.AwayTeamID,
		HomeScore: result.HomeScore, AwayScore: result.AwayScore,
		TotalPlays: result.TotalPlays, OvertimePeriods: result.OvertimePeriods,
	}
	if err := c.gamesStore.Insert(ctx, tx, g); err != nil {
		return err
	}
	if err := c.standings.UpdateFromGame(ctx, tx, g); err != nil {
		return fmt.Errorf("regularseason: update standings for %s: %w", e.GameID, err)
	}

	return tx.Commit(ctx)
}
