package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/mrab54/gridiron-dynasty/internal/calendar"
	"github.com/mrab54/gridiron-dynasty/internal/database"
	"github.com/mrab54/gridiron-dynasty/internal/phasekind"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint
// violation, used to detect the idempotent duplicate-game-id case.
const uniqueViolation = "23505"

// Store is the dynasty-scoped Event Store.
type Store struct {
	db     *database.DB
	logger zerolog.Logger
}

// NewStore creates an Event Store over db.
func NewStore(db *database.DB, logger zerolog.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Insert persists a new event, returning its id. If an event with the same
// (dynasty_id, game_id) already exists, Insert returns *ErrDuplicateGameID
// wrapping the existing row — callers unwrap it to fetch the row they
// collided with rather than treating this as a hard failure.
func (s *Store) Insert(ctx context.Context, e Event) (uuid.UUID, error) {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}

	query := `
		INSERT INTO gridiron.events (
			event_id, event_type, timestamp_ms, game_id, dynasty_id, data
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.Exec(ctx, query,
		e.EventID, string(e.EventType), e.TimestampMillis, e.GameID, e.DynastyID, e.Data,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			existing, getErr := s.GetByGameIDAndDynasty(ctx, e.GameID, e.DynastyID)
			if getErr != nil {
				return uuid.Nil, fmt.Errorf("events: duplicate game_id but failed to reload existing: %w", getErr)
			}
			s.logger.Debug().Str("game_id", e.GameID).Str("dynasty_id", e.DynastyID).
				Msg("duplicate game_id insert treated as idempotent reuse")
			return existing.EventID, &ErrDuplicateGameID{GameID: e.GameID, DynastyID: e.DynastyID, Existing: *existing}
		}
		return uuid.Nil, fmt.Errorf("events: failed to insert event: %w", err)
	}

	return e.EventID, nil
}

// Update replaces the data column of an existing event, used to cache
// results after the event executes.
func (s *Store) Update(ctx context.Context, eventID uuid.UUID, data Payload) error {
	tag, err := s.db.Exec(ctx, `UPDATE gridiron.events SET data = $2 WHERE event_id = $1`, eventID, data)
	if err != nil {
		return fmt.Errorf("events: failed to update event %s: %w", eventID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanEvent(row pgx.CollectableRow) (Event, error) {
	var e Event
	var eventType string
	err := row.Scan(&e.EventID, &eventType, &e.TimestampMillis, &e.GameID, &e.DynastyID, &e.Data)
	e.EventType = Type(eventType)
	return e, err
}

// GetByID looks up a single event by its opaque id. Reconstruction logic
// must NOT rely on this id to infer playoff round (spec §4.9) — use GameID.
func (s *Store) GetByID(ctx context.Context, eventID uuid.UUID) (*Event, error) {
	rows, err := s.db.Query(ctx, `
		SELECT event_id, event_type, timestamp_ms, game_id, dynasty_id, data
		FROM gridiron.events WHERE event_id = $1`, eventID)
	if err != nil {
		return nil, fmt.Errorf("events: query by id: %w", err)
	}
	defer rows.Close()

	e, err := pgx.CollectOneRow(rows, scanEvent)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("events: scan by id: %w", err)
	}
	return &e, nil
}

// GetByGameIDAndDynasty looks up the event for (dynasty_id, game_id), the
// key that uniquely identifies a scheduled occurrence.
func (s *Store) GetByGameIDAndDynasty(ctx context.Context, gameID, dynastyID string) (*Event, error) {
	rows, err := s.db.Query(ctx, `
		SELECT event_id, event_type, timestamp_ms, game_id, dynasty_id, data
		FROM gridiron.events WHERE dynasty_id = $1 AND game_id = $2`, dynastyID, gameID)
	if err != nil {
		return nil, fmt.Errorf("events: query by game id: %w", err)
	}
	defer rows.Close()

	e, err := pgx.CollectOneRow(rows, scanEvent)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("events: scan by game id: %w", err)
	}
	return &e, nil
}

// GetByDynasty returns every event for dynastyID, optionally filtered to a
// single event type (pass "" for all types).
func (s *Store) GetByDynasty(ctx context.Context, dynastyID string, eventType Type) ([]Event, error) {
	var rows pgx.Rows
	var err error
	if eventType == "" {
		rows, err = s.db.Query(ctx, `
			SELECT event_id, event_type, timestamp_ms, game_id, dynasty_id, data
			FROM gridiron.events WHERE dynasty_id = $1 ORDER BY timestamp_ms`, dynastyID)
	} else {
		rows, err = s.db.Query(ctx, `
			SELECT event_id, event_type, timestamp_ms, game_id, dynasty_id, data
			FROM gridiron.events WHERE dynasty_id = $1 AND event_type = $2 ORDER BY timestamp_ms`,
			dynastyID, string(eventType))
	}
	if err != nil {
		return nil, fmt.Errorf("events: query by dynasty: %w", err)
	}
	defer rows.Close()

	return pgx.CollectRows(rows, scanEvent)
}

// GetEventsOn returns all events for dynastyID whose timestamp falls on
// date, ordered by timestamp.
func (s *Store) GetEventsOn(ctx context.Context, dynastyID string, date calendar.Date) ([]Event, error) {
	startMs := date.ToTimestampMillis(0, 0)
	endMs := date.AddDays(1).ToTimestampMillis(0, 0)

	rows, err := s.db.Query(ctx, `
		SELECT event_id, event_type, timestamp_ms, game_id, dynasty_id, data
		FROM gridiron.events
		WHERE dynasty_id = $1 AND timestamp_ms >= $2 AND timestamp_ms < $3
		ORDER BY timestamp_ms`, dynastyID, startMs, endMs)
	if err != nil {
		return nil, fmt.Errorf("events: query events on date: %w", err)
	}
	defer rows.Close()

	return pgx.CollectRows(rows, scanEvent)
}

// gameIDPatternFor returns the POSIX regular expression (matched with ~, or
// with !~ when negate is true) that restricts a query to game events of the given phase's
// scheduling convention. Only PRESEASON and PLAYOFFS have a positive
// prefix; REGULAR_SEASON is "none of the above" (spec §4.6).
func gameIDPatternFor(phase phasekind.Phase) (pattern string, negate bool) {
	switch phase {
	case phasekind.Preseason:
		return "^preseason_", false
	case phasekind.Playoffs:
		return "^playoff_", false
	default:
		return "^(playoff_|preseason_)", true
	}
}

func (s *Store) firstOrLastGameDate(ctx context.Context, dynastyID string, phase phasekind.Phase, onOrAfter calendar.Date, wantFirst bool) (calendar.Date, bool, error) {
	pattern, negate := gameIDPatternFor(phase)
	order := "ASC"
	if !wantFirst {
		order = "DESC"
	}

	var query string
	if negate {
		query = fmt.Sprintf(`
			SELECT timestamp_ms FROM gridiron.events
			WHERE dynasty_id = $1 AND event_type = 'GAME'
			  AND timestamp_ms >= $2 AND game_id !~ $3
			ORDER BY timestamp_ms %s LIMIT 1`, order)
	} else {
		query = fmt.Sprintf(`
			SELECT timestamp_ms FROM gridiron.events
			WHERE dynasty_id = $1 AND event_type = 'GAME'
			  AND timestamp_ms >= $2 AND game_id ~ $3
			ORDER BY timestamp_ms %s LIMIT 1`, order)
	}

	var ms int64
	err := s.db.QueryRow(ctx, query, dynastyID, onOrAfter.ToTimestampMillis(0, 0), pattern).Scan(&ms)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return calendar.Date{}, false, nil
		}
		return calendar.Date{}, false, fmt.Errorf("events: query game date for phase %s: %w", phase, err)
	}

	return calendar.FromTimestampMillis(ms), true, nil
}

// GetFirstGameDate returns the earliest GAME event date for phase on or
// after onOrAfter.
func (s *Store) GetFirstGameDate(ctx context.Context, dynastyID string, phase phasekind.Phase, onOrAfter calendar.Date) (calendar.Date, bool, error) {
	return s.firstOrLastGameDate(ctx, dynastyID, phase, onOrAfter, true)
}

// GetLastGameDate returns the latest GAME event date for phase on or after
// onOrAfter.
func (s *Store) GetLastGameDate(ctx context.Context, dynastyID string, phase phasekind.Phase, onOrAfter calendar.Date) (calendar.Date, bool, error) {
	return s.firstOrLastGameDate(ctx, dynastyID, phase, onOrAfter, false)
}

// CountRegularSeasonGames counts GAME events for dynastyID whose game_id is
// regular-season-shaped (neither playoff_ nor preseason_ prefixed), used by
// the Regular-Season Controller's idempotent-schedule check.
func (s *Store) CountRegularSeasonGames(ctx context.Context, dynastyID string) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM gridiron.events
		WHERE dynasty_id = $1 AND event_type = 'GAME'
		  AND game_id !~ '^(playoff_|preseason_)'`, dynastyID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("events: count regular season games: %w", err)
	}
	return count, nil
}
