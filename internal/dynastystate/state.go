// Package dynastystate owns the cursor row — current_date, current_phase,
// current_week — for one (dynasty, season). It is written only by the
// Season Cycle Controller (and migration/admin helpers); every other
// component treats it as read-only.
package dynastystate

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/mrab54/gridiron-dynasty/internal/calendar"
	"github.com/mrab54/gridiron-dynasty/internal/database"
	"github.com/mrab54/gridiron-dynasty/internal/phasekind"
)

// ErrStateMissing is returned by Load when no row exists for (dynastyID, season).
var ErrStateMissing = errors.New("dynastystate: no state for dynasty/season")

// State is the cursor for one (dynasty, season).
type State struct {
	DynastyID   string
	Season      int
	CurrentDate calendar.Date
	Phase       phasekind.Phase
	CurrentWeek int
}

// Store persists dynasty state.
type Store struct {
	db     *database.DB
	logger zerolog.Logger
}

// NewStore creates a dynasty state store over db.
func NewStore(db *database.DB, logger zerolog.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// InitializeState upserts the row for (dynastyID, season), returning the
// existing row untouched if one is already present — safe to call on every
// reload, per spec §4.3.
func (s *Store) InitializeState(ctx context.Context, dynastyID string, season int, start calendar.Date) (*State, error) {
	existing, err := s.Load(ctx, dynastyID, season)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrStateMissing) {
		return nil, err
	}

	state := &State{
		DynastyID:   dynastyID,
		Season:      season,
		CurrentDate: start,
		Phase:       phasekind.Preseason,
		CurrentWeek: 0,
	}

	_, execErr := s.db.Exec(ctx, `
		INSERT INTO gridiron.dynasty_state (
			dynasty_id, season, current_date, current_phase, current_week
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (dynasty_id, season) DO NOTHING
	`, state.DynastyID, state.Season, start.String(), string(state.Phase), state.CurrentWeek)
	if execErr != nil {
		return nil, fmt.Errorf("dynastystate: failed to initialize state: %w", execErr)
	}

	// A concurrent initializer may have won the race; load authoritatively.
	return s.Load(ctx, dynastyID, season)
}

// Load returns the full state for (dynastyID, season), or ErrStateMissing.
func (s *Store) Load(ctx context.Context, dynastyID string, season int) (*State, error) {
	var st State
	var dateStr, phaseStr string

	err := s.db.QueryRow(ctx, `
		SELECT dynasty_id, season, current_date, current_phase, current_week
		FROM gridiron.dynasty_state WHERE dynasty_id = $1 AND season = $2
	`, dynastyID, season).Scan(&st.DynastyID, &st.Season, &dateStr, &phaseStr, &st.CurrentWeek)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStateMissing
		}
		return nil, fmt.Errorf("dynastystate: failed to load state: %w", err)
	}

	d, parseErr := calendar.ParseISO(dateStr)
	if parseErr != nil {
		return nil, fmt.Errorf("dynastystate: corrupt current_date: %w", parseErr)
	}
	st.CurrentDate = d
	st.Phase = phasekind.Phase(phaseStr)

	return &st, nil
}

// Fields selects which columns Update writes; zero-value fields are left
// untouched (a partial write), matching spec §4.3's update(...,fields) call.
type Fields struct {
	CurrentDate *calendar.Date
	Phase       *phasekind.Phase
	CurrentWeek *int
}

// Update partially writes fields for (dynastyID, season).
func (s *Store) Update(ctx context.Context, dynastyID string, season int, fields Fields) error {
	if fields.CurrentDate == nil && fields.Phase == nil && fields.CurrentWeek == nil {
		return nil
	}

	var dateArg interface{}
	if fields.CurrentDate != nil {
		dateArg = fields.CurrentDate.String()
	}

	var phaseArg interface{}
	if fields.Phase != nil {
		phaseArg = string(*fields.Phase)
	}

	var weekArg interface{}
	if fields.CurrentWeek != nil {
		weekArg = *fields.CurrentWeek
	}

	query := `
		UPDATE gridiron.dynasty_state
		SET current_date = COALESCE($3, current_date),
		    current_phase = COALESCE($4, current_phase),
		    current_week = COALESCE($5, current_week)
		WHERE dynasty_id = $1 AND season = $2
	`
	tag, err := s.db.Exec(ctx, query, dynastyID, season, dateArg, phaseArg, weekArg)
	if err != nil {
		return fmt.Errorf("dynastystate: failed to update state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStateMissing
	}
	return nil
}
