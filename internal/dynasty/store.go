// Package dynasty owns the root identity row every other table cascades
// from: the save itself (spec §3 Dynasty). Writes come from franchise
// creation, deletion, and RecordSeasonOutcome, which the Season Cycle
// Controller calls once per season to fold results into career totals.
package dynasty

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/mrab54/gridiron-dynasty/internal/database"
)

// ErrNotFound is returned when no dynasty row exists for the given id.
var ErrNotFound = errors.New("dynasty: not found")

// Dynasty is the identity of one save.
type Dynasty struct {
	DynastyID    string
	Name         string
	OwnerTeamID  string
	Championships int
	PlayoffAppearances int
	WinsAllTime  int
	LossesAllTime int
	TiesAllTime  int
}

// Store persists dynasties.
type Store struct {
	db     *database.DB
	logger zerolog.Logger
}

// NewStore constructs a Store over db.
func NewStore(db *database.DB, logger zerolog.Logger) *Store {
	return &Store{db: db, logger: logger.With().Str("component", "dynasty.store").Logger()}
}

// Create inserts a new dynasty. Called once on "new franchise" (spec §3).
func (s *Store) Create(ctx context.Context, d Dynasty) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO gridiron.dynasties (
			dynasty_id, dynasty_name, owner_team_id,
			championships, playoff_appearances, wins_all_time, losses_all_time, ties_all_time
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		d.DynastyID, d.Name, d.OwnerTeamID,
		d.Championships, d.PlayoffAppearances, d.WinsAllTime, d.LossesAllTime, d.TiesAllTime)
	if err != nil {
		return fmt.Errorf("dynasty: create %s: %w", d.DynastyID, err)
	}
	return nil
}

// Get loads one dynasty by id.
func (s *Store) Get(ctx context.Context, dynastyID string) (Dynasty, error) {
	var d Dynasty
	err := s.db.QueryRow(ctx, `
		SELECT dynasty_id, dynasty_name, owner_team_id,
		       championships, playoff_appearances, wins_all_time, losses_all_time, ties_all_time
		FROM gridiron.dynasties WHERE dynasty_id = $1`, dynastyID).
		Scan(&d.DynastyID, &d.Name, &d.OwnerTeamID,
			&d.Championships, &d.PlayoffAppearances, &d.WinsAllTime, &d.LossesAllTime, &d.TiesAllTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return Dynasty{}, ErrNotFound
	}
	if err != nil {
		return Dynasty{}, fmt.Errorf("dynasty: get %s: %w", dynastyID, err)
	}
	return d, nil
}

// List returns every dynasty, most recently created first — used by
// cmd/seasonctl to load every dynasty at startup.
func (s *Store) List(ctx context.Context) ([]Dynasty, error) {
	rows, err := s.db.Query(ctx, `
		SELECT dynasty_id, dynasty_name, owner_team_id,
		       championships, playoff_appearances, wins_all_time, losses_all_time, ties_all_time
		FROM gridiron.dynasties ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("dynasty: list: %w", err)
	}
	defer rows.Close()

	var out []Dynasty
	for rows.Next() {
		var d Dynasty
		if err := rows.Scan(&d.DynastyID, &d.Name, &d.OwnerTeamID,
			&d.Championships, &d.PlayoffAppearances, &d.WinsAllTime, &d.LossesAllTime, &d.TiesAllTime); err != nil {
			return nil, fmt.Errorf("dynasty: scan list row: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// RecordSeasonOutcome folds one completed season's results into career
// totals: called by the Season Cycle Controller on the Playoffs->Offseason
// transition (champion gets +1 championship, every playoff participant gets
// +1 appearance).
func (s *Store) RecordSeasonOutcome(ctx context.Context, dynastyID string, wins, losses, ties int, madePlayoffs, wonChampionship bool) error {
	championshipDelta := 0
	if wonChampionship {
		championshipDelta = 1
	}
	appearanceDelta := 0
	if madePlayoffs {
		appearanceDelta = 1
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE gridiron.dynasties
		SET wins_all_time = wins_all_time + $2,
		    losses_all_time = losses_all_time + $3,
		    ties_all_time = ties_all_time + $4,
		    playoff_appearances = playoff_appearances + $5,
		    championships = championships + $6
		WHERE dynasty_id = $1`,
		dynastyID, wins, losses, ties, appearanceDelta, championshipDelta)
	if err != nil {
		return fmt.Errorf("dynasty: record season outcome for %s: %w", dynastyID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete cascade-deletes a dynasty and every child row that carries its
// dynasty_id (spec §3: "cascade-deletes all children"). The cascade itself
// is declared on the foreign keys in migrations/0001_init.sql; this issues
// only the root delete.
func (s *Store) Delete(ctx context.Context, dynastyID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM gridiron.dynasties WHERE dynasty_id = $1`, dynastyID)
	if err != nil {
		return fmt.Errorf("dynasty: delete %s: %w", dynastyID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
