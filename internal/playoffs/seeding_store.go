package playoffs

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/mrab54/gridiron-dynasty/internal/database"
)

// SeedingStore persists the derived playoff_seedings and
// tiebreaker_applications audit rows (spec §3: "Playoff Seeding: derived,
// not primary... persisted for audit"; §4.7: "each resolved tie step appends
// a TiebreakerApplication record... written by the caller after seeding
// completes"). Reseeding a (dynasty, season, conference) replaces its prior
// playoff_seedings rows; tiebreaker_applications rows are only appended, so
// a reseed adds a second set beside the first.
type SeedingStore struct {
	db     *database.DB
	logger zerolog.Logger
}

// NewSeedingStore constructs a SeedingStore over db.
func NewSeedingStore(db *database.DB, logger zerolog.Logger) *SeedingStore {
	return &SeedingStore{db: db, logger: logger.With().Str("component", "playoffs.seeding_store").Logger()}
}

// InsertSeeding persists the seven seeds computed for one conference,
// replacing any prior seeding for the same (dynasty, season, conference).
func (s *SeedingStore) InsertSeeding(ctx context.Context, dynastyID string, season int, conference string, seeds []Seed) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("playoffs: begin tx for seeding: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		DELETE FROM gridiron.playoff_seedings
		WHERE dynasty_id = $1 AND season = $2 AND conference = $3`,
		dynastyID, season, conference); err != nil {
		return fmt.Errorf("playoffs: clear prior seeding: %w", err)
	}

	batch := &pgx.Batch{}
	for _, seed := range seeds {
		batch.Queue(`
			INSERT INTO gridiron.playoff_seedings (
				dynasty_id, season, conference, seed_number, team_id, tiebreaker_note
			) VALUES ($1,$2,$3,$4,$5,$6)`,
			dynastyID, season, conference, seed.SeedNumber, seed.TeamID, seed.TiebreakerNote)
	}

	br := tx.SendBatch(ctx, batch)
	for range seeds {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("playoffs: insert seeding rows: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("playoffs: close seeding batch: %w", err)
	}

	return tx.Commit(ctx)
}

// InsertTiebreakerApplications persists the audit trail of every tie step
// that was actually invoked while ranking one conference.
func (s *SeedingStore) InsertTiebreakerApplications(ctx context.Context, apps []TiebreakerApplication) error {
	if len(apps) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, app := range apps {
		batch.Queue(`
			INSERT INTO gridiron.tiebreaker_applications (
				dynasty_id, season, conference, step, team_ids, winner_team_id
			) VALUES ($1,$2,$3,$4,$5,$6)`,
			app.DynastyID, app.Season, app.Conference, string(app.Step), app.TeamIDs, app.WinnerTeamID)
	}

	br := s.db.Pool().SendBatch(ctx, batch)
	defer br.Close()
	for range apps {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("playoffs: insert tiebreaker applications: %w", err)
		}
	}
	return nil
}
