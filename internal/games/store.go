package games

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mrab54/gridiron-dynasty/internal/database"
	"github.com/mrab54/gridiron-dynasty/internal/seasontype"
)

// Store persists the materialized result of executed GAME events.
type Store struct {
	db *database.DB
}

// NewStore creates a Store over db.
func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// Insert writes g's row inside tx, the same transaction as the owning
// Event Store update and standings update (spec §5 transactional
// boundary).
func (s *Store) Insert(ctx context.Context, tx pgx.Tx, g Game) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("games: refusing to persist invalid game %s: %w", g.GameID, err)
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO gridiron.games (
			game_id, dynasty_id, season, week, season_type, game_type,
			home_team_id, away_team_id, home_score, away_score,
			total_plays, overtime_periods
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (game_id) DO NOTHING`,
		g.GameID, g.DynastyID, g.Season, g.Week, string(g.SeasonType), string(g.GameType),
		g.HomeTeamID, g.AwayTeamID, g.HomeScore, g.AwayScore,
		g.TotalPlays, g.OvertimePeriods)
	if err != nil {
		return fmt.Errorf("games: insert %s: %w", g.GameID, err)
	}
	return nil
}

func scanGame(row pgx.CollectableRow) (Game, error) {
	var g Game
	var seasonType, gameType string
	err := row.Scan(&g.GameID, &g.DynastyID, &g.Season, &g.Week, &seasonType, &gameType,
		&g.HomeTeamID, &g.AwayTeamID, &g.HomeScore, &g.AwayScore,
		&g.TotalPlays, &g.OvertimePeriods)
	g.SeasonType = seasontype.Type(seasonType)
	g.GameType = Type(gameType)
	return g, err
}

// ListBySeason returns every game row for a (dynasty, season, season_type).
func (s *Store) ListBySeason(ctx context.Context, dynastyID string, season int, st seasontype.Type) ([]Game, error) {
	rows, err := s.db.Query(ctx, `
		SELECT game_id, dynasty_id, season, week, season_type, game_type,
		       home_team_id, away_team_id, home_score, away_score,
		       total_plays, overtime_periods
		FROM gridiron.games
		WHERE dynasty_id = $1 AND season = $2 AND season_type = $3
		ORDER BY week`, dynastyID, season, string(st))
	if err != nil {
		return nil, fmt.Errorf("games: list %s/%d: %w", dynastyID, season, err)
	}
	defer rows.Close()
	return pgx.CollectRows(rows, scanGame)
}

// Get looks up a single game row by its id, scoped to dynastyID.
func (s *Store) Get(ctx context.Context, dynastyID, gameID string) (*Game, error) {
	rows, err := s.db.Query(ctx, `
		SELECT game_id, dynasty_id, season, week, season_type, game_type,
		       home_team_id, away_team_id, home_score, away_score,
		       total_plays, overtime_periods
		FROM gridiron.games WHERE dynasty_id = $1 AND game_id = $2`, dynastyID, gameID)
	if err != nil {
		return nil, fmt.Errorf("games: get %s: %w", gameID, err)
	}
	defer rows.Close()

	g, err := pgx.CollectOneRow(rows, scanGame)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("games: scan %s: %w", gameID, err)
	}
	return &g, nil
}
