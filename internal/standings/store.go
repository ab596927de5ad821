package standings

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/mrab54/gridiron-dynasty/internal/database"
	"github.com/mrab54/gridiron-dynasty/internal/games"
	"github.com/mrab54/gridiron-dynasty/internal/seasontype"
)

// TeamMetadata is the small in-memory division/conference lookup the
// standings store needs to attribute division/conference win splits. Team
// JSON loading itself is out of scope (spec §1); callers inject this table
// at construction.
type TeamMetadata map[string]TeamMeta

// Store persists and updates per-(dynasty, season, season_type) team
// records.
type Store struct {
	db     *database.DB
	logger zerolog.Logger
	teams  TeamMetadata
}

// NewStore constructs a Store. teams may be nil, in which case division and
// conference splits are skipped (home/away/overall splits still apply).
func NewStore(db *database.DB, logger zerolog.Logger, teams TeamMetadata) *Store {
	return &Store{db: db, logger: logger.With().Str("component", "standings.store").Logger(), teams: teams}
}

// Get loads a single standing row, returning a zero-value Standing (not an
// error) when no record exists yet — callers starting a fresh season see an
// all-zeros record rather than having to special-case ErrNotFound.
func (s *Store) Get(ctx context.Context, dynastyID, teamID string, season int, st seasontype.Type) (Standing, error) {
	row := s.db.QueryRow(ctx, `
		SELECT dynasty_id, team_id, season, season_type,
		       wins, losses, ties,
		       division_wins, division_losses, division_ties,
		       conference_wins, conference_losses, conference_ties,
		       home_wins, home_losses, home_ties,
		       away_wins, away_losses, away_ties,
		       points_for, points_against, current_streak
		FROM gridiron.standings
		WHERE dynasty_id = $1 AND team_id = $2 AND season = $3 AND season_type = $4`,
		dynastyID, teamID, season, string(st))

	var out Standing
	err := row.Scan(&out.DynastyID, &out.TeamID, &out.Season, &out.SeasonType,
		&out.Wins, &out.Losses, &out.Ties,
		&out.DivisionWins, &out.DivisionLosses, &out.DivisionTies,
		&out.ConferenceWins, &out.ConferenceLosses, &out.ConferenceTies,
		&out.HomeWins, &out.HomeLosses, &out.HomeTies,
		&out.AwayWins, &out.AwayLosses, &out.AwayTies,
		&out.PointsFor, &out.PointsAgainst, &out.CurrentStreak)
	if err == pgx.ErrNoRows {
		return Standing{DynastyID: dynastyID, TeamID: teamID, Season: season, SeasonType: st}, nil
	}
	if err != nil {
		return Standing{}, fmt.Errorf("standings: get %s/%s/%d: %w", dynastyID, teamID, season, err)
	}
	return out, nil
}

// ListBySeason returns every team's standing row for a (dynasty, season,
// season_type), ordered by win percentage (ties broken by point
// differential) for display purposes — full tiebreaker resolution for
// playoff seeding lives in the playoffs package, not here.
func (s *Store) ListBySeason(ctx context.Context, dynastyID string, season int, st seasontype.Type) ([]Standing, error) {
	rows, err := s.db.Query(ctx, `
		SELECT dynasty_id, team_id, season, season_type,
		       wins, losses, ties,
		       division_wins, division_losses, division_ties,
		       conference_wins, conference_losses, conference_ties,
		       home_wins, home_losses, home_ties,
		       away_wins, away_losses, away_ties,
		       points_for, points_against, current_streak
		FROM gridiron.standings
		WHERE dynasty_id = $1 AND season = $2 AND season_type = $3
		ORDER BY (wins::float + 0.5 * ties) / GREATEST(wins + losses + ties, 1) DESC,
		         (points_for - points_against) DESC`,
		dynastyID, season, string(st))
	if err != nil {
		return nil, fmt.Errorf("standings: list %s/%d: %w", dynastyID, season, err)
	}
	defer rows.Close()

	var out []Standing
	for rows.Next() {
		var st Standing
		if err := rows.Scan(&st.DynastyID, &st.TeamID, &st.Season, &st.SeasonType,
			&st.Wins, &st.Losses, &st.Ties,
			&st.DivisionWins, &st.DivisionLosses, &st.DivisionTies,
			&st.ConferenceWins, &st.ConferenceLosses, &st.ConferenceTies,
			&st.HomeWins, &st.HomeLosses, &st.HomeTies,
			&st.AwayWins, &st.AwayLosses, &st.AwayTies,
			&st.PointsFor, &st.PointsAgainst, &st.CurrentStreak); err != nil {
			return nil, fmt.Errorf("standings: scan row: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// UpdateFromGame applies a completed game's result to both teams' standing
// rows, upserting as needed. Callers run this inside the same transaction as
// the event store write and the games row insert (spec §5 transactional
// boundary) — tx satisfies the narrow subset of database.DB's query methods
// this needs.
func (s *Store) UpdateFromGame(ctx context.Context, tx pgx.Tx, g games.Game) error {
	home := s.delta(g, g.HomeTeamID, g.AwayTeamID, g.HomeScore, g.AwayScore)
	away := s.delta(g, g.AwayTeamID, g.HomeTeamID, g.AwayScore, g.HomeScore)

	for _, d := range []teamDelta{home, away} {
		if err := s.applyDelta(ctx, tx, g, d); err != nil {
			return err
		}
	}
	return nil
}

type teamDelta struct {
	teamID                          string
	win, loss, tie                  int
	divWin, divLoss, divTie         int
	confWin, confLoss, confTie      int
	homeWin, homeLoss, homeTie      int
	awayWin, awayLoss, awayTie      int
	pointsFor, pointsAgainst        int
	streakDelta                     int // +1 win, -1 loss, 0 tie (caller recomputes against current streak)
}

func (s *Store) delta(g games.Game, teamID, oppID string, scoreFor, scoreAgainst int) teamDelta {
	d := teamDelta{teamID: teamID, pointsFor: scoreFor, pointsAgainst: scoreAgainst}

	switch {
	case scoreFor > scoreAgainst:
		d.win = 1
	case scoreFor < scoreAgainst:
		d.loss = 1
	default:
		d.tie = 1
	}

	if teamID == g.HomeTeamID {
		d.homeWin, d.homeLoss, d.homeTie = d.win, d.loss, d.tie
	} else {
		d.awayWin, d.awayLoss, d.awayTie = d.win, d.loss, d.tie
	}

	if s.teams != nil {
		mine, okMine := s.teams[teamID]
		theirs, okTheirs := s.teams[oppID]
		if okMine && okTheirs {
			if mine.Division == theirs.Division {
				d.divWin, d.divLoss, d.divTie = d.win, d.loss, d.tie
			}
			if mine.Conference == theirs.Conference {
				d.confWin, d.confLoss, d.confTie = d.win, d.loss, d.tie
			}
		}
	}
	return d
}

func (s *Store) applyDelta(ctx context.Context, tx pgx.Tx, g games.Game, d teamDelta) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO gridiron.standings (
			dynasty_id, team_id, season, season_type,
			wins, losses, ties,
			division_wins, division_losses, division_ties,
			conference_wins, conference_losses, conference_ties,
			home_wins, home_losses, home_ties,
			away_wins, away_losses, away_ties,
			points_for, points_against, current_streak
		) VALUES ($1,$2,$3,$4, $5,$6,$7, $8,$9,$10, $11,$12,$13, $14,$15,$16, $17,$18,$19, $20,$21,$22)
		ON CONFLICT (dynasty_id, team_id, season, season_type) DO UPDATE SET
			wins = gridiron.standings.wins + EXCLUDED.wins,
			losses = gridiron.standings.losses + EXCLUDED.losses,
			ties = gridiron.standings.ties + EXCLUDED.ties,
			division_wins = gridiron.standings.division_wins + EXCLUDED.division_wins,
			division_losses = gridiron.standings.division_losses + EXCLUDED.division_losses,
			division_ties = gridiron.standings.division_ties + EXCLUDED.division_ties,
			conference_wins = gridiron.standings.conference_wins + EXCLUDED.conference_wins,
			conference_losses = gridiron.standings.conference_losses + EXCLUDED.conference_losses,
			conference_ties = gridiron.standings.conference_ties + EXCLUDED.conference_ties,
			home_wins = gridiron.standings.home_wins + EXCLUDED.home_wins,
			home_losses = gridiron.standings.home_losses + EXCLUDED.home_losses,
			home_ties = gridiron.standings.home_ties + EXCLUDED.home_ties,
			away_wins = gridiron.standings.away_wins + EXCLUDED.away_wins,
			away_losses = gridiron.standings.away_losses + EXCLUDED.away_losses,
			away_ties = gridiron.standings.away_ties + EXCLUDED.away_ties,
			points_for = gridiron.standings.points_for + EXCLUDED.points_for,
			points_against = gridiron.standings.points_against + EXCLUDED.points_against,
			current_streak = CASE
				WHEN EXCLUDED.current_streak = 0 THEN 0
				WHEN sign(gridiron.standings.current_streak) = sign(EXCLUDED.current_streak) OR gridiron.standings.current_streak = 0
					THEN gridiron.standings.current_streak + EXCLUDED.current_streak
				ELSE EXCLUDED.current_streak
			END`,
		g.DynastyID, d.teamID, g.Season, string(g.SeasonType),
		d.win, d.loss, d.tie,
		d.divWin, d.divLoss, d.divTie,
		d.confWin, d.confLoss, d.confTie,
		d.homeWin, d.homeLoss, d.homeTie,
		d.awayWin, d.awayLoss, d.awayTie,
		d.pointsFor, d.pointsAgainst, streakSeed(d))
	if err != nil {
		return fmt.Errorf("standings: update %s for game %s: %w", d.teamID, g.GameID, err)
	}
	return nil
}

func streakSeed(d teamDelta) int {
	switch {
	case d.win == 1:
		return 1
	case d.loss == 1:
		return -1
	default:
		return 0
	}
}
