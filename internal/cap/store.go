package cap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/mrab54/gridiron-dynasty/internal/calendar"
	"github.com/mrab54/gridiron-dynasty/internal/database"
)

// execer is the common slice of *database.DB and pgx.Tx that
// saveTeamCapQuery needs — letting a cap ledger update run either on its own
// or folded into a larger transaction (a release's contract-void plus
// dead-money insert) without two copies of the upsert SQL.
type execer interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// Store persists contracts, team cap ledgers, dead money, and the
// cap_transactions audit log (spec §3/§6). It satisfies the Repository
// interface TransactionService consumes.
type Store struct {
	db     *database.DB
	logger zerolog.Logger
}

// NewStore constructs a Store over db.
func NewStore(db *database.DB, logger zerolog.Logger) *Store {
	return &Store{db: db, logger: logger.With().Str("component", "cap.store").Logger()}
}

// GetTeamCap loads a team's cap ledger for (dynasty, team, season),
// returning a zero-limit row (not an error) when none exists yet — the
// first transaction of a fresh dynasty's offseason sees an all-zero ledger
// rather than having to special-case a missing row.
func (s *Store) GetTeamCap(ctx context.Context, dynastyID, teamID string, season int) (TeamCap, error) {
	row := s.db.QueryRow(ctx, `
		SELECT dynasty_id, team_id, season, cap_limit_cents, carryover_cents,
		       active_contracts_total_cents, top_51_total_cents, dead_money_cents,
		       ltbe_incentives_cents, practice_squad_cents, top_51_active
		FROM gridiron.team_salary_cap
		WHERE dynasty_id = $1 AND team_id = $2 AND season = $3`,
		dynastyID, teamID, season)

	var tc TeamCap
	err := row.Scan(&tc.DynastyID, &tc.TeamID, &tc.Season, &tc.CapLimitCents, &tc.CarryoverCents,
		&tc.ActiveContractsTotalCents, &tc.Top51TotalCents, &tc.DeadMoneyCents,
		&tc.LTBEIncentivesCents, &tc.PracticeSquadCents, &tc.Top51Active)
	if err == pgx.ErrNoRows {
		return TeamCap{DynastyID: dynastyID, TeamID: teamID, Season: season}, nil
	}
	if err != nil {
		return TeamCap{}, fmt.Errorf("cap: get team cap %s/%s/%d: %w", dynastyID, teamID, season, err)
	}
	return tc, nil
}

// SaveTeamCap upserts a team's cap ledger.
func (s *Store) SaveTeamCap(ctx context.Context, tc TeamCap) error {
	return saveTeamCapQuery(ctx, s.db, tc)
}

func saveTeamCapQuery(ctx context.Context, ex execer, tc TeamCap) error {
	_, err := ex.Exec(ctx, `
		INSERT INTO gridiron.team_salary_cap (
			dynasty_id, team_id, season, cap_limit_cents, carryover_cents,
			active_contracts_total_cents, top_51_total_cents, dead_money_cents,
			ltbe_incentives_cents, practice_squad_cents, top_51_active
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (dynasty_id, team_id, season) DO UPDATE SET
			cap_limit_cents = EXCLUDED.cap_limit_cents,
			carryover_cents = EXCLUDED.carryover_cents,
			active_contracts_total_cents = EXCLUDED.active_contracts_total_cents,
			top_51_total_cents = EXCLUDED.top_51_total_cents,
			dead_money_cents = EXCLUDED.dead_money_cents,
			ltbe_incentives_cents = EXCLUDED.ltbe_incentives_cents,
			practice_squad_cents = EXCLUDED.practice_squad_cents,
			top_51_active = EXCLUDED.top_51_active`,
		tc.DynastyID, tc.TeamID, tc.Season, tc.CapLimitCents, tc.CarryoverCents,
		tc.ActiveContractsTotalCents, tc.Top51TotalCents, tc.DeadMoneyCents,
		tc.LTBEIncentivesCents, tc.PracticeSquadCents, tc.Top51Active)
	if err != nil {
		return fmt.Errorf("cap: save team cap %s/%s/%d: %w", tc.DynastyID, tc.TeamID, tc.Season, err)
	}
	return nil
}

// LogTransaction records one evaluated proposal, approved or rejected, to
// cap_transactions for audit (spec §3/§6).
func (s *Store) LogTransaction(ctx context.Context, entry TransactionLogEntry) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO gridiron.cap_transactions (
			dynasty_id, team_id, player_id, kind, approved, reason, season, occurred_date
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		entry.DynastyID, entry.TeamID, entry.PlayerID, string(entry.Kind), entry.Approved, string(entry.Reason),
		entry.Season, entry.Date.String())
	if err != nil {
		return fmt.Errorf("cap: log transaction for %s/%s: %w", entry.DynastyID, entry.TeamID, err)
	}
	return nil
}

// SaveContract persists an approved signing/tag/tender's full contract terms
// in its own transaction — the Repository-facing counterpart to
// InsertContract for callers that have no larger transaction to fold into.
func (s *Store) SaveContract(ctx context.Context, c Contract) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("cap: begin tx for contract %s: %w", c.ContractID, err)
	}
	defer tx.Rollback(ctx)

	if err := s.InsertContract(ctx, tx, c); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// GetActiveContract returns the contract currently on the books for (team,
// player) in dynastyID, or ok=false if none is active — the lookup a
// release needs since ManagerProposal carries only the player being cut, not
// a contract id.
func (s *Store) GetActiveContract(ctx context.Context, dynastyID, teamID, playerID string) (Contract, bool, error) {
	row := s.db.QueryRow(ctx, `
		SELECT contract_id, player_id, team_id, dynasty_id, start_year, end_year, type,
		       total_value_cents, signing_bonus_cents, proration_years, is_active, signed_date, voided_date
		FROM gridiron.player_contracts
		WHERE dynasty_id = $1 AND team_id = $2 AND player_id = $3 AND is_active = true`,
		dynastyID, teamID, playerID)

	var c Contract
	var contractType string
	var signedDate string
	var voidedDate *string
	err := row.Scan(&c.ContractID, &c.PlayerID, &c.TeamID, &c.DynastyID, &c.StartYear, &c.EndYear, &contractType,
		&c.TotalValueCents, &c.SigningBonusCents, &c.ProrationYears, &c.IsActive, &signedDate, &voidedDate)
	if err == pgx.ErrNoRows {
		return Contract{}, false, nil
	}
	if err != nil {
		return Contract{}, false, fmt.Errorf("cap: get active contract %s/%s/%s: %w", dynastyID, teamID, playerID, err)
	}
	c.Type = ContractType(contractType)
	if c.SignedDate, err = calendar.ParseISO(signedDate); err != nil {
		return Contract{}, false, fmt.Errorf("cap: parse signed date for contract %s: %w", c.ContractID, err)
	}
	if voidedDate != nil {
		d, err := calendar.ParseISO(*voidedDate)
		if err != nil {
			return Contract{}, false, fmt.Errorf("cap: parse voided date for contract %s: %w", c.ContractID, err)
		}
		c.VoidedDate = &d
	}

	years, err := s.db.Query(ctx, `
		SELECT year, base_salary_cents, signing_bonus_proration_cents, option_bonus_proration_cents,
		       roster_bonus_cents, workout_bonus_cents, ltbe_incentive_cents, nltbe_credit_cents, base_salary_guaranteed
		FROM gridiron.contract_year_details
		WHERE contract_id = $1
		ORDER BY year`,
		c.ContractID)
	if err != nil {
		return Contract{}, false, fmt.Errorf("cap: load contract years for %s: %w", c.ContractID, err)
	}
	defer years.Close()

	for years.Next() {
		var y ContractYearDetail
		if err := years.Scan(&y.Year, &y.BaseSalaryCents, &y.SigningBonusProrationCents, &y.OptionBonusProrationCents,
			&y.RosterBonusCents, &y.WorkoutBonusCents, &y.LTBEIncentiveCents, &y.NLTBECreditCents, &y.BaseSalaryGuaranteed); err != nil {
			return Contract{}, false, fmt.Errorf("cap: scan contract year for %s: %w", c.ContractID, err)
		}
		c.Years = append(c.Years, y)
	}
	if err := years.Err(); err != nil {
		return Contract{}, false, fmt.Errorf("cap: read contract years for %s: %w", c.ContractID, err)
	}
	return c, true, nil
}

// ExecuteRelease voids contractID and books its dead money, then updates the
// releasing team's cap ledger to tc — all inside one transaction, so the
// release and its cap-space effect land atomically (spec §7: a release's
// ledger update and its dead-money row must not be observable separately).
func (s *Store) ExecuteRelease(ctx context.Context, contractID string, releaseDate calendar.Date, dead DeadMoneyResult, tc TeamCap) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("cap: begin tx for release %s: %w", contractID, err)
	}
	defer tx.Rollback(ctx)

	if err := s.ReleaseContract(ctx, tx, contractID, releaseDate, dead); err != nil {
		return err
	}
	if err := saveTeamCapQuery(ctx, tx, tc); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// InsertContract persists a freshly signed or tagged contract along with
// its year-by-year breakdown.
func (s *Store) InsertContract(ctx context.Context, tx pgx.Tx, c Contract) error {
	var voided *string
	if c.VoidedDate != nil {
		s := c.VoidedDate.String()
		voided = &s
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO gridiron.player_contracts (
			contract_id, player_id, team_id, dynasty_id, start_year, end_year, type,
			total_value_cents, signing_bonus_cents, proration_years, is_active, signed_date, voided_date
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (contract_id) DO NOTHING`,
		c.ContractID, c.PlayerID, c.TeamID, c.DynastyID, c.StartYear, c.EndYear, string(c.Type),
		c.TotalValueCents, c.SigningBonusCents, c.ProrationYears, c.IsActive, c.SignedDate.String(), voided)
	if err != nil {
		return fmt.Errorf("cap: insert contract %s: %w", c.ContractID, err)
	}

	for _, y := range c.Years {
		if _, err := tx.Exec(ctx, `
			INSERT INTO gridiron.contract_year_details (
				contract_id, year, base_salary_cents, signing_bonus_proration_cents,
				option_bonus_proration_cents, roster_bonus_cents, workout_bonus_cents,
				ltbe_incentive_cents, nltbe_credit_cents, base_salary_guaranteed
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
			ON CONFLICT (contract_id, year) DO NOTHING`,
			c.ContractID, y.Year, y.BaseSalaryCents, y.SigningBonusProrationCents,
			y.OptionBonusProrationCents, y.RosterBonusCents, y.WorkoutBonusCents,
			y.LTBEIncentiveCents, y.NLTBECreditCents, y.BaseSalaryGuaranteed); err != nil {
			return fmt.Errorf("cap: insert contract year %s/%d: %w", c.ContractID, y.Year, err)
		}
	}
	return nil
}

// ReleaseContract voids the contract and records the resulting dead money
// row(s), inside the same transaction the caller uses to update the
// releasing team's cap ledger (spec §3: dead money may split across two
// years on a June-1 designation).
func (s *Store) ReleaseContract(ctx context.Context, tx pgx.Tx, contractID string, releaseDate calendar.Date, dead DeadMoneyResult) error {
	if _, err := tx.Exec(ctx, `UPDATE gridiron.player_contracts SET is_active = false, voided_date = $2 WHERE contract_id = $1`,
		contractID, releaseDate.String()); err != nil {
		return fmt.Errorf("cap: void contract %s: %w", contractID, err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO gridiron.dead_money (
			contract_id, release_year, current_year_cents, next_year_cents, june_one_designation
		) VALUES ($1,$2,$3,$4,$5)`,
		contractID, dead.ReleaseYear, dead.CurrentYearCents, dead.NextYearCents, dead.JuneOneDesignation); err != nil {
		return fmt.Errorf("cap: insert dead money for %s: %w", contractID, err)
	}
	return nil
}

// ReconcileDeadMoney recomputes every team's dead_money_cents for season
// from the dead_money ledger and rewrites team_salary_cap accordingly. It
// is the nightly counterpart to ReleaseContract: a release books its
// current-year and (if June-1 designated) next-year charges once, at
// release time, but a team's ledger for a season it hasn't reached yet
// still needs that future charge folded in once the season turns over, and
// this is the job that does the folding. Intended to run once per night
// from commissioner mode rather than after every release, so a single
// night with zero releases is a cheap no-op re-sum.
func (s *Store) ReconcileDeadMoney(ctx context.Context, dynastyID string, season int) (int, error) {
	rows, err := s.db.Query(ctx, `
		SELECT pc.team_id, SUM(
			CASE
				WHEN dm.release_year = $2 THEN dm.current_year_cents
				WHEN dm.release_year = $2 - 1 AND dm.june_one_designation THEN dm.next_year_cents
				ELSE 0
			END
		) AS dead_money_cents
		FROM gridiron.dead_money dm
		JOIN gridiron.player_contracts pc ON pc.contract_id = dm.contract_id
		WHERE pc.dynasty_id = $1
		  AND (dm.release_year = $2 OR (dm.release_year = $2 - 1 AND dm.june_one_designation))
		GROUP BY pc.team_id`,
		dynastyID, season)
	if err != nil {
		return 0, fmt.Errorf("cap: reconcile dead money for %s/%d: query: %w", dynastyID, season, err)
	}
	defer rows.Close()

	totals := make(map[string]int64)
	for rows.Next() {
		var teamID string
		var cents int64
		if err := rows.Scan(&teamID, &cents); err != nil {
			return 0, fmt.Errorf("cap: reconcile dead money for %s/%d: scan: %w", dynastyID, season, err)
		}
		totals[teamID] = cents
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("cap: reconcile dead money for %s/%d: rows: %w", dynastyID, season, err)
	}

	for teamID, cents := range totals {
		tc, err := s.GetTeamCap(ctx, dynastyID, teamID, season)
		if err != nil {
			return 0, err
		}
		if tc.DeadMoneyCents == cents {
			continue
		}
		tc.DeadMoneyCents = cents
		if err := s.SaveTeamCap(ctx, tc); err != nil {
			return 0, err
		}
	}
	return len(totals), nil
}
