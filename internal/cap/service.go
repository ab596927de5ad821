package cap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mrab54/gridiron-dynasty/internal/calendar"
	"github.com/mrab54/gridiron-dynasty/internal/phasekind"
)

// TransactionLogEntry is one row the service writes to cap_transactions
// for audit, win or lose.
type TransactionLogEntry struct {
	DynastyID string
	TeamID    string
	PlayerID  string
	Kind      Kind
	Approved  bool
	Reason    Reason
	Season    int
	Date      calendar.Date
}

// Repository is the persistence surface TransactionService needs: reading
// and updating each team's cap ledger, recording every evaluated proposal
// (accepted or rejected) for audit, and — for the two transaction kinds that
// create or void a contract — the matching contract/dead-money writes.
type Repository interface {
	GetTeamCap(ctx context.Context, dynastyID, teamID string, season int) (TeamCap, error)
	SaveTeamCap(ctx context.Context, tc TeamCap) error
	LogTransaction(ctx context.Context, entry TransactionLogEntry) error

	// SaveContract persists an approved signing/tag/tender's contract terms.
	SaveContract(ctx context.Context, c Contract) error
	// GetActiveContract finds the contract a release proposal targets.
	GetActiveContract(ctx context.Context, dynastyID, teamID, playerID string) (Contract, bool, error)
	// ExecuteRelease voids the contract, books its dead money, and updates
	// the releasing team's ledger atomically.
	ExecuteRelease(ctx context.Context, contractID string, releaseDate calendar.Date, dead DeadMoneyResult, tc TeamCap) error
}

// TransactionService is the daily AI-evaluation loop (spec §4.10): for
// each team, ask the AI Manager for proposals, gate them by timing window,
// dedup same-player proposals within the day, validate against the cap,
// and execute (or reject and log) each surviving one. Runs only during the
// regular season (spec §4.10).
type TransactionService struct {
	managers ManagerProposalSource
	repo     Repository
	windows  Windows
	logger   zerolog.Logger
}

// NewTransactionService builds a TransactionService.
func NewTransactionService(managers ManagerProposalSource, repo Repository, windows Windows, logger zerolog.Logger) *TransactionService {
	return &TransactionService{managers: managers, repo: repo, windows: windows, logger: logger.With().Str("component", "cap.service").Logger()}
}

// EvaluateDay runs one day's evaluation loop for every team in teamIDs.
// Only called by the owning controller when phase is REGULAR_SEASON (spec
// §4.10); callers outside that phase are a programmer error, not guarded
// here, mirroring the rest of the engine's "controllers don't re-derive
// what the Season Cycle Controller already decided" convention.
func (s *TransactionService) EvaluateDay(ctx context.Context, dynastyID string, teamIDs []string, season, week int, today calendar.Date) ([]Proposal, error) {
	var results []Proposal
	seenPlayers := make(map[string]bool)
	for _, teamID := range teamIDs {
		proposed, err := s.managers.ProposeTransactions(ctx, dynastyID, teamID, today)
		if err != nil {
			return nil, fmt.Errorf("cap: propose transactions for team %s: %w", teamID, err)
		}

		for _, p := range dedupByPlayer(proposed, seenPlayers) {
			outcome, err := s.evaluateOne(ctx, dynastyID, season, week, today, p)
			if err != nil {
				return nil, err
			}
			results = append(results, outcome)
		}
	}
	return results, nil
}

// dedupByPlayer keeps only the first proposal affecting each player within
// the day (spec §4.10: "dedups proposals affecting the same player within
// the day").
func dedupByPlayer(proposals []ManagerProposal, seen map[string]bool) []ManagerProposal {
	var out []ManagerProposal
	for _, p := range proposals {
		if seen[p.PlayerID] {
			continue
		}
		seen[p.PlayerID] = true
		out = append(out, p)
	}
	return out
}

func (s *TransactionService) evaluateOne(ctx context.Context, dynastyID string, season, week int, today calendar.Date, p ManagerProposal) (Proposal, error) {
	if !s.withinWindow(p.Kind, week, today) {
		outcome := Proposal{Kind: p.Kind, TeamID: p.TeamID, PlayerID: p.PlayerID, Approved: false, Reason: ReasonOutsideWindow}
		return outcome, s.log(ctx, dynastyID, season, today, outcome)
	}

	tc, err := s.repo.GetTeamCap(ctx, dynastyID, p.TeamID, season)
	if err != nil {
		return Proposal{}, fmt.Errorf("cap: load team cap for %s: %w", p.TeamID, err)
	}

	var outcome Proposal
	switch p.Kind {
	case KindTrade:
		counterpartyCap, err := s.repo.GetTeamCap(ctx, dynastyID, p.CounterpartyTeamID, season)
		if err != nil {
			return Proposal{}, fmt.Errorf("cap: load team cap for %s: %w", p.CounterpartyTeamID, err)
		}
		receiver, _ := ValidateTrade(p.TeamID, p.CounterpartyTeamID, p.PlayerID, tc, counterpartyCap, p.IncomingCapHitCents, p.OutgoingCapHitRemovedCents)
		outcome = receiver
		if outcome.Approved {
			tc.ActiveContractsTotalCents += p.IncomingCapHitCents
			counterpartyCap.ActiveContractsTotalCents -= p.OutgoingCapHitRemovedCents
			if err := s.repo.SaveTeamCap(ctx, tc); err != nil {
				return Proposal{}, err
			}
			if err := s.repo.SaveTeamCap(ctx, counterpartyCap); err != nil {
				return Proposal{}, err
			}
		}
	case KindSigning, KindFranchiseTag, KindRFATender:
		outcome = ValidateSigning(p.TeamID, p.PlayerID, tc, p.NewCapHitCents)
		outcome.Kind = p.Kind
		if outcome.Approved {
			tc.ActiveContractsTotalCents += p.NewCapHitCents
			if p.NewContract != nil {
				if err := s.repo.SaveContract(ctx, *p.NewContract); err != nil {
					return Proposal{}, err
				}
			}
			if err := s.repo.SaveTeamCap(ctx, tc); err != nil {
				return Proposal{}, err
			}
		}

	case KindRelease:
		outcome, err = s.evaluateRelease(ctx, dynastyID, season, today, tc, p)
		if err != nil {
			return Proposal{}, err
		}

	default:
		outcome = Proposal{Kind: p.Kind, TeamID: p.TeamID, PlayerID: p.PlayerID, Approved: false, Reason: ReasonUnknownKind}
	}

	if !outcome.Approved {
		s.logger.Debug().Str("team_id", p.TeamID).Str("player_id", p.PlayerID).Str("reason", string(outcome.Reason)).
			Msg("cap transaction rejected")
	}
	return outcome, s.log(ctx, dynastyID, season, today, outcome)
}

// evaluateRelease handles KindRelease: a release is always permitted (spec
// §4.10/§7), so unlike every other kind this branch never rejects on cap
// grounds — it only fails if the proposed player has no active contract to
// release. It computes the dead money the release creates, removes the
// contract's current cap hit from the team's active total, adds the
// current-year dead money to the ledger, and persists the void plus the
// dead-money row and ledger update atomically.
func (s *TransactionService) evaluateRelease(ctx context.Context, dynastyID string, season int, today calendar.Date, tc TeamCap, p ManagerProposal) (Proposal, error) {
	contract, ok, err := s.repo.GetActiveContract(ctx, dynastyID, p.TeamID, p.PlayerID)
	if err != nil {
		return Proposal{}, fmt.Errorf("cap: load active contract for %s/%s: %w", p.TeamID, p.PlayerID, err)
	}
	if !ok {
		return Proposal{Kind: KindRelease, TeamID: p.TeamID, PlayerID: p.PlayerID, Approved: false, Reason: ReasonNoActiveContract}, nil
	}

	var removedCapHitCents int64
	if detail, ok := contract.YearDetail(season); ok {
		removedCapHitCents = detail.CapHit()
	}

	dead := DeadMoney(contract, season, p.JuneOneDesignation)
	outcome := ValidateRelease(p.TeamID, p.PlayerID, tc, dead, removedCapHitCents)

	tc.ActiveContractsTotalCents -= removedCapHitCents
	tc.DeadMoneyCents += dead.CurrentYearCents
	if err := s.repo.ExecuteRelease(ctx, contract.ContractID, today, dead, tc); err != nil {
		return Proposal{}, fmt.Errorf("cap: execute release for contract %s: %w", contract.ContractID, err)
	}
	return outcome, nil
}

func (s *TransactionService) withinWindow(kind Kind, week int, today calendar.Date) bool {
	switch kind {
	case KindTrade:
		return s.windows.TradeAllowed(phasekind.RegularSeason, week)
	case KindSigning:
		return s.windows.UFASigningAllowed(phasekind.Offseason, today)
	case KindFranchiseTag:
		return s.windows.FranchiseTagAllowed(today)
	case KindRFATender:
		return s.windows.UFASigningAllowed(phasekind.Offseason, today)
	case KindRelease:
		return true // releases are always permitted (spec §4.10)
	default:
		return false
	}
}

func (s *TransactionService) log(ctx context.Context, dynastyID string, season int, today calendar.Date, outcome Proposal) error {
	return s.repo.LogTransaction(ctx, TransactionLogEntry{
		DynastyID: dynastyID, TeamID: outcome.TeamID, PlayerID: outcome.PlayerID,
		Kind: outcome.Kind, Approved: outcome.Approved, Reason: outcome.Reason,
		Season: season, Date: today,
	})
}
