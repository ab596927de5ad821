package cap

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrab54/gridiron-dynasty/internal/calendar"
)

type fakeManagerSource struct {
	proposals map[string][]ManagerProposal
}

func (f *fakeManagerSource) ProposeTransactions(ctx context.Context, dynastyID, teamID string, today calendar.Date) ([]ManagerProposal, error) {
	return f.proposals[teamID], nil
}

type fakeRepository struct {
	caps      map[string]TeamCap
	entries   []TransactionLogEntry
	contracts map[string]Contract // keyed by ContractID
	released  []string            // contract IDs ExecuteRelease voided
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{caps: make(map[string]TeamCap), contracts: make(map[string]Contract)}
}

func (f *fakeRepository) key(teamID string, season int) string {
	return teamID
}

func (f *fakeRepository) GetTeamCap(ctx context.Context, dynastyID, teamID string, season int) (TeamCap, error) {
	if tc, ok := f.caps[f.key(teamID, season)]; ok {
		return tc, nil
	}
	return TeamCap{DynastyID: dynastyID, TeamID: teamID, Season: season}, nil
}

func (f *fakeRepository) SaveTeamCap(ctx context.Context, tc TeamCap) error {
	f.caps[f.key(tc.TeamID, tc.Season)] = tc
	return nil
}

func (f *fakeRepository) LogTransaction(ctx context.Context, entry TransactionLogEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeRepository) SaveContract(ctx context.Context, c Contract) error {
	f.contracts[c.ContractID] = c
	return nil
}

func (f *fakeRepository) GetActiveContract(ctx context.Context, dynastyID, teamID, playerID string) (Contract, bool, error) {
	for _, c := range f.contracts {
		if c.DynastyID == dynastyID && c.TeamID == teamID && c.PlayerID == playerID && c.IsActive {
			return c, true, nil
		}
	}
	return Contract{}, false, nil
}

func (f *fakeRepository) ExecuteRelease(ctx context.Context, contractID string, releaseDate calendar.Date, dead DeadMoneyResult, tc TeamCap) error {
	c := f.contracts[contractID]
	c.IsActive = false
	c.VoidedDate = &releaseDate
	f.contracts[contractID] = c
	f.released = append(f.released, contractID)
	f.caps[f.key(tc.TeamID, tc.Season)] = tc
	return nil
}

func TestEvaluateDayApprovesSigningWithinWindowAndCap(t *testing.T) {
	repo := newFakeRepository()
	repo.caps["DAL"] = TeamCap{TeamID: "DAL", Season: 2026, CapLimitCents: 200_000_000_00, ActiveContractsTotalCents: 150_000_000_00}

	src := &fakeManagerSource{proposals: map[string][]ManagerProposal{
		"DAL": {{Kind: KindSigning, TeamID: "DAL", PlayerID: "P1", NewCapHitCents: 10_000_000_00}},
	}}

	w := testWindows()
	svc := NewTransactionService(src, repo, w, zerolog.Nop())

	results, err := svc.EvaluateDay(context.Background(), "dyn1", []string{"DAL"}, 2026, 3, calendar.New(2026, 4, 1))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Approved)
	assert.Equal(t, ReasonApproved, results[0].Reason)
	assert.Len(t, repo.entries, 1)
	assert.Equal(t, int64(160_000_000_00), repo.caps["DAL"].ActiveContractsTotalCents)
}

func TestEvaluateDayRejectsSigningOutsideFreeAgencyWindow(t *testing.T) {
	repo := newFakeRepository()
	repo.caps["DAL"] = TeamCap{TeamID: "DAL", Season: 2026, CapLimitCents: 200_000_000_00}

	src := &fakeManagerSource{proposals: map[string][]ManagerProposal{
		"DAL": {{Kind: KindSigning, TeamID: "DAL", PlayerID: "P1", NewCapHitCents: 1_000_000_00}},
	}}

	w := testWindows()
	svc := NewTransactionService(src, repo, w, zerolog.Nop())

	results, err := svc.EvaluateDay(context.Background(), "dyn1", []string{"DAL"}, 2026, 3, calendar.New(2026, 1, 1))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Approved)
	assert.Equal(t, ReasonOutsideWindow, results[0].Reason)
	// A rejected proposal never touches the team's cap ledger.
	assert.Equal(t, int64(0), repo.caps["DAL"].ActiveContractsTotalCents)
}

func TestEvaluateDayDedupsMultipleProposalsForSamePlayer(t *testing.T) {
	repo := newFakeRepository()
	repo.caps["DAL"] = TeamCap{TeamID: "DAL", Season: 2026, CapLimitCents: 200_000_000_00}

	src := &fakeManagerSource{proposals: map[string][]ManagerProposal{
		"DAL": {
			{Kind: KindSigning, TeamID: "DAL", PlayerID: "P1", NewCapHitCents: 1_000_000_00},
			{Kind: KindSigning, TeamID: "DAL", PlayerID: "P1", NewCapHitCents: 2_000_000_00},
		},
	}}

	w := testWindows()
	svc := NewTransactionService(src, repo, w, zerolog.Nop())

	results, err := svc.EvaluateDay(context.Background(), "dyn1", []string{"DAL"}, 2026, 3, calendar.New(2026, 4, 1))
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestEvaluateDayTradeUpdatesBothTeamsCapLedgers(t *testing.T) {
	repo := newFakeRepository()
	repo.caps["DAL"] = TeamCap{TeamID: "DAL", Season: 2026, CapLimitCents: 200_000_000_00, ActiveContractsTotalCents: 150_000_000_00}
	repo.caps["NYG"] = TeamCap{TeamID: "NYG", Season: 2026, CapLimitCents: 200_000_000_00, ActiveContractsTotalCents: 150_000_000_00}

	src := &fakeManagerSource{proposals: map[string][]ManagerProposal{
		"DAL": {{
			Kind: KindTrade, TeamID: "DAL", PlayerID: "P1", CounterpartyTeamID: "NYG",
			IncomingCapHitCents: 5_000_000_00, OutgoingCapHitRemovedCents: 5_000_000_00,
		}},
	}}

	w := testWindows()
	svc := NewTransactionService(src, repo, w, zerolog.Nop())

	results, err := svc.EvaluateDay(context.Background(), "dyn1", []string{"DAL"}, 2026, 3, calendar.New(2026, 4, 1))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Approved)
	assert.Equal(t, int64(155_000_000_00), repo.caps["DAL"].ActiveContractsTotalCents)
	assert.Equal(t, int64(145_000_000_00), repo.caps["NYG"].ActiveContractsTotalCents)
}

func TestEvaluateDayReleaseAlwaysApprovesAndBooksDeadMoney(t *testing.T) {
	repo := newFakeRepository()
	repo.caps["DAL"] = TeamCap{TeamID: "DAL", Season: 2026, CapLimitCents: 200_000_000_00, ActiveContractsTotalCents: 150_000_000_00}
	repo.contracts["c1"] = Contract{
		ContractID: "c1", PlayerID: "P1", TeamID: "DAL", DynastyID: "dyn1",
		StartYear: 2024, EndYear: 2027, Type: ContractTypeVeteran, IsActive: true,
		SigningBonusCents: 8_000_000_00, ProrationYears: 4,
		Years: []ContractYearDetail{
			{Year: 2026, BaseSalaryCents: 3_000_000_00, SigningBonusProrationCents: 2_000_000_00},
			{Year: 2027, SigningBonusProrationCents: 2_000_000_00},
		},
	}

	src := &fakeManagerSource{proposals: map[string][]ManagerProposal{
		"DAL": {{Kind: KindRelease, TeamID: "DAL", PlayerID: "P1"}},
	}}

	w := testWindows()
	svc := NewTransactionService(src, repo, w, zerolog.Nop())

	results, err := svc.EvaluateDay(context.Background(), "dyn1", []string{"DAL"}, 2026, 3, calendar.New(2026, 4, 1))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Approved)
	assert.Equal(t, ReasonApproved, results[0].Reason)

	// Current year's cap hit (base salary + proration) leaves the active
	// total, and its dead money (all proration, no guarantee) lands on the
	// ledger instead.
	assert.Equal(t, int64(145_000_000_00), repo.caps["DAL"].ActiveContractsTotalCents)
	assert.Equal(t, int64(4_000_000_00), repo.caps["DAL"].DeadMoneyCents)
	require.Len(t, repo.released, 1)
	assert.Equal(t, "c1", repo.released[0])
	assert.False(t, repo.contracts["c1"].IsActive)
}

func TestEvaluateDayReleaseRejectsWithoutAnActiveContract(t *testing.T) {
	repo := newFakeRepository()
	repo.caps["DAL"] = TeamCap{TeamID: "DAL", Season: 2026, CapLimitCents: 200_000_000_00}

	src := &fakeManagerSource{proposals: map[string][]ManagerProposal{
		"DAL": {{Kind: KindRelease, TeamID: "DAL", PlayerID: "P1"}},
	}}

	w := testWindows()
	svc := NewTransactionService(src, repo, w, zerolog.Nop())

	results, err := svc.EvaluateDay(context.Background(), "dyn1", []string{"DAL"}, 2026, 3, calendar.New(2026, 4, 1))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Approved)
	assert.Equal(t, ReasonNoActiveContract, results[0].Reason)
}
