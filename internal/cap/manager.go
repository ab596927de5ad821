package cap

import (
	"context"

	"github.com/mrab54/gridiron-dynasty/internal/calendar"
)

// ManagerProposal is one prospective transaction an AI Manager would like
// to execute for its team today. Fields beyond Kind/TeamID/PlayerID are
// populated only for the kinds that need them.
type ManagerProposal struct {
	Kind     Kind
	TeamID   string
	PlayerID string

	NewCapHitCents int64     // signing, franchise tag, rfa tender
	NewContract    *Contract // signing, franchise tag, rfa tender: full terms to record if approved

	CounterpartyTeamID         string // trade
	IncomingCapHitCents        int64  // trade: what the proposing team would absorb
	OutgoingCapHitRemovedCents int64  // trade: cap relief the counterparty gets

	JuneOneDesignation bool // release
}

// ManagerProposalSource is the AI Manager external-collaborator contract
// (spec §4.10/§1's carve-out for roster-management AI): consumed, not
// implemented, here.
type ManagerProposalSource interface {
	ProposeTransactions(ctx context.Context, dynastyID, teamID string, today calendar.Date) ([]ManagerProposal, error)
}
