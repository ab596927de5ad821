package cap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSigningApprovesWhenSpaceStaysNonNegative(t *testing.T) {
	tc := TeamCap{ActiveContractsTotalCents: 0, CapLimitCents: 200_000_000_00, Top51Active: false}
	p := ValidateSigning("DAL", "P1", tc, 199_000_000_00)
	assert.True(t, p.Approved)
	assert.Equal(t, ReasonApproved, p.Reason)
	assert.Equal(t, int64(1_000_000_00), p.CapSpaceAfterCents)
}

func TestValidateSigningRejectsWhenSpaceWouldGoNegative(t *testing.T) {
	tc := TeamCap{ActiveContractsTotalCents: 0, CapLimitCents: 200_000_000_00, Top51Active: false}
	p := ValidateSigning("DAL", "P1", tc, 201_000_000_00)
	assert.False(t, p.Approved)
	assert.Equal(t, ReasonCapExceeded, p.Reason)
	assert.Equal(t, int64(-1_000_000_00), p.CapSpaceAfterCents)
}

func TestValidateReleaseAlwaysApproves(t *testing.T) {
	tc := TeamCap{ActiveContractsTotalCents: 180_000_000_00, CapLimitCents: 200_000_000_00}
	dead := DeadMoneyResult{CurrentYearCents: 5_000_000_00}
	p := ValidateRelease("DAL", "P1", tc, dead, 10_000_000_00)
	assert.True(t, p.Approved)
	assert.Equal(t, ReasonApproved, p.Reason)
	// TeamCapSpace(tc) = 20M; +10M removed cap hit; -5M current-year dead money.
	assert.Equal(t, int64(25_000_000_00), p.CapSpaceAfterCents)
}

func TestValidateTradeApprovesWhenBothSidesClear(t *testing.T) {
	receiving := TeamCap{CapLimitCents: 200_000_000_00, ActiveContractsTotalCents: 180_000_000_00}
	sending := TeamCap{CapLimitCents: 200_000_000_00, ActiveContractsTotalCents: 195_000_000_00}

	receiver, sender := ValidateTrade("DAL", "NYG", "P1", receiving, sending, 15_000_000_00, 15_000_000_00)
	assert.True(t, receiver.Approved)
	assert.True(t, sender.Approved)
	assert.Equal(t, int64(5_000_000_00), receiver.CapSpaceAfterCents)
	assert.Equal(t, int64(20_000_000_00), sender.CapSpaceAfterCents)
}

func TestValidateTradeIsAtomicWhenReceiverWouldGoUnderwater(t *testing.T) {
	receiving := TeamCap{CapLimitCents: 200_000_000_00, ActiveContractsTotalCents: 195_000_000_00}
	sending := TeamCap{CapLimitCents: 200_000_000_00, ActiveContractsTotalCents: 100_000_000_00}

	receiver, sender := ValidateTrade("DAL", "NYG", "P1", receiving, sending, 10_000_000_00, 50_000_000_00)
	assert.False(t, receiver.Approved)
	assert.Equal(t, ReasonCapExceeded, receiver.Reason)
	// The sender individually clears, but the trade is atomic: neither side
	// executes when the other can't.
	assert.False(t, sender.Approved)
	assert.Equal(t, ReasonApproved, sender.Reason)
}

func TestValidateTradeIsAtomicWhenSenderWouldGoUnderwater(t *testing.T) {
	receiving := TeamCap{CapLimitCents: 200_000_000_00, ActiveContractsTotalCents: 50_000_000_00}
	// Already deeply over the cap even after the relief the trade grants it.
	sending := TeamCap{CapLimitCents: 200_000_000_00, ActiveContractsTotalCents: 260_000_000_00}

	receiver, sender := ValidateTrade("DAL", "NYG", "P1", receiving, sending, 10_000_000_00, 1_000_000_00)
	assert.False(t, sender.Approved)
	assert.Equal(t, ReasonCounterpartyCapExceeded, sender.Reason)

	// Atomicity flips the receiver back to unapproved even though its own
	// math cleared.
	assert.False(t, receiver.Approved)
	assert.Equal(t, ReasonApproved, receiver.Reason)
}

func TestFranchiseTagSalaryUsesGreaterOfTopFiveOrRaisedPrior(t *testing.T) {
	assert.Equal(t, int64(20_000_000_00), FranchiseTagSalaryCents(20_000_000_00, 10_000_000_00))
	assert.Equal(t, int64(18_000_000_00), FranchiseTagSalaryCents(10_000_000_00, 15_000_000_00))
}

func TestValidateFranchiseTagRejectsOutsideWindow(t *testing.T) {
	tc := TeamCap{CapLimitCents: 200_000_000_00}
	p := ValidateFranchiseTag("DAL", "P1", false, tc, 20_000_000_00, 10_000_000_00)
	assert.False(t, p.Approved)
	assert.Equal(t, ReasonOutsideWindow, p.Reason)
	assert.Equal(t, KindFranchiseTag, p.Kind)
}

func TestValidateFranchiseTagApprovesWithinWindowAndLabelsKind(t *testing.T) {
	tc := TeamCap{CapLimitCents: 200_000_000_00, ActiveContractsTotalCents: 170_000_000_00}
	p := ValidateFranchiseTag("DAL", "P1", true, tc, 20_000_000_00, 10_000_000_00)
	assert.True(t, p.Approved)
	assert.Equal(t, KindFranchiseTag, p.Kind)
	assert.Equal(t, ReasonApproved, p.Reason)
}
