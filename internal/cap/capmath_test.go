package cap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContractYearDetailCapHit(t *testing.T) {
	y := ContractYearDetail{
		Year:                       2026,
		BaseSalaryCents:            1_000_000_00,
		SigningBonusProrationCents: 300_000_00,
		RosterBonusCents:           50_000_00,
		LTBEIncentiveCents:         100_000_00,
		NLTBECreditCents:           20_000_00,
	}
	assert.Equal(t, int64(1_430_000_00), y.CapHit())
}

func TestTeamCapSpaceRegularSeasonUsesActiveContractsTotal(t *testing.T) {
	tc := TeamCap{
		CapLimitCents:             200_000_000_00,
		CarryoverCents:            5_000_000_00,
		ActiveContractsTotalCents: 180_000_000_00,
		Top51TotalCents:           150_000_000_00,
		DeadMoneyCents:            10_000_000_00,
		Top51Active:               false,
	}
	assert.Equal(t, int64(15_000_000_00), TeamCapSpace(tc))
}

func TestTeamCapSpaceOffseasonUsesTop51Total(t *testing.T) {
	tc := TeamCap{
		CapLimitCents:             200_000_000_00,
		ActiveContractsTotalCents: 180_000_000_00,
		Top51TotalCents:           150_000_000_00,
		Top51Active:               true,
	}
	assert.Equal(t, int64(50_000_000_00), TeamCapSpace(tc))
}

// TestDeadMoneyJuneOneDesignationSplits exercises spec §8 scenario S6:
// $8M remaining proration + $2M guaranteed future salary, released with a
// June-1 designation, current-year dead money is this year's proration
// plus the guarantee, next-year dead money is the remaining proration, and
// the two sum to $10M.
func TestDeadMoneyJuneOneDesignationSplits(t *testing.T) {
	c := Contract{
		Years: []ContractYearDetail{
			{Year: 2026, SigningBonusProrationCents: 300_000_000},
			{Year: 2027, SigningBonusProrationCents: 500_000_000, BaseSalaryCents: 200_000_000, BaseSalaryGuaranteed: true},
		},
	}

	dead := DeadMoney(c, 2026, true)
	assert.Equal(t, int64(500_000_000), dead.CurrentYearCents) // $3M proration + $2M guaranteed
	assert.Equal(t, int64(500_000_000), dead.NextYearCents)
	assert.Equal(t, int64(1_000_000_000), dead.TotalCents()) // $10M
}

func TestDeadMoneyWithoutJuneOneLandsAllInCurrentYear(t *testing.T) {
	c := Contract{
		Years: []ContractYearDetail{
			{Year: 2026, SigningBonusProrationCents: 300_000_000},
			{Year: 2027, SigningBonusProrationCents: 500_000_000, BaseSalaryCents: 200_000_000, BaseSalaryGuaranteed: true},
		},
	}

	dead := DeadMoney(c, 2026, false)
	assert.Equal(t, int64(1_000_000_000), dead.CurrentYearCents)
	assert.Equal(t, int64(0), dead.NextYearCents)
}

func TestDeadMoneyIgnoresPastYears(t *testing.T) {
	c := Contract{
		Years: []ContractYearDetail{
			{Year: 2024, SigningBonusProrationCents: 900_000_000},
			{Year: 2026, SigningBonusProrationCents: 300_000_000},
		},
	}
	dead := DeadMoney(c, 2026, false)
	assert.Equal(t, int64(300_000_000), dead.CurrentYearCents)
}
