// Package cap implements the Transaction & Cap Subsystem (spec §4.10): pure
// salary-cap math and validation over Contract/TeamCap values, a
// ManagerProposalSource external-collaborator interface, and the daily
// TransactionService evaluation loop. All money fields are whole cents
// (int64) to keep cap math exact — no float rounding in a domain where a
// cent of drift compounds across 17 contract-years.
package cap

import "github.com/mrab54/gridiron-dynasty/internal/calendar"

// ContractType discriminates the handful of deal shapes the validator and
// cap math need to treat differently (franchise tags and RFA tenders carry
// their own one-year math, for instance).
type ContractType string

const (
	ContractTypeVeteran    ContractType = "veteran"
	ContractTypeRookie     ContractType = "rookie"
	ContractTypeFranchiseTag ContractType = "franchise_tag"
	ContractTypeRFATender  ContractType = "rfa_tender"
)

// ContractYearDetail is one season's slice of a Contract: the base salary
// plus every bonus component that contributes to that year's cap hit.
type ContractYearDetail struct {
	Year int

	BaseSalaryCents      int64
	SigningBonusProrationCents int64
	OptionBonusProrationCents  int64
	RosterBonusCents      int64
	WorkoutBonusCents      int64
	LTBEIncentiveCents     int64 // likely-to-be-earned: counts against this year's cap
	NLTBECreditCents       int64 // not-likely-to-be-earned incentives earned last year, credited against this year

	BaseSalaryGuaranteed bool
}

// CapHit is the total charge ContractYearDetail places on the team's cap
// for its Year (spec §4.10: base + all bonuses + proration + LTBE − prior
// year's credited NLTBE).
func (d ContractYearDetail) CapHit() int64 {
	return d.BaseSalaryCents +
		d.SigningBonusProrationCents +
		d.OptionBonusProrationCents +
		d.RosterBonusCents +
		d.WorkoutBonusCents +
		d.LTBEIncentiveCents -
		d.NLTBECreditCents
}

// Contract is a player's deal with a team: total obligation, signing bonus
// proration schedule, guarantees, and the per-year breakdown.
type Contract struct {
	ContractID string
	PlayerID   string
	TeamID     string
	DynastyID  string

	StartYear int
	EndYear   int
	Type      ContractType

	TotalValueCents   int64
	SigningBonusCents int64
	ProrationYears     int // signing bonus prorates over <= 5 years (spec §3)

	IsActive   bool
	SignedDate calendar.Date
	VoidedDate *calendar.Date

	Years []ContractYearDetail
}

// YearDetail returns the ContractYearDetail for year, or the zero value and
// false if the contract doesn't cover that year.
func (c Contract) YearDetail(year int) (ContractYearDetail, bool) {
	for _, y := range c.Years {
		if y.Year == year {
			return y, true
		}
	}
	return ContractYearDetail{}, false
}

// RemainingYears returns the years still on the books on or after fromYear
// (inclusive), the years a release would accelerate proration for.
func (c Contract) RemainingYears(fromYear int) []ContractYearDetail {
	var out []ContractYearDetail
	for _, y := range c.Years {
		if y.Year >= fromYear {
			out = append(out, y)
		}
	}
	return out
}

// SigningBonusPerYear is the flat annual proration of the signing bonus.
// CapHit and DeadMoney do not call it; they read each year's
// SigningBonusProrationCents directly.
func (c Contract) SigningBonusPerYear() int64 {
	if c.ProrationYears <= 0 {
		return 0
	}
	return c.SigningBonusCents / int64(c.ProrationYears)
}
