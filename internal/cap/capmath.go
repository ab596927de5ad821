package cap

// TeamCap is one team's cap ledger for one (dynasty, season): limit,
// carryover, and the running totals that feed team_cap_space (spec §3/§4.10).
type TeamCap struct {
	TeamID    string
	Season    int
	DynastyID string

	CapLimitCents   int64
	CarryoverCents  int64

	ActiveContractsTotalCents int64
	Top51TotalCents           int64
	DeadMoneyCents            int64
	LTBEIncentivesCents       int64
	PracticeSquadCents        int64

	// Top51Active is true exactly when the team is in the offseason
	// top-51 accounting mode (spec §3 invariant): false during the
	// regular season, true otherwise.
	Top51Active bool
}

// TeamCapSpace computes cap space (spec §4.10): cap_limit + carryover −
// (top_51_total if offseason else active_contracts_total) − dead_money −
// LTBE − practice_squad.
func TeamCapSpace(tc TeamCap) int64 {
	activeBase := tc.ActiveContractsTotalCents
	if tc.Top51Active {
		activeBase = tc.Top51TotalCents
	}
	return tc.CapLimitCents + tc.CarryoverCents - activeBase - tc.DeadMoneyCents - tc.LTBEIncentivesCents - tc.PracticeSquadCents
}

// DeadMoneyResult is the outcome of releasing a contract: how much charges
// the current cap year versus (if June-1 designated) the next one.
type DeadMoneyResult struct {
	ReleaseYear        int
	CurrentYearCents    int64
	NextYearCents       int64
	JuneOneDesignation bool
}

// TotalCents is the full obligation the release creates, split or not.
func (d DeadMoneyResult) TotalCents() int64 {
	return d.CurrentYearCents + d.NextYearCents
}

// DeadMoney computes the dead money created by releasing c effective
// releaseYear (spec §4.10): remaining prorated signing bonus across every
// year from releaseYear through the contract's end, plus any fully
// guaranteed salary in years after releaseYear. A June-1 designation
// leaves the release year's own proration (plus the guaranteed salary) on
// the current year and pushes every later year's proration to the next
// cap year; without it, everything lands on the current year at once.
func DeadMoney(c Contract, releaseYear int, juneOneDesignation bool) DeadMoneyResult {
	remaining := c.RemainingYears(releaseYear)

	var totalProration, currentYearProration, guaranteedFutureSalary int64
	for _, y := range remaining {
		totalProration += y.SigningBonusProrationCents
		if y.Year == releaseYear {
			currentYearProration = y.SigningBonusProrationCents
		} else if y.BaseSalaryGuaranteed {
			guaranteedFutureSalary += y.BaseSalaryCents
		}
	}
	futureProration := totalProration - currentYearProration

	if !juneOneDesignation {
		return DeadMoneyResult{
			ReleaseYear:      releaseYear,
			CurrentYearCents: totalProration + guaranteedFutureSalary,
			JuneOneDesignation: false,
		}
	}

	return DeadMoneyResult{
		ReleaseYear:        releaseYear,
		CurrentYearCents:    currentYearProration + guaranteedFutureSalary,
		NextYearCents:       futureProration,
		JuneOneDesignation: true,
	}
}
