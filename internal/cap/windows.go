package cap

import (
	"github.com/mrab54/gridiron-dynasty/internal/calendar"
	"github.com/mrab54/gridiron-dynasty/internal/phasekind"
)

// Windows bundles the configured legal-transaction windows for one season.
// Values are league configuration, not computed — a validator gate blocks
// every transaction kind outside its window (spec §4.10).
type Windows struct {
	// TradeDeadlineWeek is the last regular-season week trades are legal
	// in (spec: weeks 1-8).
	TradeDeadlineWeek int

	FreeAgencyStart, FreeAgencyEnd calendar.Date
	DraftStart, DraftEnd           calendar.Date
	FranchiseTagStart, FranchiseTagEnd calendar.Date
}

// TradeAllowed reports whether a trade may be executed in phase at week.
func (w Windows) TradeAllowed(phase phasekind.Phase, week int) bool {
	return phase == phasekind.RegularSeason && week >= 1 && week <= w.TradeDeadlineWeek
}

// UFASigningAllowed reports whether an unrestricted free-agent signing may
// be executed on today.
func (w Windows) UFASigningAllowed(phase phasekind.Phase, today calendar.Date) bool {
	return phase == phasekind.Offseason && withinWindow(today, w.FreeAgencyStart, w.FreeAgencyEnd)
}

// DraftPickAllowed reports whether a draft pick may be made on today.
func (w Windows) DraftPickAllowed(today calendar.Date) bool {
	return withinWindow(today, w.DraftStart, w.DraftEnd)
}

// FranchiseTagAllowed reports whether a franchise tag may be applied on
// today.
func (w Windows) FranchiseTagAllowed(today calendar.Date) bool {
	return withinWindow(today, w.FranchiseTagStart, w.FranchiseTagEnd)
}

func withinWindow(d, start, end calendar.Date) bool {
	return !d.Before(start) && !d.After(end)
}
