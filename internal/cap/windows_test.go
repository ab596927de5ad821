package cap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrab54/gridiron-dynasty/internal/calendar"
	"github.com/mrab54/gridiron-dynasty/internal/phasekind"
)

func testWindows() Windows {
	return Windows{
		TradeDeadlineWeek: 8,
		FreeAgencyStart:   calendar.New(2026, 3, 11),
		FreeAgencyEnd:     calendar.New(2026, 7, 1),
		DraftStart:        calendar.New(2026, 4, 23),
		DraftEnd:          calendar.New(2026, 4, 25),
		FranchiseTagStart: calendar.New(2026, 2, 18),
		FranchiseTagEnd:   calendar.New(2026, 3, 4),
	}
}

func TestTradeAllowedOnlyDuringRegularSeasonBeforeDeadline(t *testing.T) {
	w := testWindows()
	assert.True(t, w.TradeAllowed(phasekind.RegularSeason, 1))
	assert.True(t, w.TradeAllowed(phasekind.RegularSeason, 8))
	assert.False(t, w.TradeAllowed(phasekind.RegularSeason, 9))
	assert.False(t, w.TradeAllowed(phasekind.Playoffs, 1))
	assert.False(t, w.TradeAllowed(phasekind.Offseason, 1))
}

func TestUFASigningAllowedOnlyDuringOffseasonFreeAgencyWindow(t *testing.T) {
	w := testWindows()
	assert.True(t, w.UFASigningAllowed(phasekind.Offseason, calendar.New(2026, 3, 11)))
	assert.True(t, w.UFASigningAllowed(phasekind.Offseason, calendar.New(2026, 6, 1)))
	assert.False(t, w.UFASigningAllowed(phasekind.Offseason, calendar.New(2026, 3, 10)))
	assert.False(t, w.UFASigningAllowed(phasekind.Offseason, calendar.New(2026, 7, 2)))
	assert.False(t, w.UFASigningAllowed(phasekind.RegularSeason, calendar.New(2026, 4, 1)))
}

func TestDraftPickAllowedWithinDraftWindowRegardlessOfPhase(t *testing.T) {
	w := testWindows()
	assert.True(t, w.DraftPickAllowed(calendar.New(2026, 4, 24)))
	assert.False(t, w.DraftPickAllowed(calendar.New(2026, 4, 26)))
}

func TestFranchiseTagAllowedWithinTagWindow(t *testing.T) {
	w := testWindows()
	assert.True(t, w.FranchiseTagAllowed(calendar.New(2026, 2, 18)))
	assert.True(t, w.FranchiseTagAllowed(calendar.New(2026, 3, 4)))
	assert.False(t, w.FranchiseTagAllowed(calendar.New(2026, 3, 5)))
	assert.False(t, w.FranchiseTagAllowed(calendar.New(2026, 2, 17)))
}
