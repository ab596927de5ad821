// Package phasekind defines the Phase enum shared by the dynasty state
// store, event store, phase boundary detector, and phase handlers. It is a
// leaf package so none of those need to import each other just to agree on
// phase names.
package phasekind

// Phase is one of the four legal phases a dynasty season cycles through.
type Phase string

const (
	Preseason    Phase = "PRESEASON"
	RegularSeason Phase = "REGULAR_SEASON"
	Playoffs     Phase = "PLAYOFFS"
	Offseason    Phase = "OFFSEASON"
)

// Next returns the phase that legally follows p. Offseason wraps to
// Preseason for the following season.
func (p Phase) Next() Phase {
	switch p {
	case Preseason:
		return RegularSeason
	case RegularSeason:
		return Playoffs
	case Playoffs:
		return Offseason
	case Offseason:
		return Preseason
	default:
		return p
	}
}

// Valid reports whether p is one of the four legal phases.
func (p Phase) Valid() bool {
	switch p {
	case Preseason, RegularSeason, Playoffs, Offseason:
		return true
	default:
		return false
	}
}
