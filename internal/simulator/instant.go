package simulator

import (
	"context"
	"math/rand"
)

// InstantSimulator samples a plausible NFL score distribution instead of
// running a full play engine — the default mode for fast season advancement
// (spec §4.11 INSTANT mode).
type InstantSimulator struct {
	rng *rand.Rand

	// meanScore and stdDev parameterize a clipped normal distribution over
	// team scores; defaults approximate a modern NFL scoring environment.
	meanScore float64
	stdDev    float64
}

// NewInstantSimulator builds an InstantSimulator seeded from seed. Callers
// wanting deterministic scenario tests pass a fixed seed; production wiring
// passes a time-derived seed at startup.
func NewInstantSimulator(seed int64) *InstantSimulator {
	return &InstantSimulator{
		rng:       rand.New(rand.NewSource(seed)),
		meanScore: 23.0,
		stdDev:    9.5,
	}
}

func (s *InstantSimulator) SimulateGame(ctx context.Context, p Params) (Result, error) {
	home := s.sampleScore()
	away := s.sampleScore()

	totalPlays := 120 + s.rng.Intn(40)
	overtimePeriods := 0

	for p.Playoff && home == away {
		overtimePeriods++
		if s.rng.Float64() < 0.5 {
			home += s.samplePossessionScore()
		} else {
			away += s.samplePossessionScore()
		}
		totalPlays += 8 + s.rng.Intn(10)
	}

	if p.Playoff && home == away {
		return Result{}, &ErrSimulation{GameID: "", Err: errUndecidedPlayoffGame}
	}

	winner := ""
	switch {
	case home > away:
		winner = p.HomeTeamID
	case away > home:
		winner = p.AwayTeamID
	}

	return Result{
		HomeScore:       home,
		AwayScore:       away,
		WinnerTeamID:    winner,
		TotalPlays:      totalPlays,
		OvertimePeriods: overtimePeriods,
		TeamGameStats:   map[string]any{},
		PlayerGameStats: map[string]any{},
	}, nil
}

// sampleScore draws a non-negative integer score from a clipped normal
// distribution, truncated toward zero; any integer can come out, including
// scores no real scoring sequence produces.
func (s *InstantSimulator) sampleScore() int {
	v := s.rng.NormFloat64()*s.stdDev + s.meanScore
	if v < 0 {
		v = 0
	}
	return int(v)
}

// samplePossessionScore resolves one overtime possession: a field goal (3)
// most of the time, a touchdown (7) less often, and occasionally nothing.
func (s *InstantSimulator) samplePossessionScore() int {
	switch r := s.rng.Float64(); {
	case r < 0.15:
		return 0
	case r < 0.75:
		return 3
	default:
		return 7
	}
}
