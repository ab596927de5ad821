// Package boundary implements the Phase Boundary Detector: derived date
// queries the phase handlers and controllers use to decide when a phase is
// complete (spec §4.5), cached because every advance_day call re-asks them.
package boundary

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrab54/gridiron-dynasty/internal/cache"
	"github.com/mrab54/gridiron-dynasty/internal/calendar"
	"github.com/mrab54/gridiron-dynasty/internal/phasekind"
)

// eventStore is the narrow slice of events.Store the detector needs —
// defined here, not imported as a concrete type, so tests can substitute an
// in-memory fake without touching a database.
type eventStore interface {
	GetFirstGameDate(ctx context.Context, dynastyID string, phase phasekind.Phase, onOrAfter calendar.Date) (calendar.Date, bool, error)
	GetLastGameDate(ctx context.Context, dynastyID string, phase phasekind.Phase, onOrAfter calendar.Date) (calendar.Date, bool, error)
}

// defaultCacheTTL is how long a resolved boundary date is trusted before
// re-querying the Event Store.
const defaultCacheTTL = 5 * time.Minute

// Detector answers "what date does X happen" queries, backed by the Event
// Store and fronted by a jittered Redis cache with an in-process fallback so
// it degrades to direct queries rather than failing closed (spec §4.5).
type Detector struct {
	events eventStore
	cache  *cache.Client
	ttl    time.Duration
	logger zerolog.Logger

	mu       sync.Mutex
	fallback map[string]calendar.Date
}

// NewDetector builds a Detector. cacheClient may be nil — in that case every
// lookup falls straight to the in-process map plus the Event Store.
func NewDetector(events eventStore, cacheClient *cache.Client, logger zerolog.Logger) *Detector {
	return &Detector{
		events:   events,
		cache:    cacheClient,
		ttl:      defaultCacheTTL,
		logger:   logger.With().Str("component", "boundary.detector").Logger(),
		fallback: make(map[string]calendar.Date),
	}
}

func cacheKey(operation string, phase phasekind.Phase, dynastyID string, seasonYear int) string {
	return fmt.Sprintf("%s:%s:%s:%d", operation, phase, dynastyID, seasonYear)
}

func (d *Detector) lookup(ctx context.Context, key string, compute func(ctx context.Context) (calendar.Date, bool, error)) (calendar.Date, bool, error) {
	var found bool

	if d.cache != nil {
		var cached string
		err := d.cache.GetOrCompute(ctx, key, d.ttl, &cached, func(ctx context.Context) (interface{}, error) {
			date, ok, err := compute(ctx)
			found = ok
			if err != nil {
				return "", err
			}
			if !ok {
				return "", nil
			}
			return date.String(), nil
		})
		if err != nil {
			return calendar.Date{}, false, err
		}
		if cached == "" {
			return calendar.Date{}, found, nil
		}
		date, parseErr := calendar.ParseISO(cached)
		if parseErr != nil {
			return calendar.Date{}, false, fmt.Errorf("boundary: parse cached date: %w", parseErr)
		}
		return date, true, nil
	}

	d.mu.Lock()
	if date, ok := d.fallback[key]; ok {
		d.mu.Unlock()
		return date, true, nil
	}
	d.mu.Unlock()

	date, ok, err := compute(ctx)
	if err != nil {
		return calendar.Date{}, false, err
	}
	if ok {
		d.mu.Lock()
		d.fallback[key] = date
		d.mu.Unlock()
	}
	return date, ok, nil
}

// GetFirstGameDate returns the earliest scheduled game date for phase in
// seasonYear, starting the search from seasonStart.
func (d *Detector) GetFirstGameDate(ctx context.Context, dynastyID string, phase phasekind.Phase, seasonYear int, seasonStart calendar.Date) (calendar.Date, bool, error) {
	key := cacheKey("first_game:"+string(phase), phase, dynastyID, seasonYear)
	return d.lookup(ctx, key, func(ctx context.Context) (calendar.Date, bool, error) {
		return d.events.GetFirstGameDate(ctx, dynastyID, phase, seasonStart)
	})
}

// GetLastGameDate returns the latest scheduled game date for phase in
// seasonYear, starting the search from seasonStart.
func (d *Detector) GetLastGameDate(ctx context.Context, dynastyID string, phase phasekind.Phase, seasonYear int, seasonStart calendar.Date) (calendar.Date, bool, error) {
	key := cacheKey("last_game:"+string(phase), phase, dynastyID, seasonYear)
	return d.lookup(ctx, key, func(ctx context.Context) (calendar.Date, bool, error) {
		return d.events.GetLastGameDate(ctx, dynastyID, phase, seasonStart)
	})
}

// GetPlayoffStartDate computes the first Saturday at least 14 days after the
// last regular-season game — the standard post-regular-season layoff.
func (d *Detector) GetPlayoffStartDate(ctx context.Context, dynastyID string, seasonYear int, seasonStart calendar.Date) (calendar.Date, bool, error) {
	lastRegular, ok, err := d.GetLastGameDate(ctx, dynastyID, phasekind.RegularSeason, seasonYear, seasonStart)
	if err != nil || !ok {
		return calendar.Date{}, ok, err
	}
	candidate := lastRegular.AddDays(14)
	return candidate.NextWeekday(time.Saturday), true, nil
}

// GetPhaseEndDate returns the date a phase's own games stop: the last game
// date for that phase, in every case including RegularSeason (spec §4.5).
// Callers that want the next phase's start date — e.g. the gap before the
// playoffs begin — use GetPlayoffStartDate directly rather than this method.
func (d *Detector) GetPhaseEndDate(ctx context.Context, dynastyID string, phase phasekind.Phase, seasonYear int, seasonStart calendar.Date) (calendar.Date, bool, error) {
	return d.GetLastGameDate(ctx, dynastyID, phase, seasonYear, seasonStart)
}

// Invalidate deletes the Redis keys for (dynastyID, seasonYear) across every
// phase and empties the whole in-process map (every dynasty and season) —
// called after schedule generation or bracket construction changes the
// underlying game dates.
func (d *Detector) Invalidate(ctx context.Context, dynastyID string, seasonYear int) error {
	d.mu.Lock()
	for k := range d.fallback {
		delete(d.fallback, k)
	}
	d.mu.Unlock()

	if d.cache == nil {
		return nil
	}
	for _, phase := range []phasekind.Phase{phasekind.Preseason, phasekind.RegularSeason, phasekind.Playoffs, phasekind.Offseason} {
		for _, op := range []string{"first_game", "last_game"} {
			if err := d.cache.Invalidate(ctx, cacheKey(op+":"+string(phase), phase, dynastyID, seasonYear)); err != nil {
				return fmt.Errorf("boundary: invalidate %s/%s: %w", op, phase, err)
			}
		}
	}
	return nil
}
