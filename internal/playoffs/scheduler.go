package playoffs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mrab54/gridiron-dynasty/internal/calendar"
	"github.com/mrab54/gridiron-dynasty/internal/events"
	"github.com/mrab54/gridiron-dynasty/pkg/ids"
)

// Scheduler persists the GAME events for one generated round. It never
// invents matchups itself — that is the generator's job — it only writes
// what it is given, and is idempotent on the (dynasty_id, game_id) unique
// constraint (spec §4.8).
type Scheduler struct {
	store  *events.Store
	logger zerolog.Logger
}

// NewScheduler builds a Scheduler over store.
func NewScheduler(store *events.Store, logger zerolog.Logger) *Scheduler {
	return &Scheduler{store: store, logger: logger.With().Str("component", "playoffs.scheduler").Logger()}
}

type matchupParameters struct {
	HomeTeamID string `json:"home_team_id"`
	AwayTeamID string `json:"away_team_id"`
	Round      Round  `json:"round"`
	Conference string `json:"conference,omitempty"`
}

// ScheduleRound creates one GAME event per matchup, dated gameDate. Existing
// events for the same (dynasty_id, game_id) are detected via the Event
// Store's unique-violation path and swallowed as idempotent reuse (spec
// §4.8: schedulers must check for duplicates and skip them).
func (s *Scheduler) ScheduleRound(ctx context.Context, dynastyID string, season int, gameDate calendar.Date, matchups []Matchup) error {
	for _, m := range matchups {
		gameID := ids.PlayoffGameID(season, string(m.Round), m.MatchupNumber)

		params, err := json.Marshal(matchupParameters{
			HomeTeamID: m.HighSeed.TeamID,
			AwayTeamID: m.LowSeed.TeamID,
			Round:      m.Round,
			Conference: m.Conference,
		})
		if err != nil {
			return fmt.Errorf("playoffs: marshal matchup parameters for %s: %w", gameID, err)
		}

		e := events.Event{
			EventType:       events.TypeGame,
			TimestampMillis: gameDate.ToTimestampMillis(),
			GameID:          gameID,
			DynastyID:       dynastyID,
			Data:            events.Payload{Parameters: params},
		}

		if _, err := s.store.Insert(ctx, e); err != nil {
			var dup *events.ErrDuplicateGameID
			if errors.As(err, &dup) {
				s.logger.Debug().Str("game_id", gameID).Msg("playoff game already scheduled, treating as idempotent reuse")
				continue
			}
			return fmt.Errorf("playoffs: schedule %s: %w", gameID, err)
		}
	}
	return nil
}
