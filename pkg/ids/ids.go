// Package ids centralizes the game_id string conventions from the external
// interface contract. Dynasty isolation is carried by the dynasty_id column,
// never by these strings — round detection is the only place allowed to
// pattern-match on them, and only within a result set already filtered by
// dynasty_id.
package ids

import (
	"fmt"
	"strings"
)

// Round names used in playoff game ids.
const (
	RoundWildCard   = "wild_card"
	RoundDivisional = "divisional"
	RoundConference = "conference"
	RoundSuperBowl  = "super_bowl"
)

// RegularSeasonGameID builds game_{YYYYMMDD}_{away}_at_{home}.
func RegularSeasonGameID(dateCompact string, awayTeamID, homeTeamID string) string {
	return fmt.Sprintf("game_%s_%s_at_%s", dateCompact, awayTeamID, homeTeamID)
}

// PlayoffGameID builds playoff_{season}_{round}_{n}.
func PlayoffGameID(season int, round string, matchupN int) string {
	return fmt.Sprintf("playoff_%d_%s_%d", season, round, matchupN)
}

// PreseasonGameID builds preseason_{season}_{week}_{n}.
func PreseasonGameID(season, week, n int) string {
	return fmt.Sprintf("preseason_%d_%d_%d", season, week, n)
}

// IsPlayoffGameID reports whether id follows the playoff_ prefix convention.
func IsPlayoffGameID(id string) bool {
	return len(id) > len("playoff_") && id[:len("playoff_")] == "playoff_"
}

// IsPreseasonGameID reports whether id follows the preseason_ prefix convention.
func IsPreseasonGameID(id string) bool {
	return len(id) > len("preseason_") && id[:len("preseason_")] == "preseason_"
}

// IsRegularSeasonGameID reports whether id is neither a playoff nor preseason id.
func IsRegularSeasonGameID(id string) bool {
	return !IsPlayoffGameID(id) && !IsPreseasonGameID(id)
}

// ParsePlayoffGameID splits a playoff_{season}_{round}_{n} id into its three
// parts. Reconstruction keys off this, never the opaque event_id UUID
// (spec §4.9's historical-bug warning).
func ParsePlayoffGameID(id string) (season int, round string, matchupN int, ok bool) {
	if !IsPlayoffGameID(id) {
		return 0, "", 0, false
	}
	rest := strings.TrimPrefix(id, "playoff_")
	parts := strings.Split(rest, "_")
	if len(parts) < 3 {
		return 0, "", 0, false
	}
	var seasonVal int
	if _, err := fmt.Sscanf(parts[0], "%d", &seasonVal); err != nil {
		return 0, "", 0, false
	}
	var n int
	if _, err := fmt.Sscanf(parts[len(parts)-1], "%d", &n); err != nil {
		return 0, "", 0, false
	}
	roundParts := parts[1 : len(parts)-1]
	return seasonVal, strings.Join(roundParts, "_"), n, true
}

// PlayoffRoundFromGameID extracts the round from a playoff_{season}_{round}_{n}
// id. Reconstruction must key off this, not the opaque event_id UUID.
func PlayoffRoundFromGameID(id string) (round string, ok bool) {
	if !IsPlayoffGameID(id) {
		return "", false
	}
	rest := strings.TrimPrefix(id, "playoff_")
	parts := strings.Split(rest, "_")
	// parts: [season, round..., n] — round itself may contain an underscore
	// (wild_card, super_bowl), so trim the leading season and trailing n.
	if len(parts) < 3 {
		return "", false
	}
	roundParts := parts[1 : len(parts)-1]
	return strings.Join(roundParts, "_"), true
}
