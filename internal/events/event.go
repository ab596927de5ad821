// Package events implements the dynasty-scoped Event Store: a polymorphic,
// typed-union record of everything scheduled or executed on the timeline.
// The list, date, count and game-id lookups here all filter on dynasty_id
// and take dynastyID as an explicit argument (right after ctx, except
// GetByGameIDAndDynasty, which takes it after gameID). GetByID and Update
// key on the event_id UUID alone and do not filter by dynasty.
package events

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

// Type is the discriminator for the event's JSON payload shape.
type Type string

const (
	TypeGame           Type = "GAME"
	TypeScouting       Type = "SCOUTING"
	TypeDraftPick      Type = "DRAFT_PICK"
	TypeUFASigning     Type = "UFA_SIGNING"
	TypeFranchiseTag   Type = "FRANCHISE_TAG"
	TypePlayerRelease  Type = "PLAYER_RELEASE"
	TypeTrade          Type = "TRADE"
)

// Payload is the three-part JSON body every event carries: inputs, a
// nullable results section filled in once the event executes, and
// free-form metadata.
type Payload struct {
	Parameters json.RawMessage `json:"parameters"`
	Results    json.RawMessage `json:"results,omitempty"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
}

// Event is the polymorphic record stored for every scheduled or executed
// occurrence on the timeline.
type Event struct {
	EventID         uuid.UUID
	EventType       Type
	TimestampMillis int64
	GameID          string
	DynastyID       string
	Data            Payload
}

// HasResults reports whether the event has already been executed.
func (e Event) HasResults() bool {
	return len(e.Data.Results) > 0 && string(e.Data.Results) != "null"
}

// ErrDuplicateGameID is returned by Insert when an event with the same
// (dynasty_id, game_id) already exists. Callers treat this as idempotent
// reuse, not failure (spec §7): the Existing field carries the row that
// already won the race.
type ErrDuplicateGameID struct {
	GameID    string
	DynastyID string
	Existing  Event
}

func (e *ErrDuplicateGameID) Error() string {
	return "events: duplicate game_id " + e.GameID + " for dynasty " + e.DynastyID
}

// ErrNotFound is returned when a lookup by id finds nothing.
var ErrNotFound = errors.New("events: not found")
