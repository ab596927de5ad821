package events

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrab54/gridiron-dynasty/internal/phasekind"
)

func TestGameIDPatternFor(t *testing.T) {
	pat, negate := gameIDPatternFor(phasekind.Preseason)
	assert.Equal(t, "^preseason_", pat)
	assert.False(t, negate)

	pat, negate = gameIDPatternFor(phasekind.Playoffs)
	assert.Equal(t, "^playoff_", pat)
	assert.False(t, negate)

	pat, negate = gameIDPatternFor(phasekind.RegularSeason)
	assert.Equal(t, "^(playoff_|preseason_)", pat)
	assert.True(t, negate)
}

func TestEventHasResults(t *testing.T) {
	e := Event{Data: Payload{Results: nil}}
	assert.False(t, e.HasResults())

	e.Data.Results = []byte("null")
	assert.False(t, e.HasResults())

	e.Data.Results = []byte(`{"home_score":24,"away_score":17}`)
	assert.True(t, e.HasResults())
}

func TestErrDuplicateGameIDMessage(t *testing.T) {
	err := &ErrDuplicateGameID{GameID: "game_20250905_buf_at_kc", DynastyID: "d1"}
	assert.Contains(t, err.Error(), "game_20250905_buf_at_kc")
	assert.Contains(t, err.Error(), "d1")
}
