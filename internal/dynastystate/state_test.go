package dynastystate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateNoFieldsIsNoOp(t *testing.T) {
	// A Store with a nil *database.DB would panic if Update reached
	// db.Exec, so this proves the zero-fields case short-circuits before
	// touching the database.
	s := &Store{}
	err := s.Update(context.Background(), "d1", 2025, Fields{})
	assert.NoError(t, err)
}
