package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"costbook/internal/core/id"
)

func TestTracked_Touch(t *testing.T) {
	tr := NewTracked("alice")
	assert.False(t, id.IsNil(tr.ID))
	assert.Equal(t, tr.CreatedAt, tr.UpdatedAt)

	tr.Touch("")
	assert.Equal(t, "alice", tr.UpdatedBy)
	assert.False(t, tr.UpdatedAt.Before(tr.CreatedAt))

	tr.Touch("bob")
	assert.Equal(t, "bob", tr.UpdatedBy)
	assert.Equal(t, "alice", tr.CreatedBy)
}
