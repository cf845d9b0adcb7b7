package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"costbook/internal/core/id"
)

func TestListFilter_Normalize(t *testing.T) {
	f := ListFilter{Limit: 10_000, Offset: -3}
	f.Normalize()
	assert.Equal(t, 50, f.Limit)
	assert.Equal(t, 0, f.Offset)

	f = DefaultListFilter(id.New())
	f.Limit = 200
	f.Normalize()
	assert.Equal(t, 200, f.Limit)
}
