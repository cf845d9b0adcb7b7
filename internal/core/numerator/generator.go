// Package numerator declares document auto-numbering.
// The PostgreSQL implementation lives in infrastructure/numerator.
package numerator

import (
	"context"
	"time"
)

// Generator generates sequential document numbers.
type Generator interface {
	// GetNextNumber returns the next number of the sequence cfg selects for
	// period, e.g. WO-2026-00001.
	GetNextNumber(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error)

	// SetNextNumber moves a sequence, used when importing documents numbered elsewhere.
	SetNextNumber(ctx context.Context, cfg Config, period time.Time, value int64) error
}
