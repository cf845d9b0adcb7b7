// Package lock serializes batch jobs (cost processor, accounting batch) per organization.
// Two concurrent runs against one organization could pair distributions twice, so
// every batch entry point acquires a Locker key before reading its work set.
package lock

import (
	"context"
	"fmt"
	"sync"

	"costbook/internal/core/apperror"
)

// Release frees an acquired lock.
type Release func(ctx context.Context) error

// Locker acquires named, exclusive, non-blocking locks.
// An already-held key fails immediately with a CONFLICT AppError.
type Locker interface {
	Acquire(ctx context.Context, key string) (Release, error)
}

// Key builds the lock key for a batch job scoped to an organization.
func Key(job string, scope fmt.Stringer) string {
	return fmt.Sprintf("costbook:%s:%s", job, scope)
}

// NewHeldError is returned when a lock is owned by another runner.
func NewHeldError(key string) error {
	return apperror.NewConflict("batch already running").WithDetail("lock", key)
}

// Local is an in-process Locker for single-instance deployments and tests.
type Local struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocal creates an in-process locker.
func NewLocal() *Local {
	return &Local{held: make(map[string]struct{})}
}

// Acquire implements Locker.
func (l *Local) Acquire(_ context.Context, key string) (Release, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[key]; ok {
		return nil, NewHeldError(key)
	}
	l.held[key] = struct{}{}

	return func(context.Context) error {
		l.mu.Lock()
		delete(l.held, key)
		l.mu.Unlock()
		return nil
	}, nil
}
