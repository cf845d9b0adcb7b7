// Package audit defines the audit trail written by the cost scenario and
// approval workflows.
package audit

import (
	"context"
	"sync"

	"costbook/internal/core/id"
)

// Action is the audited operation.
type Action string

const (
	ActionCreate  Action = "create"
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionPublish Action = "publish"
	ActionFreeze  Action = "freeze"
)

// Entry is one audited change. Changes is marshalled to JSON by the recorder.
type Entry struct {
	EntityType string
	EntityID   id.ID
	Action     Action
	Changes    map[string]any
}

// Recorder persists audit entries within the caller's transaction.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// Nop discards every entry.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(context.Context, Entry) error { return nil }

// Memory keeps entries in process for tests.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

// Record implements Recorder.
func (m *Memory) Record(_ context.Context, entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

// Entries returns the recorded entries in order.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.entries...)
}

// Actions returns the recorded actions for one entity in order.
func (m *Memory) Actions(entityID id.ID) []Action {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Action
	for _, e := range m.entries {
		if e.EntityID == entityID {
			out = append(out, e.Action)
		}
	}
	return out
}
