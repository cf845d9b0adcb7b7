package approval

import (
	"context"
	"sync"

	"costbook/internal/core/apperror"
	"costbook/internal/core/id"
)

// Publishable performs the action an approval gates. ExecuteCallback runs in
// the approving transaction; an error rolls the approval back.
type Publishable interface {
	ExecuteCallback(ctx context.Context, entityID id.ID) error
}

// Registry maps entity types to their callbacks. Populated at startup.
type Registry struct {
	mu        sync.RWMutex
	callbacks map[EntityType]Publishable
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{callbacks: make(map[EntityType]Publishable)}
}

// Register binds a callback to an entity type, replacing any previous one.
func (r *Registry) Register(entityType EntityType, p Publishable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks[entityType] = p
}

// Lookup returns the callback of an entity type.
func (r *Registry) Lookup(entityType EntityType) (Publishable, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.callbacks[entityType]
	if !ok {
		return nil, apperror.NewValidation("no approval callback registered for entity type").
			WithDetail("entity_type", entityType)
	}
	return p, nil
}
