// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// Actor identifies who triggered an operation (an admin user, a scheduler job).
// Requester and approver ids on approval requests are taken from here when the
// caller does not pass them explicitly.
type Actor struct {
	UserID string
	Name   string
	System bool
}

type actorContextKey struct{}

// WithActor adds Actor to context.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// GetActor returns Actor from context.
func GetActor(ctx context.Context) *Actor {
	if v, ok := ctx.Value(actorContextKey{}).(*Actor); ok {
		return v
	}
	return nil
}

// GetActorID returns the actor's user id or empty string.
func GetActorID(ctx context.Context) string {
	if a := GetActor(ctx); a != nil {
		return a.UserID
	}
	return ""
}

// SystemActor is used by the background worker.
func SystemActor(job string) *Actor {
	return &Actor{UserID: "system:" + job, Name: job, System: true}
}
