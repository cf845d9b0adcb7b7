package context

import (
	"context"

	"github.com/google/uuid"

	"costbook/internal/core/id"
)

// TraceContext correlates the log lines of one HTTP request or one worker job.
// OrganizationID is the inventory organization being posted to or costed,
// empty for organization-independent calls.
type TraceContext struct {
	TraceID        string
	RequestID      string
	OrganizationID string
	Job            string
}

type traceContextKey struct{}

// WithTrace adds TraceContext to context.
func WithTrace(ctx context.Context, trace *TraceContext) context.Context {
	return context.WithValue(ctx, traceContextKey{}, trace)
}

// GetTrace returns TraceContext from context.
func GetTrace(ctx context.Context) *TraceContext {
	if v, ok := ctx.Value(traceContextKey{}).(*TraceContext); ok {
		return v
	}
	return nil
}

// GetRequestID returns the request id or empty string.
func GetRequestID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.RequestID
	}
	return ""
}

// NewJobTrace starts the trace of one worker job against an organization.
// A job has no inbound request, so both ids share the run id.
func NewJobTrace(job string, orgID id.ID) *TraceContext {
	run := uuid.New().String()
	return &TraceContext{
		TraceID:        run,
		RequestID:      run,
		OrganizationID: orgID.String(),
		Job:            job,
	}
}
