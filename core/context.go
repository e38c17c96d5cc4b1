package core

import "context"

// Context keys for build options
type contextKey string

const (
	runIDKey contextKey = "runID"
)

// withRunID stores the run-history id of the current project build
func withRunID(ctx context.Context, runID int64) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// runIDFromContext returns the run-history id, or 0 when runs are not tracked
func runIDFromContext(ctx context.Context) int64 {
	val := ctx.Value(runIDKey)
	if val == nil {
		return 0 // default: not tracked
	}
	id, ok := val.(int64)
	if !ok {
		return 0
	}
	return id
}
