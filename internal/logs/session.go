package logs

import (
	"context"

	"github.com/google/uuid"
)

type runIDKey struct{}

// NewRunID generates a new UUID identifying one top-level run
func NewRunID() string {
	return uuid.New().String()
}

// WithRunID returns a context carrying the given run ID
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFrom returns the run ID stored in ctx, or "" if there is none
func RunIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}
