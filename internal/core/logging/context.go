package logging

import "context"

type contextKey string

const (
	repoKey      contextKey = "repo"
	operationKey contextKey = "op"
)

// WithRepo adds a repository path to the context.
func WithRepo(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, repoKey, path)
}

// WithOperation adds the name of the running operation to the context.
func WithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, operationKey, op)
}

// GetRepo retrieves the repository path from the context.
// Returns empty string if not present.
func GetRepo(ctx context.Context) string {
	if path, ok := ctx.Value(repoKey).(string); ok {
		return path
	}
	return ""
}

// GetOperation retrieves the operation name from the context.
// Returns empty string if not present.
func GetOperation(ctx context.Context) string {
	if op, ok := ctx.Value(operationKey).(string); ok {
		return op
	}
	return ""
}
