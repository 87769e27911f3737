package transport

import (
	"context"

	"github.com/ocotillo-ai/ocotillo/pkg/api"
)

// CompletionCreator handles the core create-completion operation. It is
// the primary handler contract: the implementation receives a request
// envelope and returns the finished completion or an error.
type CompletionCreator interface {
	CreateCompletion(ctx context.Context, req *api.CompletionRequest) (*api.Completion, error)
}

// CompletionCreatorFunc is an adapter that allows using an ordinary
// function as a CompletionCreator.
type CompletionCreatorFunc func(ctx context.Context, req *api.CompletionRequest) (*api.Completion, error)

// CreateCompletion calls f(ctx, req).
func (f CompletionCreatorFunc) CreateCompletion(ctx context.Context, req *api.CompletionRequest) (*api.Completion, error) {
	return f(ctx, req)
}

// ListOptions controls pagination, filtering, and ordering for list
// operations.
type ListOptions struct {
	After  string // Cursor: return items after this ID.
	Before string // Cursor: return items before this ID.
	Limit  int    // Maximum number of items to return (default 20, max 100).
	Model  string // Filter completions by model name.
	Order  string // Sort order: "asc" or "desc" (default "desc").
}

// CompletionList holds a paginated list of completions.
type CompletionList struct {
	Object  string            `json:"object"`
	Data    []*api.Completion `json:"data"`
	HasMore bool              `json:"has_more"`
	FirstID string            `json:"first_id"`
	LastID  string            `json:"last_id"`
}

// CompletionStore handles persistence, retrieval, and deletion of
// stored completions. It is only wired in stateful deployments.
type CompletionStore interface {
	// SaveCompletion persists a finished completion to the store.
	SaveCompletion(ctx context.Context, c *api.Completion) error

	// GetCompletion retrieves a completion by ID. Returns an error if
	// the completion does not exist or has been deleted (soft delete).
	GetCompletion(ctx context.Context, id string) (*api.Completion, error)

	// DeleteCompletion soft-deletes a completion by ID.
	DeleteCompletion(ctx context.Context, id string) error

	// ListCompletions returns a paginated list of stored completions.
	// Results are filtered by tenant (when present in context) and
	// optionally by model. Supports cursor-based pagination and ordering.
	ListCompletions(ctx context.Context, opts ListOptions) (*CompletionList, error)

	// HealthCheck verifies the store connection is functional.
	HealthCheck(ctx context.Context) error

	// Close releases database connections and resources.
	Close() error
}
