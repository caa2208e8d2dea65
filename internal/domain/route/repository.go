package route

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository defines the interface for route catalogue persistence
type Repository interface {
	// Create inserts a new route and returns the created route. A route
	// code collision surfaces as an already-exists error.
	Create(ctx context.Context, r *Route) (*Route, error)

	// Get fetches a route by its ID
	Get(ctx context.Context, id string) (*Route, error)

	// GetByCode fetches a route by its normalized route code
	GetByCode(ctx context.Context, code string) (*Route, error)

	// List returns all routes
	List(ctx context.Context) ([]*Route, error)

	// ListRouteCodes returns the set of normalized route codes currently
	// in the catalogue
	ListRouteCodes(ctx context.Context) (map[string]struct{}, error)
}

// AssignmentRepository defines the interface for client route assignment
// persistence
type AssignmentRepository interface {
	// Create inserts a new assignment
	Create(ctx context.Context, a *Assignment) (*Assignment, error)

	// ListActiveForClient returns a client's active assignments
	ListActiveForClient(ctx context.Context, clientID string) ([]*Assignment, error)

	// ListActive returns all active assignments across clients
	ListActive(ctx context.Context) ([]*Assignment, error)

	// UpdateCurrentRate moves an assignment's persisted rate. This is the
	// only mutation the adjustment run performs on assignments.
	UpdateCurrentRate(ctx context.Context, id string, rate decimal.Decimal) error
}
