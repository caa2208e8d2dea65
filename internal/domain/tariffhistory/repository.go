package tariffhistory

import (
	"context"
	"time"
)

// Repository defines the interface for tariff history persistence. The
// store is append-only: there is no update or delete operation beyond
// flipping the superseded marker during a recompute.
type Repository interface {
	// Append writes a new history entry
	Append(ctx context.Context, entry *Entry) error

	// MarkSuperseded flips the superseded marker on all live entries for
	// the given client, route and period and returns how many were marked.
	// No other field of an existing entry is ever touched.
	MarkSuperseded(ctx context.Context, clientID, routeID string, periodMonth time.Time) (int, error)

	// ListByPeriod returns all entries for a period month, superseded
	// entries included, ordered by creation time
	ListByPeriod(ctx context.Context, periodMonth time.Time) ([]*Entry, error)

	// ListByRoute returns all entries for a client and route ordered by
	// period month descending
	ListByRoute(ctx context.Context, clientID, routeID string) ([]*Entry, error)

	// CountForPeriod returns the number of live (not superseded) entries
	// for the given client, route and period
	CountForPeriod(ctx context.Context, clientID, routeID string, periodMonth time.Time) (int, error)
}
