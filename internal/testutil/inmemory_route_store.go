package testutil

import (
	"context"
	"sync"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/fleetrate/fleetrate/internal/domain/route"
	ierr "github.com/fleetrate/fleetrate/internal/errors"
)

// InMemoryRouteStore implements route.Repository
type InMemoryRouteStore struct {
	*InMemoryStore[*route.Route]

	mu         sync.Mutex
	createErrs map[string]error
}

// NewInMemoryRouteStore creates a new in-memory route store
func NewInMemoryRouteStore() *InMemoryRouteStore {
	return &InMemoryRouteStore{
		InMemoryStore: NewInMemoryStore[*route.Route](),
		createErrs:    make(map[string]error),
	}
}

// FailNextCreate makes Create fail for the given normalized route code,
// simulating a persistence collaborator failure
func (s *InMemoryRouteStore) FailNextCreate(code string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createErrs[route.NormalizeCode(code)] = err
}

func copyRoute(r *route.Route) *route.Route {
	if r == nil {
		return nil
	}
	copied := *r
	if r.DistanceKm != nil {
		d := *r.DistanceKm
		copied.DistanceKm = &d
	}
	if r.EstimatedHours != nil {
		h := *r.EstimatedHours
		copied.EstimatedHours = &h
	}
	return &copied
}

func (s *InMemoryRouteStore) Create(ctx context.Context, r *route.Route) (*route.Route, error) {
	if r == nil {
		return nil, ierr.NewError("route cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	code := route.NormalizeCode(r.RouteCode)

	s.mu.Lock()
	if err, ok := s.createErrs[code]; ok {
		delete(s.createErrs, code)
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	for _, existing := range s.InMemoryStore.List(ctx) {
		if route.NormalizeCode(existing.RouteCode) == code {
			return nil, ierr.NewErrorf("Route code %q already exists", code).
				Mark(ierr.ErrAlreadyExists)
		}
	}

	if err := s.InMemoryStore.Create(ctx, r.ID, copyRoute(r)); err != nil {
		return nil, err
	}
	return copyRoute(r), nil
}

func (s *InMemoryRouteStore) Get(ctx context.Context, id string) (*route.Route, error) {
	r, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return copyRoute(r), nil
}

func (s *InMemoryRouteStore) GetByCode(ctx context.Context, code string) (*route.Route, error) {
	normalized := route.NormalizeCode(code)
	for _, r := range s.InMemoryStore.List(ctx) {
		if route.NormalizeCode(r.RouteCode) == normalized {
			return copyRoute(r), nil
		}
	}
	return nil, ierr.NewErrorf("route not found: %s", code).
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryRouteStore) List(ctx context.Context) ([]*route.Route, error) {
	return lo.Map(s.InMemoryStore.List(ctx), func(r *route.Route, _ int) *route.Route {
		return copyRoute(r)
	}), nil
}

func (s *InMemoryRouteStore) ListRouteCodes(ctx context.Context) (map[string]struct{}, error) {
	codes := make(map[string]struct{})
	for _, r := range s.InMemoryStore.List(ctx) {
		codes[route.NormalizeCode(r.RouteCode)] = struct{}{}
	}
	return codes, nil
}

// InMemoryAssignmentStore implements route.AssignmentRepository
type InMemoryAssignmentStore struct {
	*InMemoryStore[*route.Assignment]
}

// NewInMemoryAssignmentStore creates a new in-memory assignment store
func NewInMemoryAssignmentStore() *InMemoryAssignmentStore {
	return &InMemoryAssignmentStore{
		InMemoryStore: NewInMemoryStore[*route.Assignment](),
	}
}

func copyAssignment(a *route.Assignment) *route.Assignment {
	if a == nil {
		return nil
	}
	copied := *a
	return &copied
}

func (s *InMemoryAssignmentStore) Create(ctx context.Context, a *route.Assignment) (*route.Assignment, error) {
	if a == nil {
		return nil, ierr.NewError("assignment cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := s.InMemoryStore.Create(ctx, a.ID, copyAssignment(a)); err != nil {
		return nil, err
	}
	return copyAssignment(a), nil
}

func (s *InMemoryAssignmentStore) ListActiveForClient(ctx context.Context, clientID string) ([]*route.Assignment, error) {
	var result []*route.Assignment
	for _, a := range s.InMemoryStore.List(ctx) {
		if a.ClientID == clientID && a.IsActive {
			result = append(result, copyAssignment(a))
		}
	}
	return result, nil
}

func (s *InMemoryAssignmentStore) ListActive(ctx context.Context) ([]*route.Assignment, error) {
	var result []*route.Assignment
	for _, a := range s.InMemoryStore.List(ctx) {
		if a.IsActive {
			result = append(result, copyAssignment(a))
		}
	}
	return result, nil
}

func (s *InMemoryAssignmentStore) UpdateCurrentRate(ctx context.Context, id string, rate decimal.Decimal) error {
	a, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return err
	}
	updated := copyAssignment(a)
	updated.CurrentRate = rate
	return s.InMemoryStore.Update(ctx, id, updated)
}
