package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/fleetrate/fleetrate/internal/domain/tariffhistory"
	ierr "github.com/fleetrate/fleetrate/internal/errors"
	"github.com/fleetrate/fleetrate/internal/types"
)

// InMemoryTariffHistoryStore implements tariffhistory.Repository
type InMemoryTariffHistoryStore struct {
	*InMemoryStore[*tariffhistory.Entry]
}

// NewInMemoryTariffHistoryStore creates a new in-memory tariff history store
func NewInMemoryTariffHistoryStore() *InMemoryTariffHistoryStore {
	return &InMemoryTariffHistoryStore{
		InMemoryStore: NewInMemoryStore[*tariffhistory.Entry](),
	}
}

func copyEntry(e *tariffhistory.Entry) *tariffhistory.Entry {
	if e == nil {
		return nil
	}
	copied := *e
	return &copied
}

func (s *InMemoryTariffHistoryStore) Append(ctx context.Context, entry *tariffhistory.Entry) error {
	if entry == nil {
		return ierr.NewError("history entry cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := entry.Validate(); err != nil {
		return err
	}
	return s.InMemoryStore.Create(ctx, entry.ID, copyEntry(entry))
}

func (s *InMemoryTariffHistoryStore) MarkSuperseded(ctx context.Context, clientID, routeID string, periodMonth time.Time) (int, error) {
	period := types.PeriodMonth(periodMonth)
	marked := 0
	for _, e := range s.InMemoryStore.List(ctx) {
		if e.ClientID == clientID && e.RouteID == routeID && e.PeriodMonth.Equal(period) && !e.Superseded {
			updated := copyEntry(e)
			updated.Superseded = true
			if err := s.InMemoryStore.Update(ctx, e.ID, updated); err != nil {
				return marked, err
			}
			marked++
		}
	}
	return marked, nil
}

func (s *InMemoryTariffHistoryStore) ListByPeriod(ctx context.Context, periodMonth time.Time) ([]*tariffhistory.Entry, error) {
	period := types.PeriodMonth(periodMonth)
	var result []*tariffhistory.Entry
	for _, e := range s.InMemoryStore.List(ctx) {
		if e.PeriodMonth.Equal(period) {
			result = append(result, copyEntry(e))
		}
	}
	return result, nil
}

func (s *InMemoryTariffHistoryStore) ListByRoute(ctx context.Context, clientID, routeID string) ([]*tariffhistory.Entry, error) {
	var result []*tariffhistory.Entry
	for _, e := range s.InMemoryStore.List(ctx) {
		if e.ClientID == clientID && e.RouteID == routeID {
			result = append(result, copyEntry(e))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].PeriodMonth.After(result[j].PeriodMonth)
	})
	return result, nil
}

func (s *InMemoryTariffHistoryStore) CountForPeriod(ctx context.Context, clientID, routeID string, periodMonth time.Time) (int, error) {
	period := types.PeriodMonth(periodMonth)
	count := 0
	for _, e := range s.InMemoryStore.List(ctx) {
		if e.ClientID == clientID && e.RouteID == routeID && e.PeriodMonth.Equal(period) && !e.Superseded {
			count++
		}
	}
	return count, nil
}
