package service

import (
	"context"

	"github.com/fleetrate/fleetrate/internal/api/dto"
	"github.com/fleetrate/fleetrate/internal/domain/tariff"
	"github.com/fleetrate/fleetrate/internal/domain/tariffhistory"
	ierr "github.com/fleetrate/fleetrate/internal/errors"
	"github.com/fleetrate/fleetrate/internal/types"
)

// AdjustmentService runs tariff adjustments. A run loads the guardrail
// policy once, computes a bounded rate change per active route assignment,
// records an audit entry for every applied change and moves the persisted
// rate. Per-route failures are captured as data; only whole-batch
// preconditions (invalid policy, repository unavailable) fail the call.
type AdjustmentService interface {
	// RunMonthlyAdjustment recomputes rates for all active assignments for
	// the given period. Re-running a period supersedes the earlier audit
	// entries and appends new ones; both stay on record.
	RunMonthlyAdjustment(ctx context.Context, req *dto.RunAdjustmentRequest) (*dto.RunAdjustmentResponse, error)

	// PreviewAdjustment computes one adjustment without recording anything
	PreviewAdjustment(ctx context.Context, req *dto.PreviewAdjustmentRequest) (*dto.AdjustmentResultResponse, error)

	// GetRouteHistory lists the audit trail for one client route
	GetRouteHistory(ctx context.Context, clientID, routeID string) (*dto.TariffHistoryResponse, error)
}

type adjustmentService struct {
	ServiceParams
}

// NewAdjustmentService creates a new adjustment service
func NewAdjustmentService(params ServiceParams) AdjustmentService {
	return &adjustmentService{ServiceParams: params}
}

func (s *adjustmentService) RunMonthlyAdjustment(ctx context.Context, req *dto.RunAdjustmentRequest) (*dto.RunAdjustmentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	settingsService := NewSettingsService(s.ServiceParams)

	// An invalid policy fails the whole batch before any calculation runs
	policy, err := settingsService.GetGuardrailPolicy(ctx)
	if err != nil {
		return nil, err
	}

	assignments, err := s.AssignmentRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	routeCodes, err := s.routeCodeIndex(ctx)
	if err != nil {
		return nil, err
	}

	periodMonth := types.PeriodMonth(req.PeriodMonth)
	resp := &dto.RunAdjustmentResponse{
		PeriodMonth: periodMonth,
		Items:       make([]dto.AdjustmentItemResponse, 0, len(assignments)),
	}

	clientCurrencies := make(map[string]types.Currency)

	for _, assignment := range assignments {
		if ctx.Err() != nil {
			return resp, ierr.WithError(ctx.Err()).
				WithHint("Adjustment run cancelled; response holds the partial outcome").
				Mark(ierr.ErrSystem)
		}

		resp.ProcessedCount++

		item := dto.AdjustmentItemResponse{
			ClientID:     assignment.ClientID,
			RouteID:      assignment.RouteID,
			RouteCode:    routeCodes[assignment.RouteID],
			PreviousRate: assignment.CurrentRate,
		}

		currency, err := s.resolveClientCurrency(ctx, assignment.ClientID, clientCurrencies)
		if err != nil {
			item.Error = err.Error()
			resp.FailedCount++
			resp.Items = append(resp.Items, item)
			continue
		}

		calcReq := tariff.AdjustmentRequest{
			ClientID:            assignment.ClientID,
			RouteID:             assignment.RouteID,
			CurrentRate:         assignment.CurrentRate,
			Currency:            currency,
			PreviousDieselPrice: policy.BasePrice,
			NewDieselPrice:      req.NewDieselPrice,
			PeriodMonth:         periodMonth,
		}

		result, err := tariff.Compute(calcReq, policy)
		if err != nil {
			// Malformed input fails this calculation only, never the batch
			item.Error = err.Error()
			resp.FailedCount++
			resp.Items = append(resp.Items, item)
			continue
		}

		resp.DieselPct = result.DieselPct
		item.Triggered = result.Triggered
		item.Clamped = result.Clamped
		item.NewRate = result.NewRate
		item.AdjustmentPct = result.AdjustmentPct
		item.Reason = result.Reason

		if !result.Triggered {
			resp.SkippedCount++
			resp.Items = append(resp.Items, item)
			continue
		}

		if err := s.recordAdjustment(ctx, calcReq, result); err != nil {
			item.Error = err.Error()
			resp.FailedCount++
			resp.Items = append(resp.Items, item)
			continue
		}

		if err := s.AssignmentRepo.UpdateCurrentRate(ctx, assignment.ID, result.NewRate); err != nil {
			item.Error = err.Error()
			resp.FailedCount++
			resp.Items = append(resp.Items, item)
			continue
		}

		resp.AdjustedCount++
		resp.Items = append(resp.Items, item)
	}

	s.Logger.Infow("completed tariff adjustment run",
		"period_month", periodMonth,
		"processed", resp.ProcessedCount,
		"adjusted", resp.AdjustedCount,
		"skipped", resp.SkippedCount,
		"failed", resp.FailedCount)

	if req.UpdateBasePrice && resp.AdjustedCount > 0 {
		_, err := settingsService.UpdateGuardrailSettings(ctx, &dto.UpdateGuardrailSettingsRequest{
			Updates: map[string]string{
				types.GuardrailKeyBaseDieselPrice: req.NewDieselPrice.String(),
			},
		})
		if err != nil {
			return resp, err
		}
	}

	return resp, nil
}

// recordAdjustment implements the append-and-supersede recompute policy:
// earlier live entries for the same client, route and period are marked
// superseded before the new entry is appended, so re-running a period never
// silently duplicates or overwrites audit history.
func (s *adjustmentService) recordAdjustment(ctx context.Context, req tariff.AdjustmentRequest, result tariff.AdjustmentResult) error {
	superseded, err := s.HistoryRepo.MarkSuperseded(ctx, req.ClientID, req.RouteID, types.PeriodMonth(req.PeriodMonth))
	if err != nil {
		return err
	}
	if superseded > 0 {
		s.Logger.Debugw("superseded earlier tariff history entries",
			"client_id", req.ClientID,
			"route_id", req.RouteID,
			"period_month", types.PeriodMonth(req.PeriodMonth),
			"count", superseded)
	}

	entry, err := tariffhistory.NewEntry(req, result, types.GetEnvironmentID(ctx), types.GetDefaultBaseModel(ctx))
	if err != nil {
		return err
	}
	if err := entry.Validate(); err != nil {
		return err
	}

	return s.HistoryRepo.Append(ctx, entry)
}

func (s *adjustmentService) PreviewAdjustment(ctx context.Context, req *dto.PreviewAdjustmentRequest) (*dto.AdjustmentResultResponse, error) {
	settingsService := NewSettingsService(s.ServiceParams)
	policy, err := settingsService.GetGuardrailPolicy(ctx)
	if err != nil {
		return nil, err
	}

	result, err := tariff.Compute(req.ToAdjustmentRequest(), policy)
	if err != nil {
		return nil, err
	}
	return dto.NewAdjustmentResultResponse(result), nil
}

func (s *adjustmentService) GetRouteHistory(ctx context.Context, clientID, routeID string) (*dto.TariffHistoryResponse, error) {
	if clientID == "" || routeID == "" {
		return nil, ierr.NewError("client id and route id are required").
			Mark(ierr.ErrValidation)
	}

	entries, err := s.HistoryRepo.ListByRoute(ctx, clientID, routeID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.TariffHistoryEntryResponse, len(entries))
	for i, e := range entries {
		items[i] = dto.NewTariffHistoryEntryResponse(e)
	}
	return &dto.TariffHistoryResponse{Items: items, Total: len(items)}, nil
}

func (s *adjustmentService) routeCodeIndex(ctx context.Context) (map[string]string, error) {
	routes, err := s.RouteRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]string, len(routes))
	for _, r := range routes {
		index[r.ID] = r.RouteCode
	}
	return index, nil
}

func (s *adjustmentService) resolveClientCurrency(ctx context.Context, clientID string, cache map[string]types.Currency) (types.Currency, error) {
	if currency, ok := cache[clientID]; ok {
		return currency, nil
	}

	c, err := s.ClientRepo.Get(ctx, clientID)
	if err != nil {
		return "", err
	}

	currency := c.Currency
	if currency == "" {
		currency = types.HomeCurrency
	}
	cache[clientID] = currency
	return currency, nil
}
