package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetrate/fleetrate/internal/domain/tariff"
	"github.com/fleetrate/fleetrate/internal/domain/tariffhistory"
	ierr "github.com/fleetrate/fleetrate/internal/errors"
	"github.com/fleetrate/fleetrate/internal/types"
)

// RunAdjustmentRequest triggers a monthly tariff adjustment run across all
// active route assignments
type RunAdjustmentRequest struct {
	// PeriodMonth identifies the adjustment period; any timestamp within
	// the month is accepted and truncated to the first of the month
	PeriodMonth time.Time `json:"period_month"`

	// NewDieselPrice is the diesel price the run reacts to
	NewDieselPrice decimal.Decimal `json:"new_diesel_price"`

	// UpdateBasePrice stores the new diesel price as the guardrail base
	// price after a run that adjusted at least one route
	UpdateBasePrice bool `json:"update_base_price"`
}

func (r *RunAdjustmentRequest) Validate() error {
	if r.PeriodMonth.IsZero() {
		return ierr.NewError("period month is required").
			WithHint("Provide the adjustment period month").
			Mark(ierr.ErrValidation)
	}
	if !r.NewDieselPrice.IsPositive() {
		return ierr.NewError("new diesel price must be greater than zero").
			WithReportableDetails(map[string]interface{}{
				"new_diesel_price": r.NewDieselPrice.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PreviewAdjustmentRequest computes a single adjustment without recording
// anything
type PreviewAdjustmentRequest struct {
	CurrentRate         decimal.Decimal `json:"current_rate"`
	PreviousDieselPrice decimal.Decimal `json:"previous_diesel_price"`
	NewDieselPrice      decimal.Decimal `json:"new_diesel_price"`
}

// ToAdjustmentRequest builds the calculator input; input validation happens
// inside the calculator itself
func (r *PreviewAdjustmentRequest) ToAdjustmentRequest() tariff.AdjustmentRequest {
	return tariff.AdjustmentRequest{
		CurrentRate:         r.CurrentRate,
		Currency:            types.HomeCurrency,
		PreviousDieselPrice: r.PreviousDieselPrice,
		NewDieselPrice:      r.NewDieselPrice,
		PeriodMonth:         types.PeriodMonth(time.Now().UTC()),
	}
}

// AdjustmentResultResponse mirrors the calculator output
type AdjustmentResultResponse struct {
	Triggered     bool            `json:"triggered"`
	NewRate       decimal.Decimal `json:"new_rate"`
	AdjustmentPct decimal.Decimal `json:"adjustment_pct"`
	DieselPct     decimal.Decimal `json:"diesel_pct"`
	Clamped       bool            `json:"clamped"`
	Reason        string          `json:"reason"`
}

// NewAdjustmentResultResponse converts a calculator result
func NewAdjustmentResultResponse(result tariff.AdjustmentResult) *AdjustmentResultResponse {
	return &AdjustmentResultResponse{
		Triggered:     result.Triggered,
		NewRate:       result.NewRate,
		AdjustmentPct: result.AdjustmentPct,
		DieselPct:     result.DieselPct,
		Clamped:       result.Clamped,
		Reason:        result.Reason,
	}
}

// AdjustmentItemResponse is the per-route outcome of an adjustment run.
// Failures are carried as data; a failed route never aborts the run.
type AdjustmentItemResponse struct {
	ClientID      string          `json:"client_id"`
	RouteID       string          `json:"route_id"`
	RouteCode     string          `json:"route_code,omitempty"`
	Triggered     bool            `json:"triggered"`
	Clamped       bool            `json:"clamped"`
	PreviousRate  decimal.Decimal `json:"previous_rate"`
	NewRate       decimal.Decimal `json:"new_rate"`
	AdjustmentPct decimal.Decimal `json:"adjustment_pct"`
	Reason        string          `json:"reason,omitempty"`
	Error         string          `json:"error,omitempty"`
}

// RunAdjustmentResponse summarizes an adjustment run
type RunAdjustmentResponse struct {
	PeriodMonth    time.Time                `json:"period_month"`
	DieselPct      decimal.Decimal          `json:"diesel_pct"`
	ProcessedCount int                      `json:"processed_count"`
	AdjustedCount  int                      `json:"adjusted_count"`
	SkippedCount   int                      `json:"skipped_count"`
	FailedCount    int                      `json:"failed_count"`
	Items          []AdjustmentItemResponse `json:"items"`
}

// TariffHistoryEntryResponse is one audit entry in API responses
type TariffHistoryEntryResponse struct {
	ID                  string          `json:"id"`
	ClientID            string          `json:"client_id"`
	RouteID             string          `json:"route_id"`
	PeriodMonth         time.Time       `json:"period_month"`
	PreviousRate        decimal.Decimal `json:"previous_rate"`
	NewRate             decimal.Decimal `json:"new_rate"`
	Currency            types.Currency  `json:"currency"`
	AdjustmentPct       decimal.Decimal `json:"adjustment_pct"`
	DieselPriceAtChange decimal.Decimal `json:"diesel_price_at_change"`
	DieselPctChange     decimal.Decimal `json:"diesel_pct_change"`
	AdjustmentReason    string          `json:"adjustment_reason"`
	Superseded          bool            `json:"superseded"`
	CreatedAt           time.Time       `json:"created_at"`
}

// NewTariffHistoryEntryResponse converts a domain entry
func NewTariffHistoryEntryResponse(e *tariffhistory.Entry) TariffHistoryEntryResponse {
	return TariffHistoryEntryResponse{
		ID:                  e.ID,
		ClientID:            e.ClientID,
		RouteID:             e.RouteID,
		PeriodMonth:         e.PeriodMonth,
		PreviousRate:        e.PreviousRate,
		NewRate:             e.NewRate,
		Currency:            e.Currency,
		AdjustmentPct:       e.AdjustmentPct,
		DieselPriceAtChange: e.DieselPriceAtChange,
		DieselPctChange:     e.DieselPctChange,
		AdjustmentReason:    e.AdjustmentReason,
		Superseded:          e.Superseded,
		CreatedAt:           e.CreatedAt,
	}
}

// TariffHistoryResponse lists audit entries for one client route
type TariffHistoryResponse struct {
	Items []TariffHistoryEntryResponse `json:"items"`
	Total int                          `json:"total"`
}
