// Package tariffhistory owns the immutable audit trail of tariff changes.
// Entries are append-only: nothing in the codebase updates or deletes an
// entry after it is written, with the single exception of the superseded
// marker flipped when a period is recomputed.
package tariffhistory

import (
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/fleetrate/fleetrate/internal/errors"
	"github.com/fleetrate/fleetrate/internal/domain/tariff"
	"github.com/fleetrate/fleetrate/internal/types"
)

// Entry is one immutable audit record of a rate change for one
// client/route/period
type Entry struct {
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

	// Superseded marks an entry replaced by a later recompute of the same
	// period. Both entries remain on record; the latest wins.
	Superseded bool `json:"superseded"`

	EnvironmentID string `json:"environment_id"`
	types.BaseModel
}

// NewEntry builds an audit entry from an applied calculation. Callers must
// only record triggered results; recording a no-op period is a programming
// error and is rejected.
func NewEntry(req tariff.AdjustmentRequest, result tariff.AdjustmentResult, environmentID string, base types.BaseModel) (*Entry, error) {
	if !result.Triggered {
		return nil, ierr.NewError("cannot record a non-triggered adjustment").
			WithHint("Only triggered adjustments are written to tariff history").
			Mark(ierr.ErrInvalidOperation)
	}

	return &Entry{
		ID:                  types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TARIFF_HISTORY),
		ClientID:            req.ClientID,
		RouteID:             req.RouteID,
		PeriodMonth:         types.PeriodMonth(req.PeriodMonth),
		PreviousRate:        req.CurrentRate,
		NewRate:             result.NewRate,
		Currency:            req.Currency,
		AdjustmentPct:       result.AdjustmentPct,
		DieselPriceAtChange: req.NewDieselPrice,
		DieselPctChange:     result.DieselPct,
		AdjustmentReason:    result.Reason,
		EnvironmentID:       environmentID,
		BaseModel:           base,
	}, nil
}

// Validate checks entry invariants before persistence
func (e *Entry) Validate() error {
	if e.ClientID == "" {
		return ierr.NewError("client id is required").Mark(ierr.ErrValidation)
	}
	if e.RouteID == "" {
		return ierr.NewError("route id is required").Mark(ierr.ErrValidation)
	}
	if e.PeriodMonth.IsZero() {
		return ierr.NewError("period month is required").Mark(ierr.ErrValidation)
	}
	if e.AdjustmentReason == "" {
		return ierr.NewError("adjustment reason is required").Mark(ierr.ErrValidation)
	}
	return nil
}
