// Package tariff implements the rate adjustment calculation: turning a
// diesel price movement into a bounded, rounded tariff change under a
// guardrail policy.
package tariff

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"

	ierr "github.com/fleetrate/fleetrate/internal/errors"
	"github.com/fleetrate/fleetrate/internal/types"
)

// Calculation failure sentinels. Both are marked as validation errors; they
// fail the single calculation, never a whole batch.
var (
	// ErrDivisionByZero is returned when the previous diesel price is zero
	ErrDivisionByZero = errors.New("previous diesel price is zero")

	// ErrInvalidRate is returned when the current rate is not positive
	ErrInvalidRate = errors.New("current rate must be greater than zero")
)

// Adjustment reasons carried on results and history entries
const (
	ReasonBelowThreshold  = "below threshold"
	ReasonDieselIncrease  = "diesel increase"
	ReasonDieselDecrease  = "diesel decrease"
	ReasonClampedIncrease = "clamped to max increase"
	ReasonClampedDecrease = "clamped to max decrease"
)

// AdjustmentRequest is one route-per-period calculation input
type AdjustmentRequest struct {
	ClientID            string          `json:"client_id"`
	RouteID             string          `json:"route_id"`
	CurrentRate         decimal.Decimal `json:"current_rate"`
	Currency            types.Currency  `json:"currency"`
	PreviousDieselPrice decimal.Decimal `json:"previous_diesel_price"`
	NewDieselPrice      decimal.Decimal `json:"new_diesel_price"`
	PeriodMonth         time.Time       `json:"period_month"`
}

// Validate checks the calculation inputs. A zero previous diesel price is
// rejected up front rather than producing an infinite percentage.
func (r AdjustmentRequest) Validate() error {
	if r.PreviousDieselPrice.IsZero() {
		return ierr.WithError(ErrDivisionByZero).
			WithHint("Previous diesel price must be greater than zero").
			Mark(ierr.ErrValidation)
	}
	if r.PreviousDieselPrice.IsNegative() {
		return ierr.NewError("previous diesel price cannot be negative").
			WithHint("Previous diesel price must be greater than zero").
			WithReportableDetails(map[string]interface{}{
				"previous_diesel_price": r.PreviousDieselPrice.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	if !r.NewDieselPrice.IsPositive() {
		return ierr.NewError("new diesel price must be greater than zero").
			WithReportableDetails(map[string]interface{}{
				"new_diesel_price": r.NewDieselPrice.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	if !r.CurrentRate.IsPositive() {
		return ierr.WithError(ErrInvalidRate).
			WithHint("Current rate must be greater than zero").
			WithReportableDetails(map[string]interface{}{
				"current_rate": r.CurrentRate.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// AdjustmentResult is the calculation output consumed by the history
// recorder. It is derived data, never persisted directly.
type AdjustmentResult struct {
	Triggered     bool            `json:"triggered"`
	NewRate       decimal.Decimal `json:"new_rate"`
	AdjustmentPct decimal.Decimal `json:"adjustment_pct"`
	DieselPct     decimal.Decimal `json:"diesel_pct"`
	Clamped       bool            `json:"clamped"`
	Reason        string          `json:"reason"`
}

var hundred = decimal.NewFromInt(100)

// Compute derives the rate adjustment for one route and period. It is pure
// and deterministic: identical inputs always yield identical output.
//
// The diesel percentage change is passed through the policy impact factor,
// clamped symmetrically to the policy maximum, and applied to the current
// rate with round-half-away-from-zero at the policy precision. Movements
// below the trigger threshold leave the rate unchanged.
func Compute(req AdjustmentRequest, policy types.GuardrailPolicy) (AdjustmentResult, error) {
	if err := policy.Validate(); err != nil {
		return AdjustmentResult{}, err
	}
	if err := req.Validate(); err != nil {
		return AdjustmentResult{}, err
	}

	dieselPct := req.NewDieselPrice.
		Sub(req.PreviousDieselPrice).
		Div(req.PreviousDieselPrice).
		Mul(hundred)

	if dieselPct.Abs().LessThan(policy.TriggerThresholdPct) {
		return AdjustmentResult{
			Triggered: false,
			NewRate:   req.CurrentRate,
			DieselPct: dieselPct,
			Reason:    ReasonBelowThreshold,
		}, nil
	}

	rawAdjustmentPct := dieselPct.Mul(policy.ImpactFactor)

	adjustmentPct := rawAdjustmentPct
	clamped := false
	var reason string

	switch {
	case rawAdjustmentPct.GreaterThan(policy.MaxIncreasePct):
		adjustmentPct = policy.MaxIncreasePct
		clamped = true
		reason = ReasonClampedIncrease
	case rawAdjustmentPct.LessThan(policy.MaxIncreasePct.Neg()):
		adjustmentPct = policy.MaxIncreasePct.Neg()
		clamped = true
		reason = ReasonClampedDecrease
	case rawAdjustmentPct.IsNegative():
		reason = ReasonDieselDecrease
	default:
		reason = ReasonDieselIncrease
	}

	// decimal.Round rounds half away from zero at the given precision
	newRate := req.CurrentRate.
		Mul(decimal.NewFromInt(1).Add(adjustmentPct.Div(hundred))).
		Round(policy.RoundingPrecision)

	return AdjustmentResult{
		Triggered:     true,
		NewRate:       newRate,
		AdjustmentPct: adjustmentPct,
		DieselPct:     dieselPct,
		Clamped:       clamped,
		Reason:        reason,
	}, nil
}
