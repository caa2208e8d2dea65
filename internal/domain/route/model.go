// Package route holds the route catalogue and client route assignments.
package route

import (
	"strings"

	"github.com/shopspring/decimal"

	ierr "github.com/fleetrate/fleetrate/internal/errors"
	"github.com/fleetrate/fleetrate/internal/types"
)

// Route is one entry in the route catalogue. Route codes are unique
// case-insensitively across the catalogue.
type Route struct {
	ID             string           `json:"id"`
	RouteCode      string           `json:"route_code"`
	Origin         string           `json:"origin"`
	Destination    string           `json:"destination"`
	DistanceKm     *decimal.Decimal `json:"distance_km,omitempty"`
	EstimatedHours *decimal.Decimal `json:"estimated_hours,omitempty"`
	Description    string           `json:"description,omitempty"`
	IsActive       bool             `json:"is_active"`
	EnvironmentID  string           `json:"environment_id"`
	types.BaseModel
}

// NormalizeCode trims and uppercases a route code. All duplicate checks run
// on normalized codes.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks route invariants before persistence
func (r *Route) Validate() error {
	if NormalizeCode(r.RouteCode) == "" {
		return ierr.NewError("route code is required").
			Mark(ierr.ErrValidation)
	}
	if strings.TrimSpace(r.Origin) == "" {
		return ierr.NewError("origin is required").
			Mark(ierr.ErrValidation)
	}
	if strings.TrimSpace(r.Destination) == "" {
		return ierr.NewError("destination is required").
			Mark(ierr.ErrValidation)
	}
	if r.DistanceKm != nil && r.DistanceKm.IsNegative() {
		return ierr.NewError("distance cannot be negative").
			WithReportableDetails(map[string]interface{}{
				"distance_km": r.DistanceKm.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	if r.EstimatedHours != nil && r.EstimatedHours.IsNegative() {
		return ierr.NewError("estimated hours cannot be negative").
			WithReportableDetails(map[string]interface{}{
				"estimated_hours": r.EstimatedHours.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Assignment links a client to a route with its currently persisted rate.
// The rate sheet compiler reads whatever the current rate is; the monthly
// adjustment run is what moves it.
type Assignment struct {
	ID            string          `json:"id"`
	ClientID      string          `json:"client_id"`
	RouteID       string          `json:"route_id"`
	CurrentRate   decimal.Decimal `json:"current_rate"`
	RateType      types.RateType  `json:"rate_type"`
	IsActive      bool            `json:"is_active"`
	EnvironmentID string          `json:"environment_id"`
	types.BaseModel
}

// Validate checks assignment invariants before persistence
func (a *Assignment) Validate() error {
	if a.ClientID == "" {
		return ierr.NewError("client id is required").Mark(ierr.ErrValidation)
	}
	if a.RouteID == "" {
		return ierr.NewError("route id is required").Mark(ierr.ErrValidation)
	}
	if !a.CurrentRate.IsPositive() {
		return ierr.NewError("current rate must be greater than zero").
			WithReportableDetails(map[string]interface{}{
				"current_rate": a.CurrentRate.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	return a.RateType.Validate()
}
