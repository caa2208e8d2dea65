package dto

import (
	"github.com/shopspring/decimal"

	"github.com/fleetrate/fleetrate/internal/domain/route"
)

// Recognized bulk import column keys. Unrecognized keys are ignored.
const (
	ImportKeyRouteCode      = "route_code"
	ImportKeyOrigin         = "origin"
	ImportKeyDestination    = "destination"
	ImportKeyDistanceKm     = "distance_km"
	ImportKeyEstimatedHours = "estimated_hours"
	ImportKeyDescription    = "route_description"
	ImportKeyIsActive       = "is_active"
)

// ImportRowStatus is the outcome status of one imported row
type ImportRowStatus string

const (
	ImportRowStatusOK       ImportRowStatus = "ok"
	ImportRowStatusRejected ImportRowStatus = "rejected"
)

// ImportRoutesRequest carries the ordered raw rows of a bulk route import.
// Each row is a string-keyed map as parsed from the spreadsheet; the header
// row is not data.
type ImportRoutesRequest struct {
	Rows []map[string]string `json:"rows"`
}

// ImportRowOutcome reports one row's result. Errors hold the ordered
// validation messages for a rejected row.
type ImportRowOutcome struct {
	// RowNumber is the 1-based data row index plus the header offset, so
	// the first data row is row 2, matching spreadsheet conventions
	RowNumber int             `json:"row_number"`
	Status    ImportRowStatus `json:"status"`
	Route     *RouteResponse  `json:"route,omitempty"`
	Errors    []string        `json:"errors,omitempty"`
}

// ImportRoutesResponse is the batch result. SuccessCount plus FailedCount
// always equals the number of data rows supplied.
type ImportRoutesResponse struct {
	SuccessCount int                `json:"success_count"`
	FailedCount  int                `json:"failed_count"`
	Outcomes     []ImportRowOutcome `json:"outcomes"`

	// BatchErrors reports batch-level failures such as an empty input
	BatchErrors []string `json:"batch_errors,omitempty"`
}

// RouteResponse is a route in API responses
type RouteResponse struct {
	ID             string           `json:"id"`
	RouteCode      string           `json:"route_code"`
	Origin         string           `json:"origin"`
	Destination    string           `json:"destination"`
	DistanceKm     *decimal.Decimal `json:"distance_km,omitempty"`
	EstimatedHours *decimal.Decimal `json:"estimated_hours,omitempty"`
	Description    string           `json:"description,omitempty"`
	IsActive       bool             `json:"is_active"`
}

// NewRouteResponse converts a domain route
func NewRouteResponse(r *route.Route) *RouteResponse {
	if r == nil {
		return nil
	}
	return &RouteResponse{
		ID:             r.ID,
		RouteCode:      r.RouteCode,
		Origin:         r.Origin,
		Destination:    r.Destination,
		DistanceKm:     r.DistanceKm,
		EstimatedHours: r.EstimatedHours,
		Description:    r.Description,
		IsActive:       r.IsActive,
	}
}
