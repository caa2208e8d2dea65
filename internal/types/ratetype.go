package types

import (
	"time"

	ierr "github.com/fleetrate/fleetrate/internal/errors"
)

// RateType describes how a route rate is charged
type RateType string

const (
	RateTypeFixed RateType = "fixed"
	RateTypePerKm RateType = "per_km"
)

func (r RateType) Validate() error {
	switch r {
	case RateTypeFixed, RateTypePerKm:
		return nil
	default:
		return ierr.NewErrorf("invalid rate type: %s", r).
			WithHint("Rate type must be fixed or per_km").
			Mark(ierr.ErrValidation)
	}
}

// PeriodMonth truncates a timestamp to the first of its month in UTC.
// Tariff history is keyed on period months, never raw timestamps.
func PeriodMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
