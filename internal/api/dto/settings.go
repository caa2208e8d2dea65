package dto

import (
	ierr "github.com/fleetrate/fleetrate/internal/errors"
	"github.com/fleetrate/fleetrate/internal/types"
)

// UpdateGuardrailSettingsRequest applies partial updates to the stored
// tariff guardrail setting
type UpdateGuardrailSettingsRequest struct {
	Updates map[string]string `json:"updates" validate:"required"`
}

func (r *UpdateGuardrailSettingsRequest) Validate() error {
	if len(r.Updates) == 0 {
		return ierr.NewError("no setting updates provided").
			WithHint("Provide at least one guardrail setting key to update").
			Mark(ierr.ErrValidation)
	}

	recognized := types.DefaultGuardrailSettings()
	for key := range r.Updates {
		if _, ok := recognized[key]; !ok {
			return ierr.NewErrorf("unrecognized guardrail setting key: %s", key).
				WithHint("See the tariff guardrail documentation for recognized keys").
				WithReportableDetails(map[string]interface{}{
					"key": key,
				}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// GuardrailSettingsResponse returns the effective guardrail setting map
// (stored values merged over built-in defaults)
type GuardrailSettingsResponse struct {
	Settings map[string]string `json:"settings"`
}
