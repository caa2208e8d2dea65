package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fleetrate/fleetrate/internal/api/dto"
	ierr "github.com/fleetrate/fleetrate/internal/errors"
	"github.com/fleetrate/fleetrate/internal/logger"
	"github.com/fleetrate/fleetrate/internal/service"
)

// SettingsHandler exposes the tariff guardrail settings
type SettingsHandler struct {
	service service.SettingsService
	log     *logger.Logger
}

func NewSettingsHandler(service service.SettingsService, log *logger.Logger) *SettingsHandler {
	return &SettingsHandler{service: service, log: log}
}

// GetGuardrailSettings returns the merged guardrail settings view
func (h *SettingsHandler) GetGuardrailSettings(c *gin.Context) {
	settings, err := h.service.GetGuardrailSettings(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, &dto.GuardrailSettingsResponse{Settings: settings})
}

// UpdateGuardrailSettings applies a partial guardrail settings update
func (h *SettingsHandler) UpdateGuardrailSettings(c *gin.Context) {
	var req dto.UpdateGuardrailSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateGuardrailSettings(c.Request.Context(), &req)
	if err != nil {
		h.log.Errorw("Failed to update guardrail settings", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
