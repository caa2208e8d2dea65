package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fleetrate/fleetrate/internal/api/dto"
	ierr "github.com/fleetrate/fleetrate/internal/errors"
	"github.com/fleetrate/fleetrate/internal/logger"
	"github.com/fleetrate/fleetrate/internal/service"
)

// TariffHandler exposes tariff adjustment runs, previews and history
type TariffHandler struct {
	service service.AdjustmentService
	log     *logger.Logger
}

func NewTariffHandler(service service.AdjustmentService, log *logger.Logger) *TariffHandler {
	return &TariffHandler{service: service, log: log}
}

// RunAdjustment executes a monthly tariff adjustment run
func (h *TariffHandler) RunAdjustment(c *gin.Context) {
	var req dto.RunAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.RunMonthlyAdjustment(c.Request.Context(), &req)
	if err != nil {
		h.log.Errorw("Failed to run tariff adjustment", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// PreviewAdjustment computes one adjustment without recording anything
func (h *TariffHandler) PreviewAdjustment(c *gin.Context) {
	var req dto.PreviewAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.PreviewAdjustment(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetRouteHistory lists the tariff audit trail for one client route
func (h *TariffHandler) GetRouteHistory(c *gin.Context) {
	clientID := c.Param("client_id")
	routeID := c.Param("route_id")

	resp, err := h.service.GetRouteHistory(c.Request.Context(), clientID, routeID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
