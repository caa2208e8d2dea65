package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fleetrate/fleetrate/internal/api/dto"
	"github.com/fleetrate/fleetrate/internal/domain/ratesheet"
	ierr "github.com/fleetrate/fleetrate/internal/errors"
	"github.com/fleetrate/fleetrate/internal/logger"
	"github.com/fleetrate/fleetrate/internal/service"
)

// RateSheetHandler exposes rate sheet compilation and rendering
type RateSheetHandler struct {
	service service.RateSheetService
	log     *logger.Logger
}

func NewRateSheetHandler(service service.RateSheetService, log *logger.Logger) *RateSheetHandler {
	return &RateSheetHandler{service: service, log: log}
}

// CompileRateSheet assembles a rate sheet document for a client
func (h *RateSheetHandler) CompileRateSheet(c *gin.Context) {
	var req dto.CompileRateSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	doc, err := h.service.Compile(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// RenderRateSheet compiles and renders a rate sheet artifact. Preview
// renders inline; download sets a content disposition with the sheet
// reference as filename.
func (h *RateSheetHandler) RenderRateSheet(c *gin.Context) {
	var req dto.RenderRateSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	artifact, contentType, err := h.service.Render(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	if req.Mode == ratesheet.RenderModeDownload {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", req.Reference))
	}
	c.Data(http.StatusOK, contentType, artifact)
}
