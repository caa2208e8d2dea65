package v1

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fleetrate/fleetrate/internal/api/dto"
	ierr "github.com/fleetrate/fleetrate/internal/errors"
	"github.com/fleetrate/fleetrate/internal/logger"
	"github.com/fleetrate/fleetrate/internal/service"
)

// RouteImportHandler exposes the bulk route import endpoints
type RouteImportHandler struct {
	service service.RouteImportService
	log     *logger.Logger
}

func NewRouteImportHandler(service service.RouteImportService, log *logger.Logger) *RouteImportHandler {
	return &RouteImportHandler{service: service, log: log}
}

// ImportRoutes imports pre-parsed rows supplied in the request body
func (h *RouteImportHandler) ImportRoutes(c *gin.Context) {
	var req dto.ImportRoutesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ImportRows(c.Request.Context(), &req)
	if err != nil {
		h.log.Errorw("Route import failed", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ImportRoutesFile imports routes from an uploaded CSV or XLSX file.
// The file is supplied as multipart form field "file"; XLSX uploads may
// name a sheet via the "sheet" form field.
func (h *RouteImportHandler) ImportRoutesFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("A file upload is required in form field 'file'").
			Mark(ierr.ErrValidation))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Unable to read uploaded file").
			Mark(ierr.ErrValidation))
		return
	}
	defer f.Close()

	var resp *dto.ImportRoutesResponse
	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".csv":
		resp, err = h.service.ImportCSV(c.Request.Context(), f)
	case ".xlsx":
		resp, err = h.service.ImportWorkbook(c.Request.Context(), f, c.PostForm("sheet"))
	default:
		c.Error(ierr.NewError("unsupported file type").
			WithHint("Only .csv and .xlsx uploads are supported").
			WithReportableDetails(map[string]any{
				"filename": fileHeader.Filename,
			}).
			Mark(ierr.ErrValidation))
		return
	}
	if err != nil {
		h.log.Errorw("Route import failed", "error", err, "filename", fileHeader.Filename)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
