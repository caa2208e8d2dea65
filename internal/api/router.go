package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/fleetrate/fleetrate/internal/api/v1"
	"github.com/fleetrate/fleetrate/internal/config"
	"github.com/fleetrate/fleetrate/internal/logger"
	"github.com/fleetrate/fleetrate/internal/rest/middleware"
	"github.com/fleetrate/fleetrate/internal/types"
)

// Handlers bundles all v1 handlers for router wiring
type Handlers struct {
	Tariff      *v1.TariffHandler
	RouteImport *v1.RouteImportHandler
	RateSheet   *v1.RateSheetHandler
	Settings    *v1.SettingsHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode == types.RunModeProd {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.LoggingMiddleware(log),
		middleware.ErrorHandler(),
		middleware.TenantMiddleware(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/v1")
	{
		tariffs := api.Group("/tariffs")
		{
			tariffs.POST("/adjustments", handlers.Tariff.RunAdjustment)
			tariffs.POST("/adjustments/preview", handlers.Tariff.PreviewAdjustment)
			tariffs.GET("/history/:client_id/:route_id", handlers.Tariff.GetRouteHistory)
		}

		routes := api.Group("/routes")
		{
			routes.POST("/import", handlers.RouteImport.ImportRoutes)
			routes.POST("/import/file", handlers.RouteImport.ImportRoutesFile)
		}

		ratesheets := api.Group("/ratesheets")
		{
			ratesheets.POST("/compile", handlers.RateSheet.CompileRateSheet)
			ratesheets.POST("/render", handlers.RateSheet.RenderRateSheet)
		}

		settings := api.Group("/settings")
		{
			settings.GET("/guardrails", handlers.Settings.GetGuardrailSettings)
			settings.PUT("/guardrails", handlers.Settings.UpdateGuardrailSettings)
		}
	}

	return router
}
