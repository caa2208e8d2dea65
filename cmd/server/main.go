package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fleetrate/fleetrate/internal/api"
	v1 "github.com/fleetrate/fleetrate/internal/api/v1"
	"github.com/fleetrate/fleetrate/internal/cache"
	"github.com/fleetrate/fleetrate/internal/config"
	"github.com/fleetrate/fleetrate/internal/logger"
	"github.com/fleetrate/fleetrate/internal/renderer"
	gormrepo "github.com/fleetrate/fleetrate/internal/repository/gorm"
	"github.com/fleetrate/fleetrate/internal/service"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		panic(err)
	}

	db, err := gormrepo.NewDB(cfg, log)
	if err != nil {
		log.Fatalw("failed to connect to postgres", "error", err)
	}

	params := service.ServiceParams{
		Logger:         log,
		Config:         cfg,
		Cache:          cache.NewInMemoryCache(),
		SettingsRepo:   gormrepo.NewSettingsRepository(db, log),
		RouteRepo:      gormrepo.NewRouteRepository(db, log),
		AssignmentRepo: gormrepo.NewAssignmentRepository(db, log),
		ClientRepo:     gormrepo.NewClientRepository(db, log),
		ProfileRepo:    gormrepo.NewBusinessProfileRepository(db, log),
		HistoryRepo:    gormrepo.NewTariffHistoryRepository(db, log),
	}

	sheetRenderer, err := renderer.NewHTMLRenderer(log)
	if err != nil {
		log.Fatalw("failed to initialize rate sheet renderer", "error", err)
	}

	handlers := api.Handlers{
		Tariff:      v1.NewTariffHandler(service.NewAdjustmentService(params), log),
		RouteImport: v1.NewRouteImportHandler(service.NewRouteImportService(params), log),
		RateSheet:   v1.NewRateSheetHandler(service.NewRateSheetService(params, sheetRenderer), log),
		Settings:    v1.NewSettingsHandler(service.NewSettingsService(params), log),
	}

	router := api.NewRouter(handlers, cfg, log)
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	go func() {
		log.Infow("starting server", "address", cfg.Server.Address, "mode", cfg.Deployment.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server stopped unexpectedly", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("forced server shutdown", "error", err)
	}
}
