package service

import (
	"github.com/fleetrate/fleetrate/internal/cache"
	"github.com/fleetrate/fleetrate/internal/config"
	"github.com/fleetrate/fleetrate/internal/domain/businessprofile"
	"github.com/fleetrate/fleetrate/internal/domain/client"
	"github.com/fleetrate/fleetrate/internal/domain/route"
	"github.com/fleetrate/fleetrate/internal/domain/settings"
	"github.com/fleetrate/fleetrate/internal/domain/tariffhistory"
	"github.com/fleetrate/fleetrate/internal/logger"
)

// ServiceParams holds the common dependencies injected into every service
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Cache  cache.Cache

	SettingsRepo   settings.Repository
	RouteRepo      route.Repository
	AssignmentRepo route.AssignmentRepository
	ClientRepo     client.Repository
	ProfileRepo    businessprofile.Repository
	HistoryRepo    tariffhistory.Repository
}
