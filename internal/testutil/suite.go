package testutil

import (
	"context"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/fleetrate/fleetrate/internal/cache"
	"github.com/fleetrate/fleetrate/internal/config"
	"github.com/fleetrate/fleetrate/internal/logger"
	"github.com/fleetrate/fleetrate/internal/types"
)

// Stores bundles all in-memory repositories used by service tests
type Stores struct {
	SettingsRepo   *InMemorySettingsStore
	RouteRepo      *InMemoryRouteStore
	AssignmentRepo *InMemoryAssignmentStore
	ClientRepo     *InMemoryClientStore
	ProfileRepo    *InMemoryBusinessProfileStore
	HistoryRepo    *InMemoryTariffHistoryStore
}

// NewStores creates a fresh set of in-memory stores
func NewStores() Stores {
	return Stores{
		SettingsRepo:   NewInMemorySettingsStore(),
		RouteRepo:      NewInMemoryRouteStore(),
		AssignmentRepo: NewInMemoryAssignmentStore(),
		ClientRepo:     NewInMemoryClientStore(),
		ProfileRepo:    NewInMemoryBusinessProfileStore(),
		HistoryRepo:    NewInMemoryTariffHistoryStore(),
	}
}

// BaseServiceTestSuite provides common setup for service test suites:
// in-memory stores, a test logger and a default configuration
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	log    *logger.Logger
	cfg    *config.Configuration
	cache  cache.Cache
}

// SetupTest initializes fresh dependencies before each test
func (s *BaseServiceTestSuite) SetupTest() {
	zapLogger := zap.NewNop()
	s.log = &logger.Logger{SugaredLogger: zapLogger.Sugar()}
	s.cfg = config.GetDefaultConfig()
	s.cache = cache.NewInMemoryCache()
	s.stores = NewStores()
	s.ctx = types.SetTenantID(context.Background(), "tenant_test")
	s.ctx = types.SetUserID(s.ctx, "user_test")
}

// TearDownTest clears state after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.stores.RouteRepo.Clear()
	s.stores.AssignmentRepo.Clear()
	s.stores.ClientRepo.Clear()
	s.stores.ProfileRepo.Clear()
	s.stores.HistoryRepo.Clear()
	s.stores.SettingsRepo.Clear()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetStores returns the in-memory stores
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.log
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.cfg
}

// GetCache returns the test cache
func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}
