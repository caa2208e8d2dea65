package gorm

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domainRoute "github.com/fleetrate/fleetrate/internal/domain/route"
	ierr "github.com/fleetrate/fleetrate/internal/errors"
	"github.com/fleetrate/fleetrate/internal/logger"
	"github.com/fleetrate/fleetrate/internal/types"
)

type routeRow struct {
	ID             string           `gorm:"primaryKey;size:64"`
	RouteCode      string           `gorm:"uniqueIndex;size:64;not null"`
	Origin         string           `gorm:"size:255;not null"`
	Destination    string           `gorm:"size:255;not null"`
	DistanceKm     *decimal.Decimal `gorm:"type:numeric(12,3)"`
	EstimatedHours *decimal.Decimal `gorm:"type:numeric(8,2)"`
	Description    string           `gorm:"size:1024"`
	IsActive       bool             `gorm:"not null;default:true"`
	EnvironmentID  string           `gorm:"size:64;index"`
	TenantID       string           `gorm:"size:64;index"`
	RecordStatus   string           `gorm:"size:32"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CreatedBy      string `gorm:"size:64"`
	UpdatedBy      string `gorm:"size:64"`
}

func (routeRow) TableName() string { return "routes" }

func routeRowFromDomain(r *domainRoute.Route) *routeRow {
	return &routeRow{
		ID:             r.ID,
		RouteCode:      domainRoute.NormalizeCode(r.RouteCode),
		Origin:         r.Origin,
		Destination:    r.Destination,
		DistanceKm:     r.DistanceKm,
		EstimatedHours: r.EstimatedHours,
		Description:    r.Description,
		IsActive:       r.IsActive,
		EnvironmentID:  r.EnvironmentID,
		TenantID:       r.TenantID,
		RecordStatus:   string(r.Status),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		CreatedBy:      r.CreatedBy,
		UpdatedBy:      r.UpdatedBy,
	}
}

func (row *routeRow) toDomain() *domainRoute.Route {
	return &domainRoute.Route{
		ID:             row.ID,
		RouteCode:      row.RouteCode,
		Origin:         row.Origin,
		Destination:    row.Destination,
		DistanceKm:     row.DistanceKm,
		EstimatedHours: row.EstimatedHours,
		Description:    row.Description,
		IsActive:       row.IsActive,
		EnvironmentID:  row.EnvironmentID,
		BaseModel: types.BaseModel{
			TenantID:  row.TenantID,
			Status:    types.Status(row.RecordStatus),
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
			CreatedBy: row.CreatedBy,
			UpdatedBy: row.UpdatedBy,
		},
	}
}

type routeRepository struct {
	db     *gorm.DB
	logger *logger.Logger
}

// NewRouteRepository creates a new route repository
func NewRouteRepository(db *gorm.DB, logger *logger.Logger) domainRoute.Repository {
	return &routeRepository{db: db, logger: logger}
}

func (r *routeRepository) Create(ctx context.Context, route *domainRoute.Route) (*domainRoute.Route, error) {
	if err := route.Validate(); err != nil {
		return nil, err
	}

	row := routeRowFromDomain(route)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if ierr.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ierr.NewErrorf("Route code %q already exists", row.RouteCode).
				WithReportableDetails(map[string]interface{}{
					"route_code": row.RouteCode,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return nil, wrapDBErr(err, "Failed to create route")
	}
	return row.toDomain(), nil
}

func (r *routeRepository) Get(ctx context.Context, id string) (*domainRoute.Route, error) {
	var row routeRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		return nil, wrapDBErr(err, "Route not found")
	}
	return row.toDomain(), nil
}

func (r *routeRepository) GetByCode(ctx context.Context, code string) (*domainRoute.Route, error) {
	var row routeRow
	err := r.db.WithContext(ctx).
		First(&row, "route_code = ?", domainRoute.NormalizeCode(code)).Error
	if err != nil {
		return nil, wrapDBErr(err, "Route not found")
	}
	return row.toDomain(), nil
}

func (r *routeRepository) List(ctx context.Context) ([]*domainRoute.Route, error) {
	var rows []routeRow
	if err := r.db.WithContext(ctx).Order("route_code").Find(&rows).Error; err != nil {
		return nil, wrapDBErr(err, "Failed to list routes")
	}
	routes := make([]*domainRoute.Route, len(rows))
	for i := range rows {
		routes[i] = rows[i].toDomain()
	}
	return routes, nil
}

func (r *routeRepository) ListRouteCodes(ctx context.Context) (map[string]struct{}, error) {
	var codes []string
	if err := r.db.WithContext(ctx).
		Model(&routeRow{}).
		Pluck("route_code", &codes).Error; err != nil {
		return nil, wrapDBErr(err, "Failed to list route codes")
	}
	set := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		set[domainRoute.NormalizeCode(code)] = struct{}{}
	}
	return set, nil
}

type assignmentRow struct {
	ID            string          `gorm:"primaryKey;size:64"`
	ClientID      string          `gorm:"size:64;index;not null"`
	RouteID       string          `gorm:"size:64;index;not null"`
	CurrentRate   decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	RateType      string          `gorm:"size:16;not null"`
	IsActive      bool            `gorm:"not null;default:true"`
	EnvironmentID string          `gorm:"size:64;index"`
	TenantID      string          `gorm:"size:64;index"`
	RecordStatus  string          `gorm:"size:32"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatedBy     string `gorm:"size:64"`
	UpdatedBy     string `gorm:"size:64"`
}

func (assignmentRow) TableName() string { return "route_assignments" }

func assignmentRowFromDomain(a *domainRoute.Assignment) *assignmentRow {
	return &assignmentRow{
		ID:            a.ID,
		ClientID:      a.ClientID,
		RouteID:       a.RouteID,
		CurrentRate:   a.CurrentRate,
		RateType:      string(a.RateType),
		IsActive:      a.IsActive,
		EnvironmentID: a.EnvironmentID,
		TenantID:      a.TenantID,
		RecordStatus:  string(a.Status),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
		CreatedBy:     a.CreatedBy,
		UpdatedBy:     a.UpdatedBy,
	}
}

func (row *assignmentRow) toDomain() *domainRoute.Assignment {
	return &domainRoute.Assignment{
		ID:            row.ID,
		ClientID:      row.ClientID,
		RouteID:       row.RouteID,
		CurrentRate:   row.CurrentRate,
		RateType:      types.RateType(row.RateType),
		IsActive:      row.IsActive,
		EnvironmentID: row.EnvironmentID,
		BaseModel: types.BaseModel{
			TenantID:  row.TenantID,
			Status:    types.Status(row.RecordStatus),
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
			CreatedBy: row.CreatedBy,
			UpdatedBy: row.UpdatedBy,
		},
	}
}

type assignmentRepository struct {
	db     *gorm.DB
	logger *logger.Logger
}

// NewAssignmentRepository creates a new route assignment repository
func NewAssignmentRepository(db *gorm.DB, logger *logger.Logger) domainRoute.AssignmentRepository {
	return &assignmentRepository{db: db, logger: logger}
}

func (r *assignmentRepository) Create(ctx context.Context, a *domainRoute.Assignment) (*domainRoute.Assignment, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	row := assignmentRowFromDomain(a)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, wrapDBErr(err, "Failed to create route assignment")
	}
	return row.toDomain(), nil
}

func (r *assignmentRepository) ListActiveForClient(ctx context.Context, clientID string) ([]*domainRoute.Assignment, error) {
	var rows []assignmentRow
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND is_active = ?", clientID, true).
		Order("created_at").
		Find(&rows).Error
	if err != nil {
		return nil, wrapDBErr(err, "Failed to list client route assignments")
	}
	assignments := make([]*domainRoute.Assignment, len(rows))
	for i := range rows {
		assignments[i] = rows[i].toDomain()
	}
	return assignments, nil
}

func (r *assignmentRepository) ListActive(ctx context.Context) ([]*domainRoute.Assignment, error) {
	var rows []assignmentRow
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("client_id, created_at").
		Find(&rows).Error
	if err != nil {
		return nil, wrapDBErr(err, "Failed to list active route assignments")
	}
	assignments := make([]*domainRoute.Assignment, len(rows))
	for i := range rows {
		assignments[i] = rows[i].toDomain()
	}
	return assignments, nil
}

func (r *assignmentRepository) UpdateCurrentRate(ctx context.Context, id string, rate decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&assignmentRow{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_rate": rate,
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return wrapDBErr(result.Error, "Failed to update assignment rate")
	}
	if result.RowsAffected == 0 {
		return ierr.NewErrorf("route assignment not found: %s", id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
