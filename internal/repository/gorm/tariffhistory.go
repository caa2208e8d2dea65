package gorm

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domainHistory "github.com/fleetrate/fleetrate/internal/domain/tariffhistory"
	"github.com/fleetrate/fleetrate/internal/logger"
	"github.com/fleetrate/fleetrate/internal/types"
)

type historyRow struct {
	ID                  string          `gorm:"primaryKey;size:64"`
	ClientID            string          `gorm:"size:64;index:idx_history_period;not null"`
	RouteID             string          `gorm:"size:64;index:idx_history_period;not null"`
	PeriodMonth         time.Time       `gorm:"index:idx_history_period;not null"`
	PreviousRate        decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	NewRate             decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	Currency            string          `gorm:"size:3;not null"`
	AdjustmentPct       decimal.Decimal `gorm:"type:numeric(9,4)"`
	DieselPriceAtChange decimal.Decimal `gorm:"type:numeric(10,4)"`
	DieselPctChange     decimal.Decimal `gorm:"type:numeric(9,4)"`
	AdjustmentReason    string          `gorm:"size:64;not null"`
	Superseded          bool            `gorm:"not null;default:false"`
	EnvironmentID       string          `gorm:"size:64;index"`
	TenantID            string          `gorm:"size:64;index"`
	RecordStatus        string          `gorm:"size:32"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
	CreatedBy           string `gorm:"size:64"`
	UpdatedBy           string `gorm:"size:64"`
}

func (historyRow) TableName() string { return "tariff_history" }

func historyRowFromDomain(e *domainHistory.Entry) *historyRow {
	return &historyRow{
		ID:                  e.ID,
		ClientID:            e.ClientID,
		RouteID:             e.RouteID,
		PeriodMonth:         e.PeriodMonth,
		PreviousRate:        e.PreviousRate,
		NewRate:             e.NewRate,
		Currency:            string(e.Currency),
		AdjustmentPct:       e.AdjustmentPct,
		DieselPriceAtChange: e.DieselPriceAtChange,
		DieselPctChange:     e.DieselPctChange,
		AdjustmentReason:    e.AdjustmentReason,
		Superseded:          e.Superseded,
		EnvironmentID:       e.EnvironmentID,
		TenantID:            e.TenantID,
		RecordStatus:        string(e.Status),
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
		CreatedBy:           e.CreatedBy,
		UpdatedBy:           e.UpdatedBy,
	}
}

func (row *historyRow) toDomain() *domainHistory.Entry {
	return &domainHistory.Entry{
		ID:                  row.ID,
		ClientID:            row.ClientID,
		RouteID:             row.RouteID,
		PeriodMonth:         row.PeriodMonth,
		PreviousRate:        row.PreviousRate,
		NewRate:             row.NewRate,
		Currency:            types.Currency(row.Currency),
		AdjustmentPct:       row.AdjustmentPct,
		DieselPriceAtChange: row.DieselPriceAtChange,
		DieselPctChange:     row.DieselPctChange,
		AdjustmentReason:    row.AdjustmentReason,
		Superseded:          row.Superseded,
		EnvironmentID:       row.EnvironmentID,
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

type historyRepository struct {
	db     *gorm.DB
	logger *logger.Logger
}

// NewTariffHistoryRepository creates a new tariff history repository
func NewTariffHistoryRepository(db *gorm.DB, logger *logger.Logger) domainHistory.Repository {
	return &historyRepository{db: db, logger: logger}
}

func (r *historyRepository) Append(ctx context.Context, entry *domainHistory.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(historyRowFromDomain(entry)).Error; err != nil {
		return wrapDBErr(err, "Failed to append tariff history entry")
	}
	return nil
}

func (r *historyRepository) MarkSuperseded(ctx context.Context, clientID, routeID string, periodMonth time.Time) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&historyRow{}).
		Where("client_id = ? AND route_id = ? AND period_month = ? AND superseded = ?",
			clientID, routeID, types.PeriodMonth(periodMonth), false).
		Update("superseded", true)
	if result.Error != nil {
		return 0, wrapDBErr(result.Error, "Failed to supersede tariff history entries")
	}
	return int(result.RowsAffected), nil
}

func (r *historyRepository) ListByPeriod(ctx context.Context, periodMonth time.Time) ([]*domainHistory.Entry, error) {
	var rows []historyRow
	err := r.db.WithContext(ctx).
		Where("period_month = ?", types.PeriodMonth(periodMonth)).
		Order("created_at").
		Find(&rows).Error
	if err != nil {
		return nil, wrapDBErr(err, "Failed to list tariff history for period")
	}
	return historyRowsToDomain(rows), nil
}

func (r *historyRepository) ListByRoute(ctx context.Context, clientID, routeID string) ([]*domainHistory.Entry, error) {
	var rows []historyRow
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND route_id = ?", clientID, routeID).
		Order("period_month DESC, created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, wrapDBErr(err, "Failed to list tariff history for route")
	}
	return historyRowsToDomain(rows), nil
}

func (r *historyRepository) CountForPeriod(ctx context.Context, clientID, routeID string, periodMonth time.Time) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&historyRow{}).
		Where("client_id = ? AND route_id = ? AND period_month = ? AND superseded = ?",
			clientID, routeID, types.PeriodMonth(periodMonth), false).
		Count(&count).Error
	if err != nil {
		return 0, wrapDBErr(err, "Failed to count tariff history entries")
	}
	return int(count), nil
}

func historyRowsToDomain(rows []historyRow) []*domainHistory.Entry {
	entries := make([]*domainHistory.Entry, len(rows))
	for i := range rows {
		entries[i] = rows[i].toDomain()
	}
	return entries
}
