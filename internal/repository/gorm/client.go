package gorm

import (
	"context"
	"time"

	"gorm.io/gorm"

	domainClient "github.com/fleetrate/fleetrate/internal/domain/client"
	"github.com/fleetrate/fleetrate/internal/logger"
	"github.com/fleetrate/fleetrate/internal/types"
)

type clientRow struct {
	ID            string `gorm:"primaryKey;size:64"`
	Name          string `gorm:"size:255;not null"`
	Code          string `gorm:"size:64;index"`
	Currency      string `gorm:"size:3"`
	VATNumber     string `gorm:"size:64"`
	ContactEmail  string `gorm:"size:255"`
	ContactPhone  string `gorm:"size:64"`
	IsActive      bool   `gorm:"not null;default:true"`
	EnvironmentID string `gorm:"size:64;index"`
	TenantID      string `gorm:"size:64;index"`
	RecordStatus  string `gorm:"size:32"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatedBy     string `gorm:"size:64"`
	UpdatedBy     string `gorm:"size:64"`
}

func (clientRow) TableName() string { return "clients" }

func clientRowFromDomain(c *domainClient.Client) *clientRow {
	return &clientRow{
		ID:            c.ID,
		Name:          c.Name,
		Code:          c.Code,
		Currency:      string(c.Currency),
		VATNumber:     c.VATNumber,
		ContactEmail:  c.ContactEmail,
		ContactPhone:  c.ContactPhone,
		IsActive:      c.IsActive,
		EnvironmentID: c.EnvironmentID,
		TenantID:      c.TenantID,
		RecordStatus:  string(c.Status),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
		CreatedBy:     c.CreatedBy,
		UpdatedBy:     c.UpdatedBy,
	}
}

func (row *clientRow) toDomain() *domainClient.Client {
	return &domainClient.Client{
		ID:            row.ID,
		Name:          row.Name,
		Code:          row.Code,
		Currency:      types.Currency(row.Currency),
		VATNumber:     row.VATNumber,
		ContactEmail:  row.ContactEmail,
		ContactPhone:  row.ContactPhone,
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

type clientRepository struct {
	db     *gorm.DB
	logger *logger.Logger
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB, logger *logger.Logger) domainClient.Repository {
	return &clientRepository{db: db, logger: logger}
}

func (r *clientRepository) Create(ctx context.Context, c *domainClient.Client) (*domainClient.Client, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	row := clientRowFromDomain(c)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, wrapDBErr(err, "Failed to create client")
	}
	return row.toDomain(), nil
}

func (r *clientRepository) Get(ctx context.Context, id string) (*domainClient.Client, error) {
	var row clientRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, wrapDBErr(err, "Client not found")
	}
	return row.toDomain(), nil
}

func (r *clientRepository) ListActive(ctx context.Context) ([]*domainClient.Client, error) {
	var rows []clientRow
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name").
		Find(&rows).Error
	if err != nil {
		return nil, wrapDBErr(err, "Failed to list clients")
	}
	clients := make([]*domainClient.Client, len(rows))
	for i := range rows {
		clients[i] = rows[i].toDomain()
	}
	return clients, nil
}
