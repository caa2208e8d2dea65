package gorm

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domainProfile "github.com/fleetrate/fleetrate/internal/domain/businessprofile"
	ierr "github.com/fleetrate/fleetrate/internal/errors"
	"github.com/fleetrate/fleetrate/internal/logger"
	"github.com/fleetrate/fleetrate/internal/types"
)

type profileRow struct {
	ID                 string `gorm:"primaryKey;size:64"`
	LegalName          string `gorm:"size:255;not null"`
	Country            string `gorm:"size:64;not null"`
	VATNumber          string `gorm:"size:64"`
	RegistrationNumber string `gorm:"size:64"`
	Address            string `gorm:"size:1024"`
	Phone              string `gorm:"size:64"`
	Email              string `gorm:"size:255"`
	TenantID           string `gorm:"size:64;index"`
	RecordStatus       string `gorm:"size:32"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	CreatedBy          string `gorm:"size:64"`
	UpdatedBy          string `gorm:"size:64"`
}

func (profileRow) TableName() string { return "business_profiles" }

// brandingRow is a single-row table; id is always "default"
type brandingRow struct {
	ID          string `gorm:"primaryKey;size:16"`
	TradingName string `gorm:"size:255"`
	LogoURL     string `gorm:"size:1024"`
	AccentColor string `gorm:"size:16"`
	FooterNote  string `gorm:"size:1024"`
	UpdatedAt   time.Time
}

func (brandingRow) TableName() string { return "branding" }

const brandingRowID = "default"

func profileRowFromDomain(p *domainProfile.Profile) *profileRow {
	return &profileRow{
		ID:                 p.ID,
		LegalName:          p.LegalName,
		Country:            p.Country,
		VATNumber:          p.VATNumber,
		RegistrationNumber: p.RegistrationNumber,
		Address:            p.Address,
		Phone:              p.Phone,
		Email:              p.Email,
		TenantID:           p.TenantID,
		RecordStatus:       string(p.Status),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
		CreatedBy:          p.CreatedBy,
		UpdatedBy:          p.UpdatedBy,
	}
}

func (row *profileRow) toDomain() *domainProfile.Profile {
	return &domainProfile.Profile{
		ID:                 row.ID,
		LegalName:          row.LegalName,
		Country:            row.Country,
		VATNumber:          row.VATNumber,
		RegistrationNumber: row.RegistrationNumber,
		Address:            row.Address,
		Phone:              row.Phone,
		Email:              row.Email,
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

type profileRepository struct {
	db     *gorm.DB
	logger *logger.Logger
}

// NewBusinessProfileRepository creates a new business profile repository
func NewBusinessProfileRepository(db *gorm.DB, logger *logger.Logger) domainProfile.Repository {
	return &profileRepository{db: db, logger: logger}
}

func (r *profileRepository) Create(ctx context.Context, p *domainProfile.Profile) (*domainProfile.Profile, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	row := profileRowFromDomain(p)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, wrapDBErr(err, "Failed to create business profile")
	}
	return row.toDomain(), nil
}

func (r *profileRepository) Get(ctx context.Context, id string) (*domainProfile.Profile, error) {
	var row profileRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, wrapDBErr(err, "Business profile not found")
	}
	return row.toDomain(), nil
}

func (r *profileRepository) List(ctx context.Context) ([]*domainProfile.Profile, error) {
	var rows []profileRow
	if err := r.db.WithContext(ctx).Order("legal_name").Find(&rows).Error; err != nil {
		return nil, wrapDBErr(err, "Failed to list business profiles")
	}
	profiles := make([]*domainProfile.Profile, len(rows))
	for i := range rows {
		profiles[i] = rows[i].toDomain()
	}
	return profiles, nil
}

func (r *profileRepository) GetBranding(ctx context.Context) (domainProfile.Branding, error) {
	var row brandingRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", brandingRowID).Error
	if err != nil {
		if ierr.Is(err, gorm.ErrRecordNotFound) {
			return domainProfile.Branding{}, nil
		}
		return domainProfile.Branding{}, wrapDBErr(err, "Failed to load branding")
	}
	return domainProfile.Branding{
		TradingName: row.TradingName,
		LogoURL:     row.LogoURL,
		AccentColor: row.AccentColor,
		FooterNote:  row.FooterNote,
	}, nil
}

func (r *profileRepository) SaveBranding(ctx context.Context, b domainProfile.Branding) error {
	row := &brandingRow{
		ID:          brandingRowID,
		TradingName: b.TradingName,
		LogoURL:     b.LogoURL,
		AccentColor: b.AccentColor,
		FooterNote:  b.FooterNote,
		UpdatedAt:   time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(row).Error
	if err != nil {
		return wrapDBErr(err, "Failed to save branding")
	}
	return nil
}
