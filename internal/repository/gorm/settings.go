package gorm

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domainSettings "github.com/fleetrate/fleetrate/internal/domain/settings"
	ierr "github.com/fleetrate/fleetrate/internal/errors"
	"github.com/fleetrate/fleetrate/internal/logger"
	"github.com/fleetrate/fleetrate/internal/types"
)

type settingRow struct {
	ID            string `gorm:"size:64;not null"`
	Key           string `gorm:"primaryKey;size:255"`
	Value         string `gorm:"type:jsonb;not null;default:'{}'"`
	EnvironmentID string `gorm:"size:64;index"`
	TenantID      string `gorm:"size:64;index"`
	RecordStatus  string `gorm:"size:32"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatedBy     string `gorm:"size:64"`
	UpdatedBy     string `gorm:"size:64"`
}

func (settingRow) TableName() string { return "settings" }

func settingRowFromDomain(s *domainSettings.Setting) (*settingRow, error) {
	value, err := json.Marshal(s.Value)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to encode setting value").
			Mark(ierr.ErrInternal)
	}
	return &settingRow{
		ID:            s.ID,
		Key:           s.Key.String(),
		Value:         string(value),
		EnvironmentID: s.EnvironmentID,
		TenantID:      s.TenantID,
		RecordStatus:  string(s.Status),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
		CreatedBy:     s.CreatedBy,
		UpdatedBy:     s.UpdatedBy,
	}, nil
}

func (row *settingRow) toDomain() (*domainSettings.Setting, error) {
	value := make(map[string]string)
	if row.Value != "" {
		if err := json.Unmarshal([]byte(row.Value), &value); err != nil {
			return nil, ierr.WithError(err).
				WithHintf("Failed to decode stored setting %q", row.Key).
				Mark(ierr.ErrInternal)
		}
	}
	return &domainSettings.Setting{
		ID:            row.ID,
		Key:           types.SettingKey(row.Key),
		Value:         value,
		EnvironmentID: row.EnvironmentID,
		BaseModel: types.BaseModel{
			TenantID:  row.TenantID,
			Status:    types.Status(row.RecordStatus),
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
			CreatedBy: row.CreatedBy,
			UpdatedBy: row.UpdatedBy,
		},
	}, nil
}

type settingsRepository struct {
	db     *gorm.DB
	logger *logger.Logger
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB, logger *logger.Logger) domainSettings.Repository {
	return &settingsRepository{db: db, logger: logger}
}

func (r *settingsRepository) Get(ctx context.Context, key types.SettingKey) (*domainSettings.Setting, error) {
	var row settingRow
	err := r.db.WithContext(ctx).First(&row, "key = ?", key.String()).Error
	if err != nil {
		if ierr.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierr.NewErrorf("setting not found: %s", key).
				Mark(ierr.ErrNotFound)
		}
		return nil, wrapDBErr(err, "Failed to load setting")
	}
	return row.toDomain()
}

func (r *settingsRepository) Upsert(ctx context.Context, s *domainSettings.Setting) (*domainSettings.Setting, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	row, err := settingRowFromDomain(s)
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at", "updated_by"}),
		}).
		Create(row).Error
	if err != nil {
		return nil, wrapDBErr(err, "Failed to save setting")
	}
	return row.toDomain()
}
