package service

import (
	"context"

	"github.com/fleetrate/fleetrate/internal/api/dto"
	"github.com/fleetrate/fleetrate/internal/cache"
	"github.com/fleetrate/fleetrate/internal/domain/settings"
	ierr "github.com/fleetrate/fleetrate/internal/errors"
	"github.com/fleetrate/fleetrate/internal/types"
)

// SettingsService exposes the stored tariff guardrail setting. The raw map
// may be cached, but the typed policy is re-parsed and re-validated on
// every read so an invalid stored policy can never silently drive a batch.
type SettingsService interface {
	// GetGuardrailSettings returns the stored raw guardrail map merged over
	// the built-in defaults
	GetGuardrailSettings(ctx context.Context) (map[string]string, error)

	// GetGuardrailPolicy parses and validates the stored guardrail setting
	// into a typed policy
	GetGuardrailPolicy(ctx context.Context) (types.GuardrailPolicy, error)

	// UpdateGuardrailSettings applies the given key updates to the stored
	// setting, rejecting any update that would produce an invalid policy
	UpdateGuardrailSettings(ctx context.Context, req *dto.UpdateGuardrailSettingsRequest) (*dto.GuardrailSettingsResponse, error)
}

type settingsService struct {
	ServiceParams
}

// NewSettingsService creates a new settings service
func NewSettingsService(params ServiceParams) SettingsService {
	return &settingsService{ServiceParams: params}
}

func guardrailCacheKey(ctx context.Context) string {
	return "settings:" + types.SettingKeyTariffGuardrails.String() + ":" + types.GetTenantID(ctx)
}

// fetchRawSetting returns the stored raw map, an empty map when nothing has
// been stored yet.
func (s *settingsService) fetchRawSetting(ctx context.Context) (map[string]string, error) {
	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, guardrailCacheKey(ctx)); ok {
			if raw, ok := cached.(map[string]string); ok {
				return raw, nil
			}
		}
	}

	stored, err := s.SettingsRepo.Get(ctx, types.SettingKeyTariffGuardrails)
	if err != nil {
		if ierr.IsNotFound(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	raw := stored.Value
	if raw == nil {
		raw = map[string]string{}
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, guardrailCacheKey(ctx), raw, cache.ExpiryDefaultInMemory)
	}
	return raw, nil
}

func (s *settingsService) GetGuardrailSettings(ctx context.Context) (map[string]string, error) {
	raw, err := s.fetchRawSetting(ctx)
	if err != nil {
		return nil, err
	}

	// Built-in defaults fill gaps only; stored values always win
	merged := types.DefaultGuardrailSettings()
	for k, v := range raw {
		if _, recognized := merged[k]; recognized {
			merged[k] = v
		}
	}
	return merged, nil
}

func (s *settingsService) GetGuardrailPolicy(ctx context.Context) (types.GuardrailPolicy, error) {
	raw, err := s.fetchRawSetting(ctx)
	if err != nil {
		return types.GuardrailPolicy{}, err
	}
	return types.ParseGuardrailPolicy(raw)
}

func (s *settingsService) UpdateGuardrailSettings(ctx context.Context, req *dto.UpdateGuardrailSettingsRequest) (*dto.GuardrailSettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	raw, err := s.fetchRawSetting(ctx)
	if err != nil {
		return nil, err
	}

	updated := make(map[string]string, len(raw)+len(req.Updates))
	for k, v := range raw {
		updated[k] = v
	}
	for k, v := range req.Updates {
		updated[k] = v
	}

	// Reject the write if the resulting policy would be invalid
	if _, err := types.ParseGuardrailPolicy(updated); err != nil {
		return nil, err
	}

	setting := &settings.Setting{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SETTING),
		Key:           types.SettingKeyTariffGuardrails,
		Value:         updated,
		EnvironmentID: types.GetEnvironmentID(ctx),
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
	if err := setting.Validate(); err != nil {
		return nil, err
	}

	saved, err := s.SettingsRepo.Upsert(ctx, setting)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		s.Cache.Delete(ctx, guardrailCacheKey(ctx))
	}

	s.Logger.Infow("updated tariff guardrail settings",
		"keys", len(req.Updates),
		"setting_id", saved.ID)

	merged, err := s.GetGuardrailSettings(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.GuardrailSettingsResponse{Settings: merged}, nil
}
