// Package settings stores raw key/value configuration consumed by the
// engine, most notably the tariff guardrail setting.
package settings

import (
	"context"

	ierr "github.com/fleetrate/fleetrate/internal/errors"
	"github.com/fleetrate/fleetrate/internal/types"
)

// Setting is one stored configuration record: a key with a flat string map
// value. Values stay raw here; typed parsing happens at the consumer
// boundary (types.ParseGuardrailPolicy).
type Setting struct {
	ID            string            `json:"id"`
	Key           types.SettingKey  `json:"key"`
	Value         map[string]string `json:"value"`
	EnvironmentID string            `json:"environment_id"`
	types.BaseModel
}

// GetValue retrieves a raw value by key
func (s *Setting) GetValue(key string) (string, bool) {
	if s.Value == nil {
		return "", false
	}
	v, ok := s.Value[key]
	return v, ok
}

// SetValue sets a raw value for a specific key
func (s *Setting) SetValue(key, value string) {
	if s.Value == nil {
		s.Value = make(map[string]string)
	}
	s.Value[key] = value
}

// Validate validates the setting
func (s *Setting) Validate() error {
	if s.Key == "" {
		return ierr.NewError("setting key is required").
			Mark(ierr.ErrValidation)
	}
	if len(s.Key) > 255 {
		return ierr.NewError("setting key cannot exceed 255 characters").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Repository defines the interface for settings persistence
type Repository interface {
	// Get fetches a setting by key; a not-found error when absent
	Get(ctx context.Context, key types.SettingKey) (*Setting, error)

	// Upsert creates or replaces the setting for its key
	Upsert(ctx context.Context, s *Setting) (*Setting, error)
}
