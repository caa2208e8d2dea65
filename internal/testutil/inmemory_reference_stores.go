package testutil

import (
	"context"
	"sync"

	"github.com/fleetrate/fleetrate/internal/domain/businessprofile"
	"github.com/fleetrate/fleetrate/internal/domain/client"
	"github.com/fleetrate/fleetrate/internal/domain/settings"
	ierr "github.com/fleetrate/fleetrate/internal/errors"
	"github.com/fleetrate/fleetrate/internal/types"
)

// InMemoryClientStore implements client.Repository
type InMemoryClientStore struct {
	*InMemoryStore[*client.Client]
}

// NewInMemoryClientStore creates a new in-memory client store
func NewInMemoryClientStore() *InMemoryClientStore {
	return &InMemoryClientStore{
		InMemoryStore: NewInMemoryStore[*client.Client](),
	}
}

func copyClient(c *client.Client) *client.Client {
	if c == nil {
		return nil
	}
	copied := *c
	return &copied
}

func (s *InMemoryClientStore) Create(ctx context.Context, c *client.Client) (*client.Client, error) {
	if c == nil {
		return nil, ierr.NewError("client cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.InMemoryStore.Create(ctx, c.ID, copyClient(c)); err != nil {
		return nil, err
	}
	return copyClient(c), nil
}

func (s *InMemoryClientStore) Get(ctx context.Context, id string) (*client.Client, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return copyClient(c), nil
}

func (s *InMemoryClientStore) ListActive(ctx context.Context) ([]*client.Client, error) {
	var result []*client.Client
	for _, c := range s.InMemoryStore.List(ctx) {
		if c.IsActive {
			result = append(result, copyClient(c))
		}
	}
	return result, nil
}

// InMemoryBusinessProfileStore implements businessprofile.Repository
type InMemoryBusinessProfileStore struct {
	*InMemoryStore[*businessprofile.Profile]

	mu       sync.RWMutex
	branding businessprofile.Branding
}

// NewInMemoryBusinessProfileStore creates a new in-memory business profile store
func NewInMemoryBusinessProfileStore() *InMemoryBusinessProfileStore {
	return &InMemoryBusinessProfileStore{
		InMemoryStore: NewInMemoryStore[*businessprofile.Profile](),
	}
}

func copyProfile(p *businessprofile.Profile) *businessprofile.Profile {
	if p == nil {
		return nil
	}
	copied := *p
	return &copied
}

func (s *InMemoryBusinessProfileStore) Create(ctx context.Context, p *businessprofile.Profile) (*businessprofile.Profile, error) {
	if p == nil {
		return nil, ierr.NewError("profile cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.InMemoryStore.Create(ctx, p.ID, copyProfile(p)); err != nil {
		return nil, err
	}
	return copyProfile(p), nil
}

func (s *InMemoryBusinessProfileStore) Get(ctx context.Context, id string) (*businessprofile.Profile, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return copyProfile(p), nil
}

func (s *InMemoryBusinessProfileStore) List(ctx context.Context) ([]*businessprofile.Profile, error) {
	profiles := s.InMemoryStore.List(ctx)
	result := make([]*businessprofile.Profile, len(profiles))
	for i, p := range profiles {
		result[i] = copyProfile(p)
	}
	return result, nil
}

func (s *InMemoryBusinessProfileStore) GetBranding(_ context.Context) (businessprofile.Branding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.branding, nil
}

func (s *InMemoryBusinessProfileStore) SaveBranding(_ context.Context, b businessprofile.Branding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.branding = b
	return nil
}

// InMemorySettingsStore implements settings.Repository
type InMemorySettingsStore struct {
	mu       sync.RWMutex
	settings map[types.SettingKey]*settings.Setting
}

// NewInMemorySettingsStore creates a new in-memory settings store
func NewInMemorySettingsStore() *InMemorySettingsStore {
	return &InMemorySettingsStore{
		settings: make(map[types.SettingKey]*settings.Setting),
	}
}

func copySetting(s *settings.Setting) *settings.Setting {
	if s == nil {
		return nil
	}
	copied := *s
	copied.Value = make(map[string]string, len(s.Value))
	for k, v := range s.Value {
		copied.Value[k] = v
	}
	return &copied
}

func (s *InMemorySettingsStore) Get(_ context.Context, key types.SettingKey) (*settings.Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, exists := s.settings[key]
	if !exists {
		return nil, ierr.NewErrorf("setting not found: %s", key).
			Mark(ierr.ErrNotFound)
	}
	return copySetting(stored), nil
}

func (s *InMemorySettingsStore) Upsert(_ context.Context, setting *settings.Setting) (*settings.Setting, error) {
	if setting == nil {
		return nil, ierr.NewError("setting cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := setting.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[setting.Key] = copySetting(setting)
	return copySetting(setting), nil
}

// Clear removes all stored settings
func (s *InMemorySettingsStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = make(map[types.SettingKey]*settings.Setting)
}
