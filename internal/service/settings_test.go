package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/fleetrate/fleetrate/internal/api/dto"
	ierr "github.com/fleetrate/fleetrate/internal/errors"
	"github.com/fleetrate/fleetrate/internal/testutil"
	"github.com/fleetrate/fleetrate/internal/types"
)

type SettingsServiceSuite struct {
	testutil.BaseServiceTestSuite
	service SettingsService
	params  ServiceParams
}

func TestSettingsService(t *testing.T) {
	suite.Run(t, new(SettingsServiceSuite))
}

func (s *SettingsServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.params = ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		Cache:        s.GetCache(),
		SettingsRepo: s.GetStores().SettingsRepo,
	}
	s.service = NewSettingsService(s.params)
}

func (s *SettingsServiceSuite) TestGetGuardrailSettingsReturnsDefaultsWhenUnset() {
	settings, err := s.service.GetGuardrailSettings(s.GetContext())
	s.Require().NoError(err)
	s.Equal(types.DefaultGuardrailSettings(), settings)
}

func (s *SettingsServiceSuite) TestGetGuardrailPolicyWhenUnset() {
	policy, err := s.service.GetGuardrailPolicy(s.GetContext())
	s.Require().NoError(err)
	s.True(policy.BasePrice.Equal(decimal.RequireFromString("23.50")))
	s.Equal(1, policy.EffectiveDayOfMonth)
}

func (s *SettingsServiceSuite) TestUpdateGuardrailSettings() {
	resp, err := s.service.UpdateGuardrailSettings(s.GetContext(),
		&dto.UpdateGuardrailSettingsRequest{
			Updates: map[string]string{
				types.GuardrailKeyBaseDieselPrice: "25.75",
				types.GuardrailKeyEffectiveDay:    "15",
			},
		})
	s.Require().NoError(err)

	s.Equal("25.75", resp.Settings[types.GuardrailKeyBaseDieselPrice])
	s.Equal("15", resp.Settings[types.GuardrailKeyEffectiveDay])
	// Untouched keys still show the defaults
	s.Equal("0.35", resp.Settings[types.GuardrailKeyImpactPercentage])

	policy, err := s.service.GetGuardrailPolicy(s.GetContext())
	s.Require().NoError(err)
	s.True(policy.BasePrice.Equal(decimal.RequireFromString("25.75")))
	s.Equal(15, policy.EffectiveDayOfMonth)
}

func (s *SettingsServiceSuite) TestUpdateRejectsInvalidResultingPolicy() {
	_, err := s.service.UpdateGuardrailSettings(s.GetContext(),
		&dto.UpdateGuardrailSettingsRequest{
			Updates: map[string]string{types.GuardrailKeyImpactPercentage: "1.5"},
		})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))

	// The invalid update left nothing behind
	policy, err := s.service.GetGuardrailPolicy(s.GetContext())
	s.Require().NoError(err)
	s.True(policy.ImpactFactor.Equal(decimal.RequireFromString("0.35")))
}

func (s *SettingsServiceSuite) TestUpdateRejectsUnrecognizedKeys() {
	_, err := s.service.UpdateGuardrailSettings(s.GetContext(),
		&dto.UpdateGuardrailSettingsRequest{
			Updates: map[string]string{"surge_multiplier": "2"},
		})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *SettingsServiceSuite) TestUpdateRejectsEmptyRequest() {
	_, err := s.service.UpdateGuardrailSettings(s.GetContext(),
		&dto.UpdateGuardrailSettingsRequest{})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *SettingsServiceSuite) TestUpdatesAccumulate() {
	_, err := s.service.UpdateGuardrailSettings(s.GetContext(),
		&dto.UpdateGuardrailSettingsRequest{
			Updates: map[string]string{types.GuardrailKeyBaseDieselPrice: "24.10"},
		})
	s.Require().NoError(err)

	_, err = s.service.UpdateGuardrailSettings(s.GetContext(),
		&dto.UpdateGuardrailSettingsRequest{
			Updates: map[string]string{types.GuardrailKeyMaxMonthlyIncrease: "8"},
		})
	s.Require().NoError(err)

	settings, err := s.service.GetGuardrailSettings(s.GetContext())
	s.Require().NoError(err)
	s.Equal("24.10", settings[types.GuardrailKeyBaseDieselPrice])
	s.Equal("8", settings[types.GuardrailKeyMaxMonthlyIncrease])
}

func (s *SettingsServiceSuite) TestCacheInvalidatedOnUpdate() {
	// First read primes the cache
	_, err := s.service.GetGuardrailSettings(s.GetContext())
	s.Require().NoError(err)

	_, err = s.service.UpdateGuardrailSettings(s.GetContext(),
		&dto.UpdateGuardrailSettingsRequest{
			Updates: map[string]string{types.GuardrailKeyBaseDieselPrice: "26.00"},
		})
	s.Require().NoError(err)

	policy, err := s.service.GetGuardrailPolicy(s.GetContext())
	s.Require().NoError(err)
	s.True(policy.BasePrice.Equal(decimal.RequireFromString("26.00")), "got %s", policy.BasePrice)
}
