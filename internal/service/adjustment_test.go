package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/fleetrate/fleetrate/internal/api/dto"
	"github.com/fleetrate/fleetrate/internal/domain/client"
	"github.com/fleetrate/fleetrate/internal/domain/route"
	"github.com/fleetrate/fleetrate/internal/domain/settings"
	"github.com/fleetrate/fleetrate/internal/domain/tariff"
	ierr "github.com/fleetrate/fleetrate/internal/errors"
	"github.com/fleetrate/fleetrate/internal/testutil"
	"github.com/fleetrate/fleetrate/internal/types"
)

type AdjustmentServiceSuite struct {
	testutil.BaseServiceTestSuite
	service AdjustmentService
	params  ServiceParams
}

func TestAdjustmentService(t *testing.T) {
	suite.Run(t, new(AdjustmentServiceSuite))
}

func (s *AdjustmentServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.params = ServiceParams{
		Logger:         s.GetLogger(),
		Config:         s.GetConfig(),
		Cache:          s.GetCache(),
		SettingsRepo:   s.GetStores().SettingsRepo,
		RouteRepo:      s.GetStores().RouteRepo,
		AssignmentRepo: s.GetStores().AssignmentRepo,
		ClientRepo:     s.GetStores().ClientRepo,
		ProfileRepo:    s.GetStores().ProfileRepo,
		HistoryRepo:    s.GetStores().HistoryRepo,
	}
	s.service = NewAdjustmentService(s.params)

	// Pin the base diesel price so percentages in the tests are exact
	_, err := NewSettingsService(s.params).UpdateGuardrailSettings(s.GetContext(),
		&dto.UpdateGuardrailSettingsRequest{
			Updates: map[string]string{types.GuardrailKeyBaseDieselPrice: "20.00"},
		})
	s.Require().NoError(err)
}

func (s *AdjustmentServiceSuite) createClient(id string, currency types.Currency) {
	_, err := s.GetStores().ClientRepo.Create(s.GetContext(), &client.Client{
		ID:        id,
		Name:      "Client " + id,
		Code:      id,
		Currency:  currency,
		IsActive:  true,
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	})
	s.Require().NoError(err)
}

func (s *AdjustmentServiceSuite) createRoute(id, code string) {
	_, err := s.GetStores().RouteRepo.Create(s.GetContext(), &route.Route{
		ID:          id,
		RouteCode:   code,
		Origin:      "Johannesburg",
		Destination: "Durban",
		IsActive:    true,
		BaseModel:   types.GetDefaultBaseModel(s.GetContext()),
	})
	s.Require().NoError(err)
}

func (s *AdjustmentServiceSuite) createAssignment(id, clientID, routeID, rate string) {
	_, err := s.GetStores().AssignmentRepo.Create(s.GetContext(), &route.Assignment{
		ID:          id,
		ClientID:    clientID,
		RouteID:     routeID,
		CurrentRate: decimal.RequireFromString(rate),
		RateType:    types.RateTypeFixed,
		IsActive:    true,
		BaseModel:   types.GetDefaultBaseModel(s.GetContext()),
	})
	s.Require().NoError(err)
}

func (s *AdjustmentServiceSuite) runRequest(newDiesel string) *dto.RunAdjustmentRequest {
	return &dto.RunAdjustmentRequest{
		PeriodMonth:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		NewDieselPrice: decimal.RequireFromString(newDiesel),
	}
}

func (s *AdjustmentServiceSuite) TestRunAdjustsActiveAssignments() {
	s.createClient("client_1", types.CurrencyZAR)
	s.createRoute("route_1", "JNB-DBN")
	s.createAssignment("ra_1", "client_1", "route_1", "1000")

	// 20 -> 21 is +5% diesel, 1.75% on the rate after the 0.35 factor
	resp, err := s.service.RunMonthlyAdjustment(s.GetContext(), s.runRequest("21.00"))
	s.Require().NoError(err)

	s.Equal(1, resp.ProcessedCount)
	s.Equal(1, resp.AdjustedCount)
	s.Equal(0, resp.SkippedCount)
	s.Equal(0, resp.FailedCount)

	item := resp.Items[0]
	s.True(item.Triggered)
	s.False(item.Clamped)
	s.Equal("JNB-DBN", item.RouteCode)
	s.True(item.NewRate.Equal(decimal.RequireFromString("1017.50")), "got %s", item.NewRate)
	s.Equal(tariff.ReasonDieselIncrease, item.Reason)

	// The persisted rate moved
	assignments, err := s.GetStores().AssignmentRepo.ListActive(s.GetContext())
	s.Require().NoError(err)
	s.True(assignments[0].CurrentRate.Equal(decimal.RequireFromString("1017.50")))

	// Exactly one live audit entry was recorded
	entries, err := s.GetStores().HistoryRepo.ListByRoute(s.GetContext(), "client_1", "route_1")
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.False(entries[0].Superseded)
	s.True(entries[0].PreviousRate.Equal(decimal.RequireFromString("1000")))
	s.True(entries[0].NewRate.Equal(decimal.RequireFromString("1017.50")))
	s.Equal(types.CurrencyZAR, entries[0].Currency)
}

func (s *AdjustmentServiceSuite) TestRunSkipsBelowThreshold() {
	s.createClient("client_1", types.CurrencyZAR)
	s.createRoute("route_1", "JNB-DBN")
	s.createAssignment("ra_1", "client_1", "route_1", "1000")

	// 20 -> 20.40 is +2%, under the 2.5% trigger threshold
	resp, err := s.service.RunMonthlyAdjustment(s.GetContext(), s.runRequest("20.40"))
	s.Require().NoError(err)

	s.Equal(1, resp.ProcessedCount)
	s.Equal(0, resp.AdjustedCount)
	s.Equal(1, resp.SkippedCount)
	s.Equal(tariff.ReasonBelowThreshold, resp.Items[0].Reason)

	// No audit entry, rate untouched
	entries, err := s.GetStores().HistoryRepo.ListByRoute(s.GetContext(), "client_1", "route_1")
	s.Require().NoError(err)
	s.Empty(entries)

	assignments, err := s.GetStores().AssignmentRepo.ListActive(s.GetContext())
	s.Require().NoError(err)
	s.True(assignments[0].CurrentRate.Equal(decimal.RequireFromString("1000")))
}

func (s *AdjustmentServiceSuite) TestRunClampsLargeMovement() {
	s.createClient("client_1", types.CurrencyZAR)
	s.createRoute("route_1", "JNB-DBN")
	s.createAssignment("ra_1", "client_1", "route_1", "1000")

	// 20 -> 30 is +50% diesel, raw 17.5% clamps to the 10% maximum
	resp, err := s.service.RunMonthlyAdjustment(s.GetContext(), s.runRequest("30.00"))
	s.Require().NoError(err)

	item := resp.Items[0]
	s.True(item.Triggered)
	s.True(item.Clamped)
	s.True(item.NewRate.Equal(decimal.RequireFromString("1100.00")), "got %s", item.NewRate)
	s.Equal(tariff.ReasonClampedIncrease, item.Reason)
}

func (s *AdjustmentServiceSuite) TestRerunSupersedesEarlierEntries() {
	s.createClient("client_1", types.CurrencyZAR)
	s.createRoute("route_1", "JNB-DBN")
	s.createAssignment("ra_1", "client_1", "route_1", "1000")

	_, err := s.service.RunMonthlyAdjustment(s.GetContext(), s.runRequest("21.00"))
	s.Require().NoError(err)

	// Recompute the same period with a corrected diesel price
	_, err = s.service.RunMonthlyAdjustment(s.GetContext(), s.runRequest("22.00"))
	s.Require().NoError(err)

	entries, err := s.GetStores().HistoryRepo.ListByRoute(s.GetContext(), "client_1", "route_1")
	s.Require().NoError(err)
	s.Require().Len(entries, 2)

	// Both stay on record; only the latest is live
	var live, superseded int
	for _, e := range entries {
		if e.Superseded {
			superseded++
		} else {
			live++
		}
	}
	s.Equal(1, live)
	s.Equal(1, superseded)

	count, err := s.GetStores().HistoryRepo.CountForPeriod(s.GetContext(),
		"client_1", "route_1", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *AdjustmentServiceSuite) TestRunCapturesPerRouteFailures() {
	s.createClient("client_1", types.CurrencyZAR)
	s.createRoute("route_1", "JNB-DBN")
	s.createAssignment("ra_1", "client_1", "route_1", "1000")
	// No client record exists for this assignment
	s.createAssignment("ra_2", "client_missing", "route_1", "500")

	resp, err := s.service.RunMonthlyAdjustment(s.GetContext(), s.runRequest("21.00"))
	s.Require().NoError(err)

	s.Equal(2, resp.ProcessedCount)
	s.Equal(1, resp.AdjustedCount)
	s.Equal(1, resp.FailedCount)

	var failed *dto.AdjustmentItemResponse
	for i := range resp.Items {
		if resp.Items[i].Error != "" {
			failed = &resp.Items[i]
		}
	}
	s.Require().NotNil(failed)
	s.Equal("client_missing", failed.ClientID)
}

func (s *AdjustmentServiceSuite) TestRunFailsOnInvalidStoredPolicy() {
	s.createClient("client_1", types.CurrencyZAR)
	s.createRoute("route_1", "JNB-DBN")
	s.createAssignment("ra_1", "client_1", "route_1", "1000")

	// Corrupt the stored setting behind the service's back
	_, err := s.GetStores().SettingsRepo.Upsert(s.GetContext(), &settings.Setting{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SETTING),
		Key:       types.SettingKeyTariffGuardrails,
		Value:     map[string]string{types.GuardrailKeyImpactPercentage: "7"},
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	})
	s.Require().NoError(err)
	s.GetCache().Delete(s.GetContext(), guardrailCacheKey(s.GetContext()))

	_, err = s.service.RunMonthlyAdjustment(s.GetContext(), s.runRequest("21.00"))
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))

	// Batch failed before any calculation: no audit entries
	entries, err := s.GetStores().HistoryRepo.ListByRoute(s.GetContext(), "client_1", "route_1")
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *AdjustmentServiceSuite) TestRunUpdatesBasePriceWhenRequested() {
	s.createClient("client_1", types.CurrencyZAR)
	s.createRoute("route_1", "JNB-DBN")
	s.createAssignment("ra_1", "client_1", "route_1", "1000")

	req := s.runRequest("21.00")
	req.UpdateBasePrice = true
	_, err := s.service.RunMonthlyAdjustment(s.GetContext(), req)
	s.Require().NoError(err)

	policy, err := NewSettingsService(s.params).GetGuardrailPolicy(s.GetContext())
	s.Require().NoError(err)
	s.True(policy.BasePrice.Equal(decimal.RequireFromString("21.00")), "got %s", policy.BasePrice)
}

func (s *AdjustmentServiceSuite) TestRunRequestValidation() {
	_, err := s.service.RunMonthlyAdjustment(s.GetContext(), &dto.RunAdjustmentRequest{
		NewDieselPrice: decimal.RequireFromString("21.00"),
	})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))

	_, err = s.service.RunMonthlyAdjustment(s.GetContext(), &dto.RunAdjustmentRequest{
		PeriodMonth: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *AdjustmentServiceSuite) TestPreviewRecordsNothing() {
	resp, err := s.service.PreviewAdjustment(s.GetContext(), &dto.PreviewAdjustmentRequest{
		CurrentRate:         decimal.RequireFromString("1000"),
		PreviousDieselPrice: decimal.RequireFromString("20.00"),
		NewDieselPrice:      decimal.RequireFromString("21.00"),
	})
	s.Require().NoError(err)

	s.True(resp.Triggered)
	s.True(resp.NewRate.Equal(decimal.RequireFromString("1017.50")), "got %s", resp.NewRate)

	entries, err := s.GetStores().HistoryRepo.ListByPeriod(s.GetContext(),
		types.PeriodMonth(time.Now().UTC()))
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *AdjustmentServiceSuite) TestGetRouteHistory() {
	s.createClient("client_1", types.CurrencyZAR)
	s.createRoute("route_1", "JNB-DBN")
	s.createAssignment("ra_1", "client_1", "route_1", "1000")

	_, err := s.service.RunMonthlyAdjustment(s.GetContext(), s.runRequest("21.00"))
	s.Require().NoError(err)

	resp, err := s.service.GetRouteHistory(s.GetContext(), "client_1", "route_1")
	s.Require().NoError(err)
	s.Equal(1, resp.Total)
	s.True(resp.Items[0].NewRate.Equal(decimal.RequireFromString("1017.50")))

	_, err = s.service.GetRouteHistory(s.GetContext(), "", "route_1")
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
}
