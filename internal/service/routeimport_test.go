package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/fleetrate/fleetrate/internal/api/dto"
	ierr "github.com/fleetrate/fleetrate/internal/errors"
	"github.com/fleetrate/fleetrate/internal/testutil"
)

type RouteImportServiceSuite struct {
	testutil.BaseServiceTestSuite
	service RouteImportService
	params  ServiceParams
}

func TestRouteImportService(t *testing.T) {
	suite.Run(t, new(RouteImportServiceSuite))
}

func (s *RouteImportServiceSuite) SetupTest() {
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
	s.service = NewRouteImportService(s.params)
}

func validRow(code, origin, destination string) map[string]string {
	return map[string]string{
		dto.ImportKeyRouteCode:   code,
		dto.ImportKeyOrigin:      origin,
		dto.ImportKeyDestination: destination,
	}
}

func (s *RouteImportServiceSuite) TestImportValidRows() {
	req := &dto.ImportRoutesRequest{Rows: []map[string]string{
		{
			dto.ImportKeyRouteCode:      "jnb-dbn",
			dto.ImportKeyOrigin:         "Johannesburg",
			dto.ImportKeyDestination:    "Durban",
			dto.ImportKeyDistanceKm:     "568",
			dto.ImportKeyEstimatedHours: "6.5",
			dto.ImportKeyDescription:    "N3 corridor",
		},
		validRow("CPT-PE", "Cape Town", "Gqeberha"),
	}}

	resp, err := s.service.ImportRows(s.GetContext(), req)
	s.NoError(err)
	s.Equal(2, resp.SuccessCount)
	s.Equal(0, resp.FailedCount)
	s.Len(resp.Outcomes, 2)

	first := resp.Outcomes[0]
	s.Equal(dto.ImportRowStatusOK, first.Status)
	s.Equal(2, first.RowNumber)
	s.Require().NotNil(first.Route)
	// Codes are normalized to uppercase on the way in
	s.Equal("JNB-DBN", first.Route.RouteCode)
	s.Require().NotNil(first.Route.DistanceKm)
	s.Equal("568", first.Route.DistanceKm.String())
	s.Require().NotNil(first.Route.EstimatedHours)
	s.Equal("6.5", first.Route.EstimatedHours.String())
	s.True(first.Route.IsActive)

	s.Equal(3, resp.Outcomes[1].RowNumber)
}

func (s *RouteImportServiceSuite) TestImportMissingFields() {
	req := &dto.ImportRoutesRequest{Rows: []map[string]string{
		validRow("", "Johannesburg", "Durban"),
		validRow("JNB-DBN", "   ", "Durban"),
		validRow("JNB-CPT", "Johannesburg", ""),
	}}

	resp, err := s.service.ImportRows(s.GetContext(), req)
	s.NoError(err)
	s.Equal(0, resp.SuccessCount)
	s.Equal(3, resp.FailedCount)

	s.Equal([]string{"Route code is required"}, resp.Outcomes[0].Errors)
	s.Equal([]string{"Origin is required"}, resp.Outcomes[1].Errors)
	s.Equal([]string{"Destination is required"}, resp.Outcomes[2].Errors)
	for _, outcome := range resp.Outcomes {
		s.Equal(dto.ImportRowStatusRejected, outcome.Status)
		s.Nil(outcome.Route)
	}
}

func (s *RouteImportServiceSuite) TestImportDuplicateWithinBatch() {
	req := &dto.ImportRoutesRequest{Rows: []map[string]string{
		validRow("JNB-DBN", "Johannesburg", "Durban"),
		// Same code, different case and spacing: still a duplicate
		validRow("  jnb-dbn ", "Johannesburg", "Durban"),
	}}

	resp, err := s.service.ImportRows(s.GetContext(), req)
	s.NoError(err)
	s.Equal(1, resp.SuccessCount)
	s.Equal(1, resp.FailedCount)

	s.Equal(dto.ImportRowStatusOK, resp.Outcomes[0].Status)
	s.Equal(dto.ImportRowStatusRejected, resp.Outcomes[1].Status)
	s.Equal([]string{`Route code "JNB-DBN" already exists`}, resp.Outcomes[1].Errors)
}

func (s *RouteImportServiceSuite) TestImportDuplicateOfExistingRoute() {
	first, err := s.service.ImportRows(s.GetContext(), &dto.ImportRoutesRequest{
		Rows: []map[string]string{validRow("JNB-DBN", "Johannesburg", "Durban")},
	})
	s.NoError(err)
	s.Equal(1, first.SuccessCount)

	second, err := s.service.ImportRows(s.GetContext(), &dto.ImportRoutesRequest{
		Rows: []map[string]string{validRow("jnb-dbn", "Johannesburg", "Durban")},
	})
	s.NoError(err)
	s.Equal(0, second.SuccessCount)
	s.Equal(1, second.FailedCount)
	s.Contains(second.Outcomes[0].Errors[0], "already exists")
}

func (s *RouteImportServiceSuite) TestImportInvalidNumericValues() {
	req := &dto.ImportRoutesRequest{Rows: []map[string]string{
		{
			dto.ImportKeyRouteCode:   "JNB-DBN",
			dto.ImportKeyOrigin:      "Johannesburg",
			dto.ImportKeyDestination: "Durban",
			dto.ImportKeyDistanceKm:  "far",
		},
		{
			dto.ImportKeyRouteCode:      "JNB-CPT",
			dto.ImportKeyOrigin:         "Johannesburg",
			dto.ImportKeyDestination:    "Cape Town",
			dto.ImportKeyEstimatedHours: "overnight",
		},
	}}

	resp, err := s.service.ImportRows(s.GetContext(), req)
	s.NoError(err)
	s.Equal(0, resp.SuccessCount)
	s.Equal(2, resp.FailedCount)
	s.Equal([]string{"Invalid distance value"}, resp.Outcomes[0].Errors)
	s.Equal([]string{"Invalid estimated hours value"}, resp.Outcomes[1].Errors)
}

func (s *RouteImportServiceSuite) TestImportOptionalFieldsOmitted() {
	resp, err := s.service.ImportRows(s.GetContext(), &dto.ImportRoutesRequest{
		Rows: []map[string]string{validRow("JNB-DBN", "Johannesburg", "Durban")},
	})
	s.NoError(err)
	s.Equal(1, resp.SuccessCount)

	created := resp.Outcomes[0].Route
	s.Require().NotNil(created)
	s.Nil(created.DistanceKm)
	s.Nil(created.EstimatedHours)
	s.True(created.IsActive)
}

func (s *RouteImportServiceSuite) TestImportTolerantActiveFlag() {
	rows := []map[string]string{
		validRow("R1", "A", "B"),
		validRow("R2", "A", "B"),
		validRow("R3", "A", "B"),
		validRow("R4", "A", "B"),
		validRow("R5", "A", "B"),
	}
	rows[0][dto.ImportKeyIsActive] = "No"
	rows[1][dto.ImportKeyIsActive] = "FALSE"
	rows[2][dto.ImportKeyIsActive] = "0"
	rows[3][dto.ImportKeyIsActive] = "yes"
	rows[4][dto.ImportKeyIsActive] = "anything else"

	resp, err := s.service.ImportRows(s.GetContext(), &dto.ImportRoutesRequest{Rows: rows})
	s.NoError(err)
	s.Equal(5, resp.SuccessCount)

	s.False(resp.Outcomes[0].Route.IsActive)
	s.False(resp.Outcomes[1].Route.IsActive)
	s.False(resp.Outcomes[2].Route.IsActive)
	s.True(resp.Outcomes[3].Route.IsActive)
	s.True(resp.Outcomes[4].Route.IsActive)
}

func (s *RouteImportServiceSuite) TestImportEmptyBatch() {
	resp, err := s.service.ImportRows(s.GetContext(), &dto.ImportRoutesRequest{})
	s.NoError(err)
	s.Equal(0, resp.SuccessCount)
	s.Equal(0, resp.FailedCount)
	s.Empty(resp.Outcomes)
	s.Equal([]string{"No data rows found to import"}, resp.BatchErrors)
}

func (s *RouteImportServiceSuite) TestImportPersistenceFailureContinuesBatch() {
	s.GetStores().RouteRepo.FailNextCreate("JNB-DBN", ierr.NewError("connection reset").
		Mark(ierr.ErrDatabase))

	req := &dto.ImportRoutesRequest{Rows: []map[string]string{
		validRow("JNB-DBN", "Johannesburg", "Durban"),
		validRow("JNB-CPT", "Johannesburg", "Cape Town"),
	}}

	resp, err := s.service.ImportRows(s.GetContext(), req)
	s.NoError(err)
	s.Equal(1, resp.SuccessCount)
	s.Equal(1, resp.FailedCount)

	s.Equal(dto.ImportRowStatusRejected, resp.Outcomes[0].Status)
	s.Require().NotEmpty(resp.Outcomes[0].Errors)
	s.Contains(resp.Outcomes[0].Errors[0], "connection reset")
	s.Equal(dto.ImportRowStatusOK, resp.Outcomes[1].Status)
}

func (s *RouteImportServiceSuite) TestImportCountsAlwaysSumToRows() {
	req := &dto.ImportRoutesRequest{Rows: []map[string]string{
		validRow("JNB-DBN", "Johannesburg", "Durban"),
		validRow("", "Johannesburg", "Durban"),
		validRow("JNB-DBN", "Johannesburg", "Durban"),
		validRow("PTA-BFN", "Pretoria", "Bloemfontein"),
	}}

	resp, err := s.service.ImportRows(s.GetContext(), req)
	s.NoError(err)
	s.Equal(len(req.Rows), resp.SuccessCount+resp.FailedCount)
	s.Len(resp.Outcomes, len(req.Rows))
}

func (s *RouteImportServiceSuite) TestImportCancelledContext() {
	ctx, cancel := context.WithCancel(s.GetContext())
	cancel()

	resp, err := s.service.ImportRows(ctx, &dto.ImportRoutesRequest{
		Rows: []map[string]string{validRow("JNB-DBN", "Johannesburg", "Durban")},
	})
	s.Error(err)
	s.Require().NotNil(resp)
	s.Equal(0, resp.SuccessCount)
	s.Equal(0, resp.FailedCount)
}

func (s *RouteImportServiceSuite) TestImportCSV() {
	csvInput := strings.Join([]string{
		"Route_Code,Origin,Destination,Distance_KM,Estimated_Hours,Is_Active",
		"JNB-DBN,Johannesburg,Durban,568,6.5,yes",
		"CPT-PE,Cape Town,Gqeberha,750,,no",
		",Johannesburg,Durban,,,",
	}, "\n")

	resp, err := s.service.ImportCSV(s.GetContext(), strings.NewReader(csvInput))
	s.NoError(err)
	s.Equal(2, resp.SuccessCount)
	s.Equal(1, resp.FailedCount)

	s.Equal("JNB-DBN", resp.Outcomes[0].Route.RouteCode)
	s.False(resp.Outcomes[1].Route.IsActive)
	s.Nil(resp.Outcomes[1].Route.EstimatedHours)
	s.Equal([]string{"Route code is required"}, resp.Outcomes[2].Errors)
	// Row numbers follow the spreadsheet, header included
	s.Equal(2, resp.Outcomes[0].RowNumber)
	s.Equal(4, resp.Outcomes[2].RowNumber)
}

func (s *RouteImportServiceSuite) TestImportCSVHeaderOnly() {
	resp, err := s.service.ImportCSV(s.GetContext(), strings.NewReader("route_code,origin,destination\n"))
	s.NoError(err)
	s.Equal(0, resp.SuccessCount)
	s.Equal(0, resp.FailedCount)
	s.Equal([]string{"No data rows found to import"}, resp.BatchErrors)
}

func TestTabularToRows(t *testing.T) {
	records := [][]string{
		{" Route_Code ", "ORIGIN", "destination", ""},
		{"JNB-DBN", "Johannesburg", "Durban", "ignored"},
		{"CPT-PE", "Cape Town"},
	}

	rows := tabularToRows(records)
	require.Len(t, rows, 2)
	assert.Equal(t, "JNB-DBN", rows[0]["route_code"])
	assert.Equal(t, "Johannesburg", rows[0]["origin"])
	// Empty header columns are dropped entirely
	assert.NotContains(t, rows[0], "")
	// Short records simply omit the trailing columns
	assert.NotContains(t, rows[1], "destination")
}
