package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/fleetrate/fleetrate/internal/api/dto"
	"github.com/fleetrate/fleetrate/internal/domain/route"
	ierr "github.com/fleetrate/fleetrate/internal/errors"
	"github.com/fleetrate/fleetrate/internal/types"
)

// headerRowOffset shifts reported row numbers so the first data row is row
// 2, matching spreadsheet conventions
const headerRowOffset = 1

// RouteImportService ingests bulk route data. Rows are processed strictly
// in input order and independently: a bad row is reported and the batch
// continues. Later rows must see route codes accepted by earlier rows, so
// processing is sequential by design.
type RouteImportService interface {
	// ImportRows processes an ordered batch of raw rows. A cancelled
	// context stops processing between rows; the returned response holds
	// the accurate partial outcome alongside the cancellation error.
	ImportRows(ctx context.Context, req *dto.ImportRoutesRequest) (*dto.ImportRoutesResponse, error)

	// ImportCSV parses CSV input (header row first) and imports the rows
	ImportCSV(ctx context.Context, r io.Reader) (*dto.ImportRoutesResponse, error)

	// ImportWorkbook parses an xlsx workbook sheet (first sheet when
	// sheetName is empty) and imports the rows
	ImportWorkbook(ctx context.Context, r io.Reader, sheetName string) (*dto.ImportRoutesResponse, error)
}

type routeImportService struct {
	ServiceParams
}

// NewRouteImportService creates a new route import service
func NewRouteImportService(params ServiceParams) RouteImportService {
	return &routeImportService{ServiceParams: params}
}

func (s *routeImportService) ImportRows(ctx context.Context, req *dto.ImportRoutesRequest) (*dto.ImportRoutesResponse, error) {
	resp := &dto.ImportRoutesResponse{}

	if len(req.Rows) == 0 {
		resp.BatchErrors = append(resp.BatchErrors, "No data rows found to import")
		return resp, nil
	}

	existing, err := s.RouteRepo.ListRouteCodes(ctx)
	if err != nil {
		return nil, err
	}

	// The working set starts as the existing catalogue and grows as rows
	// are accepted, so intra-batch duplicates are rejected too
	working := make(map[string]struct{}, len(existing)+len(req.Rows))
	for code := range existing {
		working[code] = struct{}{}
	}

	resp.Outcomes = make([]dto.ImportRowOutcome, 0, len(req.Rows))

	for i, raw := range req.Rows {
		if ctx.Err() != nil {
			return resp, ierr.WithError(ctx.Err()).
				WithHint("Import cancelled; response holds the partial outcome").
				Mark(ierr.ErrSystem)
		}

		outcome := s.processRow(ctx, i+1+headerRowOffset, raw, working)
		if outcome.Status == dto.ImportRowStatusOK {
			resp.SuccessCount++
		} else {
			resp.FailedCount++
		}
		resp.Outcomes = append(resp.Outcomes, outcome)
	}

	s.Logger.Infow("completed bulk route import",
		"rows", len(req.Rows),
		"succeeded", resp.SuccessCount,
		"failed", resp.FailedCount)

	return resp, nil
}

// processRow validates and inserts a single row. Validation short-circuits
// on the first failing check; the row is still counted and reported.
func (s *routeImportService) processRow(ctx context.Context, rowNumber int, raw map[string]string, working map[string]struct{}) dto.ImportRowOutcome {
	outcome := dto.ImportRowOutcome{
		RowNumber: rowNumber,
		Status:    dto.ImportRowStatusRejected,
	}

	reject := func(msg string) dto.ImportRowOutcome {
		outcome.Errors = append(outcome.Errors, msg)
		return outcome
	}

	code := route.NormalizeCode(raw[dto.ImportKeyRouteCode])
	if code == "" {
		return reject("Route code is required")
	}

	origin := strings.TrimSpace(raw[dto.ImportKeyOrigin])
	if origin == "" {
		return reject("Origin is required")
	}

	destination := strings.TrimSpace(raw[dto.ImportKeyDestination])
	if destination == "" {
		return reject("Destination is required")
	}

	if _, exists := working[code]; exists {
		return reject(fmt.Sprintf("Route code %q already exists", code))
	}

	distanceKm, ok := parseOptionalDecimal(raw[dto.ImportKeyDistanceKm])
	if !ok {
		return reject("Invalid distance value")
	}

	estimatedHours, ok := parseOptionalDecimal(raw[dto.ImportKeyEstimatedHours])
	if !ok {
		return reject("Invalid estimated hours value")
	}

	r := &route.Route{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ROUTE),
		RouteCode:      code,
		Origin:         origin,
		Destination:    destination,
		DistanceKm:     distanceKm,
		EstimatedHours: estimatedHours,
		Description:    strings.TrimSpace(raw[dto.ImportKeyDescription]),
		IsActive:       parseTolerantBool(raw[dto.ImportKeyIsActive]),
		EnvironmentID:  types.GetEnvironmentID(ctx),
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}

	// The code joins the working set at acceptance, before the insert, so a
	// later duplicate in the batch is rejected even if this insert fails
	working[code] = struct{}{}

	created, err := s.RouteRepo.Create(ctx, r)
	if err != nil {
		// Persistence failures are reported with the collaborator's
		// message, not swallowed; the batch continues
		return reject(err.Error())
	}

	outcome.Status = dto.ImportRowStatusOK
	outcome.Route = dto.NewRouteResponse(created)
	return outcome
}

// parseOptionalDecimal parses an optional numeric cell. Returns ok=false
// only for present, non-numeric values.
func parseOptionalDecimal(value string) (*decimal.Decimal, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return nil, false
	}
	return &d, true
}

// parseTolerantBool maps "no", "false" and "0" (case-insensitive) to false
// and every other value, including empty, to true
func parseTolerantBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "no", "false", "0":
		return false
	default:
		return true
	}
}

func (s *routeImportService) ImportCSV(ctx context.Context, r io.Reader) (*dto.ImportRoutesResponse, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to parse CSV input").
			Mark(ierr.ErrValidation)
	}

	return s.ImportRows(ctx, &dto.ImportRoutesRequest{Rows: tabularToRows(records)})
}

func (s *routeImportService) ImportWorkbook(ctx context.Context, r io.Reader, sheetName string) (*dto.ImportRoutesResponse, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to open workbook").
			Mark(ierr.ErrValidation)
	}
	defer func() { _ = workbook.Close() }()

	if sheetName == "" {
		sheetName = workbook.GetSheetName(0)
	}

	records, err := workbook.GetRows(sheetName)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to read sheet %q", sheetName).
			Mark(ierr.ErrValidation)
	}

	return s.ImportRows(ctx, &dto.ImportRoutesRequest{Rows: tabularToRows(records)})
}

// tabularToRows maps header+records into ordered raw row maps. Header
// matching is case-insensitive; unrecognized columns are carried through
// and ignored downstream.
func tabularToRows(records [][]string) []map[string]string {
	if len(records) < 2 {
		return nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(headers))
		for i, header := range headers {
			if header == "" || i >= len(record) {
				continue
			}
			row[header] = record[i]
		}
		rows = append(rows, row)
	}
	return rows
}
