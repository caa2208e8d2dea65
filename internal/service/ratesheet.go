package service

import (
	"context"
	"time"

	"github.com/fleetrate/fleetrate/internal/api/dto"
	"github.com/fleetrate/fleetrate/internal/domain/ratesheet"
	ierr "github.com/fleetrate/fleetrate/internal/errors"
	"github.com/fleetrate/fleetrate/internal/types"
)

// RateSheetService compiles priced, branded rate sheet documents. Compile
// performs no I/O beyond repository reads and returns a pure value;
// rendering and delivery belong to the rendering collaborator.
type RateSheetService interface {
	// Compile joins a client, its active route assignments, a business
	// profile, branding and a currency policy into an immutable document
	Compile(ctx context.Context, req *dto.CompileRateSheetRequest) (*ratesheet.Document, error)

	// Render compiles and hands the document to the rendering collaborator
	Render(ctx context.Context, req *dto.RenderRateSheetRequest) (artifact []byte, contentType string, err error)
}

type rateSheetService struct {
	ServiceParams
	renderer ratesheet.Renderer
	refGen   ratesheet.ReferenceGenerator
	now      func() time.Time
}

// NewRateSheetService creates a new rate sheet service
func NewRateSheetService(params ServiceParams, renderer ratesheet.Renderer) RateSheetService {
	return &rateSheetService{
		ServiceParams: params,
		renderer:      renderer,
		refGen:        ratesheet.DefaultReferenceGenerator,
		now:           time.Now,
	}
}

func (s *rateSheetService) Compile(ctx context.Context, req *dto.CompileRateSheetRequest) (*ratesheet.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.ClientRepo.Get(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	profile, err := s.ProfileRepo.Get(ctx, req.ProfileID)
	if err != nil {
		return nil, err
	}

	assignments, err := s.AssignmentRepo.ListActiveForClient(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return nil, ierr.WithError(ratesheet.ErrNoRoutesConfigured).
			WithHint("Assign at least one active route to the client before compiling a rate sheet").
			WithReportableDetails(map[string]interface{}{
				"client_id": req.ClientID,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	// Currency policy: the foreign entity trades in its fixed currency
	// regardless of the client's stored preference
	currency, forced := profile.ForcedCurrency()
	if !forced {
		currency = c.Currency
		if currency == "" {
			currency = types.HomeCurrency
		}
	}

	persisted, err := s.ProfileRepo.GetBranding(ctx)
	if err != nil {
		return nil, err
	}
	branding := persisted.Merge(req.Branding.ToBranding())

	lineItems := make([]ratesheet.LineItem, 0, len(assignments))
	for _, assignment := range assignments {
		r, err := s.RouteRepo.Get(ctx, assignment.RouteID)
		if err != nil {
			return nil, err
		}
		lineItems = append(lineItems, ratesheet.LineItem{
			RouteCode:   r.RouteCode,
			Origin:      r.Origin,
			Destination: r.Destination,
			Rate:        assignment.CurrentRate,
			DisplayRate: types.FormatAmount(assignment.CurrentRate, currency),
			RateType:    assignment.RateType,
		})
	}

	reference := req.Reference
	if reference == "" {
		reference = s.refGen(s.now())
	}

	doc := &ratesheet.Document{
		ClientID:      c.ID,
		ClientName:    c.Name,
		Profile:       *profile,
		Branding:      branding,
		Currency:      currency,
		VATInclusive:  req.VATInclusive,
		RateLabel:     ratesheet.RateLabelFor(req.VATInclusive),
		EffectiveDate: req.EffectiveDate,
		ValidUntil:    req.ValidUntil,
		Reference:     reference,
		LineItems:     lineItems,
		Notes:         req.Notes,
		Terms:         req.Terms,
	}

	s.Logger.Debugw("compiled rate sheet",
		"client_id", c.ID,
		"profile_id", profile.ID,
		"currency", currency,
		"line_items", len(lineItems),
		"reference", reference)

	return doc, nil
}

func (s *rateSheetService) Render(ctx context.Context, req *dto.RenderRateSheetRequest) ([]byte, string, error) {
	if err := req.Validate(); err != nil {
		return nil, "", err
	}
	if s.renderer == nil {
		return nil, "", ierr.NewError("no rate sheet renderer configured").
			Mark(ierr.ErrInvalidOperation)
	}

	doc, err := s.Compile(ctx, &req.CompileRateSheetRequest)
	if err != nil {
		return nil, "", err
	}

	return s.renderer.Render(doc, req.Mode)
}
