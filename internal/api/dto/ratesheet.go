package dto

import (
	"time"

	"github.com/fleetrate/fleetrate/internal/domain/businessprofile"
	"github.com/fleetrate/fleetrate/internal/domain/ratesheet"
	ierr "github.com/fleetrate/fleetrate/internal/errors"
	"github.com/fleetrate/fleetrate/internal/validator"
)

// BrandingOverride carries per-compile branding overrides. Empty fields
// fall back to the persisted branding; entity-identifying fields are never
// accepted here.
type BrandingOverride struct {
	TradingName string `json:"trading_name,omitempty"`
	LogoURL     string `json:"logo_url,omitempty"`
	AccentColor string `json:"accent_color,omitempty"`
	FooterNote  string `json:"footer_note,omitempty"`
}

// ToBranding converts the override to the domain branding value
func (b *BrandingOverride) ToBranding() *businessprofile.Branding {
	if b == nil {
		return nil
	}
	return &businessprofile.Branding{
		TradingName: b.TradingName,
		LogoURL:     b.LogoURL,
		AccentColor: b.AccentColor,
		FooterNote:  b.FooterNote,
	}
}

// CompileRateSheetRequest compiles a rate sheet for one client under one
// business profile
type CompileRateSheetRequest struct {
	ClientID      string            `json:"client_id" validate:"required"`
	ProfileID     string            `json:"profile_id" validate:"required"`
	Branding      *BrandingOverride `json:"branding,omitempty"`
	VATInclusive  bool              `json:"vat_inclusive"`
	EffectiveDate time.Time         `json:"effective_date"`
	ValidUntil    time.Time         `json:"valid_until"`
	Reference     string            `json:"reference,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	Terms         string            `json:"terms,omitempty"`
}

func (r *CompileRateSheetRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.EffectiveDate.IsZero() {
		return ierr.NewError("effective date is required").
			Mark(ierr.ErrValidation)
	}
	if !r.ValidUntil.IsZero() && !r.ValidUntil.After(r.EffectiveDate) {
		return ierr.NewError("valid until must be after the effective date").
			WithReportableDetails(map[string]interface{}{
				"effective_date": r.EffectiveDate,
				"valid_until":    r.ValidUntil,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// RenderRateSheetRequest compiles and renders a rate sheet in one call
type RenderRateSheetRequest struct {
	CompileRateSheetRequest
	Mode ratesheet.RenderMode `json:"mode" validate:"required,oneof=preview download"`
}

func (r *RenderRateSheetRequest) Validate() error {
	if err := r.CompileRateSheetRequest.Validate(); err != nil {
		return err
	}
	if r.Mode != ratesheet.RenderModePreview && r.Mode != ratesheet.RenderModeDownload {
		return ierr.NewErrorf("invalid render mode: %s", r.Mode).
			WithHint("Render mode must be preview or download").
			Mark(ierr.ErrValidation)
	}
	return nil
}
