// Package businessprofile holds the legal entities a rate sheet can be
// issued under, and the presentation branding that accompanies them.
package businessprofile

import (
	"context"
	"strings"

	ierr "github.com/fleetrate/fleetrate/internal/errors"
	"github.com/fleetrate/fleetrate/internal/types"
)

// Profile is a legal entity. Entity-identifying fields are always sourced
// from the profile on a compiled rate sheet, never from branding, so
// branding cannot impersonate a different legal entity.
type Profile struct {
	ID                 string `json:"id"`
	LegalName          string `json:"legal_name"`
	Country            string `json:"country"`
	VATNumber          string `json:"vat_number"`
	RegistrationNumber string `json:"registration_number"`
	Address            string `json:"address"`
	Phone              string `json:"phone"`
	Email              string `json:"email"`
	types.BaseModel
}

// foreignEntityCountry is the country whose legal entity trades in a fixed
// foreign currency regardless of the client's preference
const foreignEntityCountry = "zimbabwe"

// ForcedCurrency returns the currency this entity is required to trade in,
// if any. The Zimbabwe entity always issues rate sheets in USD.
func (p *Profile) ForcedCurrency() (types.Currency, bool) {
	if strings.EqualFold(strings.TrimSpace(p.Country), foreignEntityCountry) {
		return types.CurrencyUSD, true
	}
	return "", false
}

// Validate checks profile invariants before persistence
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.LegalName) == "" {
		return ierr.NewError("legal name is required").Mark(ierr.ErrValidation)
	}
	if strings.TrimSpace(p.Country) == "" {
		return ierr.NewError("country is required").Mark(ierr.ErrValidation)
	}
	return nil
}

// Branding is the presentation layer of a rate sheet: trading name, logo
// and footer. It carries no entity-identifying fields.
type Branding struct {
	TradingName string `json:"trading_name,omitempty"`
	LogoURL     string `json:"logo_url,omitempty"`
	AccentColor string `json:"accent_color,omitempty"`
	FooterNote  string `json:"footer_note,omitempty"`
}

// Merge overlays override on top of b. Explicit override fields win; any
// field not overridden falls back to the persisted value.
func (b Branding) Merge(override *Branding) Branding {
	if override == nil {
		return b
	}
	merged := b
	if override.TradingName != "" {
		merged.TradingName = override.TradingName
	}
	if override.LogoURL != "" {
		merged.LogoURL = override.LogoURL
	}
	if override.AccentColor != "" {
		merged.AccentColor = override.AccentColor
	}
	if override.FooterNote != "" {
		merged.FooterNote = override.FooterNote
	}
	return merged
}

// Repository defines the interface for business profile persistence
type Repository interface {
	Create(ctx context.Context, p *Profile) (*Profile, error)
	Get(ctx context.Context, id string) (*Profile, error)
	List(ctx context.Context) ([]*Profile, error)

	// GetBranding returns the persisted branding; a zero Branding when
	// none has been stored yet
	GetBranding(ctx context.Context) (Branding, error)

	// SaveBranding persists the branding
	SaveBranding(ctx context.Context, b Branding) error
}
