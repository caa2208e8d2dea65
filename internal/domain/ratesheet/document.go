// Package ratesheet defines the compiled rate sheet document: a pure value
// handed to a rendering collaborator, never mutated after construction.
package ratesheet

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"

	"github.com/fleetrate/fleetrate/internal/domain/businessprofile"
	"github.com/fleetrate/fleetrate/internal/types"
)

// ErrNoRoutesConfigured is returned when a compile is attempted for a
// client with no active route assignments. A rate sheet with zero line
// items is not a valid document.
var ErrNoRoutesConfigured = errors.New("no active routes configured for client")

// LineItem is one priced route on a rate sheet
type LineItem struct {
	RouteCode   string          `json:"route_code"`
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	Rate        decimal.Decimal `json:"rate"`
	DisplayRate string          `json:"display_rate"`
	RateType    types.RateType  `json:"rate_type"`
}

// Document is a compiled, priced, branded rate sheet. Entity-identifying
// fields live on Profile; Branding is presentation only.
type Document struct {
	ClientID      string                  `json:"client_id"`
	ClientName    string                  `json:"client_name"`
	Profile       businessprofile.Profile `json:"profile"`
	Branding      businessprofile.Branding `json:"branding"`
	Currency      types.Currency          `json:"currency"`
	VATInclusive  bool                    `json:"vat_inclusive"`
	RateLabel     string                  `json:"rate_label"`
	EffectiveDate time.Time               `json:"effective_date"`
	ValidUntil    time.Time               `json:"valid_until"`
	Reference     string                  `json:"reference"`
	LineItems     []LineItem              `json:"line_items"`
	Notes         string                  `json:"notes,omitempty"`
	Terms         string                  `json:"terms,omitempty"`
}

// RateLabelFor returns the line-item rate column label. VAT inclusivity
// only changes this label, never the stored numeric rates.
func RateLabelFor(vatInclusive bool) string {
	if vatInclusive {
		return "Rate (incl. VAT)"
	}
	return "Rate (excl. VAT)"
}

// ReferenceGenerator produces a rate sheet reference for the given compile
// time. Injectable so tests can pin the output.
type ReferenceGenerator func(now time.Time) string

// DefaultReferenceGenerator produces references of the form
// RS-{yyyy}{mm}-{3-digit random}.
func DefaultReferenceGenerator(now time.Time) string {
	return fmt.Sprintf("RS-%04d%02d-%03d", now.Year(), int(now.Month()), rand.Intn(1000))
}

// RenderMode is the requested rendering mode passed to the collaborator
type RenderMode string

const (
	RenderModePreview  RenderMode = "preview"
	RenderModeDownload RenderMode = "download"
)

// Renderer is the document-rendering collaborator. The engine is agnostic
// to the artifact's byte format.
type Renderer interface {
	Render(doc *Document, mode RenderMode) (artifact []byte, contentType string, err error)
}
