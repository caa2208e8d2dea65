// Package client models the client records supplied by the surrounding
// admin application. The engine only reads them.
package client

import (
	"context"
	"strings"

	ierr "github.com/fleetrate/fleetrate/internal/errors"
	"github.com/fleetrate/fleetrate/internal/types"
)

// Client is a customer of the logistics operator
type Client struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Code          string `json:"code"`
	VATNumber     string `json:"vat_number,omitempty"`
	ContactEmail  string `json:"contact_email,omitempty"`
	ContactPhone  string `json:"contact_phone,omitempty"`
	IsActive      bool   `json:"is_active"`
	EnvironmentID string `json:"environment_id"`

	// Currency is the client's stored currency preference; empty means the
	// home currency applies
	Currency types.Currency `json:"currency,omitempty"`

	types.BaseModel
}

// Validate checks client invariants before persistence
func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ierr.NewError("client name is required").Mark(ierr.ErrValidation)
	}
	if c.Currency != "" {
		if err := c.Currency.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Repository defines the interface for client persistence
type Repository interface {
	Create(ctx context.Context, c *Client) (*Client, error)
	Get(ctx context.Context, id string) (*Client, error)
	ListActive(ctx context.Context) ([]*Client, error)
}
