package types

import (
	"strings"

	"github.com/shopspring/decimal"

	ierr "github.com/fleetrate/fleetrate/internal/errors"
)

// Currency is an ISO 4217 currency code. The engine trades in ZAR by
// default; the Zimbabwe legal entity trades in USD.
type Currency string

const (
	CurrencyZAR Currency = "ZAR"
	CurrencyUSD Currency = "USD"

	// HomeCurrency is the fallback when a client has no stored preference
	HomeCurrency = CurrencyZAR
)

// Validate checks that the currency is one of the supported codes.
func (c Currency) Validate() error {
	switch c {
	case CurrencyZAR, CurrencyUSD:
		return nil
	default:
		return ierr.NewErrorf("unsupported currency: %s", c).
			WithHint("Supported currencies are ZAR and USD").
			Mark(ierr.ErrValidation)
	}
}

// Symbol returns the display symbol for the currency.
func (c Currency) Symbol() string {
	switch c {
	case CurrencyUSD:
		return "US$"
	default:
		return "R"
	}
}

// Precision returns the number of decimal places displayed for the currency.
func (c Currency) Precision() int32 {
	return 2
}

// ParseCurrency normalizes and validates a currency string. An empty string
// resolves to the home currency.
func ParseCurrency(s string) (Currency, error) {
	if strings.TrimSpace(s) == "" {
		return HomeCurrency, nil
	}
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

// FormatAmount renders an amount with the currency symbol at the currency's
// display precision, e.g. "R 1017.50" or "US$ 450.00".
func FormatAmount(amount decimal.Decimal, currency Currency) string {
	return currency.Symbol() + " " + amount.StringFixed(currency.Precision())
}
