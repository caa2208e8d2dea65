package types

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Currency
		wantErr bool
	}{
		{name: "ZAR_Uppercase", input: "ZAR", want: CurrencyZAR},
		{name: "USD_Lowercase", input: "usd", want: CurrencyUSD},
		{name: "Whitespace_Trimmed", input: "  zar ", want: CurrencyZAR},
		{name: "Empty_Falls_Back_To_Home", input: "", want: HomeCurrency},
		{name: "Unsupported", input: "EUR", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCurrency(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "R 1017.50", FormatAmount(decimal.RequireFromString("1017.5"), CurrencyZAR))
	assert.Equal(t, "US$ 450.00", FormatAmount(decimal.RequireFromString("450"), CurrencyUSD))
	assert.Equal(t, "R -12.35", FormatAmount(decimal.RequireFromString("-12.345"), CurrencyZAR))
}

func TestPeriodMonth(t *testing.T) {
	in := time.Date(2026, 3, 17, 14, 22, 5, 0, time.FixedZone("SAST", 2*3600))
	got := PeriodMonth(in)

	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
}
