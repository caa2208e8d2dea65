package businessprofile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fleetrate/fleetrate/internal/types"
)

func TestForcedCurrency(t *testing.T) {
	tests := []struct {
		name       string
		country    string
		wantForced bool
		want       types.Currency
	}{
		{name: "Zimbabwe", country: "Zimbabwe", wantForced: true, want: types.CurrencyUSD},
		{name: "Zimbabwe_Mixed_Case", country: "  zimBABwe ", wantForced: true, want: types.CurrencyUSD},
		{name: "South_Africa", country: "South Africa", wantForced: false},
		{name: "Empty", country: "", wantForced: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Profile{Country: tt.country}
			got, forced := p.ForcedCurrency()
			assert.Equal(t, tt.wantForced, forced)
			if tt.wantForced {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestBrandingMerge(t *testing.T) {
	persisted := Branding{
		TradingName: "FleetRate",
		LogoURL:     "https://cdn.example.com/logo.png",
		AccentColor: "#004a99",
	}

	t.Run("Nil_Override", func(t *testing.T) {
		assert.Equal(t, persisted, persisted.Merge(nil))
	})

	t.Run("Partial_Override", func(t *testing.T) {
		merged := persisted.Merge(&Branding{AccentColor: "#cc0000", FooterNote: "note"})
		assert.Equal(t, "FleetRate", merged.TradingName)
		assert.Equal(t, "https://cdn.example.com/logo.png", merged.LogoURL)
		assert.Equal(t, "#cc0000", merged.AccentColor)
		assert.Equal(t, "note", merged.FooterNote)
	})

	t.Run("Original_Unchanged", func(t *testing.T) {
		_ = persisted.Merge(&Branding{TradingName: "Other"})
		assert.Equal(t, "FleetRate", persisted.TradingName)
	})
}
