package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ierr "github.com/fleetrate/fleetrate/internal/errors"
)

func TestParseGuardrailPolicy_Defaults(t *testing.T) {
	policy, err := ParseGuardrailPolicy(nil)
	require.NoError(t, err)

	assert.True(t, policy.BasePrice.Equal(decimal.RequireFromString("23.50")))
	assert.True(t, policy.ImpactFactor.Equal(decimal.RequireFromString("0.35")))
	assert.True(t, policy.TriggerThresholdPct.Equal(decimal.RequireFromString("2.5")))
	assert.True(t, policy.MaxIncreasePct.Equal(decimal.RequireFromString("10")))
	assert.Equal(t, int32(2), policy.RoundingPrecision)
	assert.Equal(t, 1, policy.EffectiveDayOfMonth)
}

func TestParseGuardrailPolicy_StoredValuesWin(t *testing.T) {
	raw := map[string]string{
		GuardrailKeyBaseDieselPrice: "25.75",
		GuardrailKeyEffectiveDay:    "15",
	}

	policy, err := ParseGuardrailPolicy(raw)
	require.NoError(t, err)

	assert.True(t, policy.BasePrice.Equal(decimal.RequireFromString("25.75")))
	assert.Equal(t, 15, policy.EffectiveDayOfMonth)
	// Untouched keys fall back to defaults
	assert.True(t, policy.ImpactFactor.Equal(decimal.RequireFromString("0.35")))
}

func TestParseGuardrailPolicy_IgnoresUnknownKeys(t *testing.T) {
	raw := map[string]string{
		"some_legacy_key": "whatever",
	}

	policy, err := ParseGuardrailPolicy(raw)
	require.NoError(t, err)
	assert.True(t, policy.BasePrice.Equal(decimal.RequireFromString("23.50")))
}

func TestParseGuardrailPolicy_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]string
	}{
		{
			name: "NonNumeric_BasePrice",
			raw:  map[string]string{GuardrailKeyBaseDieselPrice: "abc"},
		},
		{
			name: "Zero_BasePrice",
			raw:  map[string]string{GuardrailKeyBaseDieselPrice: "0"},
		},
		{
			name: "Negative_BasePrice",
			raw:  map[string]string{GuardrailKeyBaseDieselPrice: "-1"},
		},
		{
			name: "ImpactFactor_Above_One",
			raw:  map[string]string{GuardrailKeyImpactPercentage: "1.01"},
		},
		{
			name: "Negative_ImpactFactor",
			raw:  map[string]string{GuardrailKeyImpactPercentage: "-0.1"},
		},
		{
			name: "Negative_Threshold",
			raw:  map[string]string{GuardrailKeyAutoAdjustThreshold: "-2.5"},
		},
		{
			name: "Negative_MaxIncrease",
			raw:  map[string]string{GuardrailKeyMaxMonthlyIncrease: "-10"},
		},
		{
			name: "Precision_Too_Large",
			raw:  map[string]string{GuardrailKeyRoundingPrecision: "4"},
		},
		{
			name: "Precision_Negative",
			raw:  map[string]string{GuardrailKeyRoundingPrecision: "-1"},
		},
		{
			name: "Precision_Not_Integer",
			raw:  map[string]string{GuardrailKeyRoundingPrecision: "2.5"},
		},
		{
			name: "Effective_Day_Not_Allowed",
			raw:  map[string]string{GuardrailKeyEffectiveDay: "10"},
		},
		{
			name: "Empty_Value",
			raw:  map[string]string{GuardrailKeyMaxMonthlyIncrease: "  "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGuardrailPolicy(tt.raw)
			require.Error(t, err)
			assert.True(t, ierr.IsValidation(err))
		})
	}
}

func TestGuardrailPolicy_Validate_BoundaryValues(t *testing.T) {
	policy := GuardrailPolicy{
		BasePrice:           decimal.RequireFromString("0.01"),
		ImpactFactor:        decimal.NewFromInt(1),
		TriggerThresholdPct: decimal.Zero,
		MaxIncreasePct:      decimal.Zero,
		RoundingPrecision:   0,
		EffectiveDayOfMonth: 15,
	}
	assert.NoError(t, policy.Validate())

	policy.RoundingPrecision = 3
	policy.EffectiveDayOfMonth = 1
	assert.NoError(t, policy.Validate())
}
