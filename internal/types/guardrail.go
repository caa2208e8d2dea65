package types

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	ierr "github.com/fleetrate/fleetrate/internal/errors"
)

// SettingKey identifies a setting stored in the settings collaborator
type SettingKey string

const (
	// SettingKeyTariffGuardrails is the setting holding the raw guardrail
	// policy key/value map
	SettingKeyTariffGuardrails SettingKey = "tariff_guardrails"
)

func (s SettingKey) String() string {
	return string(s)
}

// Recognized raw keys of the tariff guardrail setting. Unknown keys in the
// stored map are ignored.
const (
	GuardrailKeyBaseDieselPrice     = "base_diesel_price"
	GuardrailKeyImpactPercentage    = "diesel_impact_percentage"
	GuardrailKeyAutoAdjustThreshold = "auto_adjust_threshold"
	GuardrailKeyMaxMonthlyIncrease  = "max_monthly_increase"
	GuardrailKeyRoundingPrecision   = "rounding_precision"
	GuardrailKeyEffectiveDay        = "effective_day_of_month"
)

// GuardrailPolicy holds the validated tariff adjustment parameters. The
// policy is a value: loaded and validated once per calculation batch and
// immutable for the duration of that batch.
type GuardrailPolicy struct {
	// BasePrice is the reference diesel price adjustments are computed against
	BasePrice decimal.Decimal `json:"base_price"`

	// ImpactFactor is the fraction of a diesel percentage change passed
	// through to the tariff, in [0,1]
	ImpactFactor decimal.Decimal `json:"impact_factor"`

	// TriggerThresholdPct is the minimum absolute diesel percentage change
	// that triggers an adjustment
	TriggerThresholdPct decimal.Decimal `json:"trigger_threshold_pct"`

	// MaxIncreasePct caps the tariff adjustment percentage in either direction
	MaxIncreasePct decimal.Decimal `json:"max_increase_pct"`

	// RoundingPrecision is the number of decimal places for adjusted rates
	RoundingPrecision int32 `json:"rounding_precision"`

	// EffectiveDayOfMonth is the day adjustments take effect, 1 or 15
	EffectiveDayOfMonth int `json:"effective_day_of_month"`
}

// DefaultGuardrailSettings returns the built-in raw guardrail setting map.
// Built-in defaults fill in missing keys only; they never override an
// explicitly stored value.
func DefaultGuardrailSettings() map[string]string {
	return map[string]string{
		GuardrailKeyBaseDieselPrice:     "23.50",
		GuardrailKeyImpactPercentage:    "0.35",
		GuardrailKeyAutoAdjustThreshold: "2.5",
		GuardrailKeyMaxMonthlyIncrease:  "10",
		GuardrailKeyRoundingPrecision:   "2",
		GuardrailKeyEffectiveDay:        "1",
	}
}

func invalidPolicyField(key, value, reason string) error {
	return ierr.NewErrorf("invalid guardrail policy field %q", key).
		WithHint(reason).
		WithReportableDetails(map[string]interface{}{
			"key":   key,
			"value": value,
		}).
		Mark(ierr.ErrValidation)
}

func parsePolicyDecimal(raw map[string]string, key string) (decimal.Decimal, error) {
	value, ok := raw[key]
	if !ok || strings.TrimSpace(value) == "" {
		return decimal.Zero, invalidPolicyField(key, value, "Value is required")
	}
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, invalidPolicyField(key, value, "Value must be a valid decimal number")
	}
	return d, nil
}

func parsePolicyInt(raw map[string]string, key string) (int, error) {
	value, ok := raw[key]
	if !ok || strings.TrimSpace(value) == "" {
		return 0, invalidPolicyField(key, value, "Value is required")
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, invalidPolicyField(key, value, "Value must be a valid integer")
	}
	return n, nil
}

// ParseGuardrailPolicy merges the stored raw map over the built-in defaults,
// parses each recognized key per its declared type and validates ranges.
// An invalid policy is rejected before any calculation runs.
func ParseGuardrailPolicy(raw map[string]string) (GuardrailPolicy, error) {
	merged := DefaultGuardrailSettings()
	for k, v := range raw {
		if _, recognized := merged[k]; recognized {
			merged[k] = v
		}
	}

	var policy GuardrailPolicy
	var err error

	if policy.BasePrice, err = parsePolicyDecimal(merged, GuardrailKeyBaseDieselPrice); err != nil {
		return GuardrailPolicy{}, err
	}
	if policy.ImpactFactor, err = parsePolicyDecimal(merged, GuardrailKeyImpactPercentage); err != nil {
		return GuardrailPolicy{}, err
	}
	if policy.TriggerThresholdPct, err = parsePolicyDecimal(merged, GuardrailKeyAutoAdjustThreshold); err != nil {
		return GuardrailPolicy{}, err
	}
	if policy.MaxIncreasePct, err = parsePolicyDecimal(merged, GuardrailKeyMaxMonthlyIncrease); err != nil {
		return GuardrailPolicy{}, err
	}

	precision, err := parsePolicyInt(merged, GuardrailKeyRoundingPrecision)
	if err != nil {
		return GuardrailPolicy{}, err
	}
	policy.RoundingPrecision = int32(precision)

	if policy.EffectiveDayOfMonth, err = parsePolicyInt(merged, GuardrailKeyEffectiveDay); err != nil {
		return GuardrailPolicy{}, err
	}

	if err := policy.Validate(); err != nil {
		return GuardrailPolicy{}, err
	}
	return policy, nil
}

// Validate checks all policy fields against their allowed ranges.
func (p GuardrailPolicy) Validate() error {
	if !p.BasePrice.IsPositive() {
		return invalidPolicyField(GuardrailKeyBaseDieselPrice, p.BasePrice.String(), "Base diesel price must be greater than zero")
	}
	if p.ImpactFactor.IsNegative() || p.ImpactFactor.GreaterThan(decimal.NewFromInt(1)) {
		return invalidPolicyField(GuardrailKeyImpactPercentage, p.ImpactFactor.String(), "Diesel impact factor must be between 0 and 1")
	}
	if p.TriggerThresholdPct.IsNegative() {
		return invalidPolicyField(GuardrailKeyAutoAdjustThreshold, p.TriggerThresholdPct.String(), "Auto adjust threshold cannot be negative")
	}
	if p.MaxIncreasePct.IsNegative() {
		return invalidPolicyField(GuardrailKeyMaxMonthlyIncrease, p.MaxIncreasePct.String(), "Max monthly increase cannot be negative")
	}
	if p.RoundingPrecision < 0 || p.RoundingPrecision > 3 {
		return invalidPolicyField(GuardrailKeyRoundingPrecision, strconv.Itoa(int(p.RoundingPrecision)), "Rounding precision must be between 0 and 3")
	}
	if p.EffectiveDayOfMonth != 1 && p.EffectiveDayOfMonth != 15 {
		return invalidPolicyField(GuardrailKeyEffectiveDay, strconv.Itoa(p.EffectiveDayOfMonth), "Effective day of month must be 1 or 15")
	}
	return nil
}
