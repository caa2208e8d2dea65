package route

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/fleetrate/fleetrate/internal/types"
)

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "JNB-DBN", NormalizeCode("  jnb-dbn "))
	assert.Equal(t, "JNB-DBN", NormalizeCode("JNB-DBN"))
	assert.Equal(t, "", NormalizeCode("   "))
}

func TestRouteValidate(t *testing.T) {
	r := &Route{
		ID:          "route_1",
		RouteCode:   "JNB-DBN",
		Origin:      "Johannesburg",
		Destination: "Durban",
	}
	assert.NoError(t, r.Validate())

	missingCode := *r
	missingCode.RouteCode = ""
	assert.Error(t, missingCode.Validate())

	negativeDistance := *r
	d := decimal.RequireFromString("-5")
	negativeDistance.DistanceKm = &d
	assert.Error(t, negativeDistance.Validate())
}

func TestAssignmentValidate(t *testing.T) {
	a := &Assignment{
		ID:          "ra_1",
		ClientID:    "client_1",
		RouteID:     "route_1",
		CurrentRate: decimal.RequireFromString("1000"),
		RateType:    types.RateTypeFixed,
	}
	assert.NoError(t, a.Validate())

	zeroRate := *a
	zeroRate.CurrentRate = decimal.Zero
	assert.Error(t, zeroRate.Validate())

	badType := *a
	badType.RateType = types.RateType("hourly")
	assert.Error(t, badType.Validate())
}
