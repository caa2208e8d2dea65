package types

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// UUID prefixes for the different entity types. IDs are ULIDs prefixed with
// the entity short code, e.g. "route_01hgw2...".
const (
	UUID_PREFIX_ROUTE            = "route"
	UUID_PREFIX_ROUTE_ASSIGNMENT = "ra"
	UUID_PREFIX_CLIENT           = "client"
	UUID_PREFIX_TARIFF_HISTORY   = "thist"
	UUID_PREFIX_BUSINESS_PROFILE = "bprof"
	UUID_PREFIX_SETTING          = "setting"
	UUID_PREFIX_REQUEST          = "req"
)

// GenerateUUID returns a lowercase ULID
func GenerateUUID() string {
	return strings.ToLower(ulid.Make().String())
}

// GenerateUUIDWithPrefix returns a lowercase ULID prefixed with the given
// entity short code
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return prefix + "_" + GenerateUUID()
}
