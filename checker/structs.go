package checker

import (
	"github.com/domainscout/domainscout/authority_tools"
	"github.com/domainscout/domainscout/registration_tools"
	"github.com/domainscout/domainscout/traffic_tools"
)

// UnknownCount is reported for an index count that was never obtained, so a
// missing count is never mistaken for a real zero.
const UnknownCount = -1

// Credentials are the username/password pair for the registration provider.
type Credentials struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

// CheckRequest describes one domain check. The request is immutable for the
// duration of the check; every stage reads from it and writes only to its
// own slot of the composite result.
type CheckRequest struct {
	// Domain is the domain name to check. Required.
	Domain string `json:"domain"`

	// AuthorityKey is the API key for the authority metrics provider. When
	// empty the authority stage reports its NO-KEY sentinel.
	AuthorityKey string `json:"authorityKey,omitempty"`

	// RegistrationCredential authenticates against the registration/whois
	// provider. When nil the registration stage reports the all-"no-data"
	// sentinel record.
	RegistrationCredential *Credentials `json:"registrationCredential,omitempty"`

	// TrafficKey is the API key for the SEO traffic provider. When empty
	// the traffic stage reports the default record.
	TrafficKey string `json:"trafficKey,omitempty"`

	// TrafficDatabase selects the provider's regional database. Defaults
	// to traffic_tools.DefaultDatabase.
	TrafficDatabase string `json:"trafficDatabase,omitempty"`

	// SkipDeepChecksIfResolvable skips the authority, registration and
	// traffic lookups when the domain resolves via DNS. The condition keys
	// off DNS resolution, not host liveness; the two are not equivalent.
	SkipDeepChecksIfResolvable bool `json:"skipDeepChecksIfResolvable,omitempty"`

	// MinAuthorityScore, when set, skips the registration and traffic
	// lookups for domains whose trust flow falls below it.
	MinAuthorityScore *float64 `json:"minAuthorityScore,omitempty"`

	// IndexSearchHost is the search host queried for index counts. When
	// empty the index stage is skipped and both counts report UnknownCount.
	IndexSearchHost string `json:"indexSearchHost,omitempty"`

	// ProxyList optionally routes index count queries through a proxy
	// picked at random per query.
	ProxyList []string `json:"proxyList,omitempty"`
}

// CompositeResult is the merged record of one domain check. Every
// provider-backed field is populated with either real data or its
// documented sentinel, never left absent.
type CompositeResult struct {
	Domain              string                              `json:"domain"`
	IsDNSFound          bool                                `json:"isDNSFound"`
	IP                  string                              `json:"ip,omitempty"`
	IsAlive             bool                                `json:"isAlive"`
	Authority           authority_tools.AuthorityInfo       `json:"authority"`
	Registration        registration_tools.RegistrationInfo `json:"registration"`
	Traffic             traffic_tools.TrafficInfo           `json:"traffic"`
	IsAvailable         bool                                `json:"isAvailable"`
	PrimaryIndexCount   int                                 `json:"primaryIndexCount"`
	GoogleIndexCount    int                                 `json:"googleIndexCount"`
	SecondaryIndexCount int                                 `json:"secondaryIndexCount"`
	TLD                 string                              `json:"tld"`
}
