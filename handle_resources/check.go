package handle_resources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"

	"github.com/domainscout/domainscout/checker"
	"github.com/domainscout/domainscout/config"
	"github.com/domainscout/domainscout/utils"
)

// defaultChecker runs every HTTP-triggered check, sharing the configured
// HTTP client across all provider fetchers.
var defaultChecker = checker.New(config.HttpClient)

// HandleCheck runs one enrichment check for the given domain and writes the
// composite record. Results are cached per domain; requests carrying query
// parameter overrides bypass the cache since their results are not
// representative of the configured defaults.
func HandleCheck(ctx context.Context, w http.ResponseWriter, r *http.Request, resource string, cacheKeyPrefix string) {
	// Convert the domain to Punycode encoding (supports IDN domains)
	punycodeDomain, err := idna.ToASCII(resource)
	if err != nil {
		utils.HandleHTTPError(w, utils.ErrorTypeBadRequest, "Invalid domain name: "+resource)
		return
	}
	resource = punycodeDomain

	// Reduce the input to its registrable domain
	mainDomain, _ := publicsuffix.EffectiveTLDPlusOne(resource)
	if mainDomain == "" {
		mainDomain = resource
	}
	domain := mainDomain
	key := fmt.Sprintf("%s%s", cacheKeyPrefix, domain)

	cacheable := r.URL.RawQuery == ""
	if cacheable {
		cacheResult, err := utils.GetFromCache(ctx, config.CacheManager, key)
		if err != nil {
			utils.HandleInternalError(w, err)
			return
		}
		if cacheResult.Found {
			utils.HandleCacheResponse(w, cacheResult.Data, "application/json")
			return
		}
	}

	result, err := defaultChecker.Check(ctx, buildRequest(r, domain))
	if err != nil {
		utils.HandleCheckError(w, err)
		return
	}

	resultBytes, err := json.Marshal(result)
	if err != nil {
		utils.HandleInternalError(w, err)
		return
	}
	body := string(resultBytes)

	if cacheable {
		// Cache failures are not worth failing the request over
		_ = utils.SetToCache(ctx, config.CacheManager, key, body, config.CacheExpiration)
	}

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, body)
}

// buildRequest assembles a CheckRequest from the configured defaults and
// the per-request query parameter overrides.
func buildRequest(r *http.Request, domain string) checker.CheckRequest {
	req := checker.CheckRequest{
		Domain:                     domain,
		AuthorityKey:               config.AuthorityKey,
		TrafficKey:                 config.TrafficKey,
		TrafficDatabase:            config.TrafficDatabase,
		SkipDeepChecksIfResolvable: config.SkipDeepChecksIfResolvable,
		IndexSearchHost:            config.IndexSearchHost,
		ProxyList:                  config.ProxyList,
	}
	if config.RegistrationUser != "" {
		req.RegistrationCredential = &checker.Credentials{
			User:     config.RegistrationUser,
			Password: config.RegistrationPassword,
		}
	}
	if config.MinAuthorityScore > 0 {
		threshold := config.MinAuthorityScore
		req.MinAuthorityScore = &threshold
	}

	query := r.URL.Query()
	if skip := query.Get("skipResolvable"); skip != "" {
		req.SkipDeepChecksIfResolvable = skip == "true" || skip == "1"
	}
	if minScore := query.Get("minTrustFlow"); minScore != "" {
		if threshold, err := strconv.ParseFloat(minScore, 64); err == nil {
			req.MinAuthorityScore = &threshold
		}
	}
	if database := query.Get("database"); database != "" {
		req.TrafficDatabase = database
	}

	return req
}
