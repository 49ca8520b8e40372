package checker

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/sync/errgroup"

	"github.com/domainscout/domainscout/authority_tools"
	"github.com/domainscout/domainscout/dns_tools"
	"github.com/domainscout/domainscout/index_tools"
	"github.com/domainscout/domainscout/metrics"
	"github.com/domainscout/domainscout/registration_tools"
	"github.com/domainscout/domainscout/traffic_tools"
)

// availableStatus is the registry status of a domain that can be registered.
const availableStatus = "AVAILABLE"

// Pipeline stage names, used for logging and metrics.
const (
	stageResolving     = "resolving"
	stageProbing       = "probing"
	stageAuthority     = "fetching_authority"
	stageParallelGroup = "fetching_parallel_group"
)

// AddressResolver resolves a domain (and its "www." variant) to an address.
type AddressResolver interface {
	Resolve(ctx context.Context, domain string) dns_tools.AddressInfo
}

// LivenessProber probes a resolved address for reachability.
type LivenessProber interface {
	Probe(ctx context.Context, addr dns_tools.AddressInfo) dns_tools.LivenessInfo
}

// AuthorityFetcher queries the trust/authority metrics provider.
type AuthorityFetcher interface {
	Fetch(ctx context.Context, domain, apiKey string) (authority_tools.AuthorityInfo, error)
}

// RegistrationFetcher queries the registration/whois provider. It degrades
// to the sentinel record internally and therefore reports no error.
type RegistrationFetcher interface {
	Fetch(ctx context.Context, domain, username, password string) registration_tools.RegistrationInfo
}

// TrafficFetcher queries the SEO traffic provider.
type TrafficFetcher interface {
	Fetch(ctx context.Context, domain, apiKey, database string) (traffic_tools.TrafficInfo, error)
}

// IndexCounter counts a domain's indexed pages.
type IndexCounter interface {
	Count(ctx context.Context, domain string, primaryOnly bool) (int, error)
}

// Checker runs the enrichment pipeline for single domains: a strictly
// sequential prefix (resolve, probe, authority) followed by one fan-out of
// four independent lookups (registration, traffic, two index counts) that
// are merged into a CompositeResult.
type Checker struct {
	Resolver     AddressResolver
	Prober       LivenessProber
	Authority    AuthorityFetcher
	Registration RegistrationFetcher
	Traffic      TrafficFetcher

	// NewCounter builds the index counter for one check from the request's
	// search host and proxy list.
	NewCounter func(host string, proxies []string) IndexCounter
}

// New returns a Checker wired to the real providers, sharing one HTTP
// client across all of them.
func New(client *http.Client) *Checker {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Checker{
		Resolver:     dns_tools.NewResolver(),
		Prober:       dns_tools.NewProber(),
		Authority:    authority_tools.NewFetcher(client),
		Registration: registration_tools.NewFetcher(client),
		Traffic:      traffic_tools.NewFetcher(client),
		NewCounter: func(host string, proxies []string) IndexCounter {
			return index_tools.NewCounter(client, host, proxies)
		},
	}
}

// Check runs one enrichment check and reports exactly once: either the
// merged composite record or the first fatal error. Resolution, probe and
// registration failures degrade to sentinels and never fail the check;
// authority, traffic and index failures, and caller cancellation, abort it.
func (c *Checker) Check(ctx context.Context, req CheckRequest) (*CompositeResult, error) {
	domain, err := normalizeDomain(req.Domain)
	if err != nil {
		metrics.CheckCompleted("failed")
		return nil, fmt.Errorf("invalid domain name %q: %w", req.Domain, err)
	}

	result, err := c.run(ctx, domain, req)
	switch {
	case err == nil:
		metrics.CheckCompleted("ok")
	case ctx.Err() != nil:
		metrics.CheckCompleted("cancelled")
	default:
		metrics.CheckCompleted("failed")
	}
	return result, err
}

func (c *Checker) run(ctx context.Context, domain string, req CheckRequest) (*CompositeResult, error) {
	addr := c.resolve(ctx, domain)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("check cancelled for domain %s: %w", domain, err)
	}

	live := c.probe(ctx, addr)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("check cancelled for domain %s: %w", domain, err)
	}

	authority, err := c.fetchAuthority(ctx, domain, req, addr)
	if err != nil {
		return nil, err
	}

	result := &CompositeResult{
		Domain:              domain,
		IsDNSFound:          addr.Resolved,
		IP:                  addr.IP,
		IsAlive:             live.IsAlive,
		Authority:           authority,
		PrimaryIndexCount:   UnknownCount,
		GoogleIndexCount:    UnknownCount,
		SecondaryIndexCount: UnknownCount,
	}

	if err := c.fetchParallelGroup(ctx, domain, req, addr, result); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("check cancelled for domain %s: %w", domain, err)
	}

	// Merging
	if result.PrimaryIndexCount != UnknownCount && result.GoogleIndexCount != UnknownCount {
		result.SecondaryIndexCount = result.GoogleIndexCount - result.PrimaryIndexCount
	}
	result.TLD = tldOf(domain)
	// A resolving domain cannot be available, and without a registry status
	// availability is unknowable and reported as false.
	result.IsAvailable = !addr.Resolved && result.Registration.Status == availableStatus

	return result, nil
}

func (c *Checker) resolve(ctx context.Context, domain string) dns_tools.AddressInfo {
	start := time.Now()
	addr := c.Resolver.Resolve(ctx, domain)
	metrics.ObserveStage(stageResolving, time.Since(start))
	return addr
}

func (c *Checker) probe(ctx context.Context, addr dns_tools.AddressInfo) dns_tools.LivenessInfo {
	start := time.Now()
	live := c.Prober.Probe(ctx, addr)
	metrics.ObserveStage(stageProbing, time.Since(start))
	return live
}

// fetchAuthority applies the authority gating rules and, when none match,
// queries the provider. A provider failure here aborts the whole check:
// the gating of the parallel group depends on the trust score.
func (c *Checker) fetchAuthority(ctx context.Context, domain string, req CheckRequest, addr dns_tools.AddressInfo) (authority_tools.AuthorityInfo, error) {
	switch {
	case req.AuthorityKey == "":
		return authority_tools.NoKeyResult(), nil
	case req.SkipDeepChecksIfResolvable && addr.Resolved:
		return authority_tools.SkippedResult(), nil
	}

	start := time.Now()
	info, err := c.Authority.Fetch(ctx, domain, req.AuthorityKey)
	metrics.ObserveStage(stageAuthority, time.Since(start))
	if err != nil {
		metrics.ProviderError("authority")
		return authority_tools.AuthorityInfo{}, fmt.Errorf("authority check failed for domain %s: %w", domain, err)
	}
	return info, nil
}

// fetchParallelGroup fans out the registration, traffic and two index-count
// lookups and fans back in once all four complete or the first fatal one
// fails. Each lookup writes only to its own slot of the result; the merge
// happens after the join, in the caller.
func (c *Checker) fetchParallelGroup(ctx context.Context, domain string, req CheckRequest, addr dns_tools.AddressInfo, result *CompositeResult) error {
	skipDeep := req.SkipDeepChecksIfResolvable && addr.Resolved
	belowAuthority := req.MinAuthorityScore != nil && result.Authority.TrustFlow < *req.MinAuthorityScore

	start := time.Now()
	defer func() { metrics.ObserveStage(stageParallelGroup, time.Since(start)) }()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// Registration data is best-effort; the fetcher degrades to the
		// sentinel record on its own and never fails the group.
		switch {
		case skipDeep:
			log.Printf("Skipping registration check for domain: %s (DNS resolved)\n", domain)
			result.Registration = registration_tools.NewNoDataRecord()
		case belowAuthority:
			log.Printf("Skipping registration check for domain: %s (trust flow %.1f below threshold)\n", domain, result.Authority.TrustFlow)
			result.Registration = registration_tools.NewNoDataRecord()
		case req.RegistrationCredential == nil:
			result.Registration = registration_tools.NewNoDataRecord()
		default:
			result.Registration = c.Registration.Fetch(gctx, domain, req.RegistrationCredential.User, req.RegistrationCredential.Password)
		}
		return nil
	})

	g.Go(func() error {
		if skipDeep || belowAuthority || req.TrafficKey == "" {
			result.Traffic = traffic_tools.NewDefaultRecord()
			return nil
		}
		database := req.TrafficDatabase
		if database == "" {
			database = traffic_tools.DefaultDatabase
		}
		info, err := c.Traffic.Fetch(gctx, domain, req.TrafficKey, database)
		if err != nil {
			metrics.ProviderError("traffic")
			return fmt.Errorf("traffic check failed for domain %s: %w", domain, err)
		}
		result.Traffic = info
		return nil
	})

	if req.IndexSearchHost != "" {
		counter := c.NewCounter(req.IndexSearchHost, req.ProxyList)
		g.Go(func() error {
			count, err := counter.Count(gctx, domain, true)
			if err != nil {
				metrics.ProviderError("index")
				return fmt.Errorf("primary index count failed for domain %s: %w", domain, err)
			}
			result.PrimaryIndexCount = count
			return nil
		})
		g.Go(func() error {
			count, err := counter.Count(gctx, domain, false)
			if err != nil {
				metrics.ProviderError("index")
				return fmt.Errorf("index count failed for domain %s: %w", domain, err)
			}
			result.GoogleIndexCount = count
			return nil
		})
	}

	return g.Wait()
}

// normalizeDomain lowercases the input and converts IDN names to their
// Punycode form, the way every provider expects them.
func normalizeDomain(domain string) (string, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return "", fmt.Errorf("empty domain")
	}
	return idna.ToASCII(domain)
}

// tldOf derives the domain's public suffix, e.g. "com" for example.com and
// "co.uk" for example.co.uk.
func tldOf(domain string) string {
	suffix, _ := publicsuffix.PublicSuffix(domain)
	return suffix
}
