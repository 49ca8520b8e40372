package dns_tools

import (
	"context"
	"log"
	"net"
)

// AddressInfo represents the outcome of resolving a domain to an IP address.
type AddressInfo struct {
	Domain        string `json:"domain"`        // Domain is the domain name that was looked up.
	UsedWwwPrefix bool   `json:"usedWwwPrefix"` // UsedWwwPrefix reports whether the "www." variant was the one that resolved.
	Resolved      bool   `json:"resolved"`      // Resolved reports whether any lookup attempt succeeded.
	IP            string `json:"ip,omitempty"`  // IP is the first resolved address, empty when Resolved is false.
}

// LookupFunc resolves a host name to its addresses. It matches the signature
// of net.Resolver.LookupHost so the system resolver can be replaced in tests.
type LookupFunc func(ctx context.Context, host string) ([]string, error)

// Resolver resolves domains to IP addresses, falling back to the "www."
// variant when the bare domain does not resolve.
type Resolver struct {
	lookup LookupFunc
}

// NewResolver returns a Resolver backed by the system DNS resolver.
func NewResolver() *Resolver {
	var r net.Resolver
	return &Resolver{lookup: r.LookupHost}
}

// NewResolverWithLookup returns a Resolver backed by a custom lookup function.
func NewResolverWithLookup(lookup LookupFunc) *Resolver {
	return &Resolver{lookup: lookup}
}

// Resolve attempts to resolve the bare domain first and the "www."-prefixed
// variant second. Failure of both attempts is a valid outcome, not an error:
// an unresolvable domain is exactly the signal the caller is looking for.
func (r *Resolver) Resolve(ctx context.Context, domain string) AddressInfo {
	info := AddressInfo{Domain: domain}

	addrs, err := r.lookup(ctx, domain)
	if err == nil && len(addrs) > 0 {
		info.Resolved = true
		info.IP = addrs[0]
		return info
	}
	log.Printf("DNS lookup failed for domain: %s, retrying with www prefix: %v\n", domain, err)

	addrs, err = r.lookup(ctx, "www."+domain)
	if err == nil && len(addrs) > 0 {
		info.Resolved = true
		info.UsedWwwPrefix = true
		info.IP = addrs[0]
		return info
	}
	log.Printf("DNS lookup failed for domain: www.%s: %v\n", domain, err)

	return info
}
