package mcp_tools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/domainscout/domainscout/checker"
	"github.com/domainscout/domainscout/config"
)

// CheckArgs are the arguments of the check_domain tool. Omitted flags fall
// back to the server configuration.
type CheckArgs struct {
	Domain                     string   `json:"domain" jsonschema:"domain name to check"`
	SkipDeepChecksIfResolvable *bool    `json:"skipDeepChecksIfResolvable,omitempty" jsonschema:"skip the paid provider lookups when the domain resolves via DNS"`
	MinTrustFlow               *float64 `json:"minTrustFlow,omitempty" jsonschema:"skip the registration and traffic lookups for domains below this trust flow"`
}

// NewHTTPHandler returns an MCP handler exposing the enrichment pipeline as
// a check_domain tool, so agents can triage domains over the same pipeline
// the HTTP API uses.
func NewHTTPHandler(c *checker.Checker) http.Handler {
	server := mcp.NewServer(&mcp.Implementation{Name: "domainscout", Version: config.Version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_domain",
		Description: "Enumerate DNS, liveness, authority, registration, traffic and search-index signals for one domain and merge them into a composite record",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args CheckArgs) (*mcp.CallToolResult, *checker.CompositeResult, error) {
		checkReq := checker.CheckRequest{
			Domain:                     args.Domain,
			AuthorityKey:               config.AuthorityKey,
			TrafficKey:                 config.TrafficKey,
			TrafficDatabase:            config.TrafficDatabase,
			SkipDeepChecksIfResolvable: config.SkipDeepChecksIfResolvable,
			IndexSearchHost:            config.IndexSearchHost,
			ProxyList:                  config.ProxyList,
		}
		if config.RegistrationUser != "" {
			checkReq.RegistrationCredential = &checker.Credentials{
				User:     config.RegistrationUser,
				Password: config.RegistrationPassword,
			}
		}
		if config.MinAuthorityScore > 0 {
			threshold := config.MinAuthorityScore
			checkReq.MinAuthorityScore = &threshold
		}
		if args.SkipDeepChecksIfResolvable != nil {
			checkReq.SkipDeepChecksIfResolvable = *args.SkipDeepChecksIfResolvable
		}
		if args.MinTrustFlow != nil {
			checkReq.MinAuthorityScore = args.MinTrustFlow
		}

		result, err := c.Check(ctx, checkReq)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})

	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
}
