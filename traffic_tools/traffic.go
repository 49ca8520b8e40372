package traffic_tools

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
)

// DefaultBaseURL is the endpoint of the SEO traffic data provider.
const DefaultBaseURL = "https://api.semrush.com/"

// DefaultDatabase is the regional database queried when the caller does not
// name one.
const DefaultDatabase = "us"

// exportColumns is the fixed column set of the domain_rank report:
// domain, rank, organic keywords/traffic/cost, adwords keywords/traffic/cost.
const exportColumns = "Dn,Rk,Or,Ot,Oc,Ad,At,Ac"

// Fetcher queries the SEO traffic data provider.
type Fetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewFetcher returns a Fetcher for the default provider endpoint.
func NewFetcher(client *http.Client) *Fetcher {
	return &Fetcher{BaseURL: DefaultBaseURL, Client: client}
}

// Fetch queries the provider for one domain_rank report row. Unlike the
// registration provider, failures here are fatal: a non-200 response or a
// transport error means the API key or configuration is broken.
func (f *Fetcher) Fetch(ctx context.Context, domain, apiKey, database string) (TrafficInfo, error) {
	log.Printf("Querying traffic data for domain: %s in database: %s\n", domain, database)

	params := url.Values{}
	params.Set("type", "domain_rank")
	params.Set("key", apiKey)
	params.Set("export_columns", exportColumns)
	params.Set("domain", domain)
	params.Set("database", database)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return TrafficInfo{}, err
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return TrafficInfo{}, fmt.Errorf("traffic provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return TrafficInfo{}, fmt.Errorf("traffic provider returned status %d", resp.StatusCode)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return TrafficInfo{}, err
	}

	return ParseDomainRank(buf.String()), nil
}
