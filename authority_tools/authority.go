package authority_tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
)

// DefaultBaseURL is the endpoint of the authority metrics provider.
const DefaultBaseURL = "https://api.majestic.com/api/json"

// Sentinel result codes reported when the authority check does not run.
const (
	ResultCodeNoKey       = "NO-KEY"                // no credential configured
	ResultCodeDNSResolved = "NO-CHECK-DNS-RESOLVED" // skipped because the domain already resolved
)

// AuthorityInfo holds the trust metrics returned by the authority provider
// for one domain, plus the raw result record it came from.
type AuthorityInfo struct {
	TrustFlow  float64                `json:"trustFlow"`
	ResultCode string                 `json:"resultCode"`
	Raw        map[string]interface{} `json:"raw,omitempty"`
}

// NoKeyResult returns the sentinel reported when no API key is configured.
func NoKeyResult() AuthorityInfo {
	return AuthorityInfo{ResultCode: ResultCodeNoKey}
}

// SkippedResult returns the sentinel reported when the check was skipped
// because the domain already resolved via DNS.
func SkippedResult() AuthorityInfo {
	return AuthorityInfo{ResultCode: ResultCodeDNSResolved}
}

// Fetcher queries the authority metrics provider.
type Fetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewFetcher returns a Fetcher for the default provider endpoint.
func NewFetcher(client *http.Client) *Fetcher {
	return &Fetcher{BaseURL: DefaultBaseURL, Client: client}
}

// Fetch queries the authority provider for one domain. Any failure here is
// fatal for the whole check: downstream gating depends on the trust score.
func (f *Fetcher) Fetch(ctx context.Context, domain, apiKey string) (AuthorityInfo, error) {
	log.Printf("Querying authority metrics for domain: %s\n", domain)

	params := url.Values{}
	params.Set("cmd", "GetIndexItemInfo")
	params.Set("datasource", "fresh")
	params.Set("app_api_key", apiKey)
	params.Set("items", "1")
	params.Set("item0", domain)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return AuthorityInfo{}, err
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return AuthorityInfo{}, fmt.Errorf("authority provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return AuthorityInfo{}, fmt.Errorf("authority provider returned status %d", resp.StatusCode)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return AuthorityInfo{}, err
	}

	return parseResponse(buf.Bytes())
}

// parseResponse extracts the first result record from the provider response.
// The record of interest lives at DataTables.Results.Data[0].
func parseResponse(body []byte) (AuthorityInfo, error) {
	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return AuthorityInfo{}, fmt.Errorf("failed to decode authority provider response: %w", err)
	}

	info := AuthorityInfo{}
	if code, ok := result["Code"].(string); ok {
		info.ResultCode = code
	}

	dataTables, ok := result["DataTables"].(map[string]interface{})
	if !ok {
		return AuthorityInfo{}, fmt.Errorf("authority provider response missing DataTables")
	}
	results, ok := dataTables["Results"].(map[string]interface{})
	if !ok {
		return AuthorityInfo{}, fmt.Errorf("authority provider response missing Results")
	}
	data, ok := results["Data"].([]interface{})
	if !ok || len(data) == 0 {
		return AuthorityInfo{}, fmt.Errorf("authority provider response contains no result record")
	}

	record, ok := data[0].(map[string]interface{})
	if !ok {
		return AuthorityInfo{}, fmt.Errorf("authority provider result record has unexpected shape")
	}
	info.Raw = record

	if trustFlow, ok := record["TrustFlow"].(float64); ok {
		info.TrustFlow = trustFlow
	}

	return info, nil
}
