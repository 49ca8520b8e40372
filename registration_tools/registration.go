package registration_tools

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
)

// DefaultBaseURL is the endpoint of the registration/whois data provider.
const DefaultBaseURL = "https://www.whoisxmlapi.com/whoisserver/WhoisService"

// providerResponse mirrors the fields of the provider's JSON body that the
// normalization rules consume.
type providerResponse struct {
	ErrorMessage *struct {
		Msg string `json:"msg"`
	} `json:"ErrorMessage"`
	WhoisRecord *struct {
		DataError          string  `json:"dataError"`
		EstimatedDomainAge float64 `json:"estimatedDomainAge"`
		RegistryData       *struct {
			Status      string `json:"status"`
			CreatedDate string `json:"createdDate"`
			ExpiresDate string `json:"expiresDate"`
		} `json:"registryData"`
	} `json:"WhoisRecord"`
}

// Fetcher queries the registration/whois data provider.
type Fetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewFetcher returns a Fetcher for the default provider endpoint.
func NewFetcher(client *http.Client) *Fetcher {
	return &Fetcher{BaseURL: DefaultBaseURL, Client: client}
}

// Fetch queries the provider for combined DNS and whois data and normalizes
// the response. Registration data is best-effort: transport failures, non-200
// responses and undecodable bodies all degrade to the all-"no-data" sentinel
// record and never fail the pipeline.
func (f *Fetcher) Fetch(ctx context.Context, domain, username, password string) RegistrationInfo {
	log.Printf("Querying registration data for domain: %s\n", domain)

	params := url.Values{}
	params.Set("username", username)
	params.Set("password", password)
	params.Set("domainName", domain)
	params.Set("outputFormat", "JSON")
	params.Set("getMode", "DNS_AND_WHOIS")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		log.Printf("Registration request for domain %s could not be built: %v\n", domain, err)
		return NewNoDataRecord()
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		log.Printf("Registration request failed for domain: %s: %v\n", domain, err)
		return NewNoDataRecord()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// A non-200 here means bad credentials or provider configuration,
		// not a missing domain. Still best-effort.
		log.Printf("Registration provider returned status %d for domain: %s\n", resp.StatusCode, domain)
		return NewNoDataRecord()
	}

	var parsed providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		log.Printf("Failed to decode registration response for domain: %s: %v\n", domain, err)
		return NewNoDataRecord()
	}

	return Normalize(parsed)
}
