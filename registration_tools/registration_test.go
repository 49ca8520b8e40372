package registration_tools

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetch(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{
			"WhoisRecord": {
				"estimatedDomainAge": 365,
				"registryData": {
					"status": "clientTransferProhibited",
					"createdDate": "2020-05-01T00:00:00Z",
					"expiresDate": "2030-05-01T00:00:00Z"
				}
			}
		}`)
	}))
	defer server.Close()

	fetcher := &Fetcher{BaseURL: server.URL, Client: server.Client()}
	info := fetcher.Fetch(context.Background(), "example.com", "user", "pass")

	if info.Status != "clientTransferProhibited" {
		t.Errorf("Status = %q", info.Status)
	}
	if info.EstimatedDomainAge != "1.00" {
		t.Errorf("EstimatedDomainAge = %q, expected 1.00", info.EstimatedDomainAge)
	}

	for _, param := range []string{"username=user", "password=pass", "domainName=example.com", "outputFormat=JSON", "getMode=DNS_AND_WHOIS"} {
		if !strings.Contains(gotQuery, param) {
			t.Errorf("Query %q missing parameter %q", gotQuery, param)
		}
	}
}

func TestFetchNon200DegradesToSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	fetcher := &Fetcher{BaseURL: server.URL, Client: server.Client()}
	info := fetcher.Fetch(context.Background(), "example.com", "user", "wrong")

	if info != NewNoDataRecord() {
		t.Errorf("Expected the all-sentinel record on a non-200 response, got %+v", info)
	}
}

func TestFetchTransportErrorDegradesToSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // unreachable on purpose

	fetcher := &Fetcher{BaseURL: server.URL, Client: http.DefaultClient}
	info := fetcher.Fetch(context.Background(), "example.com", "user", "pass")

	if info != NewNoDataRecord() {
		t.Errorf("Expected the all-sentinel record on a transport error, got %+v", info)
	}
}

func TestFetchUndecodableBodyDegradesToSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not json at all")
	}))
	defer server.Close()

	fetcher := &Fetcher{BaseURL: server.URL, Client: server.Client()}
	info := fetcher.Fetch(context.Background(), "example.com", "user", "pass")

	if info != NewNoDataRecord() {
		t.Errorf("Expected the all-sentinel record on an undecodable body, got %+v", info)
	}
}
