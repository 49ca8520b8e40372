package authority_tools

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
			"Code": "OK",
			"ErrorMessage": "",
			"DataTables": {
				"Results": {
					"Data": [
						{"Item": "example.com", "TrustFlow": 34, "CitationFlow": 40}
					]
				}
			}
		}`)
	}))
	defer server.Close()

	fetcher := &Fetcher{BaseURL: server.URL, Client: server.Client()}
	info, err := fetcher.Fetch(context.Background(), "example.com", "secret-key")
	if err != nil {
		t.Fatalf("Fetch returned an error: %v", err)
	}

	if info.TrustFlow != 34 {
		t.Errorf("TrustFlow = %v, expected 34", info.TrustFlow)
	}
	if info.ResultCode != "OK" {
		t.Errorf("ResultCode = %q, expected OK", info.ResultCode)
	}
	if info.Raw["CitationFlow"] != float64(40) {
		t.Errorf("Raw record not kept verbatim: %+v", info.Raw)
	}

	for _, param := range []string{"cmd=GetIndexItemInfo", "datasource=fresh", "app_api_key=secret-key", "items=1", "item0=example.com"} {
		if !strings.Contains(gotQuery, param) {
			t.Errorf("Query %q missing parameter %q", gotQuery, param)
		}
	}
}

func TestFetchNon200IsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	fetcher := &Fetcher{BaseURL: server.URL, Client: server.Client()}
	_, err := fetcher.Fetch(context.Background(), "example.com", "bad-key")
	if err == nil {
		t.Fatal("Expected an error for a non-200 response")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("Error should name the status code, got: %v", err)
	}
}

func TestFetchEmptyDataIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Code": "OK", "DataTables": {"Results": {"Data": []}}}`)
	}))
	defer server.Close()

	fetcher := &Fetcher{BaseURL: server.URL, Client: server.Client()}
	_, err := fetcher.Fetch(context.Background(), "example.com", "key")
	if err == nil {
		t.Fatal("Expected an error for a response without a result record")
	}
}

func TestSentinels(t *testing.T) {
	noKey := NoKeyResult()
	if noKey.TrustFlow != 0 || noKey.ResultCode != "NO-KEY" {
		t.Errorf("NoKeyResult() = %+v", noKey)
	}

	skipped := SkippedResult()
	if skipped.TrustFlow != 0 || skipped.ResultCode != "NO-CHECK-DNS-RESOLVED" {
		t.Errorf("SkippedResult() = %+v", skipped)
	}
}
