package registration_tools

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dustin/go-humanize"
)

func decodeResponse(t *testing.T, body string) providerResponse {
	t.Helper()
	var resp providerResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("failed to decode test body: %v", err)
	}
	return resp
}

func TestNewNoDataRecord(t *testing.T) {
	record := NewNoDataRecord()

	if !record.IsValidDomain {
		t.Error("Sentinel record should not flag the domain as invalid")
	}
	if record.MissingData {
		t.Error("Sentinel record should not flag missing data")
	}
	for name, value := range map[string]string{
		"Status":             record.Status,
		"IsPendingDelete":    record.IsPendingDelete,
		"IsRedemptionPeriod": record.IsRedemptionPeriod,
		"CreatedDate":        record.CreatedDate,
		"ExpiresDate":        record.ExpiresDate,
		"ExpiredWaitingTime": record.ExpiredWaitingTime,
		"EstimatedDomainAge": record.EstimatedDomainAge,
	} {
		if value != NoData {
			t.Errorf("%s = %q, expected %q", name, value, NoData)
		}
	}
}

func TestNormalizeFullRecord(t *testing.T) {
	resp := decodeResponse(t, `{
		"WhoisRecord": {
			"estimatedDomainAge": 730,
			"registryData": {
				"status": "pendingDelete redemptionPeriod",
				"createdDate": "2016-01-01T00:00:00Z",
				"expiresDate": "2024-01-01T00:00:00Z"
			}
		}
	}`)

	info := Normalize(resp)

	if !info.IsValidDomain {
		t.Error("Expected a valid domain")
	}
	if info.MissingData {
		t.Error("Expected MissingData=false")
	}
	if info.Status != "pendingDelete redemptionPeriod" {
		t.Errorf("Status = %q", info.Status)
	}
	if info.IsPendingDelete != "true" {
		t.Errorf("IsPendingDelete = %q, expected true", info.IsPendingDelete)
	}
	if info.IsRedemptionPeriod != "true" {
		t.Errorf("IsRedemptionPeriod = %q, expected true", info.IsRedemptionPeriod)
	}
	if info.CreatedDate != "2016-01-01T00:00:00Z" {
		t.Errorf("CreatedDate = %q", info.CreatedDate)
	}
	if info.ExpiresDate != "2024-01-01T00:00:00Z" {
		t.Errorf("ExpiresDate = %q", info.ExpiresDate)
	}
	if info.EstimatedDomainAge != "2.00" {
		t.Errorf("EstimatedDomainAge = %q, expected 2.00", info.EstimatedDomainAge)
	}

	expires, _ := time.Parse(time.RFC3339, "2024-01-01T00:00:00Z")
	if info.ExpiredWaitingTime != humanize.Time(expires) {
		t.Errorf("ExpiredWaitingTime = %q, expected %q", info.ExpiredWaitingTime, humanize.Time(expires))
	}
}

func TestNormalizeStatusMarkers(t *testing.T) {
	tests := []struct {
		name               string
		status             string
		isPendingDelete    string
		isRedemptionPeriod string
	}{
		{"registered", "clientTransferProhibited", "false", "false"},
		{"pending delete only", "pendingDelete", "true", "false"},
		{"redemption only", "redemptionPeriod", "false", "true"},
		{"available", "AVAILABLE", "false", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := decodeResponse(t, `{"WhoisRecord": {"registryData": {"status": "`+tt.status+`"}}}`)
			info := Normalize(resp)

			if info.Status != tt.status {
				t.Errorf("Status = %q, expected %q", info.Status, tt.status)
			}
			if info.IsPendingDelete != tt.isPendingDelete {
				t.Errorf("IsPendingDelete = %q, expected %q", info.IsPendingDelete, tt.isPendingDelete)
			}
			if info.IsRedemptionPeriod != tt.isRedemptionPeriod {
				t.Errorf("IsRedemptionPeriod = %q, expected %q", info.IsRedemptionPeriod, tt.isRedemptionPeriod)
			}
		})
	}
}

func TestNormalizeMissingRegistryData(t *testing.T) {
	resp := decodeResponse(t, `{"WhoisRecord": {"dataError": "MISSING_WHOIS_DATA"}}`)
	info := Normalize(resp)

	if !info.MissingData {
		t.Error("Expected MissingData=true for MISSING_WHOIS_DATA")
	}
	if info.Status != NoData || info.IsPendingDelete != NoData || info.IsRedemptionPeriod != NoData {
		t.Errorf("Status fields should stay %q without registry data: %+v", NoData, info)
	}
	if info.CreatedDate != NoData || info.ExpiresDate != NoData || info.ExpiredWaitingTime != NoData {
		t.Errorf("Date fields should stay %q without registry data: %+v", NoData, info)
	}
}

func TestNormalizeInvalidDomain(t *testing.T) {
	resp := decodeResponse(t, `{"ErrorMessage": {"msg": "Invalid domain name example..com"}}`)
	info := Normalize(resp)

	if info.IsValidDomain {
		t.Error("Expected IsValidDomain=false for an invalid-domain error message")
	}
}

func TestNormalizeUnparseableExpiryDate(t *testing.T) {
	resp := decodeResponse(t, `{"WhoisRecord": {"registryData": {"expiresDate": "sometime soon"}}}`)
	info := Normalize(resp)

	if info.ExpiresDate != "sometime soon" {
		t.Errorf("ExpiresDate should be copied verbatim, got %q", info.ExpiresDate)
	}
	if info.ExpiredWaitingTime != NoData {
		t.Errorf("ExpiredWaitingTime = %q, expected %q for an unparseable date", info.ExpiredWaitingTime, NoData)
	}
}

func TestNormalizeAgeConversion(t *testing.T) {
	tests := []struct {
		days     float64
		expected string
	}{
		{365, "1.00"},
		{730, "2.00"},
		{100, "0.27"},
		{0, NoData},
	}

	for _, tt := range tests {
		resp := providerResponse{}
		if err := json.Unmarshal([]byte(`{"WhoisRecord": {}}`), &resp); err != nil {
			t.Fatal(err)
		}
		resp.WhoisRecord.EstimatedDomainAge = tt.days

		info := Normalize(resp)
		if info.EstimatedDomainAge != tt.expected {
			t.Errorf("EstimatedDomainAge for %v days = %q, expected %q", tt.days, info.EstimatedDomainAge, tt.expected)
		}
	}
}
