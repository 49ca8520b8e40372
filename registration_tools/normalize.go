package registration_tools

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// NoData is the sentinel substituted for every registration field the
// provider did not supply, so consumers never need presence checks.
const NoData = "no-data"

// Registry status markers indicating a domain is lapsing.
const (
	statusPendingDelete    = "pendingdelete"
	statusRedemptionPeriod = "redemptionperiod"
)

// invalidDomainIndicator is the provider error message fragment that marks
// an invalid-domain condition.
const invalidDomainIndicator = "Invalid domain name"

// missingWhoisDataError is the provider code for records with no whois data.
const missingWhoisDataError = "MISSING_WHOIS_DATA"

// dateFormats lists the timestamp layouts the provider is known to emit.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05 MST",
	"2006-01-02",
}

// RegistrationInfo is the normalized registration/whois record. Every field
// is always present: sub-fields the provider did not supply carry the
// NoData sentinel instead of being absent.
type RegistrationInfo struct {
	IsValidDomain      bool   `json:"isValidDomain"`      // IsValidDomain is false when the provider flagged the name as invalid.
	MissingData        bool   `json:"missingData"`        // MissingData is true when the provider had no whois data for the domain.
	Status             string `json:"status"`             // Status is the raw registry status list, or NoData.
	IsPendingDelete    string `json:"isPendingDelete"`    // IsPendingDelete is "true"/"false" from the status list, or NoData.
	IsRedemptionPeriod string `json:"isRedemptionPeriod"` // IsRedemptionPeriod is "true"/"false" from the status list, or NoData.
	CreatedDate        string `json:"createdDate"`        // CreatedDate is the registry creation date, or NoData.
	ExpiresDate        string `json:"expiresDate"`        // ExpiresDate is the registry expiry date, or NoData.
	ExpiredWaitingTime string `json:"expiredWaitingTime"` // ExpiredWaitingTime is a relative rendering of ExpiresDate, or NoData.
	EstimatedDomainAge string `json:"estimatedDomainAge"` // EstimatedDomainAge is the domain age in years with 2 decimals, or NoData.
}

// NewNoDataRecord returns a fresh all-sentinel record, used whenever the
// registration check is skipped or the provider is unavailable.
func NewNoDataRecord() RegistrationInfo {
	return RegistrationInfo{
		IsValidDomain:      true,
		MissingData:        false,
		Status:             NoData,
		IsPendingDelete:    NoData,
		IsRedemptionPeriod: NoData,
		CreatedDate:        NoData,
		ExpiresDate:        NoData,
		ExpiredWaitingTime: NoData,
		EstimatedDomainAge: NoData,
	}
}

// Normalize applies the derivation rules to a successful provider response.
func Normalize(resp providerResponse) RegistrationInfo {
	info := NewNoDataRecord()

	if resp.ErrorMessage != nil && strings.Contains(resp.ErrorMessage.Msg, invalidDomainIndicator) {
		info.IsValidDomain = false
	}

	record := resp.WhoisRecord
	if record == nil {
		return info
	}

	info.MissingData = record.DataError == missingWhoisDataError

	if registry := record.RegistryData; registry != nil {
		if registry.Status != "" {
			info.Status = registry.Status
			status := strings.ToLower(registry.Status)
			info.IsPendingDelete = strconv.FormatBool(strings.Contains(status, statusPendingDelete))
			info.IsRedemptionPeriod = strconv.FormatBool(strings.Contains(status, statusRedemptionPeriod))
		}
		if registry.CreatedDate != "" {
			info.CreatedDate = registry.CreatedDate
		}
		if registry.ExpiresDate != "" {
			info.ExpiresDate = registry.ExpiresDate
			if expires, ok := parseProviderDate(registry.ExpiresDate); ok {
				info.ExpiredWaitingTime = humanize.Time(expires)
			}
		}
	}

	if record.EstimatedDomainAge > 0 {
		info.EstimatedDomainAge = fmt.Sprintf("%.2f", record.EstimatedDomainAge/365)
	}

	return info
}

// parseProviderDate tries the known provider timestamp layouts in order.
func parseProviderDate(value string) (time.Time, bool) {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
