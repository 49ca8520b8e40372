package traffic_tools

import (
	"strconv"
	"strings"
)

// TrafficInfo holds the SEO traffic metrics for one domain. All fields are
// numeric; a skipped or empty report yields the default record instead of
// absent fields.
type TrafficInfo struct {
	Rank            int     `json:"rank"`
	OrganicKeywords int     `json:"organicKeywords"`
	OrganicTraffic  int     `json:"organicTraffic"`
	OrganicCost     float64 `json:"organicCost"`
	AdwordsKeywords int     `json:"adwordsKeywords"`
	AdwordsTraffic  int     `json:"adwordsTraffic"`
	AdwordsCost     float64 `json:"adwordsCost"`
}

// NewDefaultRecord returns the record reported when no traffic data is
// available: rank -1, everything else zero.
func NewDefaultRecord() TrafficInfo {
	return TrafficInfo{Rank: -1}
}

// ParseDomainRank parses the provider's line-oriented domain_rank report.
// The body is CR-LF-delimited text with semicolon-delimited fields: a header
// row followed by one data row whose positional fields 1-7 carry the rank,
// organic and adwords metrics. Parsing is total: any body without a usable
// data row maps to the default record, never to an error.
func ParseDomainRank(body string) TrafficInfo {
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	if len(lines) < 2 {
		return NewDefaultRecord()
	}

	fields := strings.Split(lines[1], ";")
	if len(fields) < 8 {
		return NewDefaultRecord()
	}

	return TrafficInfo{
		Rank:            intField(fields[1], -1),
		OrganicKeywords: intField(fields[2], 0),
		OrganicTraffic:  intField(fields[3], 0),
		OrganicCost:     floatField(fields[4]),
		AdwordsKeywords: intField(fields[5], 0),
		AdwordsTraffic:  intField(fields[6], 0),
		AdwordsCost:     floatField(fields[7]),
	}
}

func intField(value string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func floatField(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return f
}
