package dns_tools

import (
	"context"
	"errors"
	"testing"
)

func TestResolve(t *testing.T) {
	errNoSuchHost := errors.New("no such host")

	tests := []struct {
		name     string
		addrs    map[string][]string
		expected AddressInfo
	}{
		{
			name:  "bare domain resolves",
			addrs: map[string][]string{"example.com": {"93.184.216.34"}},
			expected: AddressInfo{
				Domain:   "example.com",
				Resolved: true,
				IP:       "93.184.216.34",
			},
		},
		{
			name:  "www variant resolves after bare failure",
			addrs: map[string][]string{"www.example.com": {"93.184.216.34"}},
			expected: AddressInfo{
				Domain:        "example.com",
				UsedWwwPrefix: true,
				Resolved:      true,
				IP:            "93.184.216.34",
			},
		},
		{
			name:  "both attempts fail",
			addrs: map[string][]string{},
			expected: AddressInfo{
				Domain: "example.com",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewResolverWithLookup(func(ctx context.Context, host string) ([]string, error) {
				if addrs, ok := tt.addrs[host]; ok {
					return addrs, nil
				}
				return nil, errNoSuchHost
			})

			info := resolver.Resolve(context.Background(), "example.com")
			if info != tt.expected {
				t.Errorf("Resolve() = %+v, expected %+v", info, tt.expected)
			}
		})
	}
}

func TestResolveFirstAddressWins(t *testing.T) {
	resolver := NewResolverWithLookup(func(ctx context.Context, host string) ([]string, error) {
		return []string{"10.0.0.1", "10.0.0.2"}, nil
	})

	info := resolver.Resolve(context.Background(), "example.com")
	if info.IP != "10.0.0.1" {
		t.Errorf("Expected first resolved address, got %s", info.IP)
	}
}
