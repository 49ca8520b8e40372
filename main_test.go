package main

import "testing"

func TestIsDomain(t *testing.T) {
	tests := []struct {
		resource string
		expected bool
	}{
		{"example.com", true},
		{"sub.example.com", true},
		{"123.com", true},
		{"example.co.uk", true},
		{"-example.com", false},
		{"example-.com", false},
		{"example..com", false},
		{"example", false},
		{"example.c", false},
		{"exa_mple.com", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isDomain(tt.resource); got != tt.expected {
			t.Errorf("isDomain(%q) = %v, expected %v", tt.resource, got, tt.expected)
		}
	}
}
