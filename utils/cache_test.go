package utils

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(100, 1*time.Second)

	// Test Set and Get
	err := cache.Set(ctx, "test-key", "test-value", 5*time.Second)
	if err != nil {
		t.Fatalf("Failed to set cache: %v", err)
	}

	result, err := cache.Get(ctx, "test-key")
	if err != nil {
		t.Fatalf("Failed to get cache: %v", err)
	}

	if !result.Found {
		t.Fatal("Expected cache hit, got miss")
	}

	if result.Data != "test-value" {
		t.Fatalf("Expected 'test-value', got '%s'", result.Data)
	}

	// Test expiration
	err = cache.Set(ctx, "expire-key", "expire-value", 100*time.Millisecond)
	if err != nil {
		t.Fatalf("Failed to set cache: %v", err)
	}

	time.Sleep(200 * time.Millisecond)

	result, err = cache.Get(ctx, "expire-key")
	if err != nil {
		t.Fatalf("Failed to get cache: %v", err)
	}

	if result.Found {
		t.Fatal("Expected cache miss after expiration, got hit")
	}

	// Test health
	if !cache.IsHealthy() {
		t.Fatal("Memory cache should always be healthy")
	}
}

func TestMemoryCacheMaxSize(t *testing.T) {
	ctx := context.Background()
	maxSize := 10
	cache := NewMemoryCache(maxSize, 1*time.Second)

	// Fill cache to max
	for i := 0; i < maxSize; i++ {
		err := cache.Set(ctx, string(rune('a'+i)), "value", 5*time.Second)
		if err != nil {
			t.Fatalf("Failed to set cache: %v", err)
		}
	}

	// One more should be silently ignored, never an error
	err := cache.Set(ctx, "overflow", "value", 5*time.Second)
	if err != nil {
		t.Fatalf("Set should not error even when full: %v", err)
	}
}

func TestFallbackCache(t *testing.T) {
	ctx := context.Background()

	primary := NewMemoryCache(100, 1*time.Second)
	fallback := NewMemoryCache(100, 1*time.Second)

	cache := NewFallbackCache(primary, fallback)

	err := cache.Set(ctx, "test-key", "test-value", 5*time.Second)
	if err != nil {
		t.Fatalf("Failed to set cache: %v", err)
	}

	result, err := cache.Get(ctx, "test-key")
	if err != nil {
		t.Fatalf("Failed to get cache: %v", err)
	}

	if !result.Found {
		t.Fatal("Expected cache hit, got miss")
	}

	if result.Data != "test-value" {
		t.Fatalf("Expected 'test-value', got '%s'", result.Data)
	}

	// A dual write must also land in the fallback
	fromFallback, err := fallback.Get(ctx, "test-key")
	if err != nil {
		t.Fatalf("Failed to get from fallback: %v", err)
	}
	if !fromFallback.Found {
		t.Fatal("Expected dual-written value in fallback cache")
	}

	if !cache.IsHealthy() {
		t.Fatal("FallbackCache should be healthy when either cache is healthy")
	}
}

func TestSetToCacheMarshalsStructs(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(10, 1*time.Second)

	payload := struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}{Name: "test", Value: 123}

	if err := SetToCache(ctx, cache, "struct-key", payload, 5*time.Second); err != nil {
		t.Fatalf("SetToCache failed: %v", err)
	}

	result, err := GetFromCache(ctx, cache, "struct-key")
	if err != nil {
		t.Fatalf("GetFromCache failed: %v", err)
	}
	if !result.Found {
		t.Fatal("Expected cache hit for marshaled struct")
	}
	expected := `{"name":"test","value":123}`
	if result.Data != expected {
		t.Fatalf("Expected %s, got %s", expected, result.Data)
	}
}
