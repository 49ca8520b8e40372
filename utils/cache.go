package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// Cache defines the interface for cache operations
type Cache interface {
	Get(ctx context.Context, key string) (CacheResult, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	IsHealthy() bool
}

// CacheResult represents the result of a cache lookup
type CacheResult struct {
	Data  string
	Found bool
}

// GetFromCache attempts to retrieve data from the cache
func GetFromCache(ctx context.Context, cache Cache, key string) (CacheResult, error) {
	result, err := cache.Get(ctx, key)
	if err != nil {
		return CacheResult{Found: false}, err
	}
	return result, nil
}

// SetToCache stores data in the cache with expiration, marshalling
// non-string values to JSON first
func SetToCache(ctx context.Context, cache Cache, key string, data interface{}, expiration time.Duration) error {
	var dataStr string

	switch v := data.(type) {
	case string:
		dataStr = v
	default:
		resultBytes, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal data for caching: %w", err)
		}
		dataStr = string(resultBytes)
	}

	if err := cache.Set(ctx, key, dataStr, expiration); err != nil {
		log.Printf("Failed to cache result for key: %s, error: %v\n", key, err)
		return err
	}

	return nil
}
