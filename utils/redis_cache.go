package utils

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements Cache using Redis. The health flag is maintained by
// a background checker so a dead Redis never blocks lookups.
type RedisCache struct {
	client  *redis.Client
	mu      sync.RWMutex
	healthy bool
}

// NewRedisCache creates a new Redis cache instance and starts its
// background health checker.
func NewRedisCache(client *redis.Client) *RedisCache {
	rc := &RedisCache{client: client}

	rc.checkHealth(true)
	go rc.startHealthChecker()

	return rc
}

// Get retrieves a value from Redis
func (rc *RedisCache) Get(ctx context.Context, key string) (CacheResult, error) {
	if !rc.IsHealthy() {
		return CacheResult{Found: false}, nil
	}

	value, err := rc.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		log.Printf("Serving cached result from Redis for key: %s\n", key)
		return CacheResult{Data: value, Found: true}, nil
	case err == redis.Nil:
		// Cache miss - not an error
		return CacheResult{Found: false}, nil
	default:
		rc.setHealthy(false)
		return CacheResult{Found: false}, err
	}
}

// Set stores a value in Redis
func (rc *RedisCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	if !rc.IsHealthy() {
		return nil // Silently skip if unhealthy
	}

	if err := rc.client.Set(ctx, key, value, expiration).Err(); err != nil {
		rc.setHealthy(false)
		return err
	}
	return nil
}

// IsHealthy returns the health status of the Redis connection
func (rc *RedisCache) IsHealthy() bool {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.healthy
}

func (rc *RedisCache) setHealthy(healthy bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.healthy = healthy
}

// checkHealth performs a single ping against Redis
func (rc *RedisCache) checkHealth(isInitial bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	wasHealthy := rc.IsHealthy()
	_, err := rc.client.Ping(ctx).Result()

	if err != nil {
		rc.setHealthy(false)
		// Log only on the initial check or when the connection is lost, not
		// on every failed background check
		if isInitial {
			log.Printf("⚠ Redis unavailable: %v\n", err)
		} else if wasHealthy {
			log.Printf("⚠ Redis connection lost: %v\n", err)
		}
		return
	}

	rc.setHealthy(true)
	if !isInitial && !wasHealthy {
		log.Println("✓ Redis connection restored")
	}
}

// startHealthChecker runs periodic health checks
func (rc *RedisCache) startHealthChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		rc.checkHealth(false)
	}
}
