package config

import "time"

// CacheConfig is optional; an empty RedisURL disables the address cache.
type CacheConfig struct {
	RedisURL        string
	AddressCacheTTL time.Duration
}

func loadCache() CacheConfig {
	return CacheConfig{
		RedisURL:        getenv("REDIS_URL", ""),
		AddressCacheTTL: durationEnvSeconds("ADDRESS_CACHE_TTL", 0),
	}
}
