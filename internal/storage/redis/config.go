package redis

import "time"

// Config controls the Redis connection and how long guest data lives
type Config struct {
	// URL is a redis:// or rediss:// connection URL
	URL string

	PoolSize     int
	MinIdleConns int

	// DialTimeout bounds both new connections and the startup ping
	DialTimeout time.Duration

	// GuestPlayerTTL expires guest players after inactivity. Every update
	// refreshes it. Zero keeps guests forever.
	GuestPlayerTTL time.Duration
}

// DefaultConfig returns the settings used by cmd/server
func DefaultConfig() Config {
	return Config{
		URL:            "redis://localhost:6379",
		PoolSize:       10,
		MinIdleConns:   2,
		DialTimeout:    5 * time.Second,
		GuestPlayerTTL: 7 * 24 * time.Hour,
	}
}
