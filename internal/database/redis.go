package database

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis connects the optional rate-limit backend. Returns nil when
// no URL is configured; callers fall back to the in-memory limiter.
func NewRedis(redisURL string) *redis.Client {
	if redisURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("invalid redis url: %v", err)
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to ping redis: %v", err)
	}
	return client
}
