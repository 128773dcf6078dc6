package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter caps tool call rates using a fixed window counter in Redis.
// A busy MCP client can otherwise flood the appliance with ksctl calls.
type Limiter struct {
	client   *redis.Client
	requests int
	window   time.Duration
}

// NewLimiter creates a new Limiter.
func NewLimiter(client *redis.Client, requests int, window time.Duration) *Limiter {
	return &Limiter{
		client:   client,
		requests: requests,
		window:   window,
	}
}

// Allow reports whether another call for the given tool fits in the
// current window.
func (l *Limiter) Allow(ctx context.Context, tool string) (bool, error) {
	key := fmt.Sprintf("ctmcp:ratelimit:%s", tool)

	// Use a Lua script for atomic increment and check
	script := redis.NewScript(`
		local current = redis.call("INCR", KEYS[1])
		if current == 1 then
			redis.call("EXPIRE", KEYS[1], ARGV[1])
		end
		return current
	`)

	current, err := script.Run(ctx, l.client, []string{key}, int(l.window.Seconds())).Int()
	if err != nil {
		return false, err
	}
	return current <= l.requests, nil
}

// Close releases the underlying Redis connection.
func (l *Limiter) Close() error {
	return l.client.Close()
}
