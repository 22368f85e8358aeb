package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisProvider resolves the authenticated user of one session from a
// Redis-backed session store. Sessions are stored as identity JSON under
// <prefix><token>.
type RedisProvider struct {
	client *redis.Client
	prefix string
	token  string
}

// NewRedisProvider creates a provider bound to one session token.
func NewRedisProvider(client *redis.Client, prefix, token string) *RedisProvider {
	return &RedisProvider{
		client: client,
		prefix: prefix,
		token:  token,
	}
}

// Current returns the session's identity, or nil when the session does not
// exist (anonymous).
func (p *RedisProvider) Current(ctx context.Context) (*Identity, error) {
	if p.token == "" {
		return nil, nil
	}

	raw, err := p.client.Get(ctx, p.prefix+p.token).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session lookup: %w", err)
	}

	var id Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return nil, fmt.Errorf("decode session identity: %w", err)
	}
	return &id, nil
}
