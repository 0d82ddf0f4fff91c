package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taskhive/task-tracker/internal/core/domain"
)

const defaultUserTTL = 5 * time.Minute

// UserCache caches session-user lookups in Redis so the session gate does not
// hit the primary store on every protected request.
// Key format: user:<id>
type UserCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewUserCache creates a UserCache wrapping the given Redis client.
func NewUserCache(client *redis.Client, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = defaultUserTTL
	}
	return &UserCache{client: client, ttl: ttl}
}

// cachedUser holds the identity fields the request path needs; the password
// hash is never cached.
type cachedUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Get returns the cached user, or (nil, nil) on a miss.
func (c *UserCache) Get(ctx context.Context, userID string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("user cache get: %w", err)
	}

	var cu cachedUser
	if err := json.Unmarshal(raw, &cu); err != nil {
		return nil, fmt.Errorf("user cache decode: %w", err)
	}
	return &domain.User{ID: cu.ID, Username: cu.Username, Email: cu.Email}, nil
}

// Set stores the user's identity fields for the cache TTL.
func (c *UserCache) Set(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(cachedUser{ID: user.ID, Username: user.Username, Email: user.Email})
	if err != nil {
		return fmt.Errorf("user cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(user.ID), raw, c.ttl).Err()
}

func (c *UserCache) key(userID string) string {
	return "user:" + userID
}
