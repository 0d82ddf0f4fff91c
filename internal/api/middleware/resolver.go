package middleware

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/taskhive/task-tracker/internal/api/metrics"
	"github.com/taskhive/task-tracker/internal/core/domain"
	"github.com/taskhive/task-tracker/internal/core/ports"
)

// UserCache abstracts the short-lived user cache (Redis). Get returns
// (nil, nil) on a miss.
type UserCache interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Set(ctx context.Context, user *domain.User) error
}

// CachedResolver resolves session users through a read-through cache backed
// by the user repository. The session middleware runs on every protected
// request, so the cache keeps the hot path off the primary store. Cache
// failures degrade to a repository lookup.
type CachedResolver struct {
	cache UserCache
	users ports.UserRepository
	log   zerolog.Logger
}

func NewCachedResolver(cache UserCache, users ports.UserRepository, log zerolog.Logger) *CachedResolver {
	return &CachedResolver{cache: cache, users: users, log: log}
}

func (r *CachedResolver) Resolve(ctx context.Context, userID string) (*domain.User, error) {
	if r.cache != nil {
		cached, err := r.cache.Get(ctx, userID)
		if err != nil {
			r.log.Warn().Err(err).Str("user_id", userID).Msg("user cache read failed, falling back to store")
		} else if cached != nil {
			metrics.SessionCacheTotal.WithLabelValues("hit").Inc()
			return cached, nil
		} else {
			metrics.SessionCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	user, err := r.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, user); err != nil {
			r.log.Warn().Err(err).Str("user_id", userID).Msg("user cache write failed")
		}
	}
	return user, nil
}
