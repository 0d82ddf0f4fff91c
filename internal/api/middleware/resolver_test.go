package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/taskhive/task-tracker/internal/core/domain"
)

type fakeCache struct {
	users   map[string]*domain.User
	failGet bool
	sets    int
}

func (c *fakeCache) Get(_ context.Context, userID string) (*domain.User, error) {
	if c.failGet {
		return nil, errors.New("redis down")
	}
	return c.users[userID], nil
}

func (c *fakeCache) Set(_ context.Context, user *domain.User) error {
	c.sets++
	c.users[user.ID] = user
	return nil
}

type fakeUserRepo struct {
	users map[string]*domain.User
	finds int
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	return user, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, _ string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.finds++
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, _, _ string) error {
	return nil
}

func TestCachedResolver_MissThenHit(t *testing.T) {
	cache := &fakeCache{users: make(map[string]*domain.User)}
	repo := &fakeUserRepo{users: map[string]*domain.User{
		"u1": {ID: "u1", Username: "alice"},
	}}
	r := NewCachedResolver(cache, repo, zerolog.Nop())

	user, err := r.Resolve(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if user.Username != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if repo.finds != 1 || cache.sets != 1 {
		t.Fatalf("expected one store lookup and one cache fill, got finds=%d sets=%d", repo.finds, cache.sets)
	}

	// Second resolve is served from cache.
	if _, err := r.Resolve(context.Background(), "u1"); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if repo.finds != 1 {
		t.Fatalf("expected cached hit, store was queried %d times", repo.finds)
	}
}

func TestCachedResolver_CacheFailureFallsBack(t *testing.T) {
	cache := &fakeCache{users: make(map[string]*domain.User), failGet: true}
	repo := &fakeUserRepo{users: map[string]*domain.User{
		"u1": {ID: "u1", Username: "alice"},
	}}
	r := NewCachedResolver(cache, repo, zerolog.Nop())

	user, err := r.Resolve(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if user.ID != "u1" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestCachedResolver_UnknownUser(t *testing.T) {
	cache := &fakeCache{users: make(map[string]*domain.User)}
	repo := &fakeUserRepo{users: make(map[string]*domain.User)}
	r := NewCachedResolver(cache, repo, zerolog.Nop())

	if _, err := r.Resolve(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
