package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-taskboard/internal/domain/entity"
	"github.com/oksasatya/go-taskboard/pkg/helpers"
)

// cachedUser mirrors entity.User minus the password hash.
type cachedUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserCache keeps resolved users for the bearer middleware so most requests
// skip the Postgres lookup.
type UserCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewUserCache(rdb redis.Cmdable, ttl time.Duration) *UserCache {
	return &UserCache{rdb: rdb, ttl: ttl}
}

func userKey(id string) string { return "user:profile:" + id }

func (c *UserCache) enabled() bool { return c != nil && c.rdb != nil && c.ttl > 0 }

// Get reports false on a miss; Redis failures are treated as misses.
func (c *UserCache) Get(ctx context.Context, id string) (*entity.User, bool) {
	if !c.enabled() {
		return nil, false
	}
	var cu cachedUser
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, userKey(id), &cu)
	if err != nil || !ok {
		return nil, false
	}
	return &entity.User{
		ID:        cu.ID,
		Email:     cu.Email,
		Name:      cu.Name,
		AvatarURL: cu.AvatarURL,
		CreatedAt: cu.CreatedAt,
		UpdatedAt: cu.UpdatedAt,
	}, true
}

func (c *UserCache) Set(ctx context.Context, u *entity.User) error {
	if !c.enabled() || u == nil {
		return nil
	}
	return helpers.RedisSetJSON(ctx, c.rdb, userKey(u.ID), cachedUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}, c.ttl)
}

func (c *UserCache) Invalidate(ctx context.Context, id string) error {
	if !c.enabled() {
		return nil
	}
	return helpers.RedisDel(ctx, c.rdb, userKey(id))
}
