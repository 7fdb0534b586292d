// Package redis stores login sessions as Redis hashes.
package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/repository"
)

const sessionPrefix = "auth:session:"

// rotateScript swaps the refresh id only if the stored one still matches and
// refreshes the TTL in the same step.
var rotateScript = goredis.NewScript(`
local current = redis.call("HGET", KEYS[1], "refresh_id")
if not current or current ~= ARGV[1] then
  return 0
end
redis.call("HSET", KEYS[1], "refresh_id", ARGV[2])
redis.call("PEXPIRE", KEYS[1], ARGV[3])
return 1
`)

// Client is the subset of go-redis the session store calls.
type Client interface {
	goredis.Scripter
	HGetAll(ctx context.Context, key string) *goredis.MapStringStringCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
	TxPipelined(ctx context.Context, fn func(goredis.Pipeliner) error) ([]goredis.Cmder, error)
}

type SessionRepository struct {
	rdb Client
}

func NewSessionRepository(rdb Client) *SessionRepository {
	return &SessionRepository{rdb: rdb}
}

func sessionKey(id string) string { return sessionPrefix + id }

func (r *SessionRepository) Save(ctx context.Context, s *entity.Session, ttl time.Duration) error {
	key := sessionKey(s.ID)
	_, err := r.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.HSet(ctx, key, map[string]any{
			"user_id":    s.UserID,
			"role":       string(s.Role),
			"refresh_id": s.RefreshID,
			"created_at": s.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		p.PExpire(ctx, key, ttl)
		return nil
	})
	return err
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*entity.Session, error) {
	vals, err := r.rdb.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if len(vals) == 0 {
		return nil, repository.ErrNotFound
	}
	created, _ := time.Parse(time.RFC3339Nano, vals["created_at"])
	return &entity.Session{
		ID:        id,
		UserID:    vals["user_id"],
		Role:      entity.Role(vals["role"]),
		RefreshID: vals["refresh_id"],
		CreatedAt: created,
	}, nil
}

func (r *SessionRepository) Rotate(ctx context.Context, id, oldRefreshID, newRefreshID string, ttl time.Duration) (bool, error) {
	n, err := rotateScript.Run(ctx, r.rdb, []string{sessionKey(id)}, oldRefreshID, newRefreshID, ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, sessionKey(id)).Err()
}

var _ repository.SessionRepository = (*SessionRepository)(nil)
