package compare

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps lists in Redis under "<prefix>compareList:<owner>" without expiry.
type RedisStore struct {
	client redis.Cmdable
	prefix string
}

func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) Key(owner string) string {
	return r.prefix + StorageKey + ":" + owner
}

func (r *RedisStore) Load(ctx context.Context, owner string) ([]byte, error) {
	if owner == "" {
		return nil, ErrNoSession
	}
	b, err := r.client.Get(ctx, r.Key(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return b, err
}

func (r *RedisStore) Save(ctx context.Context, owner string, data []byte) error {
	if owner == "" {
		return ErrNoSession
	}
	return r.client.Set(ctx, r.Key(owner), data, 0).Err()
}
