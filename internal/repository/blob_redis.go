package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

type redisBlobRepository struct{ client *redis.Client }

// NewRedisBlobRepository 以 redis 字符串保存 blob，不设置过期时间
func NewRedisBlobRepository(client *redis.Client) BlobRepository {
	return &redisBlobRepository{client: client}
}

func (r *redisBlobRepository) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *redisBlobRepository) Put(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r *redisBlobRepository) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
