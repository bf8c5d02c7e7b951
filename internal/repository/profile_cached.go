package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/social-feed/internal/model"
	"github.com/d60-Lab/social-feed/pkg/logger"
)

// CachedProfileRepository 在文档库前面加一层 redis 读穿缓存，写入时删除缓存
type CachedProfileRepository struct {
	inner ProfileRepository
	cache *redis.Client
	ttl   time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

func NewCachedProfileRepository(inner ProfileRepository, cache *redis.Client, ttl time.Duration) *CachedProfileRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedProfileRepository{inner: inner, cache: cache, ttl: ttl}
}

func profileKey(userID string) string { return fmt.Sprintf("profile:%s", userID) }

func (r *CachedProfileRepository) Get(ctx context.Context, userID string) (*model.ProfileDocument, error) {
	if data, err := r.cache.Get(ctx, profileKey(userID)).Bytes(); err == nil {
		var doc model.ProfileDocument
		if uErr := json.Unmarshal(data, &doc); uErr == nil {
			r.hits.Add(1)
			return &doc, nil
		}
	}
	r.misses.Add(1)

	doc, err := r.inner.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(doc); err == nil {
		if err := r.cache.Set(ctx, profileKey(userID), payload, r.ttl).Err(); err != nil {
			logger.Warn("profile cache set failed", zap.String("user", userID), zap.Error(err))
		}
	}
	return doc, nil
}

func (r *CachedProfileRepository) Upsert(ctx context.Context, doc *model.ProfileDocument) error {
	if err := r.inner.Upsert(ctx, doc); err != nil {
		return err
	}
	if err := r.cache.Del(ctx, profileKey(doc.UserID)).Err(); err != nil {
		logger.Warn("profile cache invalidate failed", zap.String("user", doc.UserID), zap.Error(err))
	}
	return nil
}

// Counters 缓存命中/未命中次数
func (r *CachedProfileRepository) Counters() (hits, misses int64) {
	return r.hits.Load(), r.misses.Load()
}

// Invalidate 删除某个用户的缓存资料
func (r *CachedProfileRepository) Invalidate(ctx context.Context, userID string) error {
	return r.cache.Del(ctx, profileKey(userID)).Err()
}
