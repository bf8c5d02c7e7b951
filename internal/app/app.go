// Package app assembles the client components from configuration. Both binaries use it.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/social-feed/config"
	"github.com/d60-Lab/social-feed/internal/identity"
	"github.com/d60-Lab/social-feed/internal/media"
	"github.com/d60-Lab/social-feed/internal/model"
	"github.com/d60-Lab/social-feed/internal/repository"
	"github.com/d60-Lab/social-feed/internal/service"
	"github.com/d60-Lab/social-feed/pkg/database"
	"github.com/d60-Lab/social-feed/pkg/logger"
)

type App struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client

	Provider identity.Provider
	Local    *identity.LocalProvider // auth.provider=local 时非空
	Session  *identity.Session
	Posts    *service.PostStore
	Profiles *service.ProfileService
	Uploader *media.Adapter

	profileCache *repository.CachedProfileRepository
	unsubscribe  func()

	mu   sync.Mutex
	user *identity.User
}

// New 打开存储、组装各组件并加载信息流
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, DB: db}

	if err := a.initRedis(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}

	switch cfg.Auth.Provider {
	case "remote":
		a.Provider = identity.NewRemoteProvider(cfg.Auth.Endpoint, cfg.Auth.TokenEndpoint, cfg.Auth.APIKey, cfg.Auth.Timeout)
	default:
		a.Local = identity.NewLocalProvider(repository.NewUserRepository(db), cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, nil)
		a.Provider = a.Local
	}
	a.Session = identity.NewSession(a.Provider, nil)
	a.unsubscribe = a.Session.Subscribe(a.onSessionChange)

	host := media.NewHostedMediaClient(cfg.Media.BaseURL, cfg.Media.CloudName, cfg.Media.UploadPreset, cfg.Media.Timeout)
	a.Uploader = media.NewAdapter(host,
		media.WithMaxFileSize(cfg.Media.MaxFileSize),
		media.WithRateLimit(cfg.Media.UploadRPS, cfg.Media.UploadBurst),
	)

	var blobs repository.BlobRepository
	if cfg.Blob.Backend == "redis" {
		blobs = repository.NewRedisBlobRepository(a.Redis)
	} else {
		blobs = repository.NewSQLBlobRepository(db)
	}
	a.Posts = service.NewPostStore(service.NewBlobPersister(blobs, cfg.Blob.Key),
		service.WithDefaultAuthor(service.Author{Name: cfg.Profile.DefaultName, Avatar: cfg.Profile.DefaultAvatar}))

	var docs repository.ProfileRepository = repository.NewProfileRepository(db)
	if a.Redis != nil {
		a.profileCache = repository.NewCachedProfileRepository(docs, a.Redis, cfg.Profile.CacheTTL)
		docs = a.profileCache
	}
	a.Profiles = service.NewProfileService(a.Session, docs, repository.NewPostDocumentRepository(db), a.Uploader)

	seed, err := loadSeed(cfg.Blob.SeedFile)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	if err := a.Posts.Load(ctx, seed); err != nil {
		// 读不到持久化数据时继续使用初始列表
		logger.Warn("load posts failed", zap.Error(err))
	}
	logger.Info("client ready",
		zap.String("auth", cfg.Auth.Provider),
		zap.String("blob", cfg.Blob.Backend),
		zap.Int("posts", len(a.Posts.Posts())),
		zap.Bool("profile_cache", a.Redis != nil),
	)
	return a, nil
}

// initRedis redis 是 blob 后端时必须可用；否则只用于资料缓存，连不上就不缓存
func (a *App) initRedis(ctx context.Context) error {
	cfg := a.Config
	if cfg.Redis.Addr == "" {
		if cfg.Blob.Backend == "redis" {
			return errors.New("blob.backend=redis requires redis.addr")
		}
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if cfg.Blob.Backend == "redis" {
			return fmt.Errorf("redis ping: %w", err)
		}
		logger.Warn("redis unavailable, profile cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		return nil
	}
	a.Redis = client
	return nil
}

// CurrentUser 最近一次会话通知里的用户，未登录为 nil
func (a *App) CurrentUser() *identity.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.user == nil {
		return nil
	}
	u := *a.user
	return &u
}

// onSessionChange 登录/退出时记录日志，并清理上一个用户的缓存资料
func (a *App) onSessionChange(u *identity.User) {
	a.mu.Lock()
	prev := a.user
	a.user = u
	a.mu.Unlock()

	switch {
	case u != nil && (prev == nil || prev.UID != u.UID):
		logger.Info("signed in", zap.String("uid", u.UID), zap.String("email", u.Email))
		if prev != nil {
			a.teardownUser(prev.UID)
		}
	case u == nil && prev != nil:
		logger.Info("signed out", zap.String("uid", prev.UID))
		a.teardownUser(prev.UID)
	}
}

func (a *App) teardownUser(uid string) {
	if a.profileCache == nil {
		return
	}
	if err := a.profileCache.Invalidate(context.Background(), uid); err != nil {
		logger.Warn("drop cached profile failed", zap.String("uid", uid), zap.Error(err))
	}
}

func loadSeed(path string) ([]model.Post, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var posts []model.Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return posts, nil
}

func (a *App) Close() error {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
