// @title Social Feed
// @version 1.0
// @description Local UI surface of the social feed client.
// @BasePath /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/social-feed/config"
	"github.com/d60-Lab/social-feed/internal/api"
	"github.com/d60-Lab/social-feed/internal/api/handler"
	"github.com/d60-Lab/social-feed/internal/app"
	"github.com/d60-Lab/social-feed/pkg/logger"
	"github.com/d60-Lab/social-feed/pkg/tracing"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func main() {
	cfg := must(config.Load())
	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			SampleRate:       cfg.Sentry.SampleRate,
			AttachStacktrace: true,
		}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		logger.Fatal("tracing init failed", zap.Error(err))
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		logger.Fatal("init failed", zap.Error(err))
	}
	defer func() { _ = a.Close() }()

	gin.SetMode(cfg.Server.Mode)
	h := handler.New(a.Session, a.Posts, a.Profiles, a.Uploader, handler.Options{
		MaxFiles:    cfg.Media.MaxFiles,
		MaxFileSize: cfg.Media.MaxFileSize,
	})
	router, err := api.NewRouter(h, api.RouterOptions{
		ServiceName: cfg.Tracing.ServiceName,
		Swagger:     cfg.Server.Mode != gin.ReleaseMode,
	})
	if err != nil {
		logger.Fatal("router init failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if err := a.Session.SignOut(shutdownCtx); err != nil {
		logger.Warn("sign out", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracing shutdown", zap.Error(err))
	}
}
