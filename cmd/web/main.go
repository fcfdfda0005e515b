package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"clothes.vn/storefront-web/internal/compare"
	"clothes.vn/storefront-web/internal/config"
	handlersPkg "clothes.vn/storefront-web/internal/handlers"
	"clothes.vn/storefront-web/internal/i18n"
	mw "clothes.vn/storefront-web/internal/middleware"
	"clothes.vn/storefront-web/internal/observability"
	"clothes.vn/storefront-web/internal/shop"
	"clothes.vn/storefront-web/locales"
	"clothes.vn/storefront-web/public"
	"clothes.vn/storefront-web/templates"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var configFile string
	flag.StringVar(&configFile, "config", "", "optional YAML configuration file")
	flag.Parse()

	var opts []config.Option
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	baseLogger, err := observability.NewLogger(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()
	logger := baseLogger.Named("web")

	srv, cleanup, err := newServer(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialise server", zap.Error(err))
	}
	defer cleanup()

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("storefront web listening", zap.Bool("dev_mode", cfg.DevMode), zap.Bool("demo_backend", srv.shop.Demo()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newServer wires the collaborators described by cfg. The returned cleanup
// releases external connections.
func newServer(cfg config.Config, logger *zap.Logger) (*server, func(), error) {
	cleanup := func() {}

	if mw.ConfigureSession(cfg.Session.SigningKey, cfg.Session.Secure) {
		logger.Warn("STOREFRONT_SESSION_SIGNING_KEY not set; sessions will not survive a restart")
	}

	bundle, err := i18n.Load(locales.FS, cfg.Locale.Fallback, cfg.Locale.Supported)
	if err != nil {
		return nil, cleanup, fmt.Errorf("load locales: %w", err)
	}

	tmplFS := fs.FS(templates.FS)
	assetFS, err := fs.Sub(public.FS, "assets")
	if err != nil {
		return nil, cleanup, fmt.Errorf("assets: %w", err)
	}
	if cfg.DevMode {
		tmplFS = os.DirFS("templates")
		assetFS = os.DirFS("public/assets")
	}
	v, err := newViews(tmplFS, bundle, cfg.DevMode)
	if err != nil {
		return nil, cleanup, fmt.Errorf("parse templates: %w", err)
	}

	client := shop.NewClient(cfg.Backend.BaseURL,
		shop.WithTimeout(cfg.Backend.Timeout),
		shop.WithLoginPath(cfg.Backend.LoginPath),
	)
	if client.Demo() {
		logger.Warn("STOREFRONT_BACKEND_URL not set; serving the in-memory demo backend")
	}

	var store compare.Store = compare.SessionStore{From: sessionCarrier}
	if cfg.Compare.Store == "redis" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Compare.RedisAddr, DB: cfg.Compare.RedisDB})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return nil, cleanup, fmt.Errorf("redis: %w", err)
		}
		cleanup = func() {
			if err := rdb.Close(); err != nil {
				logger.Warn("redis close error", zap.Error(err))
			}
		}
		store = compare.NewRedisStore(rdb, cfg.Compare.KeyPrefix)
	}

	return &server{
		cfg:       cfg,
		logger:    logger,
		bundle:    bundle,
		views:     v,
		assets:    assetFS,
		shop:      client,
		compare:   compare.NewService(store),
		analytics: handlersPkg.Analytics{GA4MeasurementID: cfg.Analytics.GA4MeasurementID},
	}, cleanup, nil
}
