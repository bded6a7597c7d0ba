package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/kalakriti/backend/internal/cache"
	appcfg "github.com/kalakriti/backend/internal/config"
	"github.com/kalakriti/backend/internal/httpserver"
	"github.com/kalakriti/backend/internal/identity"
	"github.com/kalakriti/backend/internal/models"
	"github.com/kalakriti/backend/internal/notify"
	"github.com/kalakriti/backend/internal/payment"
	"github.com/kalakriti/backend/internal/repo"
	"github.com/kalakriti/backend/internal/search"
	"github.com/kalakriti/backend/internal/service"
	"github.com/kalakriti/backend/internal/storage"
	pkgdb "github.com/kalakriti/backend/pkg/db"
	"github.com/kalakriti/backend/pkg/logging"
	"github.com/kalakriti/backend/pkg/metrics"
	authmw "github.com/kalakriti/backend/pkg/middleware/auth"
	loggingmw "github.com/kalakriti/backend/pkg/middleware/logging"
	"github.com/kalakriti/backend/pkg/tokens"
)

const (
	startupTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

func openDB(ctx context.Context, cfg appcfg.ServiceConfig) (*gorm.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	if err := pkgdb.Migrate(ctx, db, models.All()...); err != nil {
		_ = pkgdb.Close(db)
		return nil, fmt.Errorf("db migrate: %w", err)
	}
	return db, nil
}

func seedAdmin(ctx context.Context, auth *service.AuthService, cfg appcfg.ServiceConfig) error {
	if _, err := auth.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}

func migrate(ctx context.Context) error {
	cfg := appcfg.Load()
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	ctx = logging.IntoContext(ctx, logger)

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer pkgdb.Close(db)

	if err := seedAdmin(ctx, &service.AuthService{Repo: repo.New(db)}, cfg); err != nil {
		return err
	}
	logger.Info("migrate_complete")
	return nil
}

func serve(ctx context.Context) error {
	cfg := appcfg.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)
	ctx = logging.IntoContext(ctx, logger)

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	r := repo.New(db)

	tok := tokens.NewService(cfg.JWTSecret, tokens.DefaultTTL)
	authSvc := &service.AuthService{Repo: r, Tokens: tok, Identity: identity.NewGoogle(cfg.GoogleClientID)}
	if err := seedAdmin(ctx, authSvc, cfg); err != nil {
		return err
	}

	pool := notify.NewPool(cfg.NotifyWorkers, logger)
	notifier := &notify.Notifier{
		Pool: pool,
		Mail: notify.NewMailer(notify.SMTPConfig{
			Host:     cfg.MailHost,
			Port:     cfg.MailPort,
			Username: cfg.MailUsername,
			Password: cfg.MailPassword,
			From:     cfg.MailFrom,
			FromName: cfg.MailFromName,
		}),
		Topic:       cfg.KafkaTopic,
		TaskTimeout: notify.DefaultTaskTimeout,
	}
	var kafka *notify.KafkaPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafka = notify.NewKafkaPublisher(cfg.KafkaBrokers)
		notifier.Events = kafka
	}

	redis := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL)
	if err := redis.Ping(ctx); err != nil {
		logger.Warn("cache_unavailable", "addr", cfg.RedisAddr, "error", err)
	}

	store, err := storage.New(ctx, storage.Config{
		Driver:     cfg.StorageDriver,
		UploadDir:  cfg.UploadDir,
		UploadURL:  cfg.UploadURL,
		S3Bucket:   cfg.S3Bucket,
		S3Region:   cfg.S3Region,
		S3Key:      cfg.S3Key,
		S3Secret:   cfg.S3Secret,
		S3Endpoint: cfg.S3Endpoint,
		S3URL:      cfg.S3URL,
	})
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	catalog := &service.CatalogService{Repo: r, Cache: redis, Store: store}
	if cfg.ESURL != "" {
		idx, err := search.New(cfg.ESURL, cfg.ESUser, cfg.ESPassword, cfg.ESIndex)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		if err := idx.Ping(ctx); err != nil {
			logger.Warn("search_unavailable", "url", cfg.ESURL, "error", err)
		}
		catalog.Index = idx
	}

	gateway := payment.NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.SecureWithConfig(echomw.SecureConfig{
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
	}))
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))
	e.Use(metrics.Middleware())
	e.Use(authmw.Authenticate(tok))

	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	if local, ok := store.(*storage.Local); ok {
		e.Static(cfg.UploadURL, local.Root())
	}

	httpserver.Register(e, &httpserver.Deps{
		Auth:      &httpserver.AuthHTTP{Svc: authSvc},
		Orders:    &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: r, Payments: gateway, Events: notifier}, Users: authSvc},
		Reviews:   &httpserver.ReviewHTTP{Svc: &service.ReviewService{Repo: r}, Users: authSvc},
		Contacts:  &httpserver.ContactHTTP{Svc: &service.ContactService{Repo: r, Store: store, Replies: notifier}, Users: authSvc},
		Dashboard: &httpserver.DashboardHTTP{Svc: &service.DashboardService{Repo: r}},
		Catalog:   &httpserver.CatalogHTTP{Svc: catalog},
		Users:     &httpserver.UserHTTP{Svc: &service.UserService{Repo: r}, Users: authSvc},
		Roles:     authSvc,
		Ready: func(ctx context.Context) error {
			return pkgdb.Ping(ctx, db)
		},
		UploadLimit: cfg.MaxUploadSize,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var serveErr error
	select {
	case <-stop:
	case serveErr = <-errCh:
		logger.Error("listen_failed", "error", serveErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	pool.Shutdown()
	if kafka != nil {
		if err := kafka.Close(); err != nil {
			logger.Error("kafka_close_failed", "error", err)
		}
	}
	if err := redis.Close(); err != nil {
		logger.Error("cache_close_failed", "error", err)
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db_close_failed", "error", err)
	}

	logger.Info("stopped")
	return serveErr
}
