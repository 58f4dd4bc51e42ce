// Package app assembles storage, services and the HTTP gateway.
package app

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/campus-issues/internal/api/http"
	"github.com/spec-kit/campus-issues/internal/api/http/handlers"
	"github.com/spec-kit/campus-issues/internal/auth"
	"github.com/spec-kit/campus-issues/internal/config"
	"github.com/spec-kit/campus-issues/internal/events"
	"github.com/spec-kit/campus-issues/internal/observability"
	"github.com/spec-kit/campus-issues/internal/persistence"
	"github.com/spec-kit/campus-issues/internal/repository"
	"github.com/spec-kit/campus-issues/internal/service"
)

// App is a fully wired service instance.
type App struct {
	Fiber    *fiber.App
	Store    persistence.KVStore
	Auth     *service.AuthService
	Sessions *service.SessionManager
	Issues   *service.IssueService
	Metrics  *observability.Metrics

	cfg    config.Config
	logger *zap.Logger
}

// New opens the configured store, loads both collections and builds the
// HTTP gateway. The caller owns the returned App and must Close it.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	store, err := persistence.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	a, err := build(ctx, cfg, logger, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return a, nil
}

func build(ctx context.Context, cfg config.Config, logger *zap.Logger, store persistence.KVStore) (*App, error) {
	collections := persistence.NewCollections(store)
	userRepo, err := repository.NewUserRepository(ctx, collections)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	issueRepo, err := repository.NewIssueRepository(ctx, collections)
	if err != nil {
		return nil, fmt.Errorf("load issues: %w", err)
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	service.NewNotificationService(dispatcher, logger.Named("notifications"), cfg.Notification).RegisterHandlers()

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
		Logger:     logger.Named("auth"),
	})
	sessions := service.NewSessionManager(authService, dispatcher, logger.Named("session"))
	issueService := service.NewIssueService(service.IssueDependencies{
		IssueRepo:  issueRepo,
		Dispatcher: dispatcher,
		Recorder:   metrics,
		Logger:     logger.Named("issues"),
	})

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTokenTTLMinutes)

	fiberApp := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
		ErrorHandler:          httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(fiberApp, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(fiberApp, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.Storage.Driver, store),
		Auth:           handlers.NewAuthHandler(authService, sessions, tokens),
		Issues:         handlers.NewIssuesHandler(issueService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, sessions),
		Metrics:        metrics,
	})

	return &App{
		Fiber:    fiberApp,
		Store:    store,
		Auth:     authService,
		Sessions: sessions,
		Issues:   issueService,
		Metrics:  metrics,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// Listen serves HTTP on the configured address until Shutdown.
func (a *App) Listen() error {
	a.logger.Info("http listening", zap.String("addr", a.cfg.App.Addr()), zap.String("storage", a.cfg.Storage.Driver))
	return a.Fiber.Listen(a.cfg.App.Addr())
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Fiber.ShutdownWithContext(ctx)
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}
