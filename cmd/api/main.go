package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/Ometeor-Zheero-OMZ/Ataria/internal/api/http"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/api/http/handlers"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/auth"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/config"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/domain"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/events"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/observability"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/persistence"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/repository"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/service"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, domain.RealClock{})
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	pool := pg.PoolHandle()
	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:   repository.NewUserRepository(pool),
		Tokens:     tokens,
		Throttle:   auth.NewLoginThrottle(redis.ClientHandle(), cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginLockout()),
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	todoService := service.NewTodoService(repository.NewTodoRepository(pool))

	gate := auth.NewGate(tokens, auth.DefaultExemptPaths, logger, metrics)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.CORS)

	deps := map[string]handlers.Pinger{"postgres": pg}
	if redis.ClientHandle() != nil {
		deps["redis"] = redis
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps),
		Auth:   handlers.NewAuthHandler(authService, logger),
		Todos:  handlers.NewTodosHandler(todoService),
		Gate:   gate,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
