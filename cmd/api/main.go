package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk/internal/api/http"
	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/persistence"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/internal/worker"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	agentRepo := repository.NewAgentRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	dispatcher := events.NewRedisStreamDispatcher(
		events.NewInMemoryDispatcher(), redis.Client, cfg.Redis.EventStream, logger)

	directory := service.NewDirectoryService(service.DirectoryDependencies{
		UserRepo:   userRepo,
		ClientRepo: clientRepo,
		AgentRepo:  agentRepo,
	})
	lifecycle := service.NewLifecycleService(service.LifecycleDependencies{
		TicketRepo:  ticketRepo,
		MessageRepo: messageRepo,
		Directory:   directory,
		Events:      dispatcher,
		Logger:      logger,
	})
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:   userRepo,
		ClientRepo: clientRepo,
		ResetRepo:  resetRepo,
		Directory:  directory,
		Tokens:     tokens,
		Config:     cfg.Auth,
		Logger:     logger,
	})
	notifications := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	if _, err := directory.EnsureSentinelAgent(ctx); err != nil {
		logger.Fatal("failed to ensure sentinel agent", zap.Error(err))
	}

	worker.StartNotificationWorker(notifications)

	authMiddleware := auth.NewAuthMiddleware(tokens, userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(pg, redis, cfg.App.Version),
		Auth:           handlers.NewAuthHandler(authService),
		ClientTickets:  handlers.NewClientTicketsHandler(lifecycle),
		AgentTickets:   handlers.NewAgentTicketsHandler(lifecycle),
		AdminTickets:   handlers.NewAdminTicketsHandler(lifecycle, authService),
		AuthMiddleware: authMiddleware,
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
