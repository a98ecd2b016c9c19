package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/api/http"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/api/http/handlers"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/auth"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/config"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/events"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/observability"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/persistence"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/repository"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/service"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/triage"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
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

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if _, err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var (
		userRepo   repository.UserRepository
		ticketRepo repository.TicketRepository
	)
	if pg.Enabled() {
		pool := pg.PoolHandle()
		userRepo = repository.NewUserRepository(pool)
		ticketRepo = repository.NewTicketRepository(pool)
	} else {
		userRepo = repository.NewMemoryUserRepository()
		ticketRepo = repository.NewMemoryTicketRepository()
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	var (
		relay    worker.Relay
		throttle auth.LoginThrottle
	)
	if redis.Enabled() {
		redisDispatcher := events.NewRedisDispatcher(dispatcher, redis.Client, cfg.Redis.EventsChannel, logger)
		dispatcher = redisDispatcher
		relay = redisDispatcher
		throttle = auth.NewRedisThrottle(redis.Client, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow())
	} else {
		throttle = auth.NewMemoryThrottle(cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow())
	}

	var analyzer triage.Analyzer
	if cfg.Triage.Enabled {
		analyzer = triage.NewKeywordAnalyzer()
	}

	directory := service.NewDirectoryService(service.DirectoryDependencies{
		UserRepo:    userRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
		BcryptCost:  cfg.Auth.BcryptCost,
		EmailDomain: cfg.Institution.EmailDomain,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
		Analyzer:   analyzer,
		Logger:     logger,
	})
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		TicketRepo: ticketRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(service.AuthDependencies{
		Directory: directory,
		Tokens:    tokens,
		Throttle:  throttle,
		Logger:    logger,
	})
	authMiddleware := auth.NewAuthMiddleware(tokens, userRepo)

	notificationService := service.NewNotificationService(dispatcher, logger)
	stopWorker := worker.StartNotificationWorker(ctx, notificationService, relay, logger)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Metrics:        handlers.NewMetricsHandler(metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Me:             handlers.NewMeHandler(directory),
		Tickets:        handlers.NewTicketsHandler(ticketService, assignmentService),
		Admin:          handlers.NewAdminHandler(directory, ticketService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	cancel()
	stopWorker()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
