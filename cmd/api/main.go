package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/helpline-ops/support-desk/internal/api/http"
	"github.com/helpline-ops/support-desk/internal/api/http/handlers"
	"github.com/helpline-ops/support-desk/internal/auth"
	"github.com/helpline-ops/support-desk/internal/catalog"
	"github.com/helpline-ops/support-desk/internal/config"
	"github.com/helpline-ops/support-desk/internal/events"
	"github.com/helpline-ops/support-desk/internal/observability"
	"github.com/helpline-ops/support-desk/internal/persistence"
	"github.com/helpline-ops/support-desk/internal/repository"
	"github.com/helpline-ops/support-desk/internal/repository/memory"
	"github.com/helpline-ops/support-desk/internal/service"
	"github.com/helpline-ops/support-desk/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		pg    *persistence.Postgres
		redis *persistence.Redis
		store repository.Store
	)

	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		pg, err = persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		store = repository.NewPostgresStore(pg.PoolHandle())
	default:
		logger.Warn("using in-memory store; data is lost on restart")
		store = memory.NewStore()
	}

	var locker persistence.Locker = persistence.NewLocalLocker()
	if cfg.Storage.LockDriver == config.LockRedis {
		redis = persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()
		locker = persistence.NewRedisLocker(redis.Client, cfg.Storage.LockTTL())
	}

	if cfg.Catalog.SeedPath != "" {
		seed, err := catalog.LoadFile(cfg.Catalog.SeedPath)
		if err != nil {
			logger.Fatal("failed to load catalog seed", zap.Error(err))
		}
		if _, err := seed.Apply(ctx, store, cfg.Auth.BcryptCost, logger); err != nil {
			logger.Fatal("failed to apply catalog seed", zap.Error(err))
		}
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	relay := worker.NewNotificationRelay(cfg.Notification.WebhookURL, cfg.Notification.WebhookTimeout(), logger)
	relay.Register(dispatcher)
	relay.Start(ctx)

	notificationService := service.NewNotificationService(store, logger)
	auditService := service.NewAuditService(store)
	ticketService := service.NewTicketService(service.TicketDependencies{
		Store:         store,
		Locker:        locker,
		Dispatcher:    dispatcher,
		Notifications: notificationService,
		Audit:         auditService,
		Logger:        logger,
	})
	authService := service.NewAuthService(*cfg, store.Users())
	adminService := service.NewAdminService(*cfg, store, logger)
	feedbackService := service.NewFeedbackService(store)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), store.Users())

	snapshots, err := worker.NewKPISnapshotJob(cfg.Worker.KPISnapshotSchedule, store, metrics, logger)
	if err != nil {
		logger.Fatal("invalid KPI snapshot schedule", zap.Error(err))
	}
	snapshots.Start()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		Dashboard:      handlers.NewDashboardHandler(ticketService, auditService),
		Feedback:       handlers.NewFeedbackHandler(feedbackService),
		Admin:          handlers.NewAdminHandler(adminService),
		Metrics:        metrics,
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	snapshots.Stop()
	cancel()
	relay.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
