package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/internship-service/internal/api/http"
	"github.com/spec-kit/internship-service/internal/api/http/handlers"
	"github.com/spec-kit/internship-service/internal/auth"
	"github.com/spec-kit/internship-service/internal/config"
	"github.com/spec-kit/internship-service/internal/events"
	"github.com/spec-kit/internship-service/internal/gate"
	"github.com/spec-kit/internship-service/internal/observability"
	"github.com/spec-kit/internship-service/internal/persistence"
	"github.com/spec-kit/internship-service/internal/repository"
	"github.com/spec-kit/internship-service/internal/service"
	"github.com/spec-kit/internship-service/internal/session"
	"github.com/spec-kit/internship-service/internal/worker"
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
	identityRepo := repository.NewIdentityRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	codeRepo := repository.NewActivationCodeRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)
	submissionRepo := repository.NewSubmissionRepository(pool)

	profileBus := session.NewProfileBus(redis.Client, profileRepo, cfg.Session.KeyPrefix, logger)
	dispatcher := events.NewInMemoryDispatcher()

	accountService := service.NewAccountService(*cfg, service.AccountDependencies{
		IdentityRepo: identityRepo,
		ProfileRepo:  profileRepo,
		Publisher:    profileBus,
	})
	paymentService := service.NewPaymentService(cfg.Payment, paymentRepo, dispatcher)
	activationService := service.NewActivationService(codeRepo, profileRepo, profileBus, dispatcher)
	taskService := service.NewTaskService(taskRepo, submissionRepo, dispatcher)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewMiddleware(accountService.TokenManager(), identityRepo, profileRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Accounts:       handlers.NewAccountsHandler(accountService),
		Payments:       handlers.NewPaymentsHandler(paymentService),
		Activation:     handlers.NewActivationHandler(activationService),
		Tasks:          handlers.NewTasksHandler(taskService),
		Admin:          handlers.NewAdminHandler(profileRepo, paymentService, activationService, taskService, cfg.Payment.AdminListPageLimit),
		Session:        handlers.NewSessionHandler(accountService, profileBus, cfg.Session, logger),
		AuthMiddleware: authMiddleware,
		GateTargets:    gate.TargetsFromConfig(cfg.Gate),
		Metrics:        metrics,
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
