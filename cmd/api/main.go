package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/backoffice-service/internal/api/http"
	"github.com/spec-kit/backoffice-service/internal/api/http/handlers"
	"github.com/spec-kit/backoffice-service/internal/auth"
	"github.com/spec-kit/backoffice-service/internal/cache"
	"github.com/spec-kit/backoffice-service/internal/config"
	"github.com/spec-kit/backoffice-service/internal/events"
	"github.com/spec-kit/backoffice-service/internal/notify"
	"github.com/spec-kit/backoffice-service/internal/observability"
	"github.com/spec-kit/backoffice-service/internal/persistence"
	"github.com/spec-kit/backoffice-service/internal/repository"
	"github.com/spec-kit/backoffice-service/internal/service"
	"github.com/spec-kit/backoffice-service/internal/storage"
	"github.com/spec-kit/backoffice-service/internal/worker"
	"github.com/spec-kit/backoffice-service/migrations"
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

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		src := persistence.MigrationSource(cfg.Postgres.MigrationsDir, migrations.FS)
		if err := persistence.RunMigrations(cfg.Postgres.DSN, src, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var (
		licenseRepo repository.LicenseRepository
		leadRepo    repository.LeadRepository
		adminRepo   repository.AdminRepository
	)
	if pg.Enabled() {
		pool := pg.PoolHandle()
		licenseRepo = repository.NewLicenseRepository(pool)
		leadRepo = repository.NewLeadRepository(pool)
		adminRepo = repository.NewAdminRepository(pool)
	} else {
		licenseRepo = repository.NewMemoryLicenseRepository(repository.SeedLicenses())
		leadRepo = repository.NewMemoryLeadRepository(repository.SeedLeads())
		adminRepo = repository.NewMemoryAdminRepository()
	}

	admin, ok, err := service.BootstrapAdmin(cfg.Auth, time.Now().UTC())
	if err != nil {
		logger.Fatal("failed to prepare bootstrap admin", zap.Error(err))
	}
	if ok {
		if err := adminRepo.Upsert(ctx, &admin); err != nil {
			logger.Fatal("failed to store bootstrap admin", zap.Error(err))
		}
		logger.Info("bootstrap admin ready", zap.String("email", admin.Email))
	} else {
		logger.Warn("AUTH_ADMIN_PASSWORD not set; no bootstrap admin created")
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var (
		selection cache.SelectionStore
		summaries cache.SummaryCache
		redisPing handlers.Pinger
	)
	if err := redis.Ping(ctx); err == nil {
		selection = cache.NewRedisSelectionStore(redis)
		summaries = cache.NewRedisSummaryCache(redis, cfg.Reporting.SummaryCacheTTL())
		redisPing = redis
	} else {
		logger.Warn("redis unavailable; selections kept in memory and summaries uncached", zap.Error(err))
		selection = cache.NewMemorySelectionStore()
		summaries = cache.NoopSummaryCache{}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	var emailSender notify.EmailSender = notify.LogSender{Logger: logger}
	var resumeStore service.ResumeStore
	if cfg.AWS.EmailEnabled {
		sesClient, err := notify.NewSESClient(ctx, cfg.AWS.Region)
		if err != nil {
			logger.Fatal("failed to init SES client", zap.Error(err))
		}
		emailSender = notify.NewSESSender(sesClient, cfg.Notification.EmailFrom, logger)
	}
	if cfg.AWS.ResumeBucket != "" {
		s3Client, err := storage.NewS3Client(ctx, cfg.AWS.Region)
		if err != nil {
			logger.Fatal("failed to init S3 client", zap.Error(err))
		}
		resumeStore = storage.NewResumeStore(s3Client, cfg.AWS.ResumeBucket, logger)
	}

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{AdminRepo: adminRepo, Logger: logger})
	licenseService := service.NewLicenseService(service.LicenseDependencies{
		LicenseRepo:  licenseRepo,
		SummaryCache: summaries,
		Dispatcher:   dispatcher,
		Metrics:      metrics,
		Logger:       logger,
	})
	bulkService := service.NewBulkActionService(service.BulkActionDependencies{
		Selection:  selection,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	leadService := service.NewLeadService(service.LeadDependencies{
		LeadRepo:   leadRepo,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	searchService := service.NewSearchService(licenseRepo, leadRepo, cfg.Reporting.SearchDefaultLimit)
	careersService := service.NewCareersService(cfg.Careers, resumeStore, dispatcher, logger)
	notificationService := service.NewNotificationService(dispatcher, emailSender, logger, cfg.Notification)

	stopWorkers := worker.Start(dispatcher, worker.Set{
		Notifications: notificationService,
		Lifecycle:     worker.NewLicenseLifecycle(licenseRepo, dispatcher, logger),
		Refresher:     worker.NewSummaryRefresher(licenseService, cfg.Reporting.SearchDebounce(), logger),
	})
	defer stopWorkers()

	var pgPing handlers.Pinger
	if pg.Enabled() {
		pgPing = pg
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    int(cfg.Careers.MaxResumeBytes) + 1<<20,
		Immutable:    true,
		ErrorHandler: httptransport.ErrorHandler(logger),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pgPing, redisPing),
		Auth:           handlers.NewAuthHandler(authService),
		Licenses:       handlers.NewLicensesHandler(licenseService, bulkService),
		Leads:          handlers.NewLeadsHandler(leadService),
		Search:         handlers.NewSearchHandler(searchService),
		Careers:        handlers.NewCareersHandler(careersService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), adminRepo),
		Gatherer:       registry,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
