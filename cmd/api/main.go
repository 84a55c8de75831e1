package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/library-service/internal/api/http"
	"github.com/spec-kit/library-service/internal/api/http/handlers"
	"github.com/spec-kit/library-service/internal/auth"
	"github.com/spec-kit/library-service/internal/config"
	"github.com/spec-kit/library-service/internal/events"
	"github.com/spec-kit/library-service/internal/observability"
	"github.com/spec-kit/library-service/internal/persistence"
	"github.com/spec-kit/library-service/internal/repository"
	"github.com/spec-kit/library-service/internal/service"
	"github.com/spec-kit/library-service/internal/worker"
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

	signingKey, err := auth.BuildSigningKey(cfg.Auth.JWTSecret)
	if err != nil {
		logger.Fatal("invalid jwt secret", zap.Error(err))
	}
	tokens, err := auth.NewTokenManager(signingKey, cfg.Auth.TokenTTL())
	if err != nil {
		logger.Fatal("invalid token settings", zap.Error(err))
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

	files, err := persistence.NewFileStore(cfg.Uploads.Dir, int64(cfg.Uploads.MaxBytes))
	if err != nil {
		logger.Fatal("failed to prepare uploads", zap.Error(err))
	}

	pool := pg.PoolHandle()
	accountRepo := repository.NewAccountRepository(pool)
	bookRepo := repository.NewBookRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	favoriteRepo := repository.NewFavoriteRepository(pool)
	historyRepo := repository.NewHistoryRepository(pool)

	if err := service.Seed(ctx, cfg.Seed, cfg.Auth.BcryptCost, accountRepo, bookRepo, logger); err != nil {
		logger.Fatal("failed to seed data", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(dispatcher, service.NewNotificationService(logger, cfg.Notification), logger)

	authService := service.NewAuthService(tokens, accountRepo, cfg.Auth.BcryptCost, dispatcher, logger)
	bookService := service.NewBookService(service.BookDependencies{
		BookRepo:    bookRepo,
		ReviewRepo:  reviewRepo,
		AccountRepo: accountRepo,
		HistoryRepo: historyRepo,
		Cache:       persistence.NewRedisBookCache(redis, cfg.Redis.BookCacheTTL()),
		Dispatcher:  dispatcher,
	}, logger)
	reviewService := service.NewReviewService(reviewRepo, bookRepo, accountRepo, dispatcher, logger)
	favoriteService := service.NewFavoriteService(favoriteRepo, bookRepo, accountRepo)
	historyService := service.NewHistoryService(historyRepo, accountRepo)
	userService := service.NewUserService(accountRepo, cfg.Auth.BcryptCost, logger)
	statsService := service.NewStatsService(bookRepo, accountRepo, reviewRepo)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.Uploads.MaxBytes + 1<<20,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:           logger,
		Metrics:          metrics,
		Timeout:          cfg.App.RequestTimeout(),
		CORSAllowOrigins: cfg.App.CORSAllowOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Books:          handlers.NewBooksHandler(bookService, files),
		Reviews:        handlers.NewReviewsHandler(reviewService),
		Library:        handlers.NewLibraryHandler(favoriteService, historyService),
		Users:          handlers.NewUsersHandler(userService),
		Admin:          handlers.NewAdminHandler(statsService, metrics),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, accountRepo, logger),
		Policy:         auth.NewPolicy(auth.DefaultPolicyTable()),
		AuthRateLimit:  httptransport.RateLimitByIP(httptransport.PerMinute(cfg.Auth.RateLimitPerMinute), logger),
		UploadsDir:     files.Dir(),
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
