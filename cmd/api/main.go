package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go-bookkeeping-ws/internal/config"
	"go-bookkeeping-ws/internal/handler"
	"go-bookkeeping-ws/internal/middleware"
	"go-bookkeeping-ws/internal/observability"
	"go-bookkeeping-ws/internal/repository"
	"go-bookkeeping-ws/internal/service"
	"go-bookkeeping-ws/internal/ws"
	"go-bookkeeping-ws/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// 1. Load Env
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}
	log := cfg.NewLogger()
	slog.SetDefault(log)
	if envErr != nil {
		log.Warn(".env file not found, using process environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Setup Database
	db, err := database.ConnectDB(cfg, log)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Error("auto migrate failed", "error", err)
			os.Exit(1)
		}
	}

	// 3. Observability + WebSocket Hub
	metrics := observability.NewMetrics()
	wsHub := ws.NewHub(log)
	go wsHub.Run(ctx)

	// 4. Dashboard cache: redis bila REDIS_ADDR di-set, selain itu memori proses
	var dashCache service.DashboardCache = service.NewMemoryCache(cfg.Dashboard.CacheTTL, nil)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unavailable, falling back to in-memory dashboard cache", "addr", cfg.Redis.Addr, "error", err)
			_ = rdb.Close()
		} else {
			defer rdb.Close()
			dashCache = service.NewRedisCache(rdb, cfg.Dashboard.CacheTTL, log)
			log.Info("dashboard cache backed by redis", "addr", cfg.Redis.Addr)
		}
	}

	// 5. Dependency Injection (Wiring Layers)
	contactRepo := repository.NewContactRepo(db)
	brandRepo := repository.NewBrandRepo(db)
	itemRepo := repository.NewItemRepo(db)
	expenseTypeRepo := repository.NewExpenseTypeRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	dashRepo := repository.NewDashboardRepo(db)

	txService := service.NewTransactionService(db, txRepo, contactRepo, wsHub, service.TransactionServiceConfig{
		CleanupTimeout: cfg.Transaction.CleanupTimeout,
		Logger:         log,
		Metrics:        metrics,
	})
	dashService := service.NewDashboardService(dashRepo, dashCache, service.DashboardServiceConfig{
		Location: cfg.Location(),
		Logger:   log,
		Metrics:  metrics,
	})
	catalogService := service.NewCatalogService(contactRepo, brandRepo, itemRepo, expenseTypeRepo)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
	})

	// Middleware
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS
	app.Use(logger.New())  // Logging request
	app.Use(middleware.Performance(middleware.PerformanceConfig{
		SlowThreshold: cfg.Performance.SlowThreshold,
		LogAll:        cfg.Performance.LogAll,
		Logger:        log,
		Metrics:       metrics,
	}))

	// 7. Routes
	handler.SetupRoutes(app, handler.Routes{
		Transactions: handler.NewTransactionHandler(txService, log),
		Details:      handler.NewTransactionDetailHandler(service.NewTransactionDetailService(txRepo), log),
		Dashboard:    handler.NewDashboardHandler(dashService, wsHub, log),
		Catalog:      handler.NewCatalogHandler(catalogService, log),
		Hub:          wsHub,
		Metrics:      metrics,
	})

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.App.Port); err != nil {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()
	log.Info("server started", "port", cfg.App.Port, "timezone", cfg.App.Timezone)

	<-ctx.Done()
	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("server exited")
}
