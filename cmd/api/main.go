package main

import (
	"context"
	"os"

	"github.com/OrtegaGeovanny/tiendex/internal/config"
	"github.com/OrtegaGeovanny/tiendex/internal/handlers"
	"github.com/OrtegaGeovanny/tiendex/internal/queue"
	"github.com/OrtegaGeovanny/tiendex/internal/repository"
	"github.com/OrtegaGeovanny/tiendex/internal/services"
	xhttp "github.com/OrtegaGeovanny/tiendex/pkg/http"
	"github.com/OrtegaGeovanny/tiendex/pkg/logger"
	"github.com/OrtegaGeovanny/tiendex/pkg/pg"
	"github.com/OrtegaGeovanny/tiendex/pkg/prom"
	"github.com/OrtegaGeovanny/tiendex/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cfg, err := config.Load(config.EnvPathFromArgs(os.Args))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err = logger.Configure(cfg.LogEnv, cfg.LogLevel); err != nil {
		logger.Error("failed to configure logger", "error", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.Info("starting api", "app", cfg.AppName, "version", version, "commit", commit, "date", date)

	ctx := context.Background()

	db, err := pg.CreateReadWrite(cfg.PostgresRead(), cfg.PostgresWrite(), cfg.Debug())
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	deps := map[string]services.Pinger{"postgres": db}

	// The ledger keeps working without redis; only the event stream is lost.
	var events services.EventPublisher
	rdb, err := redis.NewRedisAdapter(ctx, cfg.RedisUniversalKeyPrefix, cfg.Redis().Options())
	if err != nil {
		logger.Warn("redis unavailable, ledger events disabled", "error", err)
	} else {
		defer rdb.Close()
		deps["redis"] = rdb
		q, err := queue.NewQueue(ctx, rdb, cfg.Queue())
		if err != nil {
			logger.Warn("failed creating ledger event stream, ledger events disabled", "error", err)
		} else {
			events = q
		}
	}

	customerRepo := repository.NewCustomerRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	productRepo := repository.NewProductRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	storeRepo := repository.NewStoreRepository(db)

	ledgerService := services.NewLedgerService(db, customerRepo, transactionRepo, productRepo, events, cfg.LedgerMaxRetries)
	customerService := services.NewCustomerService(db, customerRepo, ledgerService)
	productService := services.NewProductService(productRepo)
	notificationService := services.NewNotificationService(customerRepo, notificationRepo)
	storeService := services.NewStoreService(storeRepo)
	healthService := services.NewHealthService(deps)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	if err = prom.Create(hostname, cfg.AppEnv, cfg.PromNamespace); err != nil {
		logger.Error("failed to create prometheus metrics", "error", err)
		return
	}
	go prom.ListenAndServe(cfg.MetricsAddr, "/metrics")

	s := xhttp.CreateServer()
	s.Use(xhttp.RecoverMiddleware)
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.TenantMiddleware)
	s.Use(xhttp.TimeoutMiddleware(cfg.HttpRequestTimeout))

	g := s.Group("/api/v1")
	handlers.RegisterHealthRoutes(g, handlers.NewHealthHandler(healthService))
	handlers.RegisterStoreRoutes(g, handlers.NewStoreHandler(storeService))
	handlers.RegisterCustomerRoutes(g, handlers.NewCustomerHandler(customerService, ledgerService))
	handlers.RegisterTransactionRoutes(g, handlers.NewTransactionHandler(ledgerService))
	handlers.RegisterProductRoutes(g, handlers.NewProductHandler(productService))
	handlers.RegisterNotificationRoutes(g, handlers.NewNotificationHandler(notificationService))

	s.CloseOnSignal()
	if err = s.ListenAndServe(cfg.HttpListenAddr); err != nil {
		logger.Error("error in running http-server", "error", err)
	}
	logger.Info("api stopped")
}
