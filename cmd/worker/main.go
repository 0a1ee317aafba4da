package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OrtegaGeovanny/tiendex/internal/config"
	"github.com/OrtegaGeovanny/tiendex/internal/processor"
	"github.com/OrtegaGeovanny/tiendex/internal/repository"
	"github.com/OrtegaGeovanny/tiendex/internal/scheduler"
	"github.com/OrtegaGeovanny/tiendex/internal/services"
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

const sweepTimeout = 10 * time.Minute

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
	logger.Info("starting worker", "app", cfg.AppName, "version", version, "commit", commit, "date", date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := pg.CreateReadWrite(cfg.PostgresRead(), cfg.PostgresWrite(), cfg.Debug())
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}
	defer db.Close()

	rdb, err := redis.NewRedisAdapter(ctx, cfg.RedisUniversalKeyPrefix, cfg.Redis().Options())
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}
	defer rdb.Close()

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	if err = prom.Create(hostname, cfg.AppEnv, cfg.PromNamespace); err != nil {
		logger.Error("failed to create prometheus metrics", "error", err)
		return
	}
	go prom.ListenAndServe(cfg.MetricsAddr, "/metrics")

	notificationService := services.NewNotificationService(
		repository.NewCustomerRepository(db),
		repository.NewNotificationRepository(db),
	)

	qc := cfg.Queue()
	if qc.ConsumerName == "" {
		qc.ConsumerName = hostname
	}
	service := processor.NewProcessorService(rdb, processor.ServiceConfig{
		Queue:     qc,
		Consumers: cfg.QueueConsumers,
		Workers:   cfg.WorkerCount,
	})
	idempotency := processor.NewIdempotencyService(rdb, processor.DefaultIdempotencyConfig())
	service.RegisterProcessor(processor.NewLedgerEventProcessor(notificationService, idempotency))

	if err = service.Start(ctx); err != nil {
		logger.Error("failed to start processor", "error", err)
		return
	}
	defer service.Stop()

	if cfg.SweepEnabled {
		sched, err := scheduler.New(cfg.SweepSchedule, cfg.Location(), notificationService, sweepTimeout)
		if err != nil {
			logger.Error("failed to create sweep scheduler", "error", err)
			return
		}
		sched.Start()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), processor.ShutdownTimeout)
			defer cancel()
			sched.Stop(sctx)
		}()
	}

	<-ctx.Done()
	logger.Info("worker shutting down")
}
