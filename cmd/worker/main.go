package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/config"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/database"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/entitlement"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/cron"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/locker"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/logger"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/queue"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/repository"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/service"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/worker"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(
		logger.WithLevelName(cfg.Log.Level),
		logger.WithFormat(cfg.Log.Format),
		logger.WithAttr(slog.String("service", "worker")),
	)
	slog.SetDefault(log)

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Error("failed to connect database", logger.Error(err))
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		log.Error("failed to migrate database", logger.Error(err))
		os.Exit(1)
	}
	log.Info("database connected", slog.String("driver", cfg.Database.Driver))

	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Error("failed to connect redis", logger.Error(err))
		os.Exit(1)
	}
	defer rdb.Close()
	log.Info("redis connected")

	// The sweep takes the same account locks as the API servers.
	var lk locker.Locker = locker.NewMemoryLocker()
	if cfg.Entitlement.LockBackend == "redis" {
		lk = locker.NewRedisLocker(rdb, cfg.Entitlement.LockTTL, log)
	}

	accountRepo := repository.NewAccountRepository(db)
	eventRepo := repository.NewUsageEventRepository(db)
	clock := entitlement.SystemClock{}
	entitlementService := service.NewEntitlementService(accountRepo, lk, clock, cfg, log)

	recorder := worker.NewUsageRecorder(eventRepo, queue.NewQueue(rdb, cfg.Queue.UsageQueue), log)
	rollover := cron.NewService(accountRepo, entitlementService, clock,
		cfg.Cron.RolloverInterval, cfg.Cron.RolloverBatchSize, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("received shutdown signal")
		cancel()
	}()

	workers := cfg.Queue.MaxWorkers
	if workers < 1 {
		workers = 1
	}
	log.Info("worker started", slog.Int("max_workers", workers))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			recorder.Run(ctx, workerID)
		}(i)
	}

	rollover.Start()

	<-ctx.Done()
	rollover.Stop()
	wg.Wait()
	log.Info("worker shutdown complete")
}
