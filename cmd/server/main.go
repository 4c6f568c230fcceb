package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/config"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/api"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/api/handler"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/database"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/entitlement"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/model"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/model/dto"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/locker"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/logger"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/pubsub"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/queue"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/ws"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/repository"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/service"
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
		logger.WithAttr(slog.String("service", "server")),
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

	// Redis is required for the redis lock backend. Otherwise it only carries
	// usage events, and without it events are stored and pushed in-process.
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		if cfg.Entitlement.LockBackend == "redis" {
			log.Error("failed to connect redis", logger.Error(err))
			os.Exit(1)
		}
		log.Warn("redis unavailable, usage events stay in-process", logger.Error(err))
		rdb = nil
	} else {
		log.Info("redis connected")
	}

	var lk locker.Locker = locker.NewMemoryLocker()
	if cfg.Entitlement.LockBackend == "redis" {
		lk = locker.NewRedisLocker(rdb, cfg.Entitlement.LockTTL, log)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub(log)

	accountRepo := repository.NewAccountRepository(db)
	eventRepo := repository.NewUsageEventRepository(db)
	clock := entitlement.SystemClock{}

	var sinks []service.EntitlementOption
	if rdb != nil {
		sinks = append(sinks,
			service.WithUsageSink(queue.NewQueue(rdb, cfg.Queue.UsageQueue)),
			service.WithUsageSink(pubsub.NewPublisher(rdb, cfg.Entitlement.UsageChannel)),
		)
		go subscribeUsage(ctx, pubsub.NewSubscriber(rdb, cfg.Entitlement.UsageChannel), hub, log)
	} else {
		sinks = append(sinks,
			service.WithUsageSink(service.UsageSinkFunc(eventRepo.Create)),
			service.WithUsageSink(service.UsageSinkFunc(func(_ context.Context, e *model.UsageEvent) error {
				return pushUsage(hub, &pubsub.Message{Type: pubsub.TypeUsageRecorded, Event: e})
			})),
		)
	}

	accountService := service.NewAccountService(accountRepo, lk, clock, cfg, log)
	entitlementService := service.NewEntitlementService(accountRepo, lk, clock, cfg, log, sinks...)
	authService := service.NewAuthService(accountService, accountRepo, cfg)

	router := api.NewRouter(
		handler.NewAuthHandler(authService),
		handler.NewAccountHandler(accountService, entitlementService, eventRepo),
		handler.NewToolHandler(entitlementService),
		handler.NewPlanHandler(entitlementService.Catalog()),
		handler.NewAdminHandler(accountService),
		handler.NewWebSocketHandler(hub, cfg.JWT.Secret, cfg.CORS.AllowedOrigins, log),
		accountService,
		entitlementService,
		cfg,
		log,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", logger.Error(err))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info("received shutdown signal")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", logger.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info("server stopped")
}

// subscribeUsage forwards usage events published by any instance to the
// websocket clients connected here. It resubscribes after Redis errors.
func subscribeUsage(ctx context.Context, sub *pubsub.Subscriber, hub *ws.Hub, log *slog.Logger) {
	for {
		err := sub.Subscribe(ctx, func(msg *pubsub.Message) {
			if err := pushUsage(hub, msg); err != nil {
				log.Warn("failed to push usage event", logger.Error(err))
			}
		})
		if ctx.Err() != nil {
			return
		}
		if err != nil && !errors.Is(err, redis.ErrClosed) {
			log.Warn("usage subscription dropped, retrying", logger.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}
}

func pushUsage(hub *ws.Hub, msg *pubsub.Message) error {
	return hub.SendToAccount(msg.Event.AccountID, &ws.Message{
		Type: msg.Type,
		Data: dto.NewUsageEventInfo(msg.Event),
	})
}
