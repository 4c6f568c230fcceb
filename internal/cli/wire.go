package cli

import (
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/config"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/database"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/entitlement"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/cron"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/locker"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/repository"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/service"
)

// App is what the commands operate on.
type App struct {
	Accounts     *service.AccountService
	Entitlements *service.EntitlementService
	Rollover     *cron.Service
	Clock        entitlement.Clock

	closers []func()
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// WireFunc builds an App from loaded configuration.
type WireFunc func(cfg *config.Config, log *slog.Logger) (*App, error)

// Wire connects to the configured database and, when the redis lock backend
// is selected, to Redis so CLI writes serialize with the API servers.
func Wire(cfg *config.Config, log *slog.Logger) (*App, error) {
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	app := &App{Clock: entitlement.SystemClock{}}
	app.closers = append(app.closers, func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := database.Migrate(db); err != nil {
		app.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	var lk locker.Locker = locker.NewMemoryLocker()
	if cfg.Entitlement.LockBackend == "redis" {
		var rdb *redis.Client
		rdb, err = database.NewRedis(&cfg.Redis)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		app.closers = append(app.closers, func() { _ = rdb.Close() })
		lk = locker.NewRedisLocker(rdb, cfg.Entitlement.LockTTL, log)
	}

	accountRepo := repository.NewAccountRepository(db)
	app.Accounts = service.NewAccountService(accountRepo, lk, app.Clock, cfg, log)
	app.Entitlements = service.NewEntitlementService(accountRepo, lk, app.Clock, cfg, log)
	app.Rollover = cron.NewService(accountRepo, app.Entitlements, app.Clock,
		cfg.Cron.RolloverInterval, cfg.Cron.RolloverBatchSize, log)
	return app, nil
}
