package middleware

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/config"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/entitlement"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/locker"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/logger"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/repository"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/service"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/testutil"
)

type middlewareEnv struct {
	db           *gorm.DB
	accounts     *service.AccountService
	entitlements *service.EntitlementService
}

func setupMiddlewareEnv(t *testing.T) (*middlewareEnv, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	repo := repository.NewAccountRepository(db)
	lk := locker.NewMemoryLocker()
	cfg := &config.Config{
		Subscription: config.SubscriptionConfig{TrialDays: 7},
		Entitlement: config.EntitlementConfig{
			MaxRetries: 3,
			RetryDelay: time.Millisecond,
			LockWait:   time.Second,
		},
	}
	clock := entitlement.SystemClock{}
	log := logger.Discard()

	env := &middlewareEnv{
		db:           db,
		accounts:     service.NewAccountService(repo, lk, clock, cfg, log),
		entitlements: service.NewEntitlementService(repo, lk, clock, cfg, log),
	}
	return env, func() { testutil.CleanupTestDB(t, db) }
}
