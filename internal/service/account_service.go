package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/config"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/entitlement"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/model"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/locker"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/logger"
)

// AccountService owns the account lifecycle: creation, suspension, plan and
// billing status changes. Every mutation is stored with a history row.
type AccountService struct {
	accounts AccountStore
	locker   locker.Locker
	clock    entitlement.Clock
	cfg      *config.Config
	log      *slog.Logger
}

func NewAccountService(accounts AccountStore, lk locker.Locker, clock entitlement.Clock, cfg *config.Config, log *slog.Logger) *AccountService {
	return &AccountService{
		accounts: accounts,
		locker:   lk,
		clock:    clock,
		cfg:      cfg,
		log:      log.With(logger.Component("account_service")),
	}
}

// Create opens a trial account. The email is normalized before the
// uniqueness check.
func (s *AccountService) Create(ctx context.Context, email, passwordHash string, role entitlement.Role) (*model.Account, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", entitlement.ErrUnknownRole, role)
	}
	email = strings.ToLower(strings.TrimSpace(email))

	exists, err := s.accounts.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	trial := s.cfg.Subscription.TrialPeriod()
	if trial <= 0 {
		trial = entitlement.DefaultTrialPeriod
	}

	now := s.clock.Now()
	snapshot := entitlement.NewAccount(role, now, trial)

	account := &model.Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	account.Apply(snapshot)

	change := model.NewSubscriptionChange(account.ID, model.ActionCreate, snapshot, snapshot, nil)
	change.CreatedAt = now
	if err := s.accounts.Create(ctx, account, change); err != nil {
		return nil, err
	}

	s.log.Info("account created", logger.AccountID(account.ID.String()), slog.String("role", role.String()))
	return account, nil
}

func (s *AccountService) Get(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

func (s *AccountService) History(ctx context.Context, id uuid.UUID) ([]*model.SubscriptionChange, error) {
	if _, err := s.accounts.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.accounts.History(ctx, id)
}

func (s *AccountService) Suspend(ctx context.Context, id uuid.UUID, actor *uuid.UUID) (*model.Account, error) {
	return s.mutate(ctx, id, model.ActionSuspend, actor, func(a entitlement.Account, _ time.Time) (entitlement.Account, string, error) {
		return a.Suspend(), "", nil
	})
}

func (s *AccountService) Reactivate(ctx context.Context, id uuid.UUID, actor *uuid.UUID) (*model.Account, error) {
	return s.mutate(ctx, id, model.ActionReactivate, actor, func(a entitlement.Account, _ time.Time) (entitlement.Account, string, error) {
		return a.Reactivate(), "", nil
	})
}

// ChangePlan starts a one-month paid period on plan. Usage counters carry over.
func (s *AccountService) ChangePlan(ctx context.Context, id uuid.UUID, plan entitlement.Plan, actor *uuid.UUID) (*model.Account, error) {
	return s.mutate(ctx, id, model.ActionChangePlan, actor, func(a entitlement.Account, now time.Time) (entitlement.Account, string, error) {
		next, err := a.ChangePlan(plan, now)
		return next, "", err
	})
}

func (s *AccountService) SetStatus(ctx context.Context, id uuid.UUID, status entitlement.Status, actor *uuid.UUID) (*model.Account, error) {
	return s.mutate(ctx, id, model.ActionSetStatus, actor, func(a entitlement.Account, _ time.Time) (entitlement.Account, string, error) {
		next, err := a.SetStatus(status)
		return next, "", err
	})
}

func (s *AccountService) ExtendTrial(ctx context.Context, id uuid.UUID, days int, actor *uuid.UUID) (*model.Account, error) {
	return s.mutate(ctx, id, model.ActionExtendTrial, actor, func(a entitlement.Account, _ time.Time) (entitlement.Account, string, error) {
		next, err := a.ExtendTrial(time.Duration(days) * 24 * time.Hour)
		return next, fmt.Sprintf("+%d days", days), err
	})
}

type mutation func(a entitlement.Account, now time.Time) (entitlement.Account, string, error)

// mutate runs fn under the account lock and persists the result together with
// a history row, retrying on version conflicts.
func (s *AccountService) mutate(ctx context.Context, id uuid.UUID, action string, actor *uuid.UUID, fn mutation) (*model.Account, error) {
	unlock, err := lockAccount(ctx, s.locker, s.cfg.Entitlement.LockWait, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var result *model.Account
	err = retryOnConflict(ctx, s.cfg.Entitlement.MaxRetries, s.cfg.Entitlement.RetryDelay, func(ctx context.Context) error {
		account, err := s.accounts.GetByID(ctx, id)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		before := account.Snapshot()
		after, details, err := fn(before, now)
		if err != nil {
			return err
		}

		account.Apply(after)
		change := model.NewSubscriptionChange(id, action, before, after, actor)
		change.Details = details
		change.CreatedAt = now
		if err := s.accounts.SaveWithChange(ctx, account, change); err != nil {
			return err
		}
		result = account
		return nil
	}, func(attempt int) {
		s.log.Warn("account update conflict, retrying",
			logger.AccountID(id.String()), slog.String("action", action), logger.RetryCount(attempt))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("account updated",
		logger.AccountID(id.String()),
		slog.String("action", action),
		slog.String("plan", result.Subscription.Plan.String()),
		slog.String("status", result.Subscription.Status.String()),
		slog.Bool("active", result.Active),
	)
	return result, nil
}
