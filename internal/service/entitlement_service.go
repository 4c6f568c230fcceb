package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/config"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/entitlement"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/model"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/model/dto"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/locker"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/logger"
)

// UsageSink receives an event after each recorded generation.
type UsageSink interface {
	Publish(ctx context.Context, event *model.UsageEvent) error
}

type UsageSinkFunc func(ctx context.Context, event *model.UsageEvent) error

func (f UsageSinkFunc) Publish(ctx context.Context, event *model.UsageEvent) error {
	return f(ctx, event)
}

type EntitlementService struct {
	accounts AccountStore
	locker   locker.Locker
	clock    entitlement.Clock
	catalog  *entitlement.Catalog
	cfg      config.EntitlementConfig
	sinks    []UsageSink
	log      *slog.Logger
}

type EntitlementOption func(*EntitlementService)

func WithUsageSink(sink UsageSink) EntitlementOption {
	return func(s *EntitlementService) {
		s.sinks = append(s.sinks, sink)
	}
}

func WithCatalog(c *entitlement.Catalog) EntitlementOption {
	return func(s *EntitlementService) {
		s.catalog = c
	}
}

func NewEntitlementService(accounts AccountStore, lk locker.Locker, clock entitlement.Clock, cfg *config.Config, log *slog.Logger, opts ...EntitlementOption) *EntitlementService {
	s := &EntitlementService{
		accounts: accounts,
		locker:   lk,
		clock:    clock,
		catalog:  entitlement.Default(),
		cfg:      cfg.Entitlement,
		log:      log.With(logger.Component("entitlement_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *EntitlementService) Catalog() *entitlement.Catalog {
	return s.catalog
}

// CanUseTool answers from a snapshot without taking the account lock. The
// answer may be stale by the time the caller acts on it; RecordToolUsage
// re-checks under the lock.
func (s *EntitlementService) CanUseTool(ctx context.Context, accountID uuid.UUID, toolID string) (entitlement.Decision, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return entitlement.Decision{}, err
	}
	return s.catalog.Decide(account.Snapshot(), toolID, s.clock.Now()), nil
}

// RecordToolUsage counts one generation if the account may use toolID right
// now. Evaluation and the write happen under the account lock against one
// loaded version; a version conflict reruns both. A denial is reported in the
// Decision with a nil error and nothing is written.
func (s *EntitlementService) RecordToolUsage(ctx context.Context, accountID uuid.UUID, toolID string) (entitlement.Decision, *entitlement.UsageRecord, error) {
	unlock, err := lockAccount(ctx, s.locker, s.cfg.LockWait, accountID)
	if err != nil {
		return entitlement.Decision{}, nil, err
	}
	defer unlock()

	var (
		decision entitlement.Decision
		usage    *entitlement.UsageRecord
		event    *model.UsageEvent
	)
	err = retryOnConflict(ctx, s.cfg.MaxRetries, s.cfg.RetryDelay, func(ctx context.Context) error {
		usage, event = nil, nil

		account, err := s.accounts.GetByID(ctx, accountID)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		snapshot := account.Snapshot()
		decision = s.catalog.Decide(snapshot, toolID, now)
		if !decision.Allowed {
			return nil
		}

		snapshot.Usage = entitlement.RecordUsage(snapshot.Usage, toolID, now)
		account.Apply(snapshot)
		if err := s.accounts.Save(ctx, account); err != nil {
			return err
		}

		recorded := snapshot.Usage
		usage = &recorded
		event = &model.UsageEvent{
			EventID:           uuid.New(),
			AccountID:         accountID,
			ToolID:            toolID,
			Plan:              decision.Evaluation.EffectivePlan,
			PeriodGenerations: recorded.PeriodGenerations,
			TotalGenerations:  recorded.TotalGenerations,
			Remaining:         s.remaining(snapshot, decision.Evaluation.EffectivePlan),
			OccurredAt:        now,
		}
		return nil
	}, func(attempt int) {
		s.log.Warn("usage record conflict, retrying",
			logger.AccountID(accountID.String()), logger.ToolID(toolID), logger.RetryCount(attempt))
	})
	if err != nil {
		if errors.Is(err, ErrConcurrentUpdate) {
			s.log.Error("usage record gave up after retries",
				logger.AccountID(accountID.String()), logger.ToolID(toolID), logger.Error(err))
		}
		return entitlement.Decision{}, nil, err
	}

	if !decision.Allowed {
		s.log.Debug("tool use denied",
			logger.AccountID(accountID.String()), logger.ToolID(toolID), logger.Reason(decision.Reason.String()))
		return decision, nil, nil
	}

	s.publish(ctx, event)
	return decision, usage, nil
}

// RolloverDue resets the period counter if a monthly boundary has passed. It
// reports whether anything was written.
func (s *EntitlementService) RolloverDue(ctx context.Context, accountID uuid.UUID) (bool, error) {
	unlock, err := lockAccount(ctx, s.locker, s.cfg.LockWait, accountID)
	if err != nil {
		return false, err
	}
	defer unlock()

	rolled := false
	err = retryOnConflict(ctx, s.cfg.MaxRetries, s.cfg.RetryDelay, func(ctx context.Context) error {
		rolled = false

		account, err := s.accounts.GetByID(ctx, accountID)
		if err != nil {
			return err
		}

		snapshot := account.Snapshot()
		next := entitlement.RolloverIfDue(snapshot.Usage, s.clock.Now())
		if next.PeriodAnchor.Equal(snapshot.Usage.PeriodAnchor) {
			return nil
		}

		snapshot.Usage = next
		account.Apply(snapshot)
		if err := s.accounts.Save(ctx, account); err != nil {
			return err
		}
		rolled = true
		return nil
	}, nil)
	if err != nil {
		return false, err
	}

	if rolled {
		s.log.Info("usage period rolled over", logger.AccountID(accountID.String()))
	}
	return rolled, nil
}

// Entitlements summarizes access and quota for display. Pending rollovers are
// applied to the view only.
func (s *EntitlementService) Entitlements(ctx context.Context, accountID uuid.UUID) (*dto.EntitlementInfo, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	snapshot := account.Snapshot()
	ev := s.catalog.Evaluate(snapshot, now)
	usage := entitlement.RolloverIfDue(snapshot.Usage, now)
	snapshot.Usage = usage

	return &dto.EntitlementInfo{
		AccountID:          accountID.String(),
		Active:             snapshot.Active,
		Plan:               snapshot.Subscription.Plan.String(),
		Status:             snapshot.Subscription.Status.String(),
		EffectivePlan:      ev.EffectivePlan.String(),
		TrialExpired:       ev.TrialExpired,
		TrialEndsAt:        snapshot.Subscription.TrialEnd.UTC().Format(time.RFC3339),
		TrialDaysRemaining: snapshot.Subscription.TrialDaysRemaining(now),
		AvailableTools:     ev.AvailableTools,
		Quota: dto.QuotaInfo{
			MonthlyCap:        s.monthlyCap(snapshot, ev.EffectivePlan),
			PeriodGenerations: usage.PeriodGenerations,
			Remaining:         s.remaining(snapshot, ev.EffectivePlan),
			TotalGenerations:  usage.TotalGenerations,
			PeriodStart:       usage.PeriodAnchor.UTC().Format(time.RFC3339),
			ResetAt:           usage.NextRollover().UTC().Format(time.RFC3339),
		},
	}, nil
}

// Administrators have no cap whatever their plan.
func (s *EntitlementService) monthlyCap(a entitlement.Account, plan entitlement.Plan) *int64 {
	if a.Role == entitlement.RoleAdministrator {
		return nil
	}
	return s.catalog.CapFor(plan)
}

func (s *EntitlementService) remaining(a entitlement.Account, plan entitlement.Plan) *int64 {
	if a.Role == entitlement.RoleAdministrator {
		return nil
	}
	return s.catalog.Remaining(a.Usage, plan)
}

// Remaining is what is left of the period cap after usage, as seen by the
// decision that allowed it. Nil means unlimited.
func (s *EntitlementService) Remaining(d entitlement.Decision, usage entitlement.UsageRecord) *int64 {
	if d.Evaluation.Uncapped {
		return nil
	}
	return s.catalog.Remaining(usage, d.Evaluation.EffectivePlan)
}

func (s *EntitlementService) publish(ctx context.Context, event *model.UsageEvent) {
	for _, sink := range s.sinks {
		if err := sink.Publish(ctx, event); err != nil {
			s.log.Warn("failed to publish usage event",
				logger.AccountID(event.AccountID.String()), logger.ToolID(event.ToolID), logger.Error(err))
		}
	}
}
