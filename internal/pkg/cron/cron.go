// Package cron runs the periodic usage-period rollover sweep.
package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/entitlement"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/logger"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/repository"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/service"
)

// No calendar month is shorter than this, so accounts with a younger anchor
// cannot be due.
const minPeriod = 28 * 24 * time.Hour

type Service struct {
	accountRepo  *repository.AccountRepository
	entitlements *service.EntitlementService
	clock        entitlement.Clock
	interval     time.Duration
	batchSize    int
	log          *slog.Logger

	stopOnce sync.Once
	stopChan chan struct{}
}

func NewService(
	accountRepo *repository.AccountRepository,
	entitlements *service.EntitlementService,
	clock entitlement.Clock,
	interval time.Duration,
	batchSize int,
	log *slog.Logger,
) *Service {
	if interval <= 0 {
		interval = time.Hour
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Service{
		accountRepo:  accountRepo,
		entitlements: entitlements,
		clock:        clock,
		interval:     interval,
		batchSize:    batchSize,
		log:          log.With(logger.Component("cron")),
		stopChan:     make(chan struct{}),
	}
}

func (s *Service) Start() {
	go s.runRollover()
	s.log.Info("cron service started", slog.Duration("rollover_interval", s.interval))
}

func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		s.log.Info("cron service stopped")
	})
}

func (s *Service) runRollover() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			ctx, cancel := context.WithCancel(context.Background())
			go func() {
				select {
				case <-s.stopChan:
					cancel()
				case <-ctx.Done():
				}
			}()
			if _, err := s.RunNow(ctx); err != nil {
				s.log.Error("rollover sweep failed", logger.Error(err))
			}
			cancel()
		}
	}
}

// Candidates lists every account old enough to possibly be due.
func (s *Service) Candidates(ctx context.Context) ([]uuid.UUID, error) {
	var all []uuid.UUID
	err := s.eachBatch(ctx, func(ids []uuid.UUID) error {
		all = append(all, ids...)
		return nil
	})
	return all, err
}

// RunNow sweeps all candidates once and returns how many rolled over. A
// failing account is logged and skipped.
func (s *Service) RunNow(ctx context.Context) (int, error) {
	started := time.Now()
	rolled, failed := 0, 0

	err := s.eachBatch(ctx, func(ids []uuid.UUID) error {
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return err
			}
			ok, err := s.entitlements.RolloverDue(ctx, id)
			if err != nil {
				failed++
				s.log.Warn("rollover failed", logger.AccountID(id.String()), logger.Error(err))
				continue
			}
			if ok {
				rolled++
			}
		}
		return nil
	})

	s.log.Info("rollover sweep finished",
		slog.Int("rolled", rolled),
		slog.Int("failed", failed),
		logger.Duration(time.Since(started)))
	return rolled, err
}

func (s *Service) eachBatch(ctx context.Context, fn func(ids []uuid.UUID) error) error {
	cutoff := s.clock.Now().Add(-minPeriod)
	after := uuid.Nil

	for {
		ids, err := s.accountRepo.ListRolloverCandidates(ctx, cutoff, after, s.batchSize)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := fn(ids); err != nil {
			return err
		}
		if len(ids) < s.batchSize {
			return nil
		}
		after = ids[len(ids)-1]
	}
}
