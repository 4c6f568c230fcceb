package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/model"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/logger"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/repository"
)

// EventSource yields queued usage events. Pop returns nil, nil on timeout.
type EventSource interface {
	Pop(ctx context.Context, timeout time.Duration) (*model.UsageEvent, error)
}

// UsageRecorder persists usage events taken off the queue.
type UsageRecorder struct {
	eventRepo   *repository.UsageEventRepository
	source      EventSource
	popTimeout  time.Duration
	log         *slog.Logger
}

func NewUsageRecorder(eventRepo *repository.UsageEventRepository, source EventSource, log *slog.Logger) *UsageRecorder {
	return &UsageRecorder{
		eventRepo:  eventRepo,
		source:     source,
		popTimeout: 5 * time.Second,
		log:        log.With(logger.Component("usage_recorder")),
	}
}

// Process stores one event. Events already stored are ignored.
func (r *UsageRecorder) Process(ctx context.Context, event *model.UsageEvent) error {
	event.ID = 0
	if err := r.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to store usage event %s: %w", event.EventID, err)
	}
	return nil
}

// Run consumes the queue until ctx is cancelled.
func (r *UsageRecorder) Run(ctx context.Context, workerID int) {
	log := r.log.With(slog.Int("worker_id", workerID))
	log.Info("usage worker started")

	for {
		select {
		case <-ctx.Done():
			log.Info("usage worker shutting down")
			return
		default:
		}

		event, err := r.source.Pop(ctx, r.popTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warn("failed to pop usage event", logger.Error(err))
			continue
		}
		if event == nil {
			continue
		}

		if err := r.Process(ctx, event); err != nil {
			log.Error("usage event failed",
				logger.AccountID(event.AccountID.String()), logger.ToolID(event.ToolID), logger.Error(err))
		}
	}
}
