package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/model"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/locker"
)

// AccountStore is the persistence the services need. *repository.AccountRepository
// implements it.
type AccountStore interface {
	Create(ctx context.Context, account *model.Account, change *model.SubscriptionChange) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, account *model.Account) error
	SaveWithChange(ctx context.Context, account *model.Account, change *model.SubscriptionChange) error
	ListRolloverCandidates(ctx context.Context, anchorBefore time.Time, after uuid.UUID, limit int) ([]uuid.UUID, error)
	History(ctx context.Context, accountID uuid.UUID) ([]*model.SubscriptionChange, error)
}

// retryOnConflict reruns fn while it fails with ErrConcurrentUpdate, at most
// maxRetries extra times. onRetry is called before each rerun.
func retryOnConflict(ctx context.Context, maxRetries int, delay time.Duration, fn func(ctx context.Context) error, onRetry func(attempt int)) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if delay <= 0 {
		delay = time.Millisecond
	}
	backoff := retry.WithMaxRetries(uint64(maxRetries), retry.NewConstant(delay))

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if attempt > 0 && onRetry != nil {
			onRetry(attempt)
		}
		attempt++

		err := fn(ctx)
		if errors.Is(err, ErrConcurrentUpdate) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// lockAccount takes the per-account lock, waiting at most wait.
func lockAccount(ctx context.Context, lk locker.Locker, wait time.Duration, id uuid.UUID) (func(), error) {
	if wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wait)
		defer cancel()
	}
	unlock, err := lk.Lock(ctx, "account:"+id.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAccountBusy, err)
	}
	return unlock, nil
}
