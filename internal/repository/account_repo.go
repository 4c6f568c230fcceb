package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/model"
)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrDuplicateEmail   = errors.New("email already registered")
	ErrConcurrentUpdate = errors.New("account was modified concurrently")
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts the account and its opening history entry in one transaction.
func (r *AccountRepository) Create(ctx context.Context, account *model.Account, change *model.SubscriptionChange) error {
	if account.Version == 0 {
		account.Version = 1
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateEmail
			}
			return err
		}
		if change != nil {
			change.AccountID = account.ID
			return tx.Create(change).Error
		}
		return nil
	})
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Account{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// Save writes subscription and usage in a single UPDATE conditioned on the
// version the caller loaded. On success account.Version is bumped; if another
// writer got there first ErrConcurrentUpdate is returned and nothing changes.
func (r *AccountRepository) Save(ctx context.Context, account *model.Account) error {
	return save(r.db.WithContext(ctx), account)
}

// SaveWithChange is Save plus an appended history row, committed together.
func (r *AccountRepository) SaveWithChange(ctx context.Context, account *model.Account, change *model.SubscriptionChange) error {
	version := account.Version
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := save(tx, account); err != nil {
			return err
		}
		change.AccountID = account.ID
		return tx.Create(change).Error
	})
	if err != nil {
		account.Version = version
	}
	return err
}

func save(tx *gorm.DB, account *model.Account) error {
	sub := account.Subscription
	usage := account.Usage

	res := tx.Model(&model.Account{}).
		Where("id = ? AND version = ?", account.ID, account.Version).
		Updates(map[string]interface{}{
			"role":               account.Role,
			"active":             account.Active,
			"version":            account.Version + 1,
			"plan":               sub.Plan,
			"status":             sub.Status,
			"trial_start":        sub.TrialStart,
			"trial_end":          sub.TrialEnd,
			"paid_period_start":  sub.PaidPeriodStart,
			"paid_period_end":    sub.PaidPeriodEnd,
			"total_generations":  usage.TotalGenerations,
			"period_generations": usage.PeriodGenerations,
			"period_anchor":      usage.PeriodAnchor,
			"anchor_day":         usage.AnchorDay,
			"per_tool":           usage.PerTool,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConcurrentUpdate
	}
	account.Version++
	return nil
}

// ListRolloverCandidates pages through accounts whose period started at or
// before anchorBefore, ordered by id and starting after the given id.
func (r *AccountRepository) ListRolloverCandidates(ctx context.Context, anchorBefore time.Time, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("period_anchor <= ? AND id > ?", anchorBefore, after).
		Order("id ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *AccountRepository) History(ctx context.Context, accountID uuid.UUID) ([]*model.SubscriptionChange, error) {
	var changes []*model.SubscriptionChange
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("id ASC").
		Find(&changes).Error
	return changes, err
}
