package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/model"
)

type UsageEventRepository struct {
	db *gorm.DB
}

func NewUsageEventRepository(db *gorm.DB) *UsageEventRepository {
	return &UsageEventRepository{db: db}
}

// Create ignores events whose event_id is already stored, so redelivered
// queue messages are harmless.
func (r *UsageEventRepository) Create(ctx context.Context, event *model.UsageEvent) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).
		Create(event).Error
}

func (r *UsageEventRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, page, pageSize int) ([]*model.UsageEvent, int64, error) {
	var events []*model.UsageEvent
	var total int64

	query := r.db.WithContext(ctx).Model(&model.UsageEvent{}).Where("account_id = ?", accountID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("occurred_at DESC, id DESC").Offset(offset).Limit(pageSize).Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (r *UsageEventRepository) CountByTool(ctx context.Context, accountID uuid.UUID, toolID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UsageEvent{}).
		Where("account_id = ? AND tool_id = ?", accountID, toolID).
		Count(&count).Error
	return count, err
}
