package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/entitlement"
)

// UsageEvent is emitted after every recorded generation. It doubles as the
// pub/sub and queue payload.
type UsageEvent struct {
	ID                int64            `gorm:"primaryKey" json:"-"`
	EventID           uuid.UUID        `gorm:"type:char(36);uniqueIndex;not null" json:"event_id"`
	AccountID         uuid.UUID        `gorm:"type:char(36);not null;index" json:"account_id"`
	ToolID            string           `gorm:"size:50;not null;index" json:"tool_id"`
	Plan              entitlement.Plan `gorm:"size:20" json:"plan"`
	PeriodGenerations int64            `json:"period_generations"`
	TotalGenerations  int64            `json:"total_generations"`
	Remaining         *int64           `json:"remaining,omitempty"`
	OccurredAt        time.Time        `gorm:"not null;index" json:"occurred_at"`
	CreatedAt         time.Time        `json:"-"`
}

func (UsageEvent) TableName() string {
	return "usage_events"
}
