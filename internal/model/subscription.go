package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/entitlement"
)

const (
	ActionCreate      = "create"
	ActionSuspend     = "suspend"
	ActionReactivate  = "reactivate"
	ActionChangePlan  = "change_plan"
	ActionSetStatus   = "set_status"
	ActionExtendTrial = "extend_trial"
)

// SubscriptionChange records one mutation of an account's subscription or
// active flag. Rows are append-only.
type SubscriptionChange struct {
	ID         int64              `gorm:"primaryKey" json:"id"`
	AccountID  uuid.UUID          `gorm:"type:char(36);not null;index" json:"account_id"`
	Action     string             `gorm:"size:30;not null" json:"action"`
	FromPlan   entitlement.Plan   `gorm:"size:20" json:"from_plan,omitempty"`
	ToPlan     entitlement.Plan   `gorm:"size:20" json:"to_plan,omitempty"`
	FromStatus entitlement.Status `gorm:"size:20" json:"from_status,omitempty"`
	ToStatus   entitlement.Status `gorm:"size:20" json:"to_status,omitempty"`
	Active     bool               `json:"active"`
	TrialEnd   time.Time          `json:"trial_end"`
	Details    string             `gorm:"size:255" json:"details,omitempty"`
	ActorID    *uuid.UUID         `gorm:"type:char(36)" json:"actor_id,omitempty"`
	CreatedAt  time.Time          `gorm:"index" json:"created_at"`
}

func (SubscriptionChange) TableName() string {
	return "subscription_changes"
}

// NewSubscriptionChange describes the move from before to after.
func NewSubscriptionChange(accountID uuid.UUID, action string, before, after entitlement.Account, actor *uuid.UUID) *SubscriptionChange {
	return &SubscriptionChange{
		AccountID:  accountID,
		Action:     action,
		FromPlan:   before.Subscription.Plan,
		ToPlan:     after.Subscription.Plan,
		FromStatus: before.Subscription.Status,
		ToStatus:   after.Subscription.Status,
		Active:     after.Active,
		TrialEnd:   after.Subscription.TrialEnd,
		ActorID:    actor,
	}
}
