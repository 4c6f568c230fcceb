package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/entitlement"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/model"
)

// AccountOption mutates a fixture before it is inserted. Options run in order,
// so WithCreatedAt should come first.
type AccountOption func(*model.Account)

// TestAccount inserts a standard trial account created now.
func TestAccount(t *testing.T, db *gorm.DB, opts ...AccountOption) *model.Account {
	t.Helper()

	now := time.Now().UTC()
	account := &model.Account{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("test_%s@example.com", uuid.NewString()[:8]),
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuvwxyz123456",
		Version:      1,
	}
	account.Apply(entitlement.NewAccount(entitlement.RoleStandard, now, entitlement.DefaultTrialPeriod))

	for _, opt := range opts {
		opt(account)
	}

	if err := db.Create(account).Error; err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	return account
}

func WithEmail(email string) AccountOption {
	return func(a *model.Account) {
		a.Email = email
	}
}

func WithPasswordHash(hash string) AccountOption {
	return func(a *model.Account) {
		a.PasswordHash = hash
	}
}

// WithCreatedAt restarts the trial and usage period at t.
func WithCreatedAt(t time.Time) AccountOption {
	return func(a *model.Account) {
		a.Apply(entitlement.NewAccount(a.Role, t, entitlement.DefaultTrialPeriod))
		a.CreatedAt = t
	}
}

func WithRole(role entitlement.Role) AccountOption {
	return func(a *model.Account) {
		a.Role = role
	}
}

func WithSuspended() AccountOption {
	return func(a *model.Account) {
		a.Active = false
	}
}

// WithPlan puts the account on a paid plan, active since at.
func WithPlan(plan entitlement.Plan, at time.Time) AccountOption {
	return func(a *model.Account) {
		next, err := a.Snapshot().ChangePlan(plan, at)
		if err != nil {
			panic(err)
		}
		a.Apply(next)
	}
}

func WithStatus(status entitlement.Status) AccountOption {
	return func(a *model.Account) {
		a.Subscription.Status = status
	}
}

func WithPeriodGenerations(n int64) AccountOption {
	return func(a *model.Account) {
		a.Usage.PeriodGenerations = n
		if a.Usage.TotalGenerations < n {
			a.Usage.TotalGenerations = n
		}
	}
}

// TestUsageEvent inserts a usage event for accountID.
func TestUsageEvent(t *testing.T, db *gorm.DB, accountID uuid.UUID, toolID string, at time.Time) *model.UsageEvent {
	t.Helper()

	event := &model.UsageEvent{
		EventID:    uuid.New(),
		AccountID:  accountID,
		ToolID:     toolID,
		Plan:       entitlement.PlanTrial,
		OccurredAt: at,
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("Failed to create test usage event: %v", err)
	}
	return event
}
