package model

import (
	"maps"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/entitlement"
)

// Account is persisted as a single row so subscription and usage always
// commit together. Version guards concurrent writers.
type Account struct {
	ID           uuid.UUID        `gorm:"type:char(36);primaryKey" json:"id"`
	Email        string           `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string           `gorm:"size:255" json:"-"`
	Role         entitlement.Role `gorm:"size:20;not null" json:"role"`
	Active       bool             `gorm:"not null" json:"active"`
	Version      int64            `gorm:"not null" json:"-"`
	Subscription Subscription     `gorm:"embedded" json:"subscription"`
	Usage        Usage            `gorm:"embedded" json:"usage"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}

type Subscription struct {
	Plan            entitlement.Plan   `gorm:"size:20;not null" json:"plan"`
	Status          entitlement.Status `gorm:"size:20;not null;index" json:"status"`
	TrialStart      time.Time          `gorm:"not null" json:"trial_start"`
	TrialEnd        time.Time          `gorm:"not null" json:"trial_end"`
	PaidPeriodStart *time.Time         `json:"paid_period_start,omitempty"`
	PaidPeriodEnd   *time.Time         `json:"paid_period_end,omitempty"`
}

type ToolCounters = map[string]entitlement.ToolCounter

type Usage struct {
	TotalGenerations  int64                          `gorm:"not null" json:"total_generations"`
	PeriodGenerations int64                          `gorm:"not null" json:"period_generations"`
	PeriodAnchor      time.Time                      `gorm:"not null;index" json:"period_anchor"`
	AnchorDay         int                            `gorm:"not null" json:"anchor_day"`
	PerTool           datatypes.JSONType[ToolCounters] `json:"per_tool"`
}

// Snapshot converts the row into the value the entitlement rules work on.
func (a *Account) Snapshot() entitlement.Account {
	perTool := maps.Clone(a.Usage.PerTool.Data())
	if perTool == nil {
		perTool = ToolCounters{}
	}
	return entitlement.Account{
		Role:   a.Role,
		Active: a.Active,
		Subscription: entitlement.Subscription{
			Plan:            a.Subscription.Plan,
			Status:          a.Subscription.Status,
			TrialStart:      a.Subscription.TrialStart,
			TrialEnd:        a.Subscription.TrialEnd,
			PaidPeriodStart: a.Subscription.PaidPeriodStart,
			PaidPeriodEnd:   a.Subscription.PaidPeriodEnd,
		},
		Usage: entitlement.UsageRecord{
			TotalGenerations:  a.Usage.TotalGenerations,
			PeriodGenerations: a.Usage.PeriodGenerations,
			PeriodAnchor:      a.Usage.PeriodAnchor,
			AnchorDay:         a.Usage.AnchorDay,
			PerTool:           perTool,
		},
	}
}

// Apply copies s back onto the row. Identity, credentials and version are
// left alone.
func (a *Account) Apply(s entitlement.Account) {
	a.Role = s.Role
	a.Active = s.Active
	a.Subscription = Subscription{
		Plan:            s.Subscription.Plan,
		Status:          s.Subscription.Status,
		TrialStart:      s.Subscription.TrialStart,
		TrialEnd:        s.Subscription.TrialEnd,
		PaidPeriodStart: s.Subscription.PaidPeriodStart,
		PaidPeriodEnd:   s.Subscription.PaidPeriodEnd,
	}
	a.Usage = Usage{
		TotalGenerations:  s.Usage.TotalGenerations,
		PeriodGenerations: s.Usage.PeriodGenerations,
		PeriodAnchor:      s.Usage.PeriodAnchor,
		AnchorDay:         s.Usage.AnchorDay,
		PerTool:           datatypes.NewJSONType(maps.Clone(s.Usage.PerTool)),
	}
}

func (a *Account) IsAdmin() bool {
	return a.Role == entitlement.RoleAdministrator
}
