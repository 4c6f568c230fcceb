package dto

import (
	"time"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/model"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func NewAccountInfo(a *model.Account) *AccountInfo {
	perTool := make(map[string]ToolUsageInfo)
	for tool, c := range a.Usage.PerTool.Data() {
		perTool[tool] = ToolUsageInfo{Count: c.Count, LastUsedAt: formatTime(c.LastUsedAt)}
	}

	return &AccountInfo{
		ID:     a.ID.String(),
		Email:  a.Email,
		Role:   a.Role.String(),
		Active: a.Active,
		Subscription: SubscriptionInfo{
			Plan:            a.Subscription.Plan.String(),
			Status:          a.Subscription.Status.String(),
			TrialStart:      formatTime(a.Subscription.TrialStart),
			TrialEnd:        formatTime(a.Subscription.TrialEnd),
			PaidPeriodStart: formatTimePtr(a.Subscription.PaidPeriodStart),
			PaidPeriodEnd:   formatTimePtr(a.Subscription.PaidPeriodEnd),
		},
		Usage: UsageInfo{
			TotalGenerations:  a.Usage.TotalGenerations,
			PeriodGenerations: a.Usage.PeriodGenerations,
			PeriodStart:       formatTime(a.Usage.PeriodAnchor),
			PerTool:           perTool,
		},
		CreatedAt: formatTime(a.CreatedAt),
	}
}

func NewUsageEventInfo(e *model.UsageEvent) UsageEventInfo {
	return UsageEventInfo{
		EventID:           e.EventID.String(),
		ToolID:            e.ToolID,
		Plan:              e.Plan.String(),
		PeriodGenerations: e.PeriodGenerations,
		TotalGenerations:  e.TotalGenerations,
		Remaining:         e.Remaining,
		OccurredAt:        formatTime(e.OccurredAt),
	}
}

func NewSubscriptionChangeInfo(c *model.SubscriptionChange) SubscriptionChangeInfo {
	info := SubscriptionChangeInfo{
		ID:         c.ID,
		Action:     c.Action,
		FromPlan:   c.FromPlan.String(),
		ToPlan:     c.ToPlan.String(),
		FromStatus: c.FromStatus.String(),
		ToStatus:   c.ToStatus.String(),
		Active:     c.Active,
		TrialEnd:   formatTime(c.TrialEnd),
		Details:    c.Details,
		CreatedAt:  formatTime(c.CreatedAt),
	}
	if c.ActorID != nil {
		info.ActorID = c.ActorID.String()
	}
	return info
}
