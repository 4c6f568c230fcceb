package dto

// AccountInfo is the account as shown to its owner and to administrators.
type AccountInfo struct {
	ID           string           `json:"id"`
	Email        string           `json:"email"`
	Role         string           `json:"role"`
	Active       bool             `json:"active"`
	Subscription SubscriptionInfo `json:"subscription"`
	Usage        UsageInfo        `json:"usage"`
	CreatedAt    string           `json:"created_at"`
}

type SubscriptionInfo struct {
	Plan            string `json:"plan"`
	Status          string `json:"status"`
	TrialStart      string `json:"trial_start"`
	TrialEnd        string `json:"trial_end"`
	PaidPeriodStart string `json:"paid_period_start,omitempty"`
	PaidPeriodEnd   string `json:"paid_period_end,omitempty"`
}

type ToolUsageInfo struct {
	Count      int64  `json:"count"`
	LastUsedAt string `json:"last_used_at"`
}

type UsageInfo struct {
	TotalGenerations  int64                    `json:"total_generations"`
	PeriodGenerations int64                    `json:"period_generations"`
	PeriodStart       string                   `json:"period_start"`
	PerTool           map[string]ToolUsageInfo `json:"per_tool"`
}

type UsageEventInfo struct {
	EventID           string `json:"event_id"`
	ToolID            string `json:"tool_id"`
	Plan              string `json:"plan"`
	PeriodGenerations int64  `json:"period_generations"`
	TotalGenerations  int64  `json:"total_generations"`
	Remaining         *int64 `json:"remaining"`
	OccurredAt        string `json:"occurred_at"`
}

type SubscriptionChangeInfo struct {
	ID         int64  `json:"id"`
	Action     string `json:"action"`
	FromPlan   string `json:"from_plan,omitempty"`
	ToPlan     string `json:"to_plan,omitempty"`
	FromStatus string `json:"from_status,omitempty"`
	ToStatus   string `json:"to_status,omitempty"`
	Active     bool   `json:"active"`
	TrialEnd   string `json:"trial_end"`
	Details    string `json:"details,omitempty"`
	ActorID    string `json:"actor_id,omitempty"`
	CreatedAt  string `json:"created_at"`
}

type ChangePlanRequest struct {
	Plan string `json:"plan" binding:"required"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ExtendTrialRequest struct {
	Days int `json:"days" binding:"required,min=1,max=365"`
}
