package dto

// EntitlementInfo answers "what can I use right now and how much is left".
type EntitlementInfo struct {
	AccountID          string    `json:"account_id"`
	Active             bool      `json:"active"`
	Plan               string    `json:"plan"`
	Status             string    `json:"status"`
	EffectivePlan      string    `json:"effective_plan"`
	TrialExpired       bool      `json:"trial_expired"`
	TrialEndsAt        string    `json:"trial_ends_at"`
	TrialDaysRemaining int       `json:"trial_days_remaining"`
	AvailableTools     []string  `json:"available_tools"`
	Quota              QuotaInfo `json:"quota"`
}

// QuotaInfo describes the current monthly period. MonthlyCap and Remaining
// are null when the plan is unlimited.
type QuotaInfo struct {
	MonthlyCap        *int64 `json:"monthly_cap"`
	PeriodGenerations int64  `json:"period_generations"`
	Remaining         *int64 `json:"remaining"`
	TotalGenerations  int64  `json:"total_generations"`
	PeriodStart       string `json:"period_start"`
	ResetAt           string `json:"reset_at"`
}

type ToolAccessResponse struct {
	ToolID         string   `json:"tool_id"`
	Allowed        bool     `json:"allowed"`
	Reason         string   `json:"reason"`
	EffectivePlan  string   `json:"effective_plan"`
	AvailableTools []string `json:"available_tools"`
}

type ToolUsageResponse struct {
	ToolID            string `json:"tool_id"`
	PeriodGenerations int64  `json:"period_generations"`
	TotalGenerations  int64  `json:"total_generations"`
	Remaining         *int64 `json:"remaining"`
	ResetAt           string `json:"reset_at"`
}

type PlanInfo struct {
	Plan       string   `json:"plan"`
	Tools      []string `json:"tools"`
	MonthlyCap *int64   `json:"monthly_cap"`
}
