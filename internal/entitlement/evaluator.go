package entitlement

import (
	"slices"
	"time"
)

type Evaluation struct {
	EffectivePlan  Plan     `json:"effective_plan"`
	TrialExpired   bool     `json:"trial_expired"`
	AvailableTools []string `json:"available_tools"`
	// Uncapped is set for administrators, who bypass the monthly cap.
	Uncapped       bool     `json:"uncapped"`
}

func (e Evaluation) Has(toolID string) bool {
	return slices.Contains(e.AvailableTools, toolID)
}

// Evaluate computes what a is entitled to at now. It reads only the snapshot
// and is safe to call without holding the account lock.
//
// Order matters: suspension beats the administrator bypass, which beats
// every subscription rule.
func (c *Catalog) Evaluate(a Account, now time.Time) Evaluation {
	sub := a.Subscription
	ev := Evaluation{
		EffectivePlan:  sub.Plan,
		TrialExpired:   sub.TrialExpired(now),
		AvailableTools: []string{},
	}

	if !a.Active {
		return ev
	}
	if a.Role == RoleAdministrator {
		ev.AvailableTools = c.AllTools()
		ev.Uncapped = true
		return ev
	}

	switch sub.Status {
	case StatusTrialing:
		if !ev.TrialExpired {
			ev.EffectivePlan = PlanTrial
			ev.AvailableTools = c.ToolsFor(PlanTrial)
		} else if sub.Plan.Paid() {
			ev.AvailableTools = c.ToolsFor(sub.Plan)
		}
	case StatusActive:
		ev.AvailableTools = c.ToolsFor(sub.Plan)
	}
	// cancelled and expired keep the nominal plan for display only.
	return ev
}

// Decision is the answer to "may this account use this tool right now".
// Denials are ordinary values, not errors.
type Decision struct {
	Allowed    bool       `json:"allowed"`
	Reason     Reason     `json:"reason"`
	Evaluation Evaluation `json:"evaluation"`
}

// Decide combines Evaluate with the quota check. Quota is measured against
// the usage as it will look after any pending rollover.
func (c *Catalog) Decide(a Account, toolID string, now time.Time) Decision {
	ev := c.Evaluate(a, now)
	d := Decision{Evaluation: ev}

	switch {
	case !a.Active:
		d.Reason = ReasonSuspended
	case a.Role == RoleAdministrator:
		d.Allowed, d.Reason = true, ReasonOK
	case a.Subscription.Status == StatusTrialing && ev.TrialExpired:
		d.Reason = ReasonTrialExpired
	case !ev.Has(toolID):
		d.Reason = ReasonPlanInsufficient
	case !c.CheckQuota(RolloverIfDue(a.Usage, now), ev.EffectivePlan):
		d.Reason = ReasonQuotaExceeded
	default:
		d.Allowed, d.Reason = true, ReasonOK
	}
	return d
}
