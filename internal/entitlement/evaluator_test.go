package entitlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var created = time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)

func trialAccount() Account {
	return NewAccount(RoleStandard, created, DefaultTrialPeriod)
}

func TestEvaluate_TrialBoundary(t *testing.T) {
	a := trialAccount()
	end := a.Subscription.TrialEnd

	t.Run("one second before end", func(t *testing.T) {
		ev := Default().Evaluate(a, end.Add(-time.Second))
		assert.False(t, ev.TrialExpired)
		assert.Equal(t, PlanTrial, ev.EffectivePlan)
	})

	t.Run("exactly at end is still inside the trial", func(t *testing.T) {
		ev := Default().Evaluate(a, end)
		assert.False(t, ev.TrialExpired)
		assert.Equal(t, []string{ToolSEOAudit, ToolSocialMedia}, ev.AvailableTools)
	})

	t.Run("one second after end", func(t *testing.T) {
		ev := Default().Evaluate(a, end.Add(time.Second))
		assert.True(t, ev.TrialExpired)
		assert.Empty(t, ev.AvailableTools)
	})
}

func TestEvaluate_ScenarioA_ActiveTrial(t *testing.T) {
	a := trialAccount()

	ev := Default().Evaluate(a, a.Subscription.TrialEnd.Add(-24*time.Hour))

	assert.Equal(t, PlanTrial, ev.EffectivePlan)
	assert.ElementsMatch(t, []string{ToolSEOAudit, ToolSocialMedia}, ev.AvailableTools)
}

func TestEvaluate_ScenarioB_LapsedTrial(t *testing.T) {
	a := trialAccount()

	ev := Default().Evaluate(a, a.Subscription.TrialEnd.Add(24*time.Hour))

	assert.True(t, ev.TrialExpired)
	assert.Equal(t, PlanTrial, ev.EffectivePlan)
	assert.NotNil(t, ev.AvailableTools)
	assert.Empty(t, ev.AvailableTools)
}

func TestEvaluate_ScenarioC_Pro(t *testing.T) {
	a, err := trialAccount().ChangePlan(PlanPro, created.Add(time.Hour))
	assert.NoError(t, err)

	now := created.Add(48 * time.Hour)
	ev := Default().Evaluate(a, now)

	assert.Equal(t, PlanPro, ev.EffectivePlan)
	assert.Len(t, ev.AvailableTools, 13)
	assert.Equal(t, Default().AllTools(), ev.AvailableTools)

	limit := Default().CapFor(PlanPro)
	if assert.NotNil(t, limit) {
		a.Usage.PeriodGenerations = *limit - 1
		assert.True(t, Default().CheckQuota(a.Usage, PlanPro))

		a.Usage = RecordUsage(a.Usage, ToolBlogWriter, now)
		assert.Equal(t, *limit, a.Usage.PeriodGenerations)
		assert.False(t, Default().CheckQuota(a.Usage, PlanPro))
	}
}

func TestEvaluate_ScenarioD_AdministratorBypass(t *testing.T) {
	a := NewAccount(RoleAdministrator, created, DefaultTrialPeriod)
	a.Subscription.Status = StatusExpired

	ev := Default().Evaluate(a, created.AddDate(1, 0, 0))

	assert.Equal(t, Default().AllTools(), ev.AvailableTools)
	assert.True(t, ev.Uncapped)
}

func TestEvaluate_ScenarioE_SuspendedAdministrator(t *testing.T) {
	a := NewAccount(RoleAdministrator, created, DefaultTrialPeriod).Suspend()

	ev := Default().Evaluate(a, created.Add(time.Hour))

	assert.Empty(t, ev.AvailableTools)
	assert.False(t, ev.Uncapped)
}

func TestEvaluate_SuspensionWinsEverywhere(t *testing.T) {
	now := created.Add(time.Hour)
	for _, role := range []Role{RoleStandard, RoleAdministrator} {
		for _, plan := range []Plan{PlanStarter, PlanPro, PlanAgency} {
			for _, status := range []Status{StatusActive, StatusCancelled, StatusExpired} {
				a := NewAccount(role, created, DefaultTrialPeriod)
				a.Subscription.Plan = plan
				a.Subscription.Status = status
				a = a.Suspend()

				ev := Default().Evaluate(a, now)
				assert.Empty(t, ev.AvailableTools, "%s/%s/%s", role, plan, status)
			}
		}
		a := NewAccount(role, created, DefaultTrialPeriod).Suspend()
		assert.Empty(t, Default().Evaluate(a, now).AvailableTools)
	}
}

func TestEvaluate_CancelledAndExpired(t *testing.T) {
	base, err := trialAccount().ChangePlan(PlanStarter, created)
	assert.NoError(t, err)

	for _, status := range []Status{StatusCancelled, StatusExpired} {
		a := base
		a.Subscription.Status = status

		ev := Default().Evaluate(a, created.Add(time.Hour))
		assert.Empty(t, ev.AvailableTools)
		assert.Equal(t, PlanStarter, ev.EffectivePlan)
	}
}

func TestEvaluate_PlansAreNested(t *testing.T) {
	now := created.Add(time.Hour)
	tools := func(p Plan) []string {
		a, err := trialAccount().ChangePlan(p, now)
		assert.NoError(t, err)
		return Default().Evaluate(a, now).AvailableTools
	}

	trial := Default().Evaluate(trialAccount(), now).AvailableTools
	starter := tools(PlanStarter)
	pro := tools(PlanPro)
	agency := tools(PlanAgency)

	assert.Subset(t, starter, trial)
	assert.Subset(t, pro, starter)
	assert.Greater(t, len(pro), len(starter))
	assert.Equal(t, pro, agency)
}

func TestDecide_Reasons(t *testing.T) {
	now := created.Add(time.Hour)

	t.Run("ok", func(t *testing.T) {
		d := Default().Decide(trialAccount(), ToolSEOAudit, now)
		assert.True(t, d.Allowed)
		assert.Equal(t, ReasonOK, d.Reason)
	})

	t.Run("suspended", func(t *testing.T) {
		d := Default().Decide(trialAccount().Suspend(), ToolSEOAudit, now)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonSuspended, d.Reason)
	})

	t.Run("trial expired", func(t *testing.T) {
		a := trialAccount()
		d := Default().Decide(a, ToolSEOAudit, a.Subscription.TrialEnd.Add(time.Second))
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonTrialExpired, d.Reason)
	})

	t.Run("plan insufficient", func(t *testing.T) {
		d := Default().Decide(trialAccount(), ToolVideoScript, now)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonPlanInsufficient, d.Reason)
	})

	t.Run("cancelled subscription", func(t *testing.T) {
		a, _ := trialAccount().ChangePlan(PlanPro, now)
		a, err := a.SetStatus(StatusCancelled)
		assert.NoError(t, err)

		d := Default().Decide(a, ToolSEOAudit, now)
		assert.Equal(t, ReasonPlanInsufficient, d.Reason)
	})

	t.Run("quota exceeded", func(t *testing.T) {
		a := trialAccount()
		a.Usage.PeriodGenerations = *Default().CapFor(PlanTrial)

		d := Default().Decide(a, ToolSEOAudit, now)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonQuotaExceeded, d.Reason)
	})

	t.Run("quota frees up after rollover", func(t *testing.T) {
		a, _ := trialAccount().ChangePlan(PlanStarter, now)
		a.Usage.PeriodGenerations = *Default().CapFor(PlanStarter)

		d := Default().Decide(a, ToolAdCopy, created.AddDate(0, 1, 0))
		assert.True(t, d.Allowed)
	})

	t.Run("administrator ignores quota", func(t *testing.T) {
		a := NewAccount(RoleAdministrator, created, DefaultTrialPeriod)
		a.Usage.PeriodGenerations = 1_000_000

		d := Default().Decide(a, ToolAnalyticsReport, now)
		assert.True(t, d.Allowed)
		assert.Equal(t, ReasonOK, d.Reason)
	})
}

func TestSubscription_TrialDaysRemaining(t *testing.T) {
	a := trialAccount()
	sub := a.Subscription

	assert.Equal(t, 7, sub.TrialDaysRemaining(created))
	assert.Equal(t, 7, sub.TrialDaysRemaining(created.Add(time.Minute)))
	assert.Equal(t, 1, sub.TrialDaysRemaining(sub.TrialEnd.Add(-time.Hour)))
	assert.Equal(t, 0, sub.TrialDaysRemaining(sub.TrialEnd))
	assert.Equal(t, 0, sub.TrialDaysRemaining(sub.TrialEnd.Add(time.Hour)))
}
