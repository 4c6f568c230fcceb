package entitlement

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrInvalidPlan             = errors.New("plan cannot be assigned")
	ErrInvalidStatusTransition = errors.New("invalid subscription status transition")
	ErrInvalidTrialExtension   = errors.New("trial extension must be positive")
)

// DefaultTrialPeriod is the trial length given to new accounts.
const DefaultTrialPeriod = 7 * 24 * time.Hour

type Subscription struct {
	Plan            Plan
	Status          Status
	TrialStart      time.Time
	TrialEnd        time.Time
	PaidPeriodStart *time.Time
	PaidPeriodEnd   *time.Time
}

// TrialExpired uses a strict comparison: the instant equal to TrialEnd is
// still inside the trial.
func (s Subscription) TrialExpired(now time.Time) bool {
	return now.After(s.TrialEnd)
}

// TrialDaysRemaining rounds up to whole days and is 0 once the trial is over.
func (s Subscription) TrialDaysRemaining(now time.Time) int {
	if s.Status != StatusTrialing || !now.Before(s.TrialEnd) {
		return 0
	}
	return int(math.Ceil(s.TrialEnd.Sub(now).Hours() / 24))
}

// Account is the snapshot the evaluator and ledger work on.
type Account struct {
	Role         Role
	Active       bool
	Subscription Subscription
	Usage        UsageRecord
}

// NewAccount starts a trial of the given length at now with zeroed usage.
func NewAccount(role Role, now time.Time, trial time.Duration) Account {
	if trial < 0 {
		trial = 0
	}
	return Account{
		Role:   role,
		Active: true,
		Subscription: Subscription{
			Plan:       PlanTrial,
			Status:     StatusTrialing,
			TrialStart: now,
			TrialEnd:   now.Add(trial),
		},
		Usage: NewUsageRecord(now),
	}
}

func (a Account) Suspend() Account {
	a.Usage = a.Usage.Clone()
	a.Active = false
	return a
}

func (a Account) Reactivate() Account {
	a.Usage = a.Usage.Clone()
	a.Active = true
	return a
}

// ChangePlan moves the account onto a paid plan starting now. Usage counters
// are carried over untouched.
func (a Account) ChangePlan(p Plan, now time.Time) (Account, error) {
	if !p.Paid() {
		return a, fmt.Errorf("%w: %q", ErrInvalidPlan, p)
	}
	start := now
	end := addMonths(now, now.Day(), 1)

	a.Usage = a.Usage.Clone()
	a.Subscription.Plan = p
	a.Subscription.Status = StatusActive
	a.Subscription.PaidPeriodStart = &start
	a.Subscription.PaidPeriodEnd = &end
	return a, nil
}

var statusTransitions = map[Status][]Status{
	StatusTrialing:  {StatusExpired},
	StatusActive:    {StatusCancelled, StatusExpired},
	StatusCancelled: {StatusActive, StatusExpired},
}

// SetStatus applies a status change reported by billing. Entering expired
// drops the paid period.
func (a Account) SetStatus(to Status) (Account, error) {
	if !to.Valid() {
		return a, fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	from := a.Subscription.Status
	allowed := false
	for _, s := range statusTransitions[from] {
		if s == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return a, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, from, to)
	}

	a.Usage = a.Usage.Clone()
	a.Subscription.Status = to
	if to == StatusExpired {
		a.Subscription.PaidPeriodStart = nil
		a.Subscription.PaidPeriodEnd = nil
	}
	return a, nil
}

func (a Account) ExtendTrial(by time.Duration) (Account, error) {
	if by <= 0 {
		return a, ErrInvalidTrialExtension
	}
	a.Usage = a.Usage.Clone()
	a.Subscription.TrialEnd = a.Subscription.TrialEnd.Add(by)
	return a, nil
}
