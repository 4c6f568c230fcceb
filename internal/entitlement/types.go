// Package entitlement decides which marketing tools an account may use at a
// given instant and keeps its monthly usage counters.
//
// Everything here is pure: functions take snapshots and return new values.
// Locking and persistence belong to the caller.
package entitlement

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownRole   = errors.New("unknown role")
	ErrUnknownPlan   = errors.New("unknown plan")
	ErrUnknownStatus = errors.New("unknown status")
)

type Role string

const (
	RoleStandard      Role = "standard"
	RoleAdministrator Role = "administrator"
)

func (r Role) Valid() bool {
	return r == RoleStandard || r == RoleAdministrator
}

func (r Role) String() string { return string(r) }

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

type Plan string

const (
	PlanTrial   Plan = "trial"
	PlanStarter Plan = "starter"
	PlanPro     Plan = "pro"
	PlanAgency  Plan = "agency"
)

func (p Plan) Valid() bool {
	switch p {
	case PlanTrial, PlanStarter, PlanPro, PlanAgency:
		return true
	}
	return false
}

// Paid reports whether the plan is one a customer pays for.
func (p Plan) Paid() bool {
	return p.Valid() && p != PlanTrial
}

func (p Plan) String() string { return string(p) }

func ParsePlan(s string) (Plan, error) {
	p := Plan(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlan, s)
	}
	return p, nil
}

type Status string

const (
	StatusTrialing  Status = "trialing"
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

func (s Status) Valid() bool {
	switch s {
	case StatusTrialing, StatusActive, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return st, nil
}

// Reason explains a tool access decision.
type Reason string

const (
	ReasonOK               Reason = "ok"
	ReasonSuspended        Reason = "suspended"
	ReasonTrialExpired     Reason = "trial-expired"
	ReasonPlanInsufficient Reason = "plan-insufficient"
	ReasonQuotaExceeded    Reason = "quota-exceeded"
)

func (r Reason) String() string { return string(r) }
