package service

import (
	"errors"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/entitlement"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/repository"
)

var (
	ErrAccountNotFound         = repository.ErrAccountNotFound
	ErrConcurrentUpdate        = repository.ErrConcurrentUpdate
	ErrEmailExists             = repository.ErrDuplicateEmail
	ErrInvalidPlan             = entitlement.ErrInvalidPlan
	ErrInvalidStatusTransition = entitlement.ErrInvalidStatusTransition
	ErrInvalidTrialExtension   = entitlement.ErrInvalidTrialExtension

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountBusy        = errors.New("account is busy, try again")
	ErrUnknownTool        = errors.New("unknown tool")
)
