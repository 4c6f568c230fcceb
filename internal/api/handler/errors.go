package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/entitlement"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/response"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/service"
)

// respondError maps service errors onto response codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAccountNotFound):
		response.NotFoundError(c, "account not found")
	case errors.Is(err, service.ErrEmailExists):
		response.DuplicateError(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.AuthError(c, err.Error())
	case errors.Is(err, service.ErrInvalidPlan),
		errors.Is(err, service.ErrInvalidStatusTransition),
		errors.Is(err, service.ErrInvalidTrialExtension),
		errors.Is(err, entitlement.ErrUnknownPlan),
		errors.Is(err, entitlement.ErrUnknownStatus),
		errors.Is(err, entitlement.ErrUnknownRole):
		response.ParamError(c, err.Error())
	case errors.Is(err, service.ErrConcurrentUpdate),
		errors.Is(err, service.ErrAccountBusy):
		response.ConflictError(c, "")
	default:
		_ = c.Error(err)
		response.ServerError(c, "")
	}
}
