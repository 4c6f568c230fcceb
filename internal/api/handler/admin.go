package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/api/middleware"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/entitlement"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/model"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/model/dto"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/response"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/service"
)

// AdminHandler serves the operator endpoints. Every route sits behind
// middleware.RequireAdmin.
type AdminHandler struct {
	accounts *service.AccountService
}

func NewAdminHandler(accounts *service.AccountService) *AdminHandler {
	return &AdminHandler{
		accounts: accounts,
	}
}

// GetAccount
// GET /api/v1/admin/accounts/:id
func (h *AdminHandler) GetAccount(c *gin.Context) {
	id, ok := accountParam(c)
	if !ok {
		return
	}

	account, err := h.accounts.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, dto.NewAccountInfo(account))
}

// GetHistory lists subscription changes, oldest first.
// GET /api/v1/admin/accounts/:id/history
func (h *AdminHandler) GetHistory(c *gin.Context) {
	id, ok := accountParam(c)
	if !ok {
		return
	}

	changes, err := h.accounts.History(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.SubscriptionChangeInfo, 0, len(changes))
	for _, ch := range changes {
		items = append(items, dto.NewSubscriptionChangeInfo(ch))
	}
	response.Success(c, items)
}

// Suspend
// POST /api/v1/admin/accounts/:id/suspend
func (h *AdminHandler) Suspend(c *gin.Context) {
	id, ok := accountParam(c)
	if !ok {
		return
	}

	account, err := h.accounts.Suspend(c.Request.Context(), id, actorOf(c))
	h.reply(c, "account suspended", account, err)
}

// Reactivate
// POST /api/v1/admin/accounts/:id/reactivate
func (h *AdminHandler) Reactivate(c *gin.Context) {
	id, ok := accountParam(c)
	if !ok {
		return
	}

	account, err := h.accounts.Reactivate(c.Request.Context(), id, actorOf(c))
	h.reply(c, "account reactivated", account, err)
}

// ChangePlan
// PUT /api/v1/admin/accounts/:id/plan
func (h *AdminHandler) ChangePlan(c *gin.Context) {
	id, ok := accountParam(c)
	if !ok {
		return
	}

	var req dto.ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}
	plan, err := entitlement.ParsePlan(req.Plan)
	if err != nil {
		response.ParamError(c, err.Error())
		return
	}

	account, err := h.accounts.ChangePlan(c.Request.Context(), id, plan, actorOf(c))
	h.reply(c, "plan changed", account, err)
}

// SetStatus
// PUT /api/v1/admin/accounts/:id/status
func (h *AdminHandler) SetStatus(c *gin.Context) {
	id, ok := accountParam(c)
	if !ok {
		return
	}

	var req dto.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}
	status, err := entitlement.ParseStatus(req.Status)
	if err != nil {
		response.ParamError(c, err.Error())
		return
	}

	account, err := h.accounts.SetStatus(c.Request.Context(), id, status, actorOf(c))
	h.reply(c, "status changed", account, err)
}

// ExtendTrial
// POST /api/v1/admin/accounts/:id/trial/extend
func (h *AdminHandler) ExtendTrial(c *gin.Context) {
	id, ok := accountParam(c)
	if !ok {
		return
	}

	var req dto.ExtendTrialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	account, err := h.accounts.ExtendTrial(c.Request.Context(), id, req.Days, actorOf(c))
	h.reply(c, "trial extended", account, err)
}

func (h *AdminHandler) reply(c *gin.Context, message string, account *model.Account, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	response.SuccessWithMessage(c, message, dto.NewAccountInfo(account))
}

func accountParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ParamError(c, "invalid account id")
		return uuid.Nil, false
	}
	return id, true
}

func actorOf(c *gin.Context) *uuid.UUID {
	id, ok := middleware.GetAccountID(c)
	if !ok {
		return nil
	}
	return &id
}
