package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/api/middleware"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/model/dto"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/response"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/repository"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/service"
)

type AccountHandler struct {
	accounts     *service.AccountService
	entitlements *service.EntitlementService
	events       *repository.UsageEventRepository
}

func NewAccountHandler(
	accounts *service.AccountService,
	entitlements *service.EntitlementService,
	events *repository.UsageEventRepository,
) *AccountHandler {
	return &AccountHandler{
		accounts:     accounts,
		entitlements: entitlements,
		events:       events,
	}
}

// GetProfile
// GET /api/v1/account
func (h *AccountHandler) GetProfile(c *gin.Context) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	account, err := h.accounts.Get(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, dto.NewAccountInfo(account))
}

// GetEntitlements reports available tools, trial days left and quota.
// GET /api/v1/account/entitlements
func (h *AccountHandler) GetEntitlements(c *gin.Context) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	info, err := h.entitlements.Entitlements(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, info)
}

// ListUsageEvents returns recorded generations, newest first.
// GET /api/v1/account/usage/events?page=1&page_size=20
func (h *AccountHandler) ListUsageEvents(c *gin.Context) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	events, total, err := h.events.ListByAccount(c.Request.Context(), accountID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.UsageEventInfo, 0, len(events))
	for _, e := range events {
		items = append(items, dto.NewUsageEventInfo(e))
	}

	response.SuccessPage(c, total, page, pageSize, items)
}
