package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/api/middleware"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/model/dto"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/response"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/service"
)

type ToolHandler struct {
	entitlements *service.EntitlementService
}

func NewToolHandler(entitlements *service.EntitlementService) *ToolHandler {
	return &ToolHandler{
		entitlements: entitlements,
	}
}

// CheckAccess answers whether the caller may use a tool right now. A denial
// is a successful reply with allowed=false.
// GET /api/v1/tools/:tool/access
func (h *ToolHandler) CheckAccess(c *gin.Context) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	toolID := c.Param("tool")
	if !h.entitlements.Catalog().IsKnownTool(toolID) {
		response.NotFoundError(c, "unknown tool: "+toolID)
		return
	}

	decision, err := h.entitlements.CanUseTool(c.Request.Context(), accountID, toolID)
	if err != nil {
		respondError(c, err)
		return
	}

	tools := decision.Evaluation.AvailableTools
	if tools == nil {
		tools = []string{}
	}
	response.Success(c, dto.ToolAccessResponse{
		ToolID:         toolID,
		Allowed:        decision.Allowed,
		Reason:         decision.Reason.String(),
		EffectivePlan:  decision.Evaluation.EffectivePlan.String(),
		AvailableTools: tools,
	})
}

// RecordUsage counts one generation. Clients call it after the tool produced
// its output. Runs behind ToolAccess, but the decision is made again here
// under the account lock, so a request that raced past the pre-check can
// still be refused.
// POST /api/v1/tools/:tool/usage
func (h *ToolHandler) RecordUsage(c *gin.Context) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	toolID := c.Param("tool")
	decision, usage, err := h.entitlements.RecordToolUsage(c.Request.Context(), accountID, toolID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !decision.Allowed {
		response.Denied(c, decision.Reason, middleware.DecisionData(toolID, decision))
		return
	}

	response.Success(c, dto.ToolUsageResponse{
		ToolID:            toolID,
		PeriodGenerations: usage.PeriodGenerations,
		TotalGenerations:  usage.TotalGenerations,
		Remaining:         h.entitlements.Remaining(decision, *usage),
		ResetAt:           usage.NextRollover().UTC().Format(time.RFC3339),
	})
}
