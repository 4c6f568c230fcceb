package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/entitlement"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/response"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/service"
)

// DecisionKey holds the entitlement.Decision made by ToolAccess.
const DecisionKey = "toolDecision"

// ToolAccess refuses the request early when the account cannot use the tool
// named by the :tool path parameter. It is a fast pre-check; the usage write
// evaluates again under the account lock.
func ToolAccess(entitlements *service.EntitlementService) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := GetAccountID(c)
		if !ok {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		toolID := c.Param("tool")
		if !entitlements.Catalog().IsKnownTool(toolID) {
			response.NotFoundError(c, "unknown tool: "+toolID)
			c.Abort()
			return
		}

		decision, err := entitlements.CanUseTool(c.Request.Context(), accountID, toolID)
		if err != nil {
			if errors.Is(err, service.ErrAccountNotFound) {
				response.AuthError(c, "account no longer exists")
			} else {
				response.ServerError(c, "entitlement check failed")
			}
			c.Abort()
			return
		}

		if !decision.Allowed {
			response.Denied(c, decision.Reason, DecisionData(toolID, decision))
			c.Abort()
			return
		}

		c.Set(DecisionKey, decision)
		c.Next()
	}
}

// DecisionData is the payload attached to a tool decision reply.
func DecisionData(toolID string, d entitlement.Decision) gin.H {
	tools := d.Evaluation.AvailableTools
	if tools == nil {
		tools = []string{}
	}
	return gin.H{
		"tool_id":         toolID,
		"allowed":         d.Allowed,
		"reason":          d.Reason.String(),
		"effective_plan":  d.Evaluation.EffectivePlan.String(),
		"available_tools": tools,
	}
}
