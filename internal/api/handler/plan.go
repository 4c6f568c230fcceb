package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/entitlement"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/model/dto"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/response"
)

type PlanHandler struct {
	catalog *entitlement.Catalog
}

func NewPlanHandler(catalog *entitlement.Catalog) *PlanHandler {
	return &PlanHandler{
		catalog: catalog,
	}
}

// List returns the plan catalog, cheapest first.
// GET /api/v1/plans
func (h *PlanHandler) List(c *gin.Context) {
	plans := h.catalog.Plans()
	items := make([]dto.PlanInfo, 0, len(plans))
	for _, p := range plans {
		items = append(items, dto.PlanInfo{
			Plan:       p.Plan.String(),
			Tools:      p.Tools,
			MonthlyCap: p.MonthlyCap,
		})
	}

	response.Success(c, items)
}
