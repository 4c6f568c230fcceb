package entitlement

import "slices"

// Tool identifiers.
const (
	ToolSEOAudit           = "seo-audit"
	ToolSocialMedia        = "social-media"
	ToolEmailCampaign      = "email-campaign"
	ToolBlogWriter         = "blog-writer"
	ToolAdCopy             = "ad-copy"
	ToolKeywordResearch    = "keyword-research"
	ToolCompetitorAnalysis = "competitor-analysis"
	ToolContentCalendar    = "content-calendar"
	ToolLandingPage        = "landing-page"
	ToolProductDescription = "product-description"
	ToolVideoScript        = "video-script"
	ToolBrandVoice         = "brand-voice"
	ToolAnalyticsReport    = "analytics-report"
)

// PlanInfo is a read-only view of one catalog entry.
type PlanInfo struct {
	Plan       Plan     `json:"plan"`
	Tools      []string `json:"tools"`
	MonthlyCap *int64   `json:"monthly_cap"`
}

type catalogEntry struct {
	tools []string
	cap   *int64
}

// Catalog maps plans to the tools they unlock and their monthly generation cap.
// It is built once and never mutated; every accessor returns copies.
type Catalog struct {
	order   []Plan
	all     []string
	entries map[Plan]catalogEntry
}

var defaultCatalog = newDefaultCatalog()

// Default returns the process-wide plan catalog.
func Default() *Catalog {
	return defaultCatalog
}

func newDefaultCatalog() *Catalog {
	trial := []string{ToolSEOAudit, ToolSocialMedia}
	starter := append(slices.Clone(trial),
		ToolEmailCampaign,
		ToolBlogWriter,
		ToolAdCopy,
		ToolKeywordResearch,
	)
	full := append(slices.Clone(starter),
		ToolCompetitorAnalysis,
		ToolContentCalendar,
		ToolLandingPage,
		ToolProductDescription,
		ToolVideoScript,
		ToolBrandVoice,
		ToolAnalyticsReport,
	)

	return &Catalog{
		order: []Plan{PlanTrial, PlanStarter, PlanPro, PlanAgency},
		all:   full,
		entries: map[Plan]catalogEntry{
			PlanTrial:   {tools: trial, cap: capOf(20)},
			PlanStarter: {tools: starter, cap: capOf(100)},
			PlanPro:     {tools: full, cap: capOf(500)},
			// Same tools as pro; only the cap differs.
			PlanAgency: {tools: full, cap: nil},
		},
	}
}

func capOf(n int64) *int64 { return &n }

// ToolsFor returns the ordered tool identifiers unlocked by plan.
// Unknown plans unlock nothing.
func (c *Catalog) ToolsFor(p Plan) []string {
	e, ok := c.entries[p]
	if !ok {
		return []string{}
	}
	return slices.Clone(e.tools)
}

// CapFor returns the monthly generation cap of plan, nil meaning unlimited.
// Unknown plans get a zero cap.
func (c *Catalog) CapFor(p Plan) *int64 {
	e, ok := c.entries[p]
	if !ok {
		return capOf(0)
	}
	if e.cap == nil {
		return nil
	}
	return capOf(*e.cap)
}

func (c *Catalog) AllTools() []string {
	return slices.Clone(c.all)
}

func (c *Catalog) IsKnownTool(toolID string) bool {
	return slices.Contains(c.all, toolID)
}

// Plans lists every plan in ascending order.
func (c *Catalog) Plans() []PlanInfo {
	out := make([]PlanInfo, 0, len(c.order))
	for _, p := range c.order {
		out = append(out, PlanInfo{
			Plan:       p,
			Tools:      c.ToolsFor(p),
			MonthlyCap: c.CapFor(p),
		})
	}
	return out
}
