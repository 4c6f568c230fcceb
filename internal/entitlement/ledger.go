package entitlement

import (
	"maps"
	"time"
)

type ToolCounter struct {
	Count      int64     `json:"count"`
	LastUsedAt time.Time `json:"last_used_at"`
}

type UsageRecord struct {
	TotalGenerations  int64
	PeriodGenerations int64
	PeriodAnchor      time.Time
	// AnchorDay is the billing day of month. Months shorter than it roll over
	// on their last day.
	AnchorDay int
	PerTool   map[string]ToolCounter
}

func NewUsageRecord(now time.Time) UsageRecord {
	return UsageRecord{
		PeriodAnchor: now,
		AnchorDay:    now.Day(),
		PerTool:      map[string]ToolCounter{},
	}
}

// Clone returns a copy that shares no map with u.
func (u UsageRecord) Clone() UsageRecord {
	if u.PerTool == nil {
		u.PerTool = map[string]ToolCounter{}
	} else {
		u.PerTool = maps.Clone(u.PerTool)
	}
	return u
}

func (u UsageRecord) anchorDay() int {
	if u.AnchorDay < 1 || u.AnchorDay > 31 {
		return u.PeriodAnchor.Day()
	}
	return u.AnchorDay
}

// NextRollover is the instant the current period ends.
func (u UsageRecord) NextRollover() time.Time {
	return addMonths(u.PeriodAnchor, u.anchorDay(), 1)
}

// RolloverIfDue resets the period counter once now reaches the next monthly
// boundary. The anchor moves in whole months to the last boundary not after
// now, so repeated calls with the same now are no-ops.
func RolloverIfDue(u UsageRecord, now time.Time) UsageRecord {
	out := u.Clone()
	day := out.anchorDay()

	next := addMonths(out.PeriodAnchor, day, 1)
	if now.Before(next) {
		return out
	}
	for !now.Before(next) {
		out.PeriodAnchor = next
		next = addMonths(next, day, 1)
	}
	out.PeriodGenerations = 0
	return out
}

// RecordUsage counts one generation of toolID at now. Tools the catalog does
// not know are recorded like any other.
func RecordUsage(u UsageRecord, toolID string, now time.Time) UsageRecord {
	out := RolloverIfDue(u, now)
	out.TotalGenerations++
	out.PeriodGenerations++

	c := out.PerTool[toolID]
	c.Count++
	c.LastUsedAt = now
	out.PerTool[toolID] = c
	return out
}

// CheckQuota reports whether another generation fits under the plan cap.
func (c *Catalog) CheckQuota(u UsageRecord, p Plan) bool {
	limit := c.CapFor(p)
	if limit == nil {
		return true
	}
	return u.PeriodGenerations < *limit
}

// Remaining is the number of generations left this period, nil if unlimited.
func (c *Catalog) Remaining(u UsageRecord, p Plan) *int64 {
	limit := c.CapFor(p)
	if limit == nil {
		return nil
	}
	left := *limit - u.PeriodGenerations
	if left < 0 {
		left = 0
	}
	return &left
}

// addMonths moves t forward n calendar months, landing on day (clamped to the
// month length) at the same clock time.
func addMonths(t time.Time, day, n int) time.Time {
	y, m, _ := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(first); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
