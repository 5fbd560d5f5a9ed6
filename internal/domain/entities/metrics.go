package entities

// EfficiencyTrend represents the recent-vs-older completion comparison
type EfficiencyTrend string

const (
	EfficiencyImproving EfficiencyTrend = "improving"
	EfficiencyDeclining EfficiencyTrend = "declining"
	EfficiencyStable    EfficiencyTrend = "stable"
)

// RiskLevel represents a categorical workload-stress indicator
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// AdvancedProductivityMetrics represents the advanced metrics computed
// over the full task snapshot (not the period-filtered subset).
type AdvancedProductivityMetrics struct {
	TaskVelocity          float64         `json:"task_velocity"` // completed tasks per day, 1 decimal
	FocusScore            float64         `json:"focus_score"`   // 0-100
	EfficiencyTrend       EfficiencyTrend `json:"efficiency_trend"`
	BurnoutRisk           RiskLevel       `json:"burnout_risk"`
	PeakProductivityHours []string        `json:"peak_productivity_hours"` // 12-hour labels, top 3
	OptimalTaskLoad       int             `json:"optimal_task_load"`       // tasks per day, clamped 3-10
}
