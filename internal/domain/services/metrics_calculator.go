package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"taskpulse/internal/domain/entities"
)

// MetricsConfig holds the fixed thresholds and weights for the advanced
// metrics. These are product decisions; do not re-derive them from data.
type MetricsConfig struct {
	FocusConsistencyWeight  float64 `json:"focus_consistency_weight"`
	FocusCompletionWeight   float64 `json:"focus_completion_weight"`
	FocusAdherenceWeight    float64 `json:"focus_adherence_weight"`
	FocusNoTimestampDefault float64 `json:"focus_no_timestamp_default"`

	EfficiencyMinCompleted int     `json:"efficiency_min_completed"`
	EfficiencyDelta        float64 `json:"efficiency_delta"` // rate delta that flips the trend

	BurnoutWindowDays        int     `json:"burnout_window_days"`
	BurnoutDailyTasks        float64 `json:"burnout_daily_tasks"`   // daily count above this adds risk
	BurnoutOverdueTasks      int     `json:"burnout_overdue_tasks"` // overdue count above this adds risk
	BurnoutPendingHigh       int     `json:"burnout_pending_high"`  // pending high-priority count above this adds risk
	BurnoutDailyRisk         int     `json:"burnout_daily_risk"`
	BurnoutOverdueRisk       int     `json:"burnout_overdue_risk"`
	BurnoutPendingRisk       int     `json:"burnout_pending_risk"`
	BurnoutHighThreshold     int     `json:"burnout_high_threshold"`
	BurnoutMediumThreshold   int     `json:"burnout_medium_threshold"`
	PeakHourCount            int     `json:"peak_hour_count"`
	OptimalLoadMin           int     `json:"optimal_load_min"`
	OptimalLoadMax           int     `json:"optimal_load_max"`
	ProductivityRateWeight   float64 `json:"productivity_rate_weight"`
	ProductivityFocusWeight  float64 `json:"productivity_focus_weight"`
	ProductivityVelocityGain float64 `json:"productivity_velocity_gain"` // scales velocity onto 0-100
}

// DefaultMetricsConfig returns the default advanced-metrics constants
func DefaultMetricsConfig() *MetricsConfig {
	return &MetricsConfig{
		FocusConsistencyWeight:  0.4,
		FocusCompletionWeight:   0.4,
		FocusAdherenceWeight:    0.2,
		FocusNoTimestampDefault: 50,
		EfficiencyMinCompleted:  4,
		EfficiencyDelta:         0.1,
		BurnoutWindowDays:       7,
		BurnoutDailyTasks:       8,
		BurnoutOverdueTasks:     3,
		BurnoutPendingHigh:      2,
		BurnoutDailyRisk:        40,
		BurnoutOverdueRisk:      30,
		BurnoutPendingRisk:      30,
		BurnoutHighThreshold:    70,
		BurnoutMediumThreshold:  40,
		PeakHourCount:           3,
		OptimalLoadMin:          3,
		OptimalLoadMax:          10,
		ProductivityRateWeight:  0.4,
		ProductivityFocusWeight: 0.4,
		ProductivityVelocityGain: 25,
	}
}

// MetricsCalculator computes the advanced productivity metrics over the
// full task snapshot.
type MetricsCalculator struct {
	config *MetricsConfig
}

// NewMetricsCalculator creates a calculator with default constants
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{config: DefaultMetricsConfig()}
}

// NewMetricsCalculatorWithConfig creates a calculator with custom constants
func NewMetricsCalculatorWithConfig(config *MetricsConfig) *MetricsCalculator {
	if config == nil {
		config = DefaultMetricsConfig()
	}
	return &MetricsCalculator{config: config}
}

// CalculateAdvancedMetrics computes the full advanced metrics block
func (mc *MetricsCalculator) CalculateAdvancedMetrics(tasks []*entities.Task, now time.Time) *entities.AdvancedProductivityMetrics {
	return &entities.AdvancedProductivityMetrics{
		TaskVelocity:          mc.TaskVelocity(tasks),
		FocusScore:            mc.FocusScore(tasks),
		EfficiencyTrend:       mc.EfficiencyTrend(tasks),
		BurnoutRisk:           mc.BurnoutRisk(tasks, now),
		PeakProductivityHours: mc.PeakProductivityHours(tasks),
		OptimalTaskLoad:       mc.OptimalTaskLoad(tasks),
	}
}

// TaskVelocity returns completed tasks per day between the earliest
// creation and the latest completion (or creation), rounded to one
// decimal. Zero when nothing is completed.
func (mc *MetricsCalculator) TaskVelocity(tasks []*entities.Task) float64 {
	completed := countCompleted(tasks)
	if completed == 0 {
		return 0
	}

	earliest := tasks[0].CreatedAt
	latest := tasks[0].CreatedAt
	for _, task := range tasks {
		if task.CreatedAt.Before(earliest) {
			earliest = task.CreatedAt
		}
		end := task.CreatedAt
		if task.CompletedAt != nil {
			end = *task.CompletedAt
		}
		if end.After(latest) {
			latest = end
		}
	}

	days := math.Ceil(latest.Sub(earliest).Hours() / 24)
	if days < 1 {
		days = 1
	}

	return math.Round(float64(completed)/days*10) / 10
}

// FocusScore combines completion-latency consistency, completion rate,
// and high-priority adherence into a 0-100 composite. Defaults: 0 with
// no completed tasks at all, 50 when completed tasks exist but none
// carry timestamps.
func (mc *MetricsCalculator) FocusScore(tasks []*entities.Task) float64 {
	completed := countCompleted(tasks)
	if completed == 0 {
		return 0
	}

	latencies := []float64{}
	for _, task := range tasks {
		if duration, ok := task.CompletionDuration(); ok {
			latencies = append(latencies, duration.Hours())
		}
	}
	if len(latencies) == 0 {
		return mc.FocusNoTimestampDefault()
	}

	consistency := math.Max(0, 100-2*variance(latencies))
	completionRate := float64(completed) / float64(len(tasks)) * 100

	totalHigh := 0
	completedHigh := 0
	for _, task := range tasks {
		if task.Priority == entities.PriorityHigh {
			totalHigh++
			if task.Completed {
				completedHigh++
			}
		}
	}
	adherence := 100.0
	if totalHigh > 0 {
		adherence = float64(completedHigh) / float64(totalHigh) * 100
	}

	score := consistency*mc.config.FocusConsistencyWeight +
		completionRate*mc.config.FocusCompletionWeight +
		adherence*mc.config.FocusAdherenceWeight

	return clamp(math.Round(score), 0, 100)
}

// FocusNoTimestampDefault exposes the no-timestamp default for callers
// that need to reason about degraded input.
func (mc *MetricsCalculator) FocusNoTimestampDefault() float64 {
	return mc.config.FocusNoTimestampDefault
}

// EfficiencyTrend splits the completed tasks at the midpoint of their
// completion order and compares the completion rate of the recent half's
// creation window against the older half's. Fewer than four completed
// tasks always reads as stable.
func (mc *MetricsCalculator) EfficiencyTrend(tasks []*entities.Task) entities.EfficiencyTrend {
	completed := []*entities.Task{}
	for _, task := range tasks {
		if task.Completed {
			completed = append(completed, task)
		}
	}
	if len(completed) < mc.config.EfficiencyMinCompleted {
		return entities.EfficiencyStable
	}

	sort.SliceStable(completed, func(i, j int) bool {
		return completionInstant(completed[i]).Before(completionInstant(completed[j]))
	})

	mid := len(completed) / 2
	olderRate := mc.windowCompletionRate(tasks, completed[:mid])
	recentRate := mc.windowCompletionRate(tasks, completed[mid:])

	delta := recentRate - olderRate
	switch {
	case delta > mc.config.EfficiencyDelta:
		return entities.EfficiencyImproving
	case delta < -mc.config.EfficiencyDelta:
		return entities.EfficiencyDeclining
	default:
		return entities.EfficiencyStable
	}
}

// windowCompletionRate computes the completion rate of all tasks created
// inside the creation window spanned by the given half.
func (mc *MetricsCalculator) windowCompletionRate(tasks, half []*entities.Task) float64 {
	start := half[0].CreatedAt
	end := half[0].CreatedAt
	for _, task := range half[1:] {
		if task.CreatedAt.Before(start) {
			start = task.CreatedAt
		}
		if task.CreatedAt.After(end) {
			end = task.CreatedAt
		}
	}

	total := 0
	done := 0
	for _, task := range tasks {
		if task.CreatedAt.Before(start) || task.CreatedAt.After(end) {
			continue
		}
		total++
		if task.Completed {
			done++
		}
	}

	if total == 0 {
		return 0
	}
	return float64(done) / float64(total)
}

// BurnoutRisk scores workload stress from three independent additive
// thresholds: recent daily volume, overdue backlog, and pending
// high-priority load.
func (mc *MetricsCalculator) BurnoutRisk(tasks []*entities.Task, now time.Time) entities.RiskLevel {
	windowStart := now.Add(-time.Duration(mc.config.BurnoutWindowDays) * 24 * time.Hour)

	recent := 0
	overdue := 0
	pendingHigh := 0
	for _, task := range tasks {
		if !task.CreatedAt.Before(windowStart) && !task.CreatedAt.After(now) {
			recent++
		}
		if task.IsOverdue(now) {
			overdue++
		}
		if !task.Completed && task.Priority == entities.PriorityHigh {
			pendingHigh++
		}
	}

	risk := 0
	if float64(recent)/float64(mc.config.BurnoutWindowDays) > mc.config.BurnoutDailyTasks {
		risk += mc.config.BurnoutDailyRisk
	}
	if overdue > mc.config.BurnoutOverdueTasks {
		risk += mc.config.BurnoutOverdueRisk
	}
	if pendingHigh > mc.config.BurnoutPendingHigh {
		risk += mc.config.BurnoutPendingRisk
	}

	switch {
	case risk >= mc.config.BurnoutHighThreshold:
		return entities.RiskHigh
	case risk >= mc.config.BurnoutMediumThreshold:
		return entities.RiskMedium
	default:
		return entities.RiskLow
	}
}

// PeakProductivityHours returns the top hours by completed-task creation
// hour, formatted as 12-hour labels. Ties resolve to the earlier hour.
func (mc *MetricsCalculator) PeakProductivityHours(tasks []*entities.Task) []string {
	hours := mc.peakHours(tasks)
	labels := make([]string, 0, len(hours))
	for _, hour := range hours {
		labels = append(labels, formatHour12(hour))
	}
	return labels
}

// peakHours returns the raw peak hours, reused by the priority scorer's
// pattern bonus.
func (mc *MetricsCalculator) peakHours(tasks []*entities.Task) []int {
	counts := make(map[int]int)
	for _, task := range tasks {
		if task.Completed {
			counts[task.CreatedAt.Hour()]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	hours := make([]int, 0, len(counts))
	for hour := range counts {
		hours = append(hours, hour)
	}
	sort.Slice(hours, func(i, j int) bool {
		if counts[hours[i]] != counts[hours[j]] {
			return counts[hours[i]] > counts[hours[j]]
		}
		return hours[i] < hours[j]
	})

	if len(hours) > mc.config.PeakHourCount {
		hours = hours[:mc.config.PeakHourCount]
	}
	return hours
}

// OptimalTaskLoad averages completed tasks over the days that saw at
// least one completion, clamped to a sane daily range.
func (mc *MetricsCalculator) OptimalTaskLoad(tasks []*entities.Task) int {
	daySet := make(map[string]int)
	completed := 0
	for _, task := range tasks {
		if !task.Completed {
			continue
		}
		completed++
		daySet[completionInstant(task).Format("2006-01-02")]++
	}

	load := 0
	if len(daySet) > 0 {
		load = int(math.Round(float64(completed) / float64(len(daySet))))
	}

	if load < mc.config.OptimalLoadMin {
		return mc.config.OptimalLoadMin
	}
	if load > mc.config.OptimalLoadMax {
		return mc.config.OptimalLoadMax
	}
	return load
}

// CalculateProductivityScore combines completion rate, focus, and
// velocity into a single 0-100 score used by the predictive engine.
func (mc *MetricsCalculator) CalculateProductivityScore(tasks []*entities.Task, now time.Time) float64 {
	if len(tasks) == 0 {
		return 0
	}

	completionRate := float64(countCompleted(tasks)) / float64(len(tasks)) * 100
	focus := mc.FocusScore(tasks)
	velocity := math.Min(100, mc.TaskVelocity(tasks)*mc.config.ProductivityVelocityGain)

	score := completionRate*mc.config.ProductivityRateWeight +
		focus*mc.config.ProductivityFocusWeight +
		velocity*(1-mc.config.ProductivityRateWeight-mc.config.ProductivityFocusWeight)

	return clamp(math.Round(score), 0, 100)
}

// Helpers

// completionInstant returns the completion timestamp, falling back to
// creation when none was recorded.
func completionInstant(task *entities.Task) time.Time {
	if task.CompletedAt != nil {
		return *task.CompletedAt
	}
	return task.CreatedAt
}

func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	sumSquaredDiffs := 0.0
	for _, v := range values {
		diff := v - mean
		sumSquaredDiffs += diff * diff
	}
	return sumSquaredDiffs / float64(len(values))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// formatHour12 renders an hour of day as a 12-hour clock label
func formatHour12(hour int) string {
	suffix := "AM"
	display := hour
	switch {
	case hour == 0:
		display = 12
	case hour == 12:
		suffix = "PM"
	case hour > 12:
		display = hour - 12
		suffix = "PM"
	}
	return fmt.Sprintf("%d %s", display, suffix)
}
