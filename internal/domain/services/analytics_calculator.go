// Package services implements the productivity analytics engine: period
// aggregation, insight generation, advanced metrics, outcome prediction,
// and context-aware priority scoring. Every function is pure over the
// supplied task snapshot and takes an explicit reference instant, so
// concurrent calls are independent and results are reproducible.
package services

import (
	"math"
	"sort"
	"time"

	"taskpulse/internal/domain/entities"
)

// AnalyticsConfig holds the fixed product constants used by the
// aggregators and insight generators. The values are product decisions,
// not tuned from data.
type AnalyticsConfig struct {
	// DefaultCompletionMins is a placeholder average completion time
	// reported whenever at least one completed task carries a completion
	// timestamp. Real per-task duration tracking does not exist yet, so
	// this flat value is preserved instead of a computed average.
	DefaultCompletionMins int `json:"default_completion_mins"`
	TrendUpThreshold      int `json:"trend_up_threshold"`   // completion rate above which the trend is "up"
	TrendDownThreshold    int `json:"trend_down_threshold"` // completion rate below which the trend is "down"
	MaxStreakDays         int `json:"max_streak_days"`
}

// DefaultAnalyticsConfig returns the default analytics constants
func DefaultAnalyticsConfig() *AnalyticsConfig {
	return &AnalyticsConfig{
		DefaultCompletionMins: 45,
		TrendUpThreshold:      70,
		TrendDownThreshold:    50,
		MaxStreakDays:         7,
	}
}

// AnalyticsCalculator computes descriptive statistics and behavioral
// insights over a task snapshot.
type AnalyticsCalculator struct {
	config *AnalyticsConfig
}

// NewAnalyticsCalculator creates a calculator with default constants
func NewAnalyticsCalculator() *AnalyticsCalculator {
	return &AnalyticsCalculator{config: DefaultAnalyticsConfig()}
}

// NewAnalyticsCalculatorWithConfig creates a calculator with custom constants
func NewAnalyticsCalculatorWithConfig(config *AnalyticsConfig) *AnalyticsCalculator {
	if config == nil {
		config = DefaultAnalyticsConfig()
	}
	return &AnalyticsCalculator{config: config}
}

// BuildAnalytics runs the full descriptive pipeline for one period:
// filter, overview, category and time-series aggregation, and the nested
// insight sections.
func (ac *AnalyticsCalculator) BuildAnalytics(tasks []*entities.Task, period entities.Period, now time.Time) *entities.AnalyticsData {
	scoped := ac.FilterByPeriod(tasks, period, now)

	return &entities.AnalyticsData{
		Period:     period,
		Overview:   ac.ComputeOverview(scoped, now),
		Categories: ac.ComputeCategoryStats(scoped),
		TimeSeries: ac.ComputeTimeSeries(scoped),
		Insights: entities.AnalyticsInsights{
			Productivity: ac.GenerateProductivityInsights(scoped, now),
			Category:     ac.GenerateCategoryInsights(scoped),
			Priority:     ac.GeneratePriorityInsights(scoped, now),
			Time:         ac.GenerateTimeInsights(scoped),
		},
		GeneratedAt: now,
	}
}

// FilterByPeriod keeps tasks whose creation timestamp falls within
// [now - window, now].
func (ac *AnalyticsCalculator) FilterByPeriod(tasks []*entities.Task, period entities.Period, now time.Time) []*entities.Task {
	window := period.Window()
	if window == 0 {
		return []*entities.Task{}
	}

	cutoff := now.Add(-window)
	filtered := make([]*entities.Task, 0, len(tasks))
	for _, task := range tasks {
		if !task.CreatedAt.Before(cutoff) && !task.CreatedAt.After(now) {
			filtered = append(filtered, task)
		}
	}

	return filtered
}

// ComputeOverview calculates headline counts and rates for the scoped
// task set. Empty input yields zeroed stats, never a division fault.
func (ac *AnalyticsCalculator) ComputeOverview(tasks []*entities.Task, now time.Time) entities.OverviewStats {
	stats := entities.OverviewStats{}
	if len(tasks) == 0 {
		return stats
	}

	stats.TotalTasks = len(tasks)
	stats.CompletedTasks = countCompleted(tasks)
	stats.PendingTasks = stats.TotalTasks - stats.CompletedTasks
	stats.CompletionRate = roundedRate(stats.CompletedTasks, stats.TotalTasks)
	stats.AverageTasksPerDay = averageTasksPerDay(tasks, now)

	dayCounter := newModeCounter()
	categoryCounter := newModeCounter()
	hasCompletionTimestamp := false
	for _, task := range tasks {
		dayCounter.Add(task.CreatedAt.Weekday().String())
		if task.Category != "" {
			categoryCounter.Add(task.Category)
		}
		if task.Completed && task.CompletedAt != nil {
			hasCompletionTimestamp = true
		}
	}
	stats.MostProductiveDay = dayCounter.Mode()
	stats.MostCommonCategory = categoryCounter.Mode()

	if hasCompletionTimestamp {
		stats.AverageCompletionTime = ac.config.DefaultCompletionMins
	}

	return stats
}

// ComputeCategoryStats groups tasks by category and calculates totals,
// completions, rounded completion rate, and average priority weight per
// bucket. Buckets appear in first-encountered order.
func (ac *AnalyticsCalculator) ComputeCategoryStats(tasks []*entities.Task) []entities.CategoryStats {
	type bucket struct {
		total     int
		completed int
		weightSum float64
	}

	buckets := make(map[string]*bucket)
	order := []string{}

	for _, task := range tasks {
		b, exists := buckets[task.Category]
		if !exists {
			b = &bucket{}
			buckets[task.Category] = b
			order = append(order, task.Category)
		}
		b.total++
		if task.Completed {
			b.completed++
		}
		b.weightSum += task.Priority.Weight()
	}

	stats := make([]entities.CategoryStats, 0, len(order))
	for _, category := range order {
		b := buckets[category]
		stats = append(stats, entities.CategoryStats{
			Category:              category,
			TotalTasks:            b.total,
			CompletedTasks:        b.completed,
			CompletionRate:        roundedRate(b.completed, b.total),
			AveragePriorityWeight: round2(b.weightSum / float64(b.total)),
		})
	}

	return stats
}

// ComputeTimeSeries groups tasks by calendar day of creation and
// calculates per-day totals and completion, sorted chronologically.
func (ac *AnalyticsCalculator) ComputeTimeSeries(tasks []*entities.Task) []entities.TimeSeriesPoint {
	type bucket struct {
		tasks     int
		completed int
	}

	buckets := make(map[string]*bucket)
	for _, task := range tasks {
		key := task.CreatedAt.Format("2006-01-02")
		b, exists := buckets[key]
		if !exists {
			b = &bucket{}
			buckets[key] = b
		}
		b.tasks++
		if task.Completed {
			b.completed++
		}
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	series := make([]entities.TimeSeriesPoint, 0, len(keys))
	for _, key := range keys {
		b := buckets[key]
		series = append(series, entities.TimeSeriesPoint{
			Date:           key,
			Tasks:          b.tasks,
			Completed:      b.completed,
			CompletionRate: roundedRate(b.completed, b.tasks),
		})
	}

	return series
}

// GenerateProductivityInsights derives weekday and time-of-day peaks, a
// bounded streak proxy, and the improvement trend.
func (ac *AnalyticsCalculator) GenerateProductivityInsights(tasks []*entities.Task, now time.Time) entities.ProductivityInsights {
	insights := entities.ProductivityInsights{ImprovementTrend: entities.TrendStable}
	if len(tasks) == 0 {
		return insights
	}

	dayCounter := newModeCounter()
	timeCounter := newModeCounter()
	for _, task := range tasks {
		dayCounter.Add(task.CreatedAt.Weekday().String())
		timeCounter.Add(timeOfDayBucket(task.CreatedAt.Hour()))
	}

	insights.MostProductiveDay = dayCounter.Mode()
	insights.MostProductiveTime = timeCounter.Mode()
	insights.AverageTasksPerDay = averageTasksPerDay(tasks, now)
	insights.CompletionRate = roundedRate(countCompleted(tasks), len(tasks))

	// Bounded proxy for a streak, not a true consecutive-day count.
	streak := insights.CompletionRate / 10
	if streak > ac.config.MaxStreakDays {
		streak = ac.config.MaxStreakDays
	}
	insights.StreakDays = streak

	switch {
	case insights.CompletionRate > ac.config.TrendUpThreshold:
		insights.ImprovementTrend = entities.TrendUp
	case insights.CompletionRate < ac.config.TrendDownThreshold:
		insights.ImprovementTrend = entities.TrendDown
	}

	return insights
}

// GenerateCategoryInsights finds the most/least active and most
// completed categories and scores how evenly work is spread across them.
func (ac *AnalyticsCalculator) GenerateCategoryInsights(tasks []*entities.Task) entities.CategoryInsights {
	insights := entities.CategoryInsights{}
	stats := ac.ComputeCategoryStats(tasks)
	if len(stats) == 0 {
		return insights
	}

	mostActive := stats[0]
	leastActive := stats[0]
	mostCompleted := stats[0]
	bestRatio := completionRatio(stats[0])

	for _, s := range stats[1:] {
		if s.TotalTasks > mostActive.TotalTasks {
			mostActive = s
		}
		if s.TotalTasks < leastActive.TotalTasks {
			leastActive = s
		}
		if ratio := completionRatio(s); ratio > bestRatio {
			mostCompleted = s
			bestRatio = ratio
		}
	}

	insights.MostActiveCategory = mostActive.Category
	insights.LeastActiveCategory = leastActive.Category
	insights.MostCompletedCategory = mostCompleted.Category

	// Variance against an ideal even split across the observed
	// categories; higher balance means a more evenly distributed load.
	total := len(tasks)
	ideal := float64(total) / float64(len(stats))
	variance := 0.0
	for _, s := range stats {
		diff := float64(s.TotalTasks) - ideal
		variance += diff * diff
	}
	variance /= float64(len(stats))
	insights.CategoryBalance = math.Max(0, 100-variance/float64(total)*100)

	return insights
}

// GeneratePriorityInsights counts the fixed high/medium/low distribution
// and the overdue backlog. Unknown priority strings land in the medium
// bucket.
func (ac *AnalyticsCalculator) GeneratePriorityInsights(tasks []*entities.Task, now time.Time) entities.PriorityInsights {
	insights := entities.PriorityInsights{}

	for _, task := range tasks {
		var bucket *entities.PriorityBreakdown
		switch task.Priority {
		case entities.PriorityHigh:
			bucket = &insights.High
		case entities.PriorityLow:
			bucket = &insights.Low
		default:
			bucket = &insights.Medium
		}
		bucket.Total++
		if task.Completed {
			bucket.Completed++
		}
		if task.IsOverdue(now) {
			insights.OverdueTasks++
		}
	}

	return insights
}

// GenerateTimeInsights reports the placeholder completion-time figures
// and the dominant time-of-day bucket. With a flat placeholder duration,
// fastest and slowest resolve to the first category with a timestamped
// completion; this stays degenerate until real durations exist.
func (ac *AnalyticsCalculator) GenerateTimeInsights(tasks []*entities.Task) entities.TimeInsights {
	insights := entities.TimeInsights{}
	if len(tasks) == 0 {
		return insights
	}

	timeCounter := newModeCounter()
	completedCategory := ""
	hasCompletionTimestamp := false
	for _, task := range tasks {
		timeCounter.Add(timeOfDayBucket(task.CreatedAt.Hour()))
		if task.Completed && task.CompletedAt != nil && !hasCompletionTimestamp {
			hasCompletionTimestamp = true
			completedCategory = task.Category
		}
	}

	insights.PreferredTime = timeCounter.Mode()
	if hasCompletionTimestamp {
		insights.AverageCompletionTime = ac.config.DefaultCompletionMins
		insights.FastestCategory = completedCategory
		insights.SlowestCategory = completedCategory
	}

	return insights
}

// Shared helpers

func countCompleted(tasks []*entities.Task) int {
	count := 0
	for _, task := range tasks {
		if task.Completed {
			count++
		}
	}
	return count
}

// roundedRate returns completed/total as a whole percentage, 0 when
// total is zero.
func roundedRate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// averageTasksPerDay divides the task count by the span in days between
// the earliest creation and now, with a one-day floor so single-day data
// stays bounded.
func averageTasksPerDay(tasks []*entities.Task, now time.Time) float64 {
	if len(tasks) == 0 {
		return 0
	}

	earliest := tasks[0].CreatedAt
	for _, task := range tasks[1:] {
		if task.CreatedAt.Before(earliest) {
			earliest = task.CreatedAt
		}
	}

	days := math.Ceil(now.Sub(earliest).Hours() / 24)
	if days < 1 {
		days = 1
	}

	return round2(float64(len(tasks)) / days)
}

// timeOfDayBucket maps an hour to one of four coarse buckets
func timeOfDayBucket(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return "Morning"
	case hour >= 12 && hour < 17:
		return "Afternoon"
	case hour >= 17 && hour < 21:
		return "Evening"
	default:
		return "Night"
	}
}

func completionRatio(s entities.CategoryStats) float64 {
	if s.TotalTasks == 0 {
		return 0
	}
	return float64(s.CompletedTasks) / float64(s.TotalTasks)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// modeCounter tracks value counts while preserving first-encountered
// order, so ties always resolve to the same winner for a given input
// ordering.
type modeCounter struct {
	counts map[string]int
	order  []string
}

func newModeCounter() *modeCounter {
	return &modeCounter{counts: make(map[string]int)}
}

func (m *modeCounter) Add(value string) {
	if _, exists := m.counts[value]; !exists {
		m.order = append(m.order, value)
	}
	m.counts[value]++
}

func (m *modeCounter) Mode() string {
	best := ""
	bestCount := 0
	for _, value := range m.order {
		if m.counts[value] > bestCount {
			best = value
			bestCount = m.counts[value]
		}
	}
	return best
}
