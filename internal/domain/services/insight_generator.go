package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"taskpulse/internal/domain/entities"
)

// InsightConfig holds the rule thresholds and impact scores of the
// recommendation generator. Impacts double as the ranking key, so
// changing one reorders the final list.
type InsightConfig struct {
	MaxRecommendations     int     `json:"max_recommendations"`
	MaxNarrativeItems      int     `json:"max_narrative_items"`
	BurnoutImpact          int     `json:"burnout_impact"`
	FocusImpact            int     `json:"focus_impact"`
	EstimationImpact       int     `json:"estimation_impact"`
	OverdueImpact          int     `json:"overdue_impact"`
	SchedulingImpact       int     `json:"scheduling_impact"`
	DecliningImpact        int     `json:"declining_impact"`
	LowFocusThreshold      float64 `json:"low_focus_threshold"`
	StrongFocusThreshold   float64 `json:"strong_focus_threshold"`
	LowProbabilityThreshold float64 `json:"low_probability_threshold"`
	OverdueThreshold       int     `json:"overdue_threshold"`
	StrongRateThreshold    int     `json:"strong_rate_threshold"`
}

// DefaultInsightConfig returns the default recommendation thresholds
func DefaultInsightConfig() *InsightConfig {
	return &InsightConfig{
		MaxRecommendations:      5,
		MaxNarrativeItems:       3,
		BurnoutImpact:           85,
		FocusImpact:             70,
		EstimationImpact:        60,
		OverdueImpact:           80,
		SchedulingImpact:        65,
		DecliningImpact:         55,
		LowFocusThreshold:       60,
		StrongFocusThreshold:    70,
		LowProbabilityThreshold: 70,
		OverdueThreshold:        2,
		StrongRateThreshold:     70,
	}
}

// InsightGenerator turns advanced metrics and backlog predictions into a
// ranked, capped list of recommendations plus narrative insight strings.
// Every rule is independently evaluable and fires at most once.
type InsightGenerator struct {
	config      *InsightConfig
	analytics   *AnalyticsCalculator
	metrics     *MetricsCalculator
	predictions *PredictionService
}

// NewInsightGenerator creates an insight generator with default thresholds
func NewInsightGenerator(analytics *AnalyticsCalculator, metrics *MetricsCalculator, predictions *PredictionService) *InsightGenerator {
	return NewInsightGeneratorWithConfig(analytics, metrics, predictions, nil)
}

// NewInsightGeneratorWithConfig creates an insight generator with custom
// thresholds
func NewInsightGeneratorWithConfig(analytics *AnalyticsCalculator, metrics *MetricsCalculator, predictions *PredictionService, config *InsightConfig) *InsightGenerator {
	if analytics == nil {
		analytics = NewAnalyticsCalculator()
	}
	if metrics == nil {
		metrics = NewMetricsCalculator()
	}
	if predictions == nil {
		predictions = NewPredictionService(metrics)
	}
	if config == nil {
		config = DefaultInsightConfig()
	}
	return &InsightGenerator{
		config:      config,
		analytics:   analytics,
		metrics:     metrics,
		predictions: predictions,
	}
}

// GeneratePersonalizedInsights evaluates every recommendation rule over
// the task snapshot and assembles the narrative lists from the same
// metrics.
func (ig *InsightGenerator) GeneratePersonalizedInsights(tasks []*entities.Task, now time.Time) *entities.PersonalizedInsights {
	advanced := ig.metrics.CalculateAdvancedMetrics(tasks, now)
	backlog := ig.predictions.GeneratePredictiveInsights(tasks, now)
	overdue := countOverdue(tasks, now)

	recommendations := ig.buildRecommendations(advanced, backlog, overdue)

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Impact > recommendations[j].Impact
	})
	if len(recommendations) > ig.config.MaxRecommendations {
		recommendations = recommendations[:ig.config.MaxRecommendations]
	}

	return &entities.PersonalizedInsights{
		Recommendations:  recommendations,
		TopInsights:      ig.topInsights(tasks, advanced, now),
		ImprovementAreas: ig.improvementAreas(advanced, overdue),
		Strengths:        ig.strengths(tasks, advanced),
	}
}

func (ig *InsightGenerator) buildRecommendations(advanced *entities.AdvancedProductivityMetrics, backlog *entities.PredictiveInsights, overdue int) []entities.ProductivityRecommendation {
	recommendations := []entities.ProductivityRecommendation{}

	if advanced.BurnoutRisk == entities.RiskHigh {
		recommendations = append(recommendations, entities.ProductivityRecommendation{
			ID:          "reduce-workload",
			Type:        entities.RecommendationWorkload,
			Title:       "Reduce your workload",
			Description: "Your recent task volume and overdue backlog indicate a high burnout risk. Consider deferring or delegating non-essential tasks.",
			Priority:    entities.PriorityHigh,
			Impact:      ig.config.BurnoutImpact,
			Actionable:  true,
			ActionText:  "Pick three tasks to defer to next week",
		})
	}

	if advanced.FocusScore < ig.config.LowFocusThreshold {
		recommendations = append(recommendations, entities.ProductivityRecommendation{
			ID:          "improve-focus",
			Type:        entities.RecommendationFocus,
			Title:       "Improve task focus",
			Description: fmt.Sprintf("Your focus score is %.0f. Batching similar tasks and finishing high-priority items first tends to raise it.", advanced.FocusScore),
			Priority:    entities.PriorityMedium,
			Impact:      ig.config.FocusImpact,
			Actionable:  true,
			ActionText:  "Group today's tasks by category before starting",
		})
	}

	if backlog.CompletionProbability < ig.config.LowProbabilityThreshold {
		recommendations = append(recommendations, entities.ProductivityRecommendation{
			ID:          "review-estimates",
			Type:        entities.RecommendationPlanning,
			Title:       "Review your time estimates",
			Description: fmt.Sprintf("The pending backlog has a %.0f%% predicted completion rate. Breaking large tasks into smaller ones improves predictability.", backlog.CompletionProbability),
			Priority:    entities.PriorityMedium,
			Impact:      ig.config.EstimationImpact,
			Actionable:  true,
			ActionText:  "Split any task estimated over two hours",
		})
	}

	if overdue > ig.config.OverdueThreshold {
		recommendations = append(recommendations, entities.ProductivityRecommendation{
			ID:          "clear-overdue",
			Type:        entities.RecommendationPriority,
			Title:       "Clear overdue tasks",
			Description: fmt.Sprintf("You have %d overdue tasks. Re-prioritizing or rescheduling them prevents the backlog from compounding.", overdue),
			Priority:    entities.PriorityHigh,
			Impact:      ig.config.OverdueImpact,
			Actionable:  true,
			ActionText:  "Reschedule or drop each overdue task today",
		})
	}

	if len(advanced.PeakProductivityHours) > 0 {
		recommendations = append(recommendations, entities.ProductivityRecommendation{
			ID:          "schedule-peak-hours",
			Type:        entities.RecommendationScheduling,
			Title:       "Schedule demanding work at your peak hours",
			Description: fmt.Sprintf("You complete the most tasks around %s. Reserve those hours for your hardest work.", strings.Join(advanced.PeakProductivityHours, ", ")),
			Priority:    entities.PriorityMedium,
			Impact:      ig.config.SchedulingImpact,
			Actionable:  true,
			ActionText:  "Block your peak hours on the calendar",
		})
	}

	if advanced.EfficiencyTrend == entities.EfficiencyDeclining {
		recommendations = append(recommendations, entities.ProductivityRecommendation{
			ID:          "review-efficiency",
			Type:        entities.RecommendationWorkload,
			Title:       "Your efficiency is trending down",
			Description: "Recent tasks are completing at a lower rate than earlier ones. A lighter task load for a few days usually reverses the trend.",
			Priority:    entities.PriorityMedium,
			Impact:      ig.config.DecliningImpact,
			Actionable:  true,
			ActionText:  "Cap tomorrow's plan at your optimal task load",
		})
	}

	return recommendations
}

// topInsights surfaces the strongest observations from the snapshot
func (ig *InsightGenerator) topInsights(tasks []*entities.Task, advanced *entities.AdvancedProductivityMetrics, now time.Time) []string {
	insights := []string{}

	if productivity := ig.analytics.GenerateProductivityInsights(tasks, now); productivity.MostProductiveDay != "" {
		insights = append(insights, fmt.Sprintf("You get the most done on %ss", productivity.MostProductiveDay))
	}
	if advanced.TaskVelocity > 0 {
		insights = append(insights, fmt.Sprintf("You complete %.1f tasks per day on average", advanced.TaskVelocity))
	}
	if len(advanced.PeakProductivityHours) > 0 {
		insights = append(insights, fmt.Sprintf("Your most productive hours are %s", strings.Join(advanced.PeakProductivityHours, ", ")))
	}
	if advanced.OptimalTaskLoad > 0 {
		insights = append(insights, fmt.Sprintf("Your optimal daily task load is %d tasks", advanced.OptimalTaskLoad))
	}
	if rate := roundedRate(countCompleted(tasks), len(tasks)); rate > 0 {
		insights = append(insights, fmt.Sprintf("Your overall completion rate is %d%%", rate))
	}

	return capStrings(insights, ig.config.MaxNarrativeItems)
}

// improvementAreas lists the metrics currently below their thresholds
func (ig *InsightGenerator) improvementAreas(advanced *entities.AdvancedProductivityMetrics, overdue int) []string {
	areas := []string{}

	if advanced.FocusScore < ig.config.LowFocusThreshold {
		areas = append(areas, "Task focus and follow-through")
	}
	if overdue > ig.config.OverdueThreshold {
		areas = append(areas, "Meeting due dates")
	}
	if advanced.EfficiencyTrend == entities.EfficiencyDeclining {
		areas = append(areas, "Sustaining your completion pace")
	}
	if advanced.BurnoutRisk != entities.RiskLow {
		areas = append(areas, "Balancing your workload")
	}

	return capStrings(areas, ig.config.MaxNarrativeItems)
}

// strengths lists the metrics currently above their thresholds
func (ig *InsightGenerator) strengths(tasks []*entities.Task, advanced *entities.AdvancedProductivityMetrics) []string {
	strengths := []string{}

	if advanced.FocusScore > ig.config.StrongFocusThreshold {
		strengths = append(strengths, "Strong task focus")
	}
	if roundedRate(countCompleted(tasks), len(tasks)) >= ig.config.StrongRateThreshold {
		strengths = append(strengths, "High completion rate")
	}
	if advanced.EfficiencyTrend == entities.EfficiencyImproving {
		strengths = append(strengths, "Improving efficiency week over week")
	}
	if advanced.BurnoutRisk == entities.RiskLow {
		strengths = append(strengths, "Sustainable workload")
	}

	return capStrings(strengths, ig.config.MaxNarrativeItems)
}

func capStrings(values []string, limit int) []string {
	if len(values) > limit {
		return values[:limit]
	}
	return values
}
