package services

import (
	"math"
	"sort"
	"time"

	"taskpulse/internal/domain/entities"
)

// PredictionConfig holds the fixed constants of the predictive engine
type PredictionConfig struct {
	DefaultEstimateMins    int     `json:"default_estimate_mins"`
	DefaultProbability     float64 `json:"default_probability"`
	DefaultSchedulingLabel string  `json:"default_scheduling_label"`
	HighPriorityScale      float64 `json:"high_priority_scale"`
	LowPriorityScale       float64 `json:"low_priority_scale"`
	OverdueBacklogScale    float64 `json:"overdue_backlog_scale"` // applied when >2 tasks are overdue
	DueSoonScale           float64 `json:"due_soon_scale"`        // due within one day
	DueFarScale            float64 `json:"due_far_scale"`         // due beyond seven days
	MaxConfidence          float64 `json:"max_confidence"`
	ConfidencePerSimilar   float64 `json:"confidence_per_similar"`
	ComplexityPenalty      float64 `json:"complexity_penalty"`   // max fractional reduction from title length
	ComplexityTitleChars   float64 `json:"complexity_title_chars"` // title length that saturates the penalty
	PriorityOrderGain      float64 `json:"priority_order_gain"`
	ProbabilityOrderWeight float64 `json:"probability_order_weight"`
	UrgencyBase            float64 `json:"urgency_base"`
	ProbabilityMixWeight   float64 `json:"probability_mix_weight"`
	ProductivityMixWeight  float64 `json:"productivity_mix_weight"`
	ImprovingTrendFactor   float64 `json:"improving_trend_factor"`
	DecliningTrendFactor   float64 `json:"declining_trend_factor"`
}

// DefaultPredictionConfig returns the default predictive constants
func DefaultPredictionConfig() *PredictionConfig {
	return &PredictionConfig{
		DefaultEstimateMins:    45,
		DefaultProbability:     70,
		DefaultSchedulingLabel: "9 AM",
		HighPriorityScale:      0.8,
		LowPriorityScale:       1.2,
		OverdueBacklogScale:    0.9,
		DueSoonScale:           0.8,
		DueFarScale:            1.1,
		MaxConfidence:          90,
		ConfidencePerSimilar:   10,
		ComplexityPenalty:      0.3,
		ComplexityTitleChars:   50,
		PriorityOrderGain:      20,
		ProbabilityOrderWeight: 0.4,
		UrgencyBase:            10,
		ProbabilityMixWeight:   0.7,
		ProductivityMixWeight:  0.3,
		ImprovingTrendFactor:   1.1,
		DecliningTrendFactor:   0.9,
	}
}

// PredictionService predicts per-task outcomes from a similarity search
// over historical tasks and aggregates them into backlog-level insights.
// Two tasks are similar iff they share category and priority; that
// equivalence key is the only structural signal a task carries without
// NLP.
type PredictionService struct {
	config  *PredictionConfig
	metrics *MetricsCalculator
}

// NewPredictionService creates a prediction service with default constants
func NewPredictionService(metrics *MetricsCalculator) *PredictionService {
	return NewPredictionServiceWithConfig(metrics, nil)
}

// NewPredictionServiceWithConfig creates a prediction service with
// custom constants
func NewPredictionServiceWithConfig(metrics *MetricsCalculator, config *PredictionConfig) *PredictionService {
	if metrics == nil {
		metrics = NewMetricsCalculator()
	}
	if config == nil {
		config = DefaultPredictionConfig()
	}
	return &PredictionService{config: config, metrics: metrics}
}

// similarityKey is the equivalence key for the similarity grouping
type similarityKey struct {
	category string
	priority entities.Priority
}

// similarityIndex groups tasks by (category, priority) once per call so
// generators avoid a quadratic rescan per task.
func buildSimilarityIndex(tasks []*entities.Task) map[similarityKey][]*entities.Task {
	index := make(map[similarityKey][]*entities.Task)
	for _, task := range tasks {
		key := similarityKey{category: task.Category, priority: task.Priority}
		index[key] = append(index[key], task)
	}
	return index
}

// PredictTask derives estimated completion time, completion probability,
// optimal scheduling hour, and a confidence figure for one task.
func (ps *PredictionService) PredictTask(task *entities.Task, tasks []*entities.Task, now time.Time) *entities.TaskPrediction {
	index := buildSimilarityIndex(tasks)
	overdue := countOverdue(tasks, now)
	return ps.predictWithIndex(task, index, overdue, now)
}

func (ps *PredictionService) predictWithIndex(task *entities.Task, index map[similarityKey][]*entities.Task, overdueCount int, now time.Time) *entities.TaskPrediction {
	similar := ps.similarTasks(task, index)

	return &entities.TaskPrediction{
		TaskID:                  task.ID,
		EstimatedCompletionTime: ps.estimateCompletionTime(task, similar),
		CompletionProbability:   ps.completionProbability(task, similar, overdueCount, now),
		OptimalScheduling:       ps.optimalScheduling(similar),
		Confidence:              ps.predictionConfidence(task, similar),
	}
}

// similarTasks returns the task's equivalence group, excluding itself
func (ps *PredictionService) similarTasks(task *entities.Task, index map[similarityKey][]*entities.Task) []*entities.Task {
	key := similarityKey{category: task.Category, priority: task.Priority}
	group := index[key]
	similar := make([]*entities.Task, 0, len(group))
	for _, candidate := range group {
		if candidate.ID != task.ID {
			similar = append(similar, candidate)
		}
	}
	return similar
}

// estimateCompletionTime averages the elapsed completion time of similar
// tasks, scaled by the task's own priority.
func (ps *PredictionService) estimateCompletionTime(task *entities.Task, similar []*entities.Task) int {
	durations := []float64{}
	for _, candidate := range similar {
		if duration, ok := candidate.CompletionDuration(); ok {
			durations = append(durations, duration.Hours())
		}
	}

	minutes := float64(ps.config.DefaultEstimateMins)
	if len(durations) > 0 {
		minutes = mean(durations) * 60
	}

	switch task.Priority {
	case entities.PriorityHigh:
		minutes *= ps.config.HighPriorityScale
	case entities.PriorityLow:
		minutes *= ps.config.LowPriorityScale
	}

	return int(math.Round(minutes))
}

// completionProbability starts from the similar group's completion rate
// and scales for backlog pressure and due-date proximity.
func (ps *PredictionService) completionProbability(task *entities.Task, similar []*entities.Task, overdueCount int, now time.Time) float64 {
	probability := ps.config.DefaultProbability
	if len(similar) > 0 {
		probability = float64(countCompleted(similar)) / float64(len(similar)) * 100
	}

	if overdueCount > 2 {
		probability *= ps.config.OverdueBacklogScale
	}

	if task.DueDate != nil {
		until := task.DueDate.Sub(now)
		if until <= 24*time.Hour {
			probability *= ps.config.DueSoonScale
		} else if until > 7*24*time.Hour {
			probability *= ps.config.DueFarScale
		}
	}

	return clamp(math.Round(probability), 0, 100)
}

// optimalScheduling picks the mode of completion hours among similar
// completed tasks, with a fixed default when no history exists.
func (ps *PredictionService) optimalScheduling(similar []*entities.Task) string {
	counts := make(map[int]int)
	order := []int{}
	for _, candidate := range similar {
		if candidate.Completed && candidate.CompletedAt != nil {
			hour := candidate.CompletedAt.Hour()
			if _, exists := counts[hour]; !exists {
				order = append(order, hour)
			}
			counts[hour]++
		}
	}
	if len(order) == 0 {
		return ps.config.DefaultSchedulingLabel
	}

	best := order[0]
	for _, hour := range order[1:] {
		if counts[hour] > counts[best] {
			best = hour
		}
	}
	return formatHour12(best)
}

// predictionConfidence grows with the similar-group size and shrinks
// with title length, the only complexity proxy available.
func (ps *PredictionService) predictionConfidence(task *entities.Task, similar []*entities.Task) float64 {
	base := math.Min(ps.config.MaxConfidence, float64(len(similar))*ps.config.ConfidencePerSimilar)
	complexity := math.Min(1, float64(len(task.Title))/ps.config.ComplexityTitleChars)
	return math.Round(base * (1 - ps.config.ComplexityPenalty*complexity))
}

// GeneratePredictiveInsights aggregates per-task predictions over the
// pending backlog: total estimated minutes, mean completion probability,
// a recommended ordering, the dominant scheduling hour, and an expected
// productivity figure.
func (ps *PredictionService) GeneratePredictiveInsights(tasks []*entities.Task, now time.Time) *entities.PredictiveInsights {
	insights := &entities.PredictiveInsights{
		OptimalSchedulingTime: ps.config.DefaultSchedulingLabel,
		RecommendedTaskOrder:  []string{},
	}

	pending := []*entities.Task{}
	for _, task := range tasks {
		if !task.Completed {
			pending = append(pending, task)
		}
	}
	if len(pending) == 0 {
		return insights
	}

	index := buildSimilarityIndex(tasks)
	overdue := countOverdue(tasks, now)

	predictions := make([]*entities.TaskPrediction, 0, len(pending))
	probabilitySum := 0.0
	scheduleCounter := newModeCounter()
	for _, task := range pending {
		prediction := ps.predictWithIndex(task, index, overdue, now)
		predictions = append(predictions, prediction)
		insights.EstimatedCompletionTime += prediction.EstimatedCompletionTime
		probabilitySum += prediction.CompletionProbability
		scheduleCounter.Add(prediction.OptimalScheduling)
	}

	insights.CompletionProbability = math.Round(probabilitySum / float64(len(pending)))
	insights.OptimalSchedulingTime = scheduleCounter.Mode()
	insights.RecommendedTaskOrder = ps.recommendOrder(pending, predictions, now)
	insights.ExpectedProductivity = ps.expectedProductivity(tasks, insights.CompletionProbability, now)

	return insights
}

// recommendOrder ranks pending tasks by a weighted blend of completion
// probability, priority weight, and due-date urgency. The sort is stable
// so equal scores retain input order.
func (ps *PredictionService) recommendOrder(pending []*entities.Task, predictions []*entities.TaskPrediction, now time.Time) []string {
	type ranked struct {
		id    string
		score float64
	}

	items := make([]ranked, len(pending))
	for i, task := range pending {
		score := ps.config.ProbabilityOrderWeight*predictions[i].CompletionProbability +
			ps.config.PriorityOrderGain*task.Priority.Weight() +
			ps.urgencyScore(task, now)
		items[i] = ranked{id: task.ID, score: score}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].score > items[j].score
	})

	order := make([]string, len(items))
	for i, item := range items {
		order[i] = item.id
	}
	return order
}

// urgencyScore rises as the due date approaches; no due date means no
// urgency contribution.
func (ps *PredictionService) urgencyScore(task *entities.Task, now time.Time) float64 {
	if task.DueDate == nil {
		return 0
	}
	daysUntilDue := task.DueDate.Sub(now).Hours() / 24
	return math.Max(0, ps.config.UrgencyBase-daysUntilDue)
}

// expectedProductivity blends the backlog's mean completion probability
// with the current productivity score, tilted by the efficiency trend.
func (ps *PredictionService) expectedProductivity(tasks []*entities.Task, meanProbability float64, now time.Time) float64 {
	factor := 1.0
	switch ps.metrics.EfficiencyTrend(tasks) {
	case entities.EfficiencyImproving:
		factor = ps.config.ImprovingTrendFactor
	case entities.EfficiencyDeclining:
		factor = ps.config.DecliningTrendFactor
	}

	score := ps.config.ProbabilityMixWeight*meanProbability +
		ps.config.ProductivityMixWeight*ps.metrics.CalculateProductivityScore(tasks, now)*factor

	return clamp(math.Round(score), 0, 100)
}

func countOverdue(tasks []*entities.Task, now time.Time) int {
	count := 0
	for _, task := range tasks {
		if task.IsOverdue(now) {
			count++
		}
	}
	return count
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
