package services

import (
	"sort"
	"strings"
	"time"

	"taskpulse/internal/domain/entities"
)

// ScorerConfig holds the additive point values of the intelligent
// priority score. Every component is independent, so the maximum
// reachable total exceeds 100 and the final score is clamped.
type ScorerConfig struct {
	OverduePoints      float64 `json:"overdue_points"`
	DueWithinDayPoints float64 `json:"due_within_day_points"`
	DueWithin3dPoints  float64 `json:"due_within_3d_points"`
	DueWithin7dPoints  float64 `json:"due_within_7d_points"`
	DueLaterPoints     float64 `json:"due_later_points"`

	HighPriorityPoints    float64 `json:"high_priority_points"`
	MediumPriorityPoints  float64 `json:"medium_priority_points"`
	LowPriorityPoints     float64 `json:"low_priority_points"`
	UnknownPriorityPoints float64 `json:"unknown_priority_points"`

	TinyEffortPoints    float64 `json:"tiny_effort_points"`  // effort <= 1
	SmallEffortPoints   float64 `json:"small_effort_points"` // effort <= 2
	MediumEffortPoints  float64 `json:"medium_effort_points"` // effort <= 4
	LargeEffortPoints   float64 `json:"large_effort_points"`
	UnknownEffortPoints float64 `json:"unknown_effort_points"`

	PeakHourBonus    float64 `json:"peak_hour_bonus"`
	BestWeekdayBonus float64 `json:"best_weekday_bonus"`
	AISuggestedBonus float64 `json:"ai_suggested_bonus"`

	FocusUrgencyBonus  float64 `json:"focus_urgency_bonus"`
	FocusPriorityBonus float64 `json:"focus_priority_bonus"`
	LocationTagBonus   float64 `json:"location_tag_bonus"`
	MobileEffortBonus  float64 `json:"mobile_effort_bonus"`
	CustomTagBonus     float64 `json:"custom_tag_bonus"`

	MobileEffortCeiling float64 `json:"mobile_effort_ceiling"`
	FocusUrgencyFloor   float64 `json:"focus_urgency_floor"`
}

// DefaultScorerConfig returns the default scoring point values
func DefaultScorerConfig() *ScorerConfig {
	return &ScorerConfig{
		OverduePoints:      40,
		DueWithinDayPoints: 35,
		DueWithin3dPoints:  25,
		DueWithin7dPoints:  15,
		DueLaterPoints:     5,

		HighPriorityPoints:    40,
		MediumPriorityPoints:  25,
		LowPriorityPoints:     10,
		UnknownPriorityPoints: 20,

		TinyEffortPoints:    10,
		SmallEffortPoints:   7,
		MediumEffortPoints:  4,
		LargeEffortPoints:   1,
		UnknownEffortPoints: 5,

		PeakHourBonus:    5,
		BestWeekdayBonus: 5,
		AISuggestedBonus: 5,

		FocusUrgencyBonus:  5,
		FocusPriorityBonus: 5,
		LocationTagBonus:   5,
		MobileEffortBonus:  3,
		CustomTagBonus:     3,

		MobileEffortCeiling: 2,
		FocusUrgencyFloor:   35,
	}
}

// PriorityScorer computes a 0-100 context-aware urgency score per task.
// Pattern bonuses look at the whole task list to find the user's peak
// hours and most productive weekday, so the full snapshot is a required
// input even when scoring one task.
type PriorityScorer struct {
	config  *ScorerConfig
	metrics *MetricsCalculator
}

// NewPriorityScorer creates a scorer with default point values
func NewPriorityScorer(metrics *MetricsCalculator) *PriorityScorer {
	return NewPriorityScorerWithConfig(metrics, nil)
}

// NewPriorityScorerWithConfig creates a scorer with custom point values
func NewPriorityScorerWithConfig(metrics *MetricsCalculator, config *ScorerConfig) *PriorityScorer {
	if metrics == nil {
		metrics = NewMetricsCalculator()
	}
	if config == nil {
		config = DefaultScorerConfig()
	}
	return &PriorityScorer{config: config, metrics: metrics}
}

// GetIntelligentPriorityScore returns the additive score for one task,
// clamped to [0,100]. A nil context skips the context bonuses.
func (s *PriorityScorer) GetIntelligentPriorityScore(task *entities.Task, tasks []*entities.Task, scoringCtx *entities.ScoringContext, now time.Time) float64 {
	urgency := s.urgencyPoints(task, now)

	score := urgency +
		s.priorityPoints(task) +
		s.effortPoints(task) +
		s.patternBonus(task, tasks) +
		s.aiBonus(task) +
		s.contextBonus(task, scoringCtx, urgency)

	return clamp(score, 0, 100)
}

// RankByPriority returns the tasks sorted by descending score. The input
// slice is never mutated; ties keep their relative input order.
func (s *PriorityScorer) RankByPriority(tasks []*entities.Task, scoringCtx *entities.ScoringContext, now time.Time) []*entities.Task {
	ranked := make([]*entities.Task, len(tasks))
	copy(ranked, tasks)

	scores := make(map[string]float64, len(tasks))
	for _, task := range tasks {
		scores[task.ID] = s.GetIntelligentPriorityScore(task, tasks, scoringCtx, now)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i].ID] > scores[ranked[j].ID]
	})
	return ranked
}

func (s *PriorityScorer) urgencyPoints(task *entities.Task, now time.Time) float64 {
	if task.DueDate == nil {
		return 0
	}
	until := task.DueDate.Sub(now)
	switch {
	case until < 0:
		return s.config.OverduePoints
	case until < 24*time.Hour:
		return s.config.DueWithinDayPoints
	case until < 3*24*time.Hour:
		return s.config.DueWithin3dPoints
	case until < 7*24*time.Hour:
		return s.config.DueWithin7dPoints
	default:
		return s.config.DueLaterPoints
	}
}

func (s *PriorityScorer) priorityPoints(task *entities.Task) float64 {
	switch task.Priority {
	case entities.PriorityHigh:
		return s.config.HighPriorityPoints
	case entities.PriorityMedium:
		return s.config.MediumPriorityPoints
	case entities.PriorityLow:
		return s.config.LowPriorityPoints
	default:
		return s.config.UnknownPriorityPoints
	}
}

func (s *PriorityScorer) effortPoints(task *entities.Task) float64 {
	if task.Effort == nil {
		return s.config.UnknownEffortPoints
	}
	switch effort := *task.Effort; {
	case effort <= 1:
		return s.config.TinyEffortPoints
	case effort <= 2:
		return s.config.SmallEffortPoints
	case effort <= 4:
		return s.config.MediumEffortPoints
	default:
		return s.config.LargeEffortPoints
	}
}

// patternBonus rewards alignment with the user's observed habits: a
// reminder set inside a peak productivity hour, or a due date landing on
// the weekday the user completes the most tasks.
func (s *PriorityScorer) patternBonus(task *entities.Task, tasks []*entities.Task) float64 {
	bonus := 0.0

	if task.ReminderTime != nil {
		reminderHour := task.ReminderTime.Hour()
		for _, hour := range s.metrics.peakHours(tasks) {
			if hour == reminderHour {
				bonus += s.config.PeakHourBonus
				break
			}
		}
	}

	if task.DueDate != nil {
		if weekday, ok := mostProductiveWeekday(tasks); ok && task.DueDate.Weekday() == weekday {
			bonus += s.config.BestWeekdayBonus
		}
	}

	return bonus
}

func (s *PriorityScorer) aiBonus(task *entities.Task) float64 {
	if task.AISuggested {
		return s.config.AISuggestedBonus
	}
	return 0
}

// contextBonus applies the caller-supplied situational bonuses. Each
// clause is independently additive.
func (s *PriorityScorer) contextBonus(task *entities.Task, scoringCtx *entities.ScoringContext, urgency float64) float64 {
	if scoringCtx == nil {
		return 0
	}

	bonus := 0.0

	if scoringCtx.FocusMode {
		if urgency >= s.config.FocusUrgencyFloor {
			bonus += s.config.FocusUrgencyBonus
		}
		if task.Priority == entities.PriorityHigh {
			bonus += s.config.FocusPriorityBonus
		}
	}

	if scoringCtx.Location != "" && task.HasTag(scoringCtx.Location) {
		bonus += s.config.LocationTagBonus
	}

	if strings.EqualFold(scoringCtx.Device, "mobile") &&
		task.Effort != nil && *task.Effort <= s.config.MobileEffortCeiling {
		bonus += s.config.MobileEffortBonus
	}

	for _, tag := range scoringCtx.Tags {
		if task.HasTag(tag) {
			bonus += s.config.CustomTagBonus
			break
		}
	}

	return bonus
}

// mostProductiveWeekday returns the weekday on which the most tasks were
// completed. The boolean is false when nothing is completed yet.
func mostProductiveWeekday(tasks []*entities.Task) (time.Weekday, bool) {
	counts := make(map[time.Weekday]int)
	order := []time.Weekday{}
	for _, task := range tasks {
		if !task.Completed {
			continue
		}
		day := completionInstant(task).Weekday()
		if _, exists := counts[day]; !exists {
			order = append(order, day)
		}
		counts[day]++
	}
	if len(order) == 0 {
		return time.Sunday, false
	}

	best := order[0]
	for _, day := range order[1:] {
		if counts[day] > counts[best] {
			best = day
		}
	}
	return best, true
}
