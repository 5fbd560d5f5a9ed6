package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskpulse/internal/domain/entities"
)

func TestPredictTaskWithoutHistory(t *testing.T) {
	now := testNow()
	svc := NewPredictionService(nil)

	task := newTestTask("write report", "Work", entities.PriorityMedium, now.Add(-time.Hour))

	prediction := svc.PredictTask(task, []*entities.Task{task}, now)

	assert.Equal(t, task.ID, prediction.TaskID)
	assert.Equal(t, 45, prediction.EstimatedCompletionTime)
	assert.Equal(t, 70.0, prediction.CompletionProbability)
	assert.Equal(t, "9 AM", prediction.OptimalScheduling)
	assert.Zero(t, prediction.Confidence)
}

func TestPredictTaskPriorityScalesEstimate(t *testing.T) {
	now := testNow()
	svc := NewPredictionService(nil)

	high := newTestTask("urgent", "Work", entities.PriorityHigh, now)
	low := newTestTask("whenever", "Work", entities.PriorityLow, now)

	assert.Equal(t, 36, svc.PredictTask(high, []*entities.Task{high}, now).EstimatedCompletionTime)
	assert.Equal(t, 54, svc.PredictTask(low, []*entities.Task{low}, now).EstimatedCompletionTime)
}

func TestPredictTaskUsesSimilarHistory(t *testing.T) {
	now := testNow()
	svc := NewPredictionService(nil)

	completedAt := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	similarOne := newCompletedTask("old report", "Work", entities.PriorityMedium,
		completedAt.Add(-2*time.Hour), completedAt)
	similarTwo := newCompletedTask("older report", "Work", entities.PriorityMedium,
		completedAt.Add(-2*time.Hour), completedAt)
	unrelated := newCompletedTask("groceries", "Home", entities.PriorityMedium,
		completedAt.Add(-10*time.Hour), completedAt)

	task := newTestTask("new report", "Work", entities.PriorityMedium, now.Add(-time.Hour))
	tasks := []*entities.Task{similarOne, similarTwo, unrelated, task}

	prediction := svc.PredictTask(task, tasks, now)

	// Two similar tasks, both completed in two hours at 2 PM
	assert.Equal(t, 120, prediction.EstimatedCompletionTime)
	assert.Equal(t, 100.0, prediction.CompletionProbability)
	assert.Equal(t, "2 PM", prediction.OptimalScheduling)
	assert.Greater(t, prediction.Confidence, 0.0)
}

func TestCompletionProbabilityDueDateScaling(t *testing.T) {
	now := testNow()
	svc := NewPredictionService(nil)

	dueSoon := now.Add(12 * time.Hour)
	soon := newTestTask("due soon", "Work", entities.PriorityMedium, now.Add(-time.Hour))
	soon.DueDate = &dueSoon

	dueFar := now.Add(10 * 24 * time.Hour)
	far := newTestTask("due far", "Work", entities.PriorityMedium, now.Add(-time.Hour))
	far.DueDate = &dueFar

	// Default 70 scaled by 0.8 when due within a day, 1.1 beyond a week
	assert.Equal(t, 56.0, svc.PredictTask(soon, []*entities.Task{soon}, now).CompletionProbability)
	assert.Equal(t, 77.0, svc.PredictTask(far, []*entities.Task{far}, now).CompletionProbability)
}

func TestCompletionProbabilityOverdueBacklogScaling(t *testing.T) {
	now := testNow()
	svc := NewPredictionService(nil)

	due := now.Add(-24 * time.Hour)
	tasks := []*entities.Task{}
	for i := 0; i < 3; i++ {
		late := newTestTask("late", "Errands", entities.PriorityLow, now.Add(-48*time.Hour))
		late.DueDate = &due
		tasks = append(tasks, late)
	}
	task := newTestTask("plain", "Work", entities.PriorityMedium, now.Add(-time.Hour))
	tasks = append(tasks, task)

	// Default 70 scaled by 0.9 with more than two overdue tasks
	assert.Equal(t, 63.0, svc.PredictTask(task, tasks, now).CompletionProbability)
}

func TestPredictionConfidenceShrinksWithTitleLength(t *testing.T) {
	now := testNow()
	svc := NewPredictionService(nil)

	history := []*entities.Task{}
	for i := 0; i < 5; i++ {
		history = append(history, newCompletedTask("done", "Work", entities.PriorityMedium,
			now.Add(-3*time.Hour), now.Add(-2*time.Hour)))
	}

	short := newTestTask("ok", "Work", entities.PriorityMedium, now)
	long := newTestTask("a very long and winding task title that goes on forever", "Work", entities.PriorityMedium, now)

	shortConfidence := svc.PredictTask(short, append(history, short), now).Confidence
	longConfidence := svc.PredictTask(long, append(history, long), now).Confidence

	assert.Greater(t, shortConfidence, longConfidence)
	assert.LessOrEqual(t, shortConfidence, 90.0)
}

func TestGeneratePredictiveInsightsEmptyBacklog(t *testing.T) {
	now := testNow()
	svc := NewPredictionService(nil)

	insights := svc.GeneratePredictiveInsights(nil, now)

	assert.Zero(t, insights.EstimatedCompletionTime)
	assert.Zero(t, insights.CompletionProbability)
	assert.Empty(t, insights.RecommendedTaskOrder)
	assert.Equal(t, "9 AM", insights.OptimalSchedulingTime)
	assert.Zero(t, insights.ExpectedProductivity)
}

func TestGeneratePredictiveInsights(t *testing.T) {
	now := testNow()
	svc := NewPredictionService(nil)

	high := newTestTask("urgent", "Work", entities.PriorityHigh, now.Add(-time.Hour))
	low := newTestTask("whenever", "Chores", entities.PriorityLow, now.Add(-time.Hour))
	tasks := []*entities.Task{high, low}

	insights := svc.GeneratePredictiveInsights(tasks, now)

	// 36 (high) + 54 (low) default estimates
	assert.Equal(t, 90, insights.EstimatedCompletionTime)
	assert.Equal(t, 70.0, insights.CompletionProbability)
	require.Len(t, insights.RecommendedTaskOrder, 2)
	assert.Equal(t, high.ID, insights.RecommendedTaskOrder[0])
	assert.Equal(t, low.ID, insights.RecommendedTaskOrder[1])
	assert.GreaterOrEqual(t, insights.ExpectedProductivity, 0.0)
	assert.LessOrEqual(t, insights.ExpectedProductivity, 100.0)
}

func TestRecommendOrderPrefersUrgentDueDates(t *testing.T) {
	now := testNow()
	svc := NewPredictionService(nil)

	dueTomorrow := now.Add(24 * time.Hour)
	urgent := newTestTask("due tomorrow", "Work", entities.PriorityMedium, now.Add(-time.Hour))
	urgent.DueDate = &dueTomorrow

	relaxed := newTestTask("no due date", "Work", entities.PriorityMedium, now.Add(-time.Hour))

	insights := svc.GeneratePredictiveInsights([]*entities.Task{relaxed, urgent}, now)

	require.Len(t, insights.RecommendedTaskOrder, 2)
	assert.Equal(t, urgent.ID, insights.RecommendedTaskOrder[0])
}
