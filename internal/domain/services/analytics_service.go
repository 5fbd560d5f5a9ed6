package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"taskpulse/internal/domain/entities"
	"taskpulse/internal/domain/ports"
)

// AnalyticsService is the primary entry point for analytics consumers.
// Every method loads the user's task snapshot once and hands it to the
// pure calculators with an explicit reference instant.
type AnalyticsService interface {
	GetAnalytics(ctx context.Context, userID string, period entities.Period) (*entities.AnalyticsData, error)
	GetAdvancedMetrics(ctx context.Context, userID string) (*entities.AdvancedProductivityMetrics, error)
	GetPredictiveInsights(ctx context.Context, userID string) (*entities.PredictiveInsights, error)
	GetPersonalizedInsights(ctx context.Context, userID string) (*entities.PersonalizedInsights, error)
	PredictTask(ctx context.Context, userID, taskID string) (*entities.TaskPrediction, error)
	RankTasks(ctx context.Context, userID string, scoringCtx *entities.ScoringContext) ([]*entities.Task, error)
	ExportAnalytics(ctx context.Context, userID string, period entities.Period) (string, error)
}

// AnalyticsExporter serializes an analytics result for external
// consumption.
type AnalyticsExporter interface {
	Export(data *entities.AnalyticsData, now time.Time) (string, error)
}

// AnalyticsServiceDeps contains the dependencies for the analytics
// service
type AnalyticsServiceDeps struct {
	TaskStore   ports.TaskStorage
	Exporter    AnalyticsExporter
	Analytics   *AnalyticsCalculator
	Metrics     *MetricsCalculator
	Predictions *PredictionService
	Insights    *InsightGenerator
	Scorer      *PriorityScorer
	Logger      *slog.Logger
	Clock       func() time.Time
}

type analyticsService struct {
	store       ports.TaskStorage
	exporter    AnalyticsExporter
	analytics   *AnalyticsCalculator
	metrics     *MetricsCalculator
	predictions *PredictionService
	insights    *InsightGenerator
	scorer      *PriorityScorer
	logger      *slog.Logger
	clock       func() time.Time
}

// NewAnalyticsService creates a new analytics service. Nil calculators
// fall back to defaults so callers only wire what they customize.
func NewAnalyticsService(deps AnalyticsServiceDeps) AnalyticsService {
	if deps.Analytics == nil {
		deps.Analytics = NewAnalyticsCalculator()
	}
	if deps.Metrics == nil {
		deps.Metrics = NewMetricsCalculator()
	}
	if deps.Predictions == nil {
		deps.Predictions = NewPredictionService(deps.Metrics)
	}
	if deps.Insights == nil {
		deps.Insights = NewInsightGenerator(deps.Analytics, deps.Metrics, deps.Predictions)
	}
	if deps.Scorer == nil {
		deps.Scorer = NewPriorityScorer(deps.Metrics)
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &analyticsService{
		store:       deps.TaskStore,
		exporter:    deps.Exporter,
		analytics:   deps.Analytics,
		metrics:     deps.Metrics,
		predictions: deps.Predictions,
		insights:    deps.Insights,
		scorer:      deps.Scorer,
		logger:      deps.Logger,
		clock:       deps.Clock,
	}
}

func (s *analyticsService) loadTasks(ctx context.Context, userID string) ([]*entities.Task, error) {
	tasks, err := s.store.GetTasksByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks for user %s: %w", userID, err)
	}
	return tasks, nil
}

func (s *analyticsService) GetAnalytics(ctx context.Context, userID string, period entities.Period) (*entities.AnalyticsData, error) {
	if !period.IsValid() {
		return nil, fmt.Errorf("%w: %q", entities.ErrInvalidPeriod, period)
	}

	tasks, err := s.loadTasks(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	data := s.analytics.BuildAnalytics(tasks, period, now)

	s.logger.Debug("analytics generated",
		slog.String("user_id", userID),
		slog.String("period", string(period)),
		slog.Int("tasks", len(tasks)))

	return data, nil
}

func (s *analyticsService) GetAdvancedMetrics(ctx context.Context, userID string) (*entities.AdvancedProductivityMetrics, error) {
	tasks, err := s.loadTasks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.metrics.CalculateAdvancedMetrics(tasks, s.clock()), nil
}

func (s *analyticsService) GetPredictiveInsights(ctx context.Context, userID string) (*entities.PredictiveInsights, error) {
	tasks, err := s.loadTasks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.predictions.GeneratePredictiveInsights(tasks, s.clock()), nil
}

func (s *analyticsService) GetPersonalizedInsights(ctx context.Context, userID string) (*entities.PersonalizedInsights, error) {
	tasks, err := s.loadTasks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.insights.GeneratePersonalizedInsights(tasks, s.clock()), nil
}

func (s *analyticsService) PredictTask(ctx context.Context, userID, taskID string) (*entities.TaskPrediction, error) {
	tasks, err := s.loadTasks(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, task := range tasks {
		if task.ID == taskID {
			return s.predictions.PredictTask(task, tasks, s.clock()), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", entities.ErrTaskNotFound, taskID)
}

func (s *analyticsService) RankTasks(ctx context.Context, userID string, scoringCtx *entities.ScoringContext) ([]*entities.Task, error) {
	tasks, err := s.loadTasks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.scorer.RankByPriority(tasks, scoringCtx, s.clock()), nil
}

func (s *analyticsService) ExportAnalytics(ctx context.Context, userID string, period entities.Period) (string, error) {
	data, err := s.GetAnalytics(ctx, userID, period)
	if err != nil {
		return "", err
	}

	out, err := s.exporter.Export(data, s.clock())
	if err != nil {
		return "", fmt.Errorf("failed to export analytics: %w", err)
	}

	s.logger.Info("analytics exported",
		slog.String("user_id", userID),
		slog.String("period", string(period)))

	return out, nil
}
