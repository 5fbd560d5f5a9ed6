package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskpulse/internal/domain/entities"
)

type mockTaskStorage struct {
	mock.Mock
}

func (m *mockTaskStorage) SaveTask(ctx context.Context, userID string, task *entities.Task) error {
	args := m.Called(ctx, userID, task)
	return args.Error(0)
}

func (m *mockTaskStorage) GetTasksByUser(ctx context.Context, userID string) ([]*entities.Task, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Task), args.Error(1)
}

func (m *mockTaskStorage) ListUsers(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockTaskStorage) HealthCheck(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockTaskStorage) Close() error {
	return m.Called().Error(0)
}

type stubExporter struct {
	out string
	err error
}

func (s *stubExporter) Export(data *entities.AnalyticsData, now time.Time) (string, error) {
	return s.out, s.err
}

func newTestService(store *mockTaskStorage, exporter AnalyticsExporter) AnalyticsService {
	return NewAnalyticsService(AnalyticsServiceDeps{
		TaskStore: store,
		Exporter:  exporter,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Clock:     testNow,
	})
}

func TestGetAnalytics(t *testing.T) {
	now := testNow()
	store := new(mockTaskStorage)
	svc := newTestService(store, nil)

	tasks := []*entities.Task{
		newCompletedTask("a", "Work", entities.PriorityMedium, now.Add(-24*time.Hour), now.Add(-time.Hour)),
		newTestTask("b", "Work", entities.PriorityMedium, now.Add(-2*time.Hour)),
	}
	store.On("GetTasksByUser", mock.Anything, "user-1").Return(tasks, nil)

	data, err := svc.GetAnalytics(context.Background(), "user-1", entities.PeriodWeek)

	require.NoError(t, err)
	assert.Equal(t, entities.PeriodWeek, data.Period)
	assert.Equal(t, 2, data.Overview.TotalTasks)
	assert.Equal(t, 1, data.Overview.CompletedTasks)
	assert.Equal(t, now, data.GeneratedAt)
	store.AssertExpectations(t)
}

func TestGetAnalyticsInvalidPeriod(t *testing.T) {
	store := new(mockTaskStorage)
	svc := newTestService(store, nil)

	_, err := svc.GetAnalytics(context.Background(), "user-1", entities.Period("fortnight"))

	assert.ErrorIs(t, err, entities.ErrInvalidPeriod)
	store.AssertNotCalled(t, "GetTasksByUser")
}

func TestGetAnalyticsStorageFailure(t *testing.T) {
	store := new(mockTaskStorage)
	svc := newTestService(store, nil)

	store.On("GetTasksByUser", mock.Anything, "user-1").Return(nil, errors.New("disk gone"))

	_, err := svc.GetAnalytics(context.Background(), "user-1", entities.PeriodWeek)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}

func TestPredictTaskNotFound(t *testing.T) {
	store := new(mockTaskStorage)
	svc := newTestService(store, nil)

	store.On("GetTasksByUser", mock.Anything, "user-1").Return([]*entities.Task{}, nil)

	_, err := svc.PredictTask(context.Background(), "user-1", "missing-id")

	assert.ErrorIs(t, err, entities.ErrTaskNotFound)
}

func TestPredictTaskFound(t *testing.T) {
	now := testNow()
	store := new(mockTaskStorage)
	svc := newTestService(store, nil)

	task := newTestTask("predict me", "Work", entities.PriorityMedium, now.Add(-time.Hour))
	store.On("GetTasksByUser", mock.Anything, "user-1").Return([]*entities.Task{task}, nil)

	prediction, err := svc.PredictTask(context.Background(), "user-1", task.ID)

	require.NoError(t, err)
	assert.Equal(t, task.ID, prediction.TaskID)
	assert.Equal(t, 45, prediction.EstimatedCompletionTime)
}

func TestRankTasks(t *testing.T) {
	now := testNow()
	store := new(mockTaskStorage)
	svc := newTestService(store, nil)

	low := newTestTask("low", "Work", entities.PriorityLow, now.Add(-time.Hour))
	high := newTestTask("high", "Work", entities.PriorityHigh, now.Add(-time.Hour))
	store.On("GetTasksByUser", mock.Anything, "user-1").Return([]*entities.Task{low, high}, nil)

	ranked, err := svc.RankTasks(context.Background(), "user-1", nil)

	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "high", ranked[0].Title)
}

func TestExportAnalytics(t *testing.T) {
	now := testNow()
	store := new(mockTaskStorage)
	exporter := &stubExporter{out: `{"period":"week"}`}
	svc := newTestService(store, exporter)

	store.On("GetTasksByUser", mock.Anything, "user-1").Return([]*entities.Task{
		newTestTask("a", "Work", entities.PriorityMedium, now.Add(-time.Hour)),
	}, nil)

	out, err := svc.ExportAnalytics(context.Background(), "user-1", entities.PeriodWeek)

	require.NoError(t, err)
	assert.Equal(t, `{"period":"week"}`, out)
}

func TestExportAnalyticsExporterFailure(t *testing.T) {
	now := testNow()
	store := new(mockTaskStorage)
	exporter := &stubExporter{err: errors.New("encode failed")}
	svc := newTestService(store, exporter)

	store.On("GetTasksByUser", mock.Anything, "user-1").Return([]*entities.Task{
		newTestTask("a", "Work", entities.PriorityMedium, now.Add(-time.Hour)),
	}, nil)

	_, err := svc.ExportAnalytics(context.Background(), "user-1", entities.PeriodWeek)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "encode failed")
}

func TestGetPersonalizedInsights(t *testing.T) {
	store := new(mockTaskStorage)
	svc := newTestService(store, nil)

	store.On("GetTasksByUser", mock.Anything, "user-1").Return([]*entities.Task{}, nil)

	insights, err := svc.GetPersonalizedInsights(context.Background(), "user-1")

	require.NoError(t, err)
	assert.NotNil(t, insights)
	assert.LessOrEqual(t, len(insights.Recommendations), 5)
}
