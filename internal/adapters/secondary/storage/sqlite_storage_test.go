package storage

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskpulse/internal/domain/entities"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tasks.db")
	store, err := NewSQLiteStorage(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func newStoredTask(t *testing.T, title string, createdAt time.Time) *entities.Task {
	t.Helper()

	task, err := entities.NewTask(title, "Work", createdAt)
	require.NoError(t, err)
	return task
}

func TestSaveAndGetTask(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	created := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	due := created.Add(72 * time.Hour)
	effort := 1.5

	task, err := entities.NewTaskWithOptions("Write report", "Work", created, &entities.TaskOptions{
		Priority:    entities.PriorityHigh,
		DueDate:     &due,
		Tags:        []string{"quarterly", "finance"},
		AISuggested: true,
		Effort:      &effort,
	})
	require.NoError(t, err)

	require.NoError(t, store.SaveTask(ctx, "user-1", task))

	tasks, err := store.GetTasksByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	got := tasks[0]
	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, "Write report", got.Title)
	assert.Equal(t, entities.PriorityHigh, got.Priority)
	assert.True(t, got.CreatedAt.Equal(created))
	require.NotNil(t, got.DueDate)
	assert.True(t, got.DueDate.Equal(due))
	assert.Equal(t, []string{"quarterly", "finance"}, got.Tags)
	assert.True(t, got.AISuggested)
	require.NotNil(t, got.Effort)
	assert.Equal(t, 1.5, *got.Effort)
}

func TestSaveTaskUpsert(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	created := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	task := newStoredTask(t, "original", created)
	require.NoError(t, store.SaveTask(ctx, "user-1", task))

	task.Complete(created.Add(2 * time.Hour))
	require.NoError(t, store.SaveTask(ctx, "user-1", task))

	tasks, err := store.GetTasksByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)
	require.NotNil(t, tasks[0].CompletedAt)
}

func TestSaveTaskRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	bad := &entities.Task{ID: "not-a-uuid", Title: "x", Priority: entities.PriorityLow}
	assert.Error(t, store.SaveTask(ctx, "user-1", bad))
}

func TestGetTasksByUserOrdering(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	base := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	second := newStoredTask(t, "second", base.Add(time.Hour))
	first := newStoredTask(t, "first", base)

	require.NoError(t, store.SaveTask(ctx, "user-1", second))
	require.NoError(t, store.SaveTask(ctx, "user-1", first))

	tasks, err := store.GetTasksByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "first", tasks[0].Title)
	assert.Equal(t, "second", tasks[1].Title)
}

func TestGetTasksByUserIsolation(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	base := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveTask(ctx, "user-1", newStoredTask(t, "mine", base)))
	require.NoError(t, store.SaveTask(ctx, "user-2", newStoredTask(t, "theirs", base)))

	tasks, err := store.GetTasksByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "mine", tasks[0].Title)

	empty, err := store.GetTasksByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	base := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveTask(ctx, "bob", newStoredTask(t, "b", base)))
	require.NoError(t, store.SaveTask(ctx, "alice", newStoredTask(t, "a", base)))
	require.NoError(t, store.SaveTask(ctx, "alice", newStoredTask(t, "a2", base)))

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, users)
}

func TestHealthCheck(t *testing.T) {
	store := newTestStorage(t)
	assert.NoError(t, store.HealthCheck(context.Background()))
}
