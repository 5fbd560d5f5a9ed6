// Package storage provides the SQLite-backed task store.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"taskpulse/internal/domain/entities"
	"taskpulse/internal/domain/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	title TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	priority TEXT NOT NULL DEFAULT 'medium',
	completed INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL,
	completed_at TIMESTAMP,
	due_date TIMESTAMP,
	reminder_time TIMESTAMP,
	tags TEXT NOT NULL DEFAULT '[]',
	ai_suggested INTEGER NOT NULL DEFAULT 0,
	effort REAL
);
CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id);
CREATE INDEX IF NOT EXISTS idx_tasks_user_created ON tasks(user_id, created_at);
`

// SQLiteStorage persists task snapshots in a local SQLite database
type SQLiteStorage struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ ports.TaskStorage = (*SQLiteStorage)(nil)

// NewSQLiteStorage opens (or creates) the database at path and ensures
// the schema exists.
func NewSQLiteStorage(path string, logger *slog.Logger) (*SQLiteStorage, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.Debug("sqlite storage ready", slog.String("path", path))
	return &SQLiteStorage{db: db, logger: logger}, nil
}

// SaveTask inserts or replaces a task for a user
func (s *SQLiteStorage) SaveTask(ctx context.Context, userID string, task *entities.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}

	tags, err := json.Marshal(task.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	query := `
		INSERT INTO tasks (id, user_id, title, category, priority, completed,
			created_at, completed_at, due_date, reminder_time, tags, ai_suggested, effort)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			title = excluded.title,
			category = excluded.category,
			priority = excluded.priority,
			completed = excluded.completed,
			completed_at = excluded.completed_at,
			due_date = excluded.due_date,
			reminder_time = excluded.reminder_time,
			tags = excluded.tags,
			ai_suggested = excluded.ai_suggested,
			effort = excluded.effort
	`

	_, err = s.db.ExecContext(ctx, query,
		task.ID, userID, task.Title, task.Category, string(task.Priority),
		task.Completed, task.CreatedAt, nullableTime(task.CompletedAt),
		nullableTime(task.DueDate), nullableTime(task.ReminderTime),
		string(tags), task.AISuggested, nullableFloat(task.Effort))
	if err != nil {
		return fmt.Errorf("failed to save task %s: %w", task.ID, err)
	}
	return nil
}

// GetTasksByUser returns all tasks for a user ordered by creation time
func (s *SQLiteStorage) GetTasksByUser(ctx context.Context, userID string) ([]*entities.Task, error) {
	query := `
		SELECT id, title, category, priority, completed, created_at,
			completed_at, due_date, reminder_time, tags, ai_suggested, effort
		FROM tasks
		WHERE user_id = ?
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*entities.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return tasks, nil
}

// ListUsers returns the distinct user IDs present in the store
func (s *SQLiteStorage) ListUsers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM tasks ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []string{}
	for rows.Next() {
		var user string
		if err := rows.Scan(&user); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// HealthCheck verifies database connectivity
func (s *SQLiteStorage) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database handle
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func scanTask(rows *sql.Rows) (*entities.Task, error) {
	var (
		task        entities.Task
		priority    string
		completedAt sql.NullTime
		dueDate     sql.NullTime
		reminder    sql.NullTime
		tags        string
		effort      sql.NullFloat64
	)

	err := rows.Scan(&task.ID, &task.Title, &task.Category, &priority,
		&task.Completed, &task.CreatedAt, &completedAt, &dueDate,
		&reminder, &tags, &task.AISuggested, &effort)
	if err != nil {
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}

	task.Priority = entities.Priority(priority)
	if completedAt.Valid {
		t := completedAt.Time
		task.CompletedAt = &t
	}
	if dueDate.Valid {
		t := dueDate.Time
		task.DueDate = &t
	}
	if reminder.Valid {
		t := reminder.Time
		task.ReminderTime = &t
	}
	if effort.Valid {
		e := effort.Float64
		task.Effort = &e
	}
	if err := json.Unmarshal([]byte(tags), &task.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags for task %s: %w", task.ID, err)
	}

	return &task, nil
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func nullableFloat(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}
