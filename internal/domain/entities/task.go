// Package entities defines core data structures and business entities
// for the taskpulse analytics engine.
package entities

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Priority indicates task importance level
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priority weights used by aggregations and ranking. Unrecognized
// priorities map to the medium weight rather than failing.
const (
	WeightHigh    = 3.0
	WeightMedium  = 2.0
	WeightLow     = 1.0
	WeightNeutral = 2.0
)

// Task represents a single task record as produced by the storage
// collaborator. The analytics engine treats tasks as read-only input and
// never mutates them.
type Task struct {
	ID           string     `json:"id" validate:"required,uuid"`
	Title        string     `json:"title" validate:"required,max=255"`
	Category     string     `json:"category" validate:"max=100"`
	Priority     Priority   `json:"priority" validate:"required,oneof=low medium high"`
	Completed    bool       `json:"completed"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	ReminderTime *time.Time `json:"reminder_time,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	AISuggested  bool       `json:"ai_suggested"`
	Effort       *float64   `json:"effort,omitempty" validate:"omitempty,gte=0"`
}

// TaskOptions holds optional parameters for task creation
type TaskOptions struct {
	Priority     Priority
	DueDate      *time.Time
	ReminderTime *time.Time
	Tags         []string
	AISuggested  bool
	Effort       *float64
}

// NewTask creates a new task with required fields and default values
func NewTask(title, category string, now time.Time) (*Task, error) {
	return NewTaskWithOptions(title, category, now, nil)
}

// NewTaskWithOptions creates a new task with optional parameters
func NewTaskWithOptions(title, category string, now time.Time, options *TaskOptions) (*Task, error) {
	task := &Task{
		ID:        uuid.New().String(),
		Title:     strings.TrimSpace(title),
		Category:  strings.TrimSpace(category),
		Priority:  PriorityMedium,
		CreatedAt: now,
	}

	if options != nil {
		task.DueDate = options.DueDate
		task.ReminderTime = options.ReminderTime
		task.Tags = options.Tags
		task.AISuggested = options.AISuggested
		task.Effort = options.Effort

		if options.Priority != "" {
			task.Priority = options.Priority
		}
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if task fields meet business rules
func (t *Task) Validate() error {
	validate := validator.New()
	return validate.Struct(t)
}

// Complete marks the task as finished at the given instant
func (t *Task) Complete(now time.Time) {
	t.Completed = true
	t.CompletedAt = &now
}

// IsValidPriority checks if a priority value is valid
func IsValidPriority(priority string) bool {
	switch Priority(priority) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Weight returns the numeric weight for a priority. Unknown priorities
// get a neutral middle weight.
func (p Priority) Weight() float64 {
	switch p {
	case PriorityHigh:
		return WeightHigh
	case PriorityMedium:
		return WeightMedium
	case PriorityLow:
		return WeightLow
	default:
		return WeightNeutral
	}
}

// IsOverdue checks if the task is past its due date at the given instant
func (t *Task) IsOverdue(now time.Time) bool {
	if t.Completed || t.DueDate == nil {
		return false
	}
	return t.DueDate.Before(now)
}

// IsDueSoon checks if the task is due within the specified duration
func (t *Task) IsDueSoon(now time.Time, within time.Duration) bool {
	if t.Completed || t.DueDate == nil {
		return false
	}
	return t.DueDate.Sub(now) <= within
}

// HasTag checks if the task contains a specific tag (case-insensitive)
func (t *Task) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if strings.EqualFold(existing, tag) {
			return true
		}
	}
	return false
}

// CompletionDuration returns the elapsed time between creation and
// completion. The second return value is false when the task is not
// completed or carries no completion timestamp; that is treated as
// "unknown duration", never as an error.
func (t *Task) CompletionDuration() (time.Duration, bool) {
	if !t.Completed || t.CompletedAt == nil {
		return 0, false
	}
	return t.CompletedAt.Sub(t.CreatedAt), true
}
