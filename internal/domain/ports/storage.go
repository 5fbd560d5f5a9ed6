// Package ports defines the interfaces between the analytics engine and
// its external collaborators.
package ports

import (
	"context"

	"taskpulse/internal/domain/entities"
)

// TaskStorage is the storage collaborator that produces task snapshots
// for a user. The engine only ever reads from it; analytics results are
// never persisted through this port.
type TaskStorage interface {
	SaveTask(ctx context.Context, userID string, task *entities.Task) error
	GetTasksByUser(ctx context.Context, userID string) ([]*entities.Task, error)
	ListUsers(ctx context.Context) ([]string, error)
	HealthCheck(ctx context.Context) error
	Close() error
}
