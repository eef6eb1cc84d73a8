package repository

import (
	"context"

	"github.com/oksasatya/go-taskboard/internal/domain/entity"
)

// TaskRepository persists task documents.
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	GetByID(ctx context.Context, id string) (*entity.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*entity.Task, error)
	// ListForUser returns tasks the user created or is assigned to.
	ListForUser(ctx context.Context, userID string) ([]*entity.Task, error)
	Update(ctx context.Context, t *entity.Task) error
	UpdateStatus(ctx context.Context, id string, status entity.TaskStatus) (*entity.Task, error)
	Delete(ctx context.Context, id string) error
	DeleteByProject(ctx context.Context, projectID string) ([]string, error)
}
