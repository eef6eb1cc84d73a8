package repository

import (
	"context"

	"github.com/oksasatya/go-taskboard/internal/domain/entity"
)

// ProjectRepository persists project documents.
type ProjectRepository interface {
	Create(ctx context.Context, p *entity.Project) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	// ListForUser returns projects the user owns or is a member of.
	ListForUser(ctx context.Context, userID string) ([]*entity.Project, error)
	// UpdateInfo rewrites name and description.
	UpdateInfo(ctx context.Context, p *entity.Project) error
	// Delete removes the project only while ownerID still owns it.
	Delete(ctx context.Context, id, ownerID string) error
	// AddMember and RemoveMember are single atomic document updates.
	// Both return the project as stored after the update.
	AddMember(ctx context.Context, projectID, userID string) (*entity.Project, error)
	RemoveMember(ctx context.Context, projectID, userID string) (*entity.Project, error)
}
