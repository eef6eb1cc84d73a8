package repository

import (
	"context"

	"github.com/oksasatya/go-taskboard/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByIDs returns the users that exist among ids; unknown ids are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	// Search matches q against name and email; used when the search index is off.
	Search(ctx context.Context, q string, limit int) ([]*entity.User, error)
}
