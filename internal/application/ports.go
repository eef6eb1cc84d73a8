package application

import (
	"context"
	"io"

	"github.com/oksasatya/go-taskboard/internal/domain/entity"
)

// TaskIndex is the full-text index over task titles and descriptions.
type TaskIndex interface {
	IndexTask(ctx context.Context, t *entity.Task) error
	DeleteTask(ctx context.Context, id string) error
	DeleteProjectTasks(ctx context.Context, projectID string) error
	SearchTasks(ctx context.Context, projectID, q string, size int) ([]string, error)
	Enabled() bool
}

// UserIndex is the full-text index over user names and emails.
type UserIndex interface {
	IndexUser(ctx context.Context, u *entity.User) error
	SearchUsers(ctx context.Context, q string, size int) ([]string, error)
	Enabled() bool
}

type AvatarStore interface {
	Enabled() bool
	Upload(ctx context.Context, userID, filename, contentType string, r io.Reader) (string, error)
}

type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type UserCache interface {
	Get(ctx context.Context, id string) (*entity.User, bool)
	Set(ctx context.Context, u *entity.User) error
	Invalidate(ctx context.Context, id string) error
}

// RequestMeta carries client details for the audit trail.
type RequestMeta struct {
	IP        string
	UserAgent string
}
