package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/oksasatya/go-taskboard/internal/domain/entity"
	"github.com/oksasatya/go-taskboard/pkg/helpers"
)

// Password is the plain-text password of every fixture user.
const Password = "secret123"

var (
	hashOnce sync.Once
	hash     string
)

func passwordHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		h, err := helpers.HashPassword(Password)
		if err != nil {
			t.Fatalf("hash password: %v", err)
		}
		hash = h
	})
	return hash
}

// Fixtures creates test data directly in the in-memory repositories.
type Fixtures struct {
	t        *testing.T
	Users    *UserRepo
	Projects *ProjectRepo
	Tasks    *TaskRepo
}

func NewFixtures(t *testing.T) *Fixtures {
	t.Helper()
	return &Fixtures{t: t, Users: NewUserRepo(), Projects: NewProjectRepo(), Tasks: NewTaskRepo()}
}

// TestContext returns a context with a timeout suitable for tests.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// CreateUser stores a user whose password is Password.
func (f *Fixtures) CreateUser(name, email string) *entity.User {
	f.t.Helper()
	u := &entity.User{Name: name, Email: email, Password: passwordHash(f.t), AvatarURL: entity.DefaultAvatarURL(name)}
	if err := f.Users.Create(context.Background(), u); err != nil {
		f.t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

// CreateProject stores a project owned by owner with the extra members given.
func (f *Fixtures) CreateProject(owner *entity.User, name string, members ...*entity.User) *entity.Project {
	f.t.Helper()
	p := &entity.Project{Name: name, Description: name + " description", OwnerID: owner.ID, MemberIDs: []string{owner.ID}}
	for _, m := range members {
		p.MemberIDs = append(p.MemberIDs, m.ID)
	}
	if err := f.Projects.Create(context.Background(), p); err != nil {
		f.t.Fatalf("create project %s: %v", name, err)
	}
	return p
}

// CreateTask stores a todo task in project. assignee may be nil.
func (f *Fixtures) CreateTask(creator *entity.User, project *entity.Project, title string, assignee *entity.User) *entity.Task {
	f.t.Helper()
	t := &entity.Task{
		Title:       title,
		Description: title + " description",
		Status:      entity.StatusTodo,
		Priority:    entity.PriorityMedium,
		ProjectID:   project.ID,
		CreatedBy:   creator.ID,
	}
	if assignee != nil {
		id := assignee.ID
		t.AssigneeID = &id
	}
	if err := f.Tasks.Create(context.Background(), t); err != nil {
		f.t.Fatalf("create task %s: %v", title, err)
	}
	return t
}
