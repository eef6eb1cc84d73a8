package testutil

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/go-taskboard/internal/domain/entity"
	"github.com/oksasatya/go-taskboard/internal/domain/repository"
)

// ProjectRepo is an in-memory repository.ProjectRepository. Member edits
// happen under the write lock, matching the single-document atomicity of the
// Mongo implementation.
type ProjectRepo struct {
	mu       sync.RWMutex
	projects map[string]entity.Project
}

func NewProjectRepo() *ProjectRepo {
	return &ProjectRepo{projects: map[string]entity.Project{}}
}

func cloneProject(p entity.Project) *entity.Project {
	p.MemberIDs = slices.Clone(p.MemberIDs)
	return &p
}

func (r *ProjectRepo) Create(_ context.Context, p *entity.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID().Hex()
	p.CreatedAt, p.UpdatedAt = now, now
	p.EnsureOwnerMember()
	r.projects[p.ID] = *cloneProject(*p)
	return nil
}

func (r *ProjectRepo) GetByID(_ context.Context, id string) (*entity.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneProject(p), nil
}

func (r *ProjectRepo) ListForUser(_ context.Context, userID string) ([]*entity.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*entity.Project{}
	for _, p := range r.projects {
		if p.OwnerID == userID || slices.Contains(p.MemberIDs, userID) {
			out = append(out, cloneProject(p))
		}
	}
	slices.SortFunc(out, func(a, b *entity.Project) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (r *ProjectRepo) UpdateInfo(_ context.Context, p *entity.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.projects[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Name, cur.Description = p.Name, p.Description
	cur.UpdatedAt = time.Now().UTC()
	p.UpdatedAt = cur.UpdatedAt
	r.projects[p.ID] = cur
	return nil
}

func (r *ProjectRepo) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.projects[id]; !ok || p.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

func (r *ProjectRepo) AddMember(_ context.Context, projectID, userID string) (*entity.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[projectID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if slices.Contains(p.MemberIDs, userID) {
		return nil, repository.ErrDuplicate
	}
	p.MemberIDs = append(slices.Clone(p.MemberIDs), userID)
	p.UpdatedAt = time.Now().UTC()
	r.projects[projectID] = p
	return cloneProject(p), nil
}

func (r *ProjectRepo) RemoveMember(_ context.Context, projectID, userID string) (*entity.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[projectID]
	if !ok || p.OwnerID == userID {
		return nil, repository.ErrNotFound
	}
	p.MemberIDs = slices.DeleteFunc(slices.Clone(p.MemberIDs), func(id string) bool { return id == userID })
	p.UpdatedAt = time.Now().UTC()
	r.projects[projectID] = p
	return cloneProject(p), nil
}

// Len reports how many projects are stored.
func (r *ProjectRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.projects)
}

var _ repository.ProjectRepository = (*ProjectRepo)(nil)
