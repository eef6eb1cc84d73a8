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

// TaskRepo is an in-memory repository.TaskRepository.
type TaskRepo struct {
	mu    sync.RWMutex
	seq   int64
	tasks map[string]entity.Task
	order map[string]int64
}

func NewTaskRepo() *TaskRepo {
	return &TaskRepo{tasks: map[string]entity.Task{}, order: map[string]int64{}}
}

func (r *TaskRepo) Create(_ context.Context, t *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID().Hex()
	t.CreatedAt, t.UpdatedAt = now, now
	r.seq++
	r.order[t.ID] = r.seq
	r.tasks[t.ID] = *t
	return nil
}

func (r *TaskRepo) GetByID(_ context.Context, id string) (*entity.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

// filter returns matching tasks newest first.
func (r *TaskRepo) filter(keep func(entity.Task) bool) []*entity.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*entity.Task{}
	for _, t := range r.tasks {
		if keep(t) {
			out = append(out, &t)
		}
	}
	slices.SortFunc(out, func(a, b *entity.Task) int {
		return int(r.order[b.ID] - r.order[a.ID])
	})
	return out
}

func (r *TaskRepo) ListByProject(_ context.Context, projectID string) ([]*entity.Task, error) {
	return r.filter(func(t entity.Task) bool { return t.ProjectID == projectID }), nil
}

func (r *TaskRepo) ListForUser(_ context.Context, userID string) ([]*entity.Task, error) {
	return r.filter(func(t entity.Task) bool { return t.IsCreator(userID) || t.IsAssignee(userID) }), nil
}

func (r *TaskRepo) Update(_ context.Context, t *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.tasks[t.ID]
	if !ok {
		return repository.ErrNotFound
	}
	t.UpdatedAt = time.Now().UTC()
	// immutable fields are kept from the stored copy
	t.ProjectID, t.CreatedBy, t.CreatedAt = cur.ProjectID, cur.CreatedBy, cur.CreatedAt
	r.tasks[t.ID] = *t
	return nil
}

func (r *TaskRepo) UpdateStatus(_ context.Context, id string, status entity.TaskStatus) (*entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	r.tasks[id] = t
	return &t, nil
}

func (r *TaskRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *TaskRepo) DeleteByProject(_ context.Context, projectID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for id, t := range r.tasks {
		if t.ProjectID == projectID {
			ids = append(ids, id)
			delete(r.tasks, id)
		}
	}
	return ids, nil
}

// Len reports how many tasks are stored.
func (r *TaskRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}

var _ repository.TaskRepository = (*TaskRepo)(nil)
