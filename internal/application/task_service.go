package application

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-taskboard/internal/domain/access"
	"github.com/oksasatya/go-taskboard/internal/domain/apperror"
	"github.com/oksasatya/go-taskboard/internal/domain/entity"
	"github.com/oksasatya/go-taskboard/internal/domain/repository"
	"github.com/oksasatya/go-taskboard/internal/domain/workflow"
)

const msgTaskNotFound = "Task not found"

type TaskService struct {
	Projects repository.ProjectRepository
	Tasks    repository.TaskRepository
	Users    repository.UserRepository
	Index    TaskIndex
	Notifier *Notifier
	Audit    *AuditRecorder
	Logger   *logrus.Logger
}

type CreateTaskInput struct {
	ProjectID   string
	Title       string
	Description string
	Status      string
	Priority    string
	AssigneeID  *string
	DueDate     *time.Time
}

// UpdateTaskInput is a partial update. Nil pointers leave a field alone.
// AssigneeSet/DueDateSet distinguish an explicit null (clear) from absence.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string

	AssigneeSet bool
	AssigneeID  *string
	DueDateSet  bool
	DueDate     *time.Time
}

// taskCtx is a task with its project (nil if the project is gone) and the
// actor's permissions on it.
type taskCtx struct {
	task    *entity.Task
	project *entity.Project
	perm    access.Permission
}

func (s *TaskService) loadTask(ctx context.Context, actor *entity.User, id string) (*taskCtx, error) {
	t, err := s.Tasks.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound(msgTaskNotFound)
	}
	if err != nil {
		return nil, err
	}
	p, err := s.Projects.GetByID(ctx, t.ProjectID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	tc := &taskCtx{task: t, project: p, perm: access.ForTask(t, p, actor.ID)}
	if !tc.perm.Has(access.Read) {
		return nil, apperror.NotFound(msgTaskNotFound)
	}
	return tc, nil
}

func (s *TaskService) loadProject(ctx context.Context, actor *entity.User, id string) (*entity.Project, error) {
	p, err := s.Projects.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound(msgProjectNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !access.ForProject(p, actor.ID).Has(access.Read) {
		return nil, apperror.NotFound(msgProjectNotFound)
	}
	return p, nil
}

// views renders tasks with their project names and user summaries in one
// users query.
func (s *TaskService) views(ctx context.Context, ts []*entity.Task, projects map[string]*entity.Project) ([]TaskView, error) {
	dir, err := loadUsers(ctx, s.Users, taskUserIDs(ts...)...)
	if err != nil {
		return nil, err
	}
	out := make([]TaskView, 0, len(ts))
	for _, t := range ts {
		out = append(out, dir.task(t, projects[t.ProjectID]))
	}
	return out, nil
}

func (s *TaskService) view(ctx context.Context, t *entity.Task, p *entity.Project) (*TaskView, error) {
	vs, err := s.views(ctx, []*entity.Task{t}, map[string]*entity.Project{t.ProjectID: p})
	if err != nil {
		return nil, err
	}
	return &vs[0], nil
}

func (s *TaskService) Create(ctx context.Context, actor *entity.User, in CreateTaskInput) (*TaskView, error) {
	p, err := s.loadProject(ctx, actor, in.ProjectID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	desc := strings.TrimSpace(in.Description)
	if title == "" {
		return nil, apperror.FieldValidation("title", "Title is required")
	}
	if desc == "" {
		return nil, apperror.FieldValidation("description", "Description is required")
	}
	status, err := workflow.ParseStatus(in.Status, entity.StatusTodo)
	if err != nil {
		return nil, err
	}
	priority, err := workflow.ParsePriority(in.Priority, entity.PriorityMedium)
	if err != nil {
		return nil, err
	}
	assignee := normalizeID(in.AssigneeID)
	if assignee != nil {
		if err := workflow.ValidateAssignee(p, *assignee); err != nil {
			return nil, err
		}
	}

	t := &entity.Task{
		Title:       title,
		Description: desc,
		Status:      status,
		Priority:    priority,
		ProjectID:   p.ID,
		AssigneeID:  assignee,
		DueDate:     in.DueDate,
		CreatedBy:   actor.ID,
	}
	if err := s.Tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	s.index(ctx, t)
	if assignee != nil {
		s.notifyAssigned(ctx, actor, t, p)
	}
	return s.view(ctx, t, p)
}

func (s *TaskService) ListByProject(ctx context.Context, actor *entity.User, projectID string) ([]TaskView, error) {
	p, err := s.loadProject(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}
	ts, err := s.Tasks.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, ts, map[string]*entity.Project{p.ID: p})
}

// ListMine returns the tasks the actor created or is assigned to, across projects.
func (s *TaskService) ListMine(ctx context.Context, actor *entity.User) ([]TaskView, error) {
	ts, err := s.Tasks.ListForUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	projects := make(map[string]*entity.Project)
	for _, t := range ts {
		if _, seen := projects[t.ProjectID]; seen {
			continue
		}
		p, err := s.Projects.GetByID(ctx, t.ProjectID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		projects[t.ProjectID] = p
	}
	return s.views(ctx, ts, projects)
}

// Search finds tasks in a project by title and description. Without a search
// index it falls back to a case-insensitive substring match.
func (s *TaskService) Search(ctx context.Context, actor *entity.User, projectID, q string) ([]TaskView, error) {
	p, err := s.loadProject(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, apperror.FieldValidation("q", "Search query is required")
	}
	all, err := s.Tasks.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	var hits []*entity.Task
	if s.Index != nil && s.Index.Enabled() {
		ids, err := s.Index.SearchTasks(ctx, p.ID, q, 50)
		if err != nil {
			if s.Logger != nil {
				s.Logger.WithError(err).WithField("project_id", p.ID).Warn("es task search failed, falling back to scan")
			}
			hits = matchTasks(all, q)
		} else {
			hits = orderByIDs(all, ids)
		}
	} else {
		hits = matchTasks(all, q)
	}
	return s.views(ctx, hits, map[string]*entity.Project{p.ID: p})
}

func (s *TaskService) Get(ctx context.Context, actor *entity.User, id string) (*TaskView, error) {
	tc, err := s.loadTask(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, tc.task, tc.project)
}

// Update edits task fields. Requires project write access; a creator or
// assignee without it can see the task but gets Forbidden here.
func (s *TaskService) Update(ctx context.Context, actor *entity.User, id string, in UpdateTaskInput) (*TaskView, error) {
	tc, err := s.loadTask(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !tc.perm.Has(access.Write) {
		return nil, apperror.Forbidden("Not authorized to update this task")
	}
	t := tc.task
	prevAssignee := t.AssigneeID

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperror.FieldValidation("title", "Title is required")
		}
		t.Title = title
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		if desc == "" {
			return nil, apperror.FieldValidation("description", "Description is required")
		}
		t.Description = desc
	}
	if in.Priority != nil {
		if strings.TrimSpace(*in.Priority) == "" {
			return nil, apperror.FieldValidation("priority", "Invalid priority value")
		}
		pr, err := workflow.ParsePriority(*in.Priority, t.Priority)
		if err != nil {
			return nil, err
		}
		t.Priority = pr
	}
	if in.Status != nil {
		if strings.TrimSpace(*in.Status) == "" {
			return nil, apperror.FieldValidation("status", "Invalid status value")
		}
		st, err := workflow.ParseStatus(*in.Status, t.Status)
		if err != nil {
			return nil, err
		}
		if err := workflow.Transition(t.Status, st); err != nil {
			return nil, err
		}
		t.Status = st
	}
	if in.AssigneeSet {
		assignee := normalizeID(in.AssigneeID)
		if assignee != nil {
			if err := workflow.ValidateAssignee(tc.project, *assignee); err != nil {
				return nil, err
			}
		}
		t.AssigneeID = assignee
	}
	if in.DueDateSet {
		t.DueDate = in.DueDate
	}

	if err := s.Tasks.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound(msgTaskNotFound)
		}
		return nil, err
	}
	s.index(ctx, t)
	if t.AssigneeID != nil && (prevAssignee == nil || *prevAssignee != *t.AssigneeID) {
		s.notifyAssigned(ctx, actor, t, tc.project)
	}
	return s.view(ctx, t, tc.project)
}

// UpdateStatus moves a task to another column. Any valid status may follow
// any other.
func (s *TaskService) UpdateStatus(ctx context.Context, actor *entity.User, id, status string) (*TaskView, error) {
	tc, err := s.loadTask(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !tc.perm.Has(access.Transition) {
		return nil, apperror.NotFound(msgTaskNotFound)
	}
	if strings.TrimSpace(status) == "" {
		return nil, apperror.FieldValidation("status", "Status is required")
	}
	st, err := workflow.ParseStatus(status, tc.task.Status)
	if err != nil {
		return nil, err
	}
	if err := workflow.Transition(tc.task.Status, st); err != nil {
		return nil, err
	}

	t, err := s.Tasks.UpdateStatus(ctx, tc.task.ID, st)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound(msgTaskNotFound)
	}
	if err != nil {
		return nil, err
	}
	s.index(ctx, t)
	return s.view(ctx, t, tc.project)
}

// Delete removes a task. Only its creator may do so, whatever their role in
// the project.
func (s *TaskService) Delete(ctx context.Context, actor *entity.User, id string, meta RequestMeta) error {
	tc, err := s.loadTask(ctx, actor, id)
	if err != nil {
		return err
	}
	if !tc.perm.Has(access.Delete) {
		return apperror.Forbidden("Only the task creator can delete this task")
	}
	if err := s.Tasks.Delete(ctx, tc.task.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound(msgTaskNotFound)
		}
		return err
	}
	if s.Index != nil {
		if err := s.Index.DeleteTask(ctx, tc.task.ID); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("task_id", tc.task.ID).Warn("es delete failed")
		}
	}
	s.Audit.Record(ctx, ActionTaskDelete, actor, meta, map[string]any{
		"task_id":    tc.task.ID,
		"project_id": tc.task.ProjectID,
	})
	return nil
}

func (s *TaskService) index(ctx context.Context, t *entity.Task) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexTask(ctx, t); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("task_id", t.ID).Warn("es index failed")
	}
}

func (s *TaskService) notifyAssigned(ctx context.Context, actor *entity.User, t *entity.Task, p *entity.Project) {
	if s.Notifier == nil || t.AssigneeID == nil || *t.AssigneeID == actor.ID {
		return
	}
	assignee, err := s.Users.GetByID(ctx, *t.AssigneeID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("task_id", t.ID).Warn("load assignee for notification failed")
		}
		return
	}
	s.Notifier.TaskAssigned(ctx, assignee, actor, t, p)
}

// normalizeID maps an empty id to nil so "" and null both mean unassigned.
func normalizeID(id *string) *string {
	if id == nil {
		return nil
	}
	v := strings.TrimSpace(*id)
	if v == "" {
		return nil
	}
	return &v
}

func matchTasks(ts []*entity.Task, q string) []*entity.Task {
	q = strings.ToLower(q)
	out := make([]*entity.Task, 0)
	for _, t := range ts {
		if strings.Contains(strings.ToLower(t.Title), q) || strings.Contains(strings.ToLower(t.Description), q) {
			out = append(out, t)
		}
	}
	return out
}

// orderByIDs picks the tasks named by ids, in ids order. Ids the index still
// holds for deleted tasks are dropped.
func orderByIDs(ts []*entity.Task, ids []string) []*entity.Task {
	out := make([]*entity.Task, 0, len(ids))
	for _, id := range ids {
		i := slices.IndexFunc(ts, func(t *entity.Task) bool { return t.ID == id })
		if i >= 0 {
			out = append(out, ts[i])
		}
	}
	return out
}
