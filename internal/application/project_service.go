package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-taskboard/internal/domain/access"
	"github.com/oksasatya/go-taskboard/internal/domain/apperror"
	"github.com/oksasatya/go-taskboard/internal/domain/entity"
	"github.com/oksasatya/go-taskboard/internal/domain/repository"
)

const (
	msgProjectNotFound = "Project not found"
	msgUserNotFound    = "User not found"
)

type ProjectService struct {
	Projects repository.ProjectRepository
	Tasks    repository.TaskRepository
	Users    repository.UserRepository
	Index    TaskIndex
	Notifier *Notifier
	Audit    *AuditRecorder
	Logger   *logrus.Logger
}

type CreateProjectInput struct {
	Name        string
	Description string
}

type UpdateProjectInput struct {
	Name        *string
	Description *string
}

// load fetches a project and the actor's permissions on it. A missing project
// and a project the actor may not see both come back as NotFound when need is
// not met.
func (s *ProjectService) load(ctx context.Context, actor *entity.User, id string, need access.Permission) (*entity.Project, error) {
	p, err := s.Projects.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound(msgProjectNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !access.ForProject(p, actor.ID).Has(need) {
		return nil, apperror.NotFound(msgProjectNotFound)
	}
	return p, nil
}

func (s *ProjectService) view(ctx context.Context, p *entity.Project) (*ProjectView, error) {
	dir, err := loadUsers(ctx, s.Users, projectUserIDs(p)...)
	if err != nil {
		return nil, err
	}
	v := dir.project(p)
	return &v, nil
}

func (s *ProjectService) Create(ctx context.Context, actor *entity.User, in CreateProjectInput, meta RequestMeta) (*ProjectView, error) {
	name := strings.TrimSpace(in.Name)
	desc := strings.TrimSpace(in.Description)
	if name == "" {
		return nil, apperror.FieldValidation("name", "Name is required")
	}
	if desc == "" {
		return nil, apperror.FieldValidation("description", "Description is required")
	}
	p := &entity.Project{
		Name:        name,
		Description: desc,
		OwnerID:     actor.ID,
		MemberIDs:   []string{actor.ID},
	}
	if err := s.Projects.Create(ctx, p); err != nil {
		return nil, err
	}
	s.Audit.Record(ctx, ActionProjectCreate, actor, meta, map[string]any{"project_id": p.ID})
	return s.view(ctx, p)
}

// List returns every project the actor owns or belongs to.
func (s *ProjectService) List(ctx context.Context, actor *entity.User) ([]ProjectView, error) {
	ps, err := s.Projects.ListForUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	dir, err := loadUsers(ctx, s.Users, projectUserIDs(ps...)...)
	if err != nil {
		return nil, err
	}
	out := make([]ProjectView, 0, len(ps))
	for _, p := range ps {
		out = append(out, dir.project(p))
	}
	return out, nil
}

func (s *ProjectService) Get(ctx context.Context, actor *entity.User, id string) (*ProjectView, error) {
	p, err := s.load(ctx, actor, id, access.Read)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, p)
}

// Update renames or re-describes a project. Owner only.
func (s *ProjectService) Update(ctx context.Context, actor *entity.User, id string, in UpdateProjectInput) (*ProjectView, error) {
	p, err := s.load(ctx, actor, id, access.Admin)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperror.FieldValidation("name", "Name is required")
		}
		p.Name = name
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		if desc == "" {
			return nil, apperror.FieldValidation("description", "Description is required")
		}
		p.Description = desc
	}
	if err := s.Projects.UpdateInfo(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound(msgProjectNotFound)
		}
		return nil, err
	}
	return s.view(ctx, p)
}

// Delete removes a project together with all of its tasks. Owner only.
// The project goes first; a failed cascade leaves orphaned tasks that their
// creators can still see and delete.
func (s *ProjectService) Delete(ctx context.Context, actor *entity.User, id string, meta RequestMeta) error {
	p, err := s.load(ctx, actor, id, access.Admin)
	if err != nil {
		return err
	}
	if err := s.Projects.Delete(ctx, p.ID, actor.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound(msgProjectNotFound)
		}
		return err
	}
	removed, err := s.Tasks.DeleteByProject(ctx, p.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("project_id", p.ID).Error("task cascade failed after project delete")
		}
		return err
	}
	if s.Index != nil {
		if err := s.Index.DeleteProjectTasks(ctx, p.ID); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("project_id", p.ID).Warn("es project purge failed")
		}
	}
	s.Audit.Record(ctx, ActionProjectDelete, actor, meta, map[string]any{
		"project_id":    p.ID,
		"tasks_removed": len(removed),
	})
	return nil
}

// AddMember invites an existing user by email. Owner only.
func (s *ProjectService) AddMember(ctx context.Context, actor *entity.User, id, email string, meta RequestMeta) (*ProjectView, error) {
	p, err := s.load(ctx, actor, id, access.Admin)
	if err != nil {
		return nil, err
	}
	invitee, err := s.Users.GetByEmail(ctx, entity.NormalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound(msgUserNotFound)
	}
	if err != nil {
		return nil, err
	}
	if p.HasMember(invitee.ID) {
		return nil, apperror.Conflict("User is already a member")
	}

	updated, err := s.Projects.AddMember(ctx, p.ID, invitee.ID)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return nil, apperror.Conflict("User is already a member")
	case errors.Is(err, repository.ErrNotFound):
		return nil, apperror.NotFound(msgProjectNotFound)
	case err != nil:
		return nil, err
	}

	s.Notifier.ProjectInvitation(ctx, invitee, actor, updated)
	s.Audit.Record(ctx, ActionMemberAdd, actor, meta, map[string]any{
		"project_id": p.ID,
		"member_id":  invitee.ID,
	})
	return s.view(ctx, updated)
}

// Members lists the project's members. Unlike the other read paths this one
// reports Forbidden, not NotFound, to a non-member.
func (s *ProjectService) Members(ctx context.Context, actor *entity.User, id string) ([]UserSummary, error) {
	p, err := s.Projects.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound(msgProjectNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !access.ForProject(p, actor.ID).Has(access.Read) {
		return nil, apperror.Forbidden("Not authorized to view members")
	}
	v, err := s.view(ctx, p)
	if err != nil {
		return nil, err
	}
	return v.Members, nil
}

// RemoveMember takes a user off the project. The owner cannot remove
// themself; removing someone who is not a member changes nothing.
func (s *ProjectService) RemoveMember(ctx context.Context, actor *entity.User, id, memberID string, meta RequestMeta) (*ProjectView, error) {
	p, err := s.load(ctx, actor, id, access.Admin)
	if err != nil {
		return nil, err
	}
	if p.IsOwner(memberID) {
		return nil, apperror.FieldValidation("memberId", "Cannot remove project owner")
	}
	if !p.HasMember(memberID) {
		return s.view(ctx, p)
	}

	updated, err := s.Projects.RemoveMember(ctx, p.ID, memberID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound(msgProjectNotFound)
	}
	if err != nil {
		return nil, err
	}
	s.Audit.Record(ctx, ActionMemberRemove, actor, meta, map[string]any{
		"project_id": p.ID,
		"member_id":  memberID,
	})
	return s.view(ctx, updated)
}
