package application

import (
	"context"
	"time"

	"github.com/oksasatya/go-taskboard/internal/domain/entity"
	"github.com/oksasatya/go-taskboard/internal/domain/repository"
)

type UserSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

type UserView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ProjectView struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Owner       UserSummary   `json:"owner"`
	Members     []UserSummary `json:"members"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type ProjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TaskView struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	Priority    string       `json:"priority"`
	Project     ProjectRef   `json:"project"`
	Assignee    *UserSummary `json:"assignee"`
	DueDate     *time.Time   `json:"dueDate"`
	CreatedBy   UserSummary  `json:"createdBy"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func NewUserView(u *entity.User) UserView {
	return UserView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Avatar:    u.AvatarURL,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// userDirectory resolves user ids to summaries. Ids with no stored user
// render as a bare {id} summary.
type userDirectory map[string]*entity.User

func loadUsers(ctx context.Context, users repository.UserRepository, ids ...string) (userDirectory, error) {
	found, err := users.GetByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, err
	}
	dir := make(userDirectory, len(found))
	for _, u := range found {
		dir[u.ID] = u
	}
	return dir, nil
}

func (d userDirectory) summary(id string) UserSummary {
	if u, ok := d[id]; ok {
		return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.AvatarURL}
	}
	return UserSummary{ID: id}
}

func (d userDirectory) project(p *entity.Project) ProjectView {
	members := make([]UserSummary, 0, len(p.MemberIDs))
	for _, id := range p.MemberIDs {
		members = append(members, d.summary(id))
	}
	return ProjectView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Owner:       d.summary(p.OwnerID),
		Members:     members,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d userDirectory) task(t *entity.Task, project *entity.Project) TaskView {
	v := TaskView{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Project:     ProjectRef{ID: t.ProjectID},
		DueDate:     t.DueDate,
		CreatedBy:   d.summary(t.CreatedBy),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if project != nil {
		v.Project.Name = project.Name
	}
	if t.AssigneeID != nil {
		s := d.summary(*t.AssigneeID)
		v.Assignee = &s
	}
	return v
}

func projectUserIDs(ps ...*entity.Project) []string {
	var ids []string
	for _, p := range ps {
		ids = append(ids, p.OwnerID)
		ids = append(ids, p.MemberIDs...)
	}
	return ids
}

func taskUserIDs(ts ...*entity.Task) []string {
	var ids []string
	for _, t := range ts {
		ids = append(ids, t.CreatedBy)
		if t.AssigneeID != nil {
			ids = append(ids, *t.AssigneeID)
		}
	}
	return ids
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
