package templates

import (
	"strings"
	"time"

	"github.com/oksasatya/go-taskboard/config"
)

// Option pattern
type Option func(*EmailData)

func WithActor(name string) Option { return func(d *EmailData) { d.ActorName = name } }

func WithTime(t time.Time) Option {
	return func(d *EmailData) { d.Time = t.UTC().Format("02 January 2006, 15:04") }
}

func WithProject(id, name string) Option {
	return func(d *EmailData) {
		d.ProjectName = name
		d.ProjectURL = joinURL(d.AppURL, "projects", id)
	}
}

func WithTask(title, priority string, due *time.Time) Option {
	return func(d *EmailData) {
		d.TaskTitle = title
		d.Priority = priority
		if due != nil {
			d.DueDate = due.UTC().Format("Mon, 02 January 2006")
		}
	}
}

func joinURL(base string, parts ...string) string {
	out := strings.TrimRight(base, "/")
	for _, p := range parts {
		out += "/" + strings.Trim(p, "/")
	}
	return out
}

// NewBaseEmailData fills the branding fields from config, then applies options.
func NewBaseEmailData(cfg *config.Config, typ string, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,

		CompanyName: cfg.CompanyName,
		AppName:     cfg.AppName,
		AppURL:      cfg.AppURL,
		SupportURL:  cfg.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewProjectInvitationData(cfg *config.Config, name, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(cfg, ProjectInvitation, name, email, opts...))
}

func NewTaskAssignedData(cfg *config.Config, name, email string, opts ...Option) map[string]any {
	d := NewBaseEmailData(cfg, TaskAssigned, name, email, opts...)
	if d.ProjectURL != "" {
		d.TaskURL = d.ProjectURL
	}
	return ToMap(d)
}
