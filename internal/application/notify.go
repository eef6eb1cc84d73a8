package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-taskboard/config"
	"github.com/oksasatya/go-taskboard/internal/domain/entity"
	"github.com/oksasatya/go-taskboard/pkg/mailer"
	"github.com/oksasatya/go-taskboard/pkg/mailer/templates"
)

// Notifier enqueues notification emails for the email worker. With no
// publisher configured every call is a no-op.
type Notifier struct {
	pub    Publisher
	cfg    *config.Config
	logger *logrus.Logger
}

func NewNotifier(pub Publisher, cfg *config.Config, logger *logrus.Logger) *Notifier {
	return &Notifier{pub: pub, cfg: cfg, logger: logger}
}

func (n *Notifier) enabled() bool {
	return n != nil && n.pub != nil && n.cfg != nil && n.cfg.MailSendEnabled
}

// ProjectInvitation tells invitee they were added to project by actor.
func (n *Notifier) ProjectInvitation(ctx context.Context, invitee, actor *entity.User, project *entity.Project) {
	if !n.enabled() || invitee == nil {
		return
	}
	data := templates.NewProjectInvitationData(n.cfg, invitee.Name, invitee.Email,
		templates.WithActor(actorName(actor)),
		templates.WithProject(project.ID, project.Name),
		templates.WithTime(time.Now()),
	)
	n.publish(ctx, mailer.EmailJob{To: invitee.Email, Template: templates.ProjectInvitation, Data: data})
}

// TaskAssigned tells assignee that actor gave them task. Self-assignment is silent.
func (n *Notifier) TaskAssigned(ctx context.Context, assignee, actor *entity.User, task *entity.Task, project *entity.Project) {
	if !n.enabled() || assignee == nil || (actor != nil && actor.ID == assignee.ID) {
		return
	}
	opts := []templates.Option{
		templates.WithActor(actorName(actor)),
		templates.WithTask(task.Title, string(task.Priority), task.DueDate),
		templates.WithTime(time.Now()),
	}
	if project != nil {
		opts = append(opts, templates.WithProject(project.ID, project.Name))
	}
	data := templates.NewTaskAssignedData(n.cfg, assignee.Name, assignee.Email, opts...)
	n.publish(ctx, mailer.EmailJob{To: assignee.Email, Template: templates.TaskAssigned, Data: data})
}

func (n *Notifier) publish(ctx context.Context, job mailer.EmailJob) {
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := n.pub.PublishJSON(c, job); err != nil && n.logger != nil {
		n.logger.WithError(err).WithFields(logrus.Fields{
			"template": job.Template,
			"to":       job.To,
		}).Warn("enqueue email failed")
	}
}

func actorName(u *entity.User) string {
	if u == nil {
		return ""
	}
	return u.Name
}
