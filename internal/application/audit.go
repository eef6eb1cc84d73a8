package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-taskboard/internal/domain/entity"
	"github.com/oksasatya/go-taskboard/internal/domain/repository"
)

// Audit actions.
const (
	ActionRegister      = "user.register"
	ActionLogin         = "user.login"
	ActionLoginFailed   = "user.login_failed"
	ActionProjectCreate = "project.create"
	ActionProjectDelete = "project.delete"
	ActionMemberAdd     = "project.member_add"
	ActionMemberRemove  = "project.member_remove"
	ActionTaskDelete    = "task.delete"
	ActionAvatarUpload  = "user.avatar_upload"
	ActionProfileUpdate = "user.profile_update"
)

// AuditRecorder writes audit entries on a best-effort basis: a failed insert
// is logged and never fails the request that triggered it.
type AuditRecorder struct {
	repo   repository.AuditRepository
	logger *logrus.Logger
}

func NewAuditRecorder(repo repository.AuditRepository, logger *logrus.Logger) *AuditRecorder {
	return &AuditRecorder{repo: repo, logger: logger}
}

func (a *AuditRecorder) Record(ctx context.Context, action string, actor *entity.User, meta RequestMeta, data map[string]any) {
	if a == nil || a.repo == nil {
		return
	}
	e := &entity.AuditEntry{
		Action:    action,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		Metadata:  data,
	}
	if actor != nil {
		e.UserID = actor.ID
		e.Email = actor.Email
	}
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := a.repo.Insert(c, e); err != nil && a.logger != nil {
		a.logger.WithError(err).WithField("action", action).Warn("audit insert failed")
	}
}
