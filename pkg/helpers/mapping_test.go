package helpers

import (
	"testing"

	"github.com/oksasatya/go-taskboard/pkg/mailer"
)

func TestEnsureRecipient(t *testing.T) {
	job := mailer.EmailJob{To: "bob@example.com", Data: map[string]any{"Email": ""}}
	EnsureRecipient(&job)
	if job.Data["Email"] != "bob@example.com" || job.Data["RecipientEmail"] != "bob@example.com" {
		t.Errorf("recipient not filled: %v", job.Data)
	}

	job = mailer.EmailJob{To: "bob@example.com", Data: map[string]any{"Email": "other@example.com"}}
	EnsureRecipient(&job)
	if job.Data["Email"] != "other@example.com" {
		t.Errorf("existing email overwritten: %v", job.Data)
	}
}

func TestNormalizeTemplate(t *testing.T) {
	job := mailer.EmailJob{Template: " Task-Assigned "}
	NormalizeTemplate(&job)
	if job.Template != "task_assigned" {
		t.Errorf("Template = %q", job.Template)
	}
}
