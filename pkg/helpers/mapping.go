package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/go-taskboard/pkg/mailer"
)

// EnsureRecipient fills the recipient fields templates rely on from job.To.
func EnsureRecipient(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}

// NormalizeTemplate lower-cases the template name and accepts dashed aliases
// ("task-assigned" == "task_assigned").
func NormalizeTemplate(job *mailer.EmailJob) {
	job.Template = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(job.Template)), "-", "_")
}
