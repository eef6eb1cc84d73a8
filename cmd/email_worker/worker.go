package main

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-taskboard/pkg/helpers"
	"github.com/oksasatya/go-taskboard/pkg/mailer"
	mailtpl "github.com/oksasatya/go-taskboard/pkg/mailer/templates"
)

type outcome int

const (
	outcomeAck   outcome = iota
	outcomeDrop          // malformed; never redeliver
	outcomeRetry         // transient; requeue
)

type worker struct {
	sender mailer.Sender
	logger *logrus.Logger
}

var errNoContent = errors.New("job has neither a template nor a subject and body")

// compose turns a queued job into a ready-to-send message.
func compose(job *mailer.EmailJob) (subject, text, html string, err error) {
	helpers.NormalizeTemplate(job)
	helpers.EnsureRecipient(job)
	if job.To == "" {
		return "", "", "", errors.New("job has no recipient")
	}
	if job.Template != "" {
		return mailtpl.Render(job.Template, job.Data)
	}
	if job.Subject == "" || (job.Text == "" && job.HTML == "") {
		return "", "", "", errNoContent
	}
	return job.Subject, job.Text, job.HTML, nil
}

func (w *worker) handle(ctx context.Context, body []byte) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.logger.WithError(err).Warn("dropping malformed email job")
		return outcomeDrop
	}
	subject, text, html, err := compose(&job)
	if err != nil {
		w.logger.WithError(err).WithField("template", job.Template).Warn("dropping email job")
		return outcomeDrop
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := w.sender.Send(c, job.To, subject, text, html); err != nil {
		w.logger.WithError(err).WithField("to", job.To).Error("send failed, requeueing")
		return outcomeRetry
	}
	w.logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	return outcomeAck
}
