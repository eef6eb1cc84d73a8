package main

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/oksasatya/go-taskboard/pkg/helpers"
	"github.com/oksasatya/go-taskboard/pkg/mailer"
)

type sent struct{ to, subject, text, html string }

type fakeSender struct {
	err  error
	sent []sent
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sent{to, subject, text, html})
	return nil
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestHandleRendersTemplate(t *testing.T) {
	fs := &fakeSender{}
	w := &worker{sender: fs, logger: helpers.NewDiscardLogger()}
	job := mailer.EmailJob{To: "bob@example.com", Template: "Project-Invitation", Data: map[string]any{
		"Name": "Bob", "ActorName": "Alice", "ProjectName": "Board", "ProjectURL": "http://board.test/projects/1",
	}}

	if got := w.handle(context.Background(), mustJSON(t, job)); got != outcomeAck {
		t.Fatalf("outcome = %v, want ack", got)
	}
	if len(fs.sent) != 1 {
		t.Fatalf("sent = %d", len(fs.sent))
	}
	m := fs.sent[0]
	if m.to != "bob@example.com" || m.subject != "Alice added you to Board" {
		t.Fatalf("message = %+v", m)
	}
	if !strings.Contains(m.html, "http://board.test/projects/1") || m.text == "" {
		t.Fatalf("body missing link: %+v", m)
	}
}

func TestHandleRawMessage(t *testing.T) {
	fs := &fakeSender{}
	w := &worker{sender: fs, logger: helpers.NewDiscardLogger()}
	job := mailer.EmailJob{To: "a@example.com", Subject: "hi", Text: "plain"}
	if got := w.handle(context.Background(), mustJSON(t, job)); got != outcomeAck {
		t.Fatalf("outcome = %v", got)
	}
	if fs.sent[0].subject != "hi" || fs.sent[0].text != "plain" {
		t.Fatalf("sent = %+v", fs.sent[0])
	}
}

func TestHandleDropsAndRetries(t *testing.T) {
	tests := []struct {
		name string
		body []byte
		err  error
		want outcome
	}{
		{"bad json", []byte("{"), nil, outcomeDrop},
		{"unknown template", mustJSON(t, mailer.EmailJob{To: "a@example.com", Template: "welcome"}), nil, outcomeDrop},
		{"no content", mustJSON(t, mailer.EmailJob{To: "a@example.com"}), nil, outcomeDrop},
		{"no recipient", mustJSON(t, mailer.EmailJob{Subject: "s", Text: "t"}), nil, outcomeDrop},
		{"send fails", mustJSON(t, mailer.EmailJob{To: "a@example.com", Subject: "s", Text: "t"}), errors.New("mailgun 502"), outcomeRetry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &worker{sender: &fakeSender{err: tt.err}, logger: helpers.NewDiscardLogger()}
			if got := w.handle(context.Background(), tt.body); got != tt.want {
				t.Fatalf("outcome = %v, want %v", got, tt.want)
			}
		})
	}
}
