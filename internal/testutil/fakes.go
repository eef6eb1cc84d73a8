package testutil

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"

	"github.com/oksasatya/go-taskboard/internal/domain/entity"
	"github.com/oksasatya/go-taskboard/pkg/mailer"
)

// AuditRepo records audit entries in memory.
type AuditRepo struct {
	mu      sync.Mutex
	Entries []entity.AuditEntry
}

func (r *AuditRepo) Insert(_ context.Context, e *entity.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = int64(len(r.Entries) + 1)
	r.Entries = append(r.Entries, *e)
	return nil
}

// Actions returns the recorded action names in order.
func (r *AuditRepo) Actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		out = append(out, e.Action)
	}
	return out
}

// Publisher captures queued email jobs.
type Publisher struct {
	mu   sync.Mutex
	Jobs []mailer.EmailJob
}

func (p *Publisher) PublishJSON(_ context.Context, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	var job mailer.EmailJob
	if err := json.Unmarshal(b, &job); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Jobs = append(p.Jobs, job)
	return nil
}

// Sent returns a snapshot of the captured jobs.
func (p *Publisher) Sent() []mailer.EmailJob {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]mailer.EmailJob(nil), p.Jobs...)
}

// TaskIndex is a naive in-memory full-text index.
type TaskIndex struct {
	mu    sync.Mutex
	docs  map[string]entity.Task
	Off   bool
	Fails error
}

func NewTaskIndex() *TaskIndex { return &TaskIndex{docs: map[string]entity.Task{}} }

func (ix *TaskIndex) Enabled() bool { return !ix.Off }

func (ix *TaskIndex) IndexTask(_ context.Context, t *entity.Task) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.docs[t.ID] = *t
	return nil
}

func (ix *TaskIndex) DeleteTask(_ context.Context, id string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	delete(ix.docs, id)
	return nil
}

func (ix *TaskIndex) DeleteProjectTasks(_ context.Context, projectID string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for id, t := range ix.docs {
		if t.ProjectID == projectID {
			delete(ix.docs, id)
		}
	}
	return nil
}

func (ix *TaskIndex) SearchTasks(_ context.Context, projectID, q string, size int) ([]string, error) {
	if ix.Fails != nil {
		return nil, ix.Fails
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	q = strings.ToLower(q)
	ids := []string{}
	for id, t := range ix.docs {
		if t.ProjectID == projectID && strings.Contains(strings.ToLower(t.Title+" "+t.Description), q) {
			ids = append(ids, id)
		}
	}
	if len(ids) > size {
		ids = ids[:size]
	}
	return ids, nil
}

// Has reports whether id is indexed.
func (ix *TaskIndex) Has(id string) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	_, ok := ix.docs[id]
	return ok
}

// UserIndex returns a fixed id list for every query.
type UserIndex struct {
	mu      sync.Mutex
	Indexed []string
	Results []string
}

func (ix *UserIndex) Enabled() bool { return true }

func (ix *UserIndex) IndexUser(_ context.Context, u *entity.User) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.Indexed = append(ix.Indexed, u.ID)
	return nil
}

func (ix *UserIndex) SearchUsers(context.Context, string, int) ([]string, error) {
	return ix.Results, nil
}

// AvatarStore keeps uploaded bytes in memory.
type AvatarStore struct {
	mu       sync.Mutex
	Disabled bool
	Objects  map[string][]byte
}

func (s *AvatarStore) Enabled() bool { return !s.Disabled }

func (s *AvatarStore) Upload(_ context.Context, userID, filename, _ string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Objects == nil {
		s.Objects = map[string][]byte{}
	}
	key := "avatars/" + userID + "/" + filename
	s.Objects[key] = b
	return "https://storage.test/" + key, nil
}

// UserCache is a map-backed cache that counts hits.
type UserCache struct {
	mu    sync.Mutex
	users map[string]entity.User
	Hits  int
}

func (c *UserCache) Get(_ context.Context, id string) (*entity.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.users[id]
	if ok {
		c.Hits++
	}
	return &u, ok
}

func (c *UserCache) Set(_ context.Context, u *entity.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.users == nil {
		c.users = map[string]entity.User{}
	}
	cp := *u
	cp.Password = ""
	c.users[u.ID] = cp
	return nil
}

func (c *UserCache) Invalidate(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.users, id)
	return nil
}
