package search

import (
	"context"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/oksasatya/go-taskboard/internal/domain/entity"
)

// UserIndex backs the invite-by-email picker.
type UserIndex struct {
	ix index
}

func NewUserIndex(es *elasticsearch.Client, name string) *UserIndex {
	return &UserIndex{ix: index{es: es, name: name}}
}

func (u *UserIndex) Enabled() bool { return u != nil && u.ix.enabled() }

func (u *UserIndex) IndexUser(ctx context.Context, user *entity.User) error {
	if !u.Enabled() {
		return nil
	}
	return u.ix.put(ctx, user.ID, map[string]any{
		"id":         user.ID,
		"email":      user.Email,
		"name":       user.Name,
		"avatar_url": user.AvatarURL,
		"created_at": user.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": user.UpdatedAt.Format(time.RFC3339Nano),
	})
}

func userQuery(q string, size int) map[string]any {
	return map[string]any{
		"size": clampSize(size),
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"type":   "bool_prefix",
				"fields": []string{"email^2", "name"},
			},
		},
	}
}

// SearchUsers performs a prefix-friendly multi_match on email and name.
func (u *UserIndex) SearchUsers(ctx context.Context, q string, size int) ([]string, error) {
	if !u.Enabled() {
		return []string{}, nil
	}
	return u.ix.searchIDs(ctx, userQuery(q, size))
}
