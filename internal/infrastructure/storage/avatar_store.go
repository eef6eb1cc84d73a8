package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/oksasatya/go-taskboard/pkg/helpers"
)

var ErrDisabled = errors.New("avatar storage not configured")

// AvatarStore uploads profile pictures to a public GCS bucket.
type AvatarStore struct {
	client *gcs.Client
	bucket string
}

func NewAvatarStore(client *gcs.Client, bucket string) *AvatarStore {
	return &AvatarStore{client: client, bucket: bucket}
}

func (s *AvatarStore) Enabled() bool { return s != nil && s.client != nil && s.bucket != "" }

// ObjectPath places every upload under avatars/<user>/ with a random name so
// CDN caches never serve a stale picture.
func ObjectPath(userID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join("avatars", userID, uuid.NewString()+ext)
}

// Upload stores r and returns the object's public URL.
func (s *AvatarStore) Upload(ctx context.Context, userID, filename, contentType string, r io.Reader) (string, error) {
	if !s.Enabled() {
		return "", ErrDisabled
	}
	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return helpers.UploadObject(c, s.client, s.bucket, ObjectPath(userID, filename), contentType, r)
}
