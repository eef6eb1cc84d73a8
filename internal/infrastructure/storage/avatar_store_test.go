package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestObjectPath(t *testing.T) {
	p := ObjectPath("u1", "Me.PNG")
	if !strings.HasPrefix(p, "avatars/u1/") || !strings.HasSuffix(p, ".png") {
		t.Fatalf("ObjectPath = %q", p)
	}
	if ObjectPath("u1", "a.png") == ObjectPath("u1", "a.png") {
		t.Fatal("object names must be unique per upload")
	}
}

func TestUploadDisabled(t *testing.T) {
	s := NewAvatarStore(nil, "bucket")
	if s.Enabled() {
		t.Fatal("store without client reports enabled")
	}
	if _, err := s.Upload(context.Background(), "u1", "a.png", "image/png", strings.NewReader("x")); !errors.Is(err, ErrDisabled) {
		t.Fatalf("err = %v", err)
	}
}
