package application_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/oksasatya/go-taskboard/internal/application"
	"github.com/oksasatya/go-taskboard/internal/domain/apperror"
	"github.com/oksasatya/go-taskboard/internal/testutil"
)

var noMeta = application.RequestMeta{IP: "127.0.0.1", UserAgent: "test"}

func TestRegisterNormalizesEmailAndRejectsDuplicates(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	res, err := h.users.Register(ctx, application.RegisterInput{Name: "Ann", Email: "  Ann@Example.COM ", Password: "secret1"}, noMeta)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.User.Email != "ann@example.com" {
		t.Errorf("email = %q", res.User.Email)
	}
	if res.User.Password == "secret1" || res.User.Password == "" {
		t.Error("password must be stored as a hash")
	}
	if !strings.Contains(res.User.AvatarURL, "ui-avatars.com") {
		t.Errorf("avatar = %q", res.User.AvatarURL)
	}
	if res.Token == "" {
		t.Fatal("no token issued")
	}

	_, err = h.users.Register(ctx, application.RegisterInput{Name: "Other", Email: "ANN@example.com", Password: "secret1"}, noMeta)
	wantKind(t, err, apperror.KindConflict)
	if !strings.Contains(err.Error(), "Email already registered") {
		t.Errorf("message = %v", err)
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.users.Register(ctx, application.RegisterInput{Name: "A", Email: "a@example.com", Password: "12345"}, noMeta)
	wantKind(t, err, apperror.KindValidation)
	_, err = h.users.Register(ctx, application.RegisterInput{Name: "  ", Email: "a@example.com", Password: "123456"}, noMeta)
	wantKind(t, err, apperror.KindValidation)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.fx.CreateUser("Bob", "bob@example.com")

	_, errWrong := h.users.Login(ctx, "bob@example.com", "wrong-password", noMeta)
	_, errUnknown := h.users.Login(ctx, "nobody@example.com", testutil.Password, noMeta)
	wantKind(t, errWrong, apperror.KindAuth)
	wantKind(t, errUnknown, apperror.KindAuth)
	if errWrong.Error() != errUnknown.Error() {
		t.Fatalf("messages differ: %q vs %q", errWrong, errUnknown)
	}

	res, err := h.users.Login(ctx, "BOB@example.com", testutil.Password, noMeta)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.User.Email != "bob@example.com" || res.Token == "" {
		t.Fatalf("login result = %+v", res)
	}

	actions := h.audit.Actions()
	if len(actions) != 3 || actions[0] != application.ActionLoginFailed || actions[2] != application.ActionLogin {
		t.Fatalf("audit = %v", actions)
	}
}

func TestResolveUserUsesTokenAndCache(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	res, err := h.users.Register(ctx, application.RegisterInput{Name: "Cy", Email: "cy@example.com", Password: "secret1"}, noMeta)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	u, err := h.users.ResolveUser(ctx, res.Token)
	if err != nil || u.ID != res.User.ID {
		t.Fatalf("ResolveUser = %v, %v", u, err)
	}
	if _, err := h.users.ResolveUser(ctx, res.Token); err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if h.cache.Hits != 1 {
		t.Errorf("cache hits = %d, want 1", h.cache.Hits)
	}

	_, err = h.users.ResolveUser(ctx, "not-a-token")
	wantKind(t, err, apperror.KindAuth)

	ghost, _, _ := h.users.JWT.GenerateToken("3b0c4b7e-0000-4000-8000-000000000000")
	_, err = h.users.ResolveUser(ctx, ghost)
	wantKind(t, err, apperror.KindAuth)
}

func TestUpdateProfileInvalidatesCache(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	u := h.fx.CreateUser("Dee", "dee@example.com")
	_ = h.cache.Set(ctx, u)

	got, err := h.users.UpdateProfile(ctx, u, application.UpdateProfileInput{Name: "  Deborah "}, noMeta)
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if got.Name != "Deborah" {
		t.Errorf("name = %q", got.Name)
	}
	if _, ok := h.cache.Get(ctx, u.ID); ok {
		t.Error("cache entry should be invalidated")
	}

	_, err = h.users.UpdateProfile(ctx, u, application.UpdateProfileInput{Name: ""}, noMeta)
	wantKind(t, err, apperror.KindValidation)
}

func TestUploadAvatar(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	u := h.fx.CreateUser("Eve", "eve@example.com")

	_, err := h.users.UploadAvatar(ctx, u, "a.txt", "text/plain", 3, strings.NewReader("abc"), noMeta)
	wantKind(t, err, apperror.KindValidation)

	_, err = h.users.UploadAvatar(ctx, u, "big.png", "image/png", 4096, bytes.NewReader(make([]byte, 4096)), noMeta)
	wantKind(t, err, apperror.KindValidation)

	got, err := h.users.UploadAvatar(ctx, u, "me.png", "image/png", 3, strings.NewReader("png"), noMeta)
	if err != nil {
		t.Fatalf("UploadAvatar: %v", err)
	}
	if !strings.HasPrefix(got.AvatarURL, "https://storage.test/avatars/"+u.ID) {
		t.Errorf("avatar = %q", got.AvatarURL)
	}

	h.avatars.Disabled = true
	_, err = h.users.UploadAvatar(ctx, u, "me.png", "image/png", 3, strings.NewReader("png"), noMeta)
	wantKind(t, err, apperror.KindUnavailable)
}

func TestSearchUsers(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.fx.CreateUser("Alice", "alice@example.com")
	bob := h.fx.CreateUser("Bob", "bob@example.com")

	found, err := h.users.SearchUsers(ctx, "ali", 10)
	if err != nil || len(found) != 1 || found[0].ID != alice.ID {
		t.Fatalf("db fallback = %v, %v", found, err)
	}

	h.users.Index = &testutil.UserIndex{Results: []string{bob.ID, "missing", alice.ID}}
	found, err = h.users.SearchUsers(ctx, "anything", 10)
	if err != nil {
		t.Fatalf("SearchUsers: %v", err)
	}
	if len(found) != 2 || found[0].ID != bob.ID || found[1].ID != alice.ID {
		t.Fatalf("index order not kept: %v", found)
	}

	found, _ = h.users.SearchUsers(ctx, "  ", 10)
	if len(found) != 0 {
		t.Fatalf("blank query = %v", found)
	}
}
