package application

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-taskboard/internal/domain/apperror"
	"github.com/oksasatya/go-taskboard/internal/domain/entity"
	"github.com/oksasatya/go-taskboard/internal/domain/repository"
	"github.com/oksasatya/go-taskboard/pkg/helpers"
)

const (
	msgInvalidCredentials = "Invalid email or password"
	msgEmailTaken         = "Email already registered"
	msgNotAuthorized      = "Not authorized, token failed"
)

const MinPasswordLength = 6

// UserService owns registration, login, token resolution and profile edits.
type UserService struct {
	Repo    repository.UserRepository
	JWT     *helpers.JWTManager
	Cache   UserCache
	Index   UserIndex
	Avatars AvatarStore
	Audit   *AuditRecorder
	Logger  *logrus.Logger

	// AvatarMaxBytes caps uploads; zero means no limit.
	AvatarMaxBytes int64
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User  *entity.User
	Token string
}

func (s *UserService) Register(ctx context.Context, in RegisterInput, meta RequestMeta) (*AuthResult, error) {
	email := entity.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperror.FieldValidation("name", "Name is required")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, apperror.FieldValidation("password", "Password must be at least 6 characters")
	}

	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict(msgEmailTaken)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:     email,
		Password:  hash,
		Name:      name,
		AvatarURL: entity.DefaultAvatarURL(name),
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		// lost a race with a concurrent registration of the same address
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict(msgEmailTaken)
		}
		return nil, err
	}

	token, _, err := s.JWT.GenerateToken(u.ID)
	if err != nil {
		return nil, err
	}
	s.index(ctx, u)
	s.Audit.Record(ctx, ActionRegister, u, meta, nil)
	return &AuthResult{User: u, Token: token}, nil
}

// Login checks credentials. Unknown email and wrong password are indistinguishable.
func (s *UserService) Login(ctx context.Context, email, password string, meta RequestMeta) (*AuthResult, error) {
	email = entity.NormalizeEmail(email)
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if u == nil || !helpers.CompareHashAndPassword(u.Password, password) {
		s.Audit.Record(ctx, ActionLoginFailed, nil, meta, map[string]any{"email": email})
		return nil, apperror.Auth(msgInvalidCredentials)
	}

	token, _, err := s.JWT.GenerateToken(u.ID)
	if err != nil {
		return nil, err
	}
	s.Audit.Record(ctx, ActionLogin, u, meta, nil)
	return &AuthResult{User: u, Token: token}, nil
}

// ResolveUser validates a bearer token and loads the user it names. A bad
// token and a token for a deleted user are both Auth errors; store failures
// are returned as is.
func (s *UserService) ResolveUser(ctx context.Context, token string) (*entity.User, error) {
	claims, err := s.JWT.ParseToken(token)
	if err != nil {
		return nil, apperror.Auth(msgNotAuthorized)
	}
	if s.Cache != nil {
		if u, ok := s.Cache.Get(ctx, claims.UserID); ok {
			return u, nil
		}
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Auth(msgNotAuthorized)
	}
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		if err := s.Cache.Set(ctx, u); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("user cache set failed")
		}
	}
	return u, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("User not found")
	}
	return u, err
}

type UpdateProfileInput struct {
	Name string
}

func (s *UserService) UpdateProfile(ctx context.Context, actor *entity.User, in UpdateProfileInput, meta RequestMeta) (*entity.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperror.FieldValidation("name", "Name is required")
	}
	u, err := s.GetProfile(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	u.Name = name
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.refresh(ctx, u)
	s.Audit.Record(ctx, ActionProfileUpdate, u, meta, nil)
	return u, nil
}

// UploadAvatar stores an image and points the user's avatar at it.
func (s *UserService) UploadAvatar(ctx context.Context, actor *entity.User, filename, contentType string, size int64, r io.Reader, meta RequestMeta) (*entity.User, error) {
	if s.Avatars == nil || !s.Avatars.Enabled() {
		return nil, apperror.Unavailable("Avatar storage is not configured")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperror.FieldValidation("avatar", "Avatar must be an image")
	}
	if s.AvatarMaxBytes > 0 && size > s.AvatarMaxBytes {
		return nil, apperror.FieldValidation("avatar", "Avatar is too large")
	}

	u, err := s.GetProfile(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	url, err := s.Avatars.Upload(ctx, u.ID, filename, contentType, r)
	if err != nil {
		return nil, err
	}
	u.AvatarURL = url
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.refresh(ctx, u)
	s.Audit.Record(ctx, ActionAvatarUpload, u, meta, map[string]any{"url": url})
	return u, nil
}

// SearchUsers finds users by name or email for the invite picker.
func (s *UserService) SearchUsers(ctx context.Context, q string, limit int) ([]*entity.User, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []*entity.User{}, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	if s.Index == nil || !s.Index.Enabled() {
		return s.Repo.Search(ctx, q, limit)
	}

	ids, err := s.Index.SearchUsers(ctx, q, limit)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("es user search failed, falling back to database")
		}
		return s.Repo.Search(ctx, q, limit)
	}
	found, err := s.Repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.User, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}
	out := make([]*entity.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// refresh drops the cached copy and re-indexes after a profile change.
func (s *UserService) refresh(ctx context.Context, u *entity.User) {
	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx, u.ID); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("user cache invalidate failed")
		}
	}
	s.index(ctx, u)
}

func (s *UserService) index(ctx context.Context, u *entity.User) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexUser(ctx, u); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
	}
}
