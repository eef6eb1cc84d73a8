package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-taskboard/internal/application"
	"github.com/oksasatya/go-taskboard/internal/interface/middleware"
	"github.com/oksasatya/go-taskboard/pkg/response"
)

// AuthHandler serves registration, login and the current user's profile.
type AuthHandler struct {
	Users  *application.UserService
	Logger *logrus.Logger
}

func NewAuthHandler(users *application.UserService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Users: users, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Name string `json:"name" binding:"required"`
}

func authPayload(res *application.AuthResult) gin.H {
	return gin.H{"user": application.NewUserView(res.User), "token": res.Token}
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "name", "email", "password")
		return
	}
	res, err := h.Users.Register(c.Request.Context(), application.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}, requestMeta(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, authPayload(res), "User registered successfully", nil)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "email", "password")
		return
	}
	res, err := h.Users.Login(c.Request.Context(), req.Email, req.Password, requestMeta(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, authPayload(res), "Login successful", nil)
}

// Me GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	u := middleware.CurrentUser(c)
	response.Success(c, http.StatusOK, gin.H{"user": application.NewUserView(u)}, "", nil)
}

// UpdateMe PATCH /api/auth/me
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "name")
		return
	}
	u, err := h.Users.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c), application.UpdateProfileInput{Name: req.Name}, requestMeta(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": application.NewUserView(u)}, "Profile updated", nil)
}

// UploadAvatar POST /api/auth/me/avatar (multipart field "avatar")
func (h *AuthHandler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Avatar file is required", map[string]string{"avatar": "Avatar file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	defer f.Close()

	u, err := h.Users.UploadAvatar(c.Request.Context(), middleware.CurrentUser(c),
		fh.Filename, fh.Header.Get("Content-Type"), fh.Size, f, requestMeta(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": application.NewUserView(u)}, "Avatar updated", nil)
}
