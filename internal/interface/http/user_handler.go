package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-taskboard/internal/application"
	"github.com/oksasatya/go-taskboard/pkg/response"
)

type UserHandler struct {
	Users  *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(users *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Users: users, Logger: logger}
}

// Search GET /api/users/search?q=&limit=
func (h *UserHandler) Search(c *gin.Context) {
	found, err := h.Users.SearchUsers(c.Request.Context(), c.Query("q"), queryInt(c, "limit", 10))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	out := make([]application.UserSummary, 0, len(found))
	for _, u := range found {
		out = append(out, application.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.AvatarURL})
	}
	response.Success(c, http.StatusOK, gin.H{"users": out}, "", nil)
}
