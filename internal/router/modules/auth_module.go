package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-taskboard/internal/interface/http"
	"github.com/oksasatya/go-taskboard/internal/interface/middleware"
)

// AuthModule mounts /auth. Register and login are public and limited per IP.
type AuthModule struct {
	Handler   *handlers.AuthHandler
	Guard     Guard
	PublicMax int
}

func NewAuthModule(h *handlers.AuthHandler, g Guard, publicMax int) *AuthModule {
	return &AuthModule{Handler: h, Guard: g, PublicMax: publicMax}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	limiter := middleware.RateLimit(m.Guard.Limiter, m.PublicMax, time.Minute, middleware.KeyByIPAndPath(), nil)
	rg.POST("/auth/register", limiter, m.Handler.Register)
	rg.POST("/auth/login", limiter, m.Handler.Login)

	me := m.Guard.group(rg, "/auth/me")
	{
		me.GET("", m.Handler.Me)
		me.PATCH("", m.Handler.UpdateMe)
		me.POST("/avatar", m.Handler.UploadAvatar)
	}
}
