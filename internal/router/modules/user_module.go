package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-taskboard/internal/interface/http"
)

// UserModule serves the member picker lookup.
type UserModule struct {
	Handler *handlers.UserHandler
	Guard   Guard
}

func NewUserModule(h *handlers.UserHandler, g Guard) *UserModule {
	return &UserModule{Handler: h, Guard: g}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	m.Guard.group(rg, "/users").GET("/search", m.Handler.Search)
}
