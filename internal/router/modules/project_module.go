package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-taskboard/internal/interface/http"
)

type ProjectModule struct {
	Handler *handlers.ProjectHandler
	Guard   Guard
}

func NewProjectModule(h *handlers.ProjectHandler, g Guard) *ProjectModule {
	return &ProjectModule{Handler: h, Guard: g}
}

func (m *ProjectModule) Register(rg *gin.RouterGroup) {
	p := m.Guard.group(rg, "/projects")
	{
		p.POST("", m.Handler.Create)
		p.GET("", m.Handler.List)
		p.GET("/:id", m.Handler.Get)
		p.PATCH("/:id", m.Handler.Update)
		p.DELETE("/:id", m.Handler.Delete)

		p.POST("/:id/members", m.Handler.AddMember)
		p.GET("/:id/members", m.Handler.Members)
		p.DELETE("/:id/members/:memberId", m.Handler.RemoveMember)

		p.GET("/:id/tasks", m.Handler.ListTasks)
		p.POST("/:id/tasks", m.Handler.CreateTask)
		p.GET("/:id/tasks/search", m.Handler.SearchTasks)
	}
}
