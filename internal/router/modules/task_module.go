package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-taskboard/internal/interface/http"
)

type TaskModule struct {
	Handler *handlers.TaskHandler
	Guard   Guard
}

func NewTaskModule(h *handlers.TaskHandler, g Guard) *TaskModule {
	return &TaskModule{Handler: h, Guard: g}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	t := m.Guard.group(rg, "/tasks")
	{
		t.POST("", m.Handler.Create)
		t.GET("", m.Handler.ListMine)
		t.GET("/:id", m.Handler.Get)
		t.PATCH("/:id", m.Handler.Update)
		t.PATCH("/:id/status", m.Handler.UpdateStatus)
		t.DELETE("/:id", m.Handler.Delete)
	}
}
