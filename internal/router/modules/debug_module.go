package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-taskboard/internal/interface/middleware"
)

// DebugModule exposes expvar metrics to private networks only.
type DebugModule struct {
	Limiter redis.Scripter
}

func NewDebugModule(limiter redis.Scripter) *DebugModule { return &DebugModule{Limiter: limiter} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(m.Limiter, 120, time.Minute, middleware.KeyByIP(), nil)
	rg.GET("/debug/vars", middleware.Require(middleware.AllowPrivateIP()), rl, gin.WrapH(expvar.Handler()))
}
