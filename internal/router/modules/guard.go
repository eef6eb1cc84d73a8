package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-taskboard/internal/interface/middleware"
)

// Guard is the middleware chain for authenticated routes: bearer auth
// followed by a per-user rate limit.
type Guard struct {
	Auth    gin.HandlerFunc
	Limiter redis.Scripter
	PerMin  int
}

func (g Guard) group(rg *gin.RouterGroup, path string) *gin.RouterGroup {
	grp := rg.Group(path)
	grp.Use(g.Auth, middleware.RateLimit(g.Limiter, g.PerMin, time.Minute, middleware.KeyByUserID(), nil))
	return grp
}
