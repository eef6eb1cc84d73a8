package router

import (
	"context"

	"github.com/oksasatya/go-taskboard/internal/container"
	handlers "github.com/oksasatya/go-taskboard/internal/interface/http"
	"github.com/oksasatya/go-taskboard/internal/interface/middleware"
	"github.com/oksasatya/go-taskboard/internal/router/modules"
)

// InitModules builds the handlers from c and adds every feature module to r.
// Call once during startup, before r.RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	cfg := c.Config
	guard := modules.Guard{
		Auth:    middleware.Auth(c.Users, c.Logger),
		Limiter: c.RateLimitStore(),
		PerMin:  cfg.APIRateLimit,
	}

	checks := make(map[string]handlers.Pinger, len(c.Checks))
	for name, fn := range c.Checks {
		fn := fn
		checks[name] = func(ctx context.Context) error { return fn(ctx) }
	}

	r.Add(modules.NewHealthModule(handlers.NewHealthHandler(checks)))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(c.Users, c.Logger), guard, cfg.AuthRateLimit))
	r.Add(modules.NewProjectModule(handlers.NewProjectHandler(c.Projects, c.Tasks, c.Logger), guard))
	r.Add(modules.NewTaskModule(handlers.NewTaskHandler(c.Tasks, c.Logger), guard))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(c.Users, c.Logger), guard))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(c.RateLimitStore()))
	}
}
