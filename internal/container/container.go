// Package container assembles the application services from their
// dependencies. main builds one Container and closes it on shutdown.
package container

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-taskboard/config"
	"github.com/oksasatya/go-taskboard/internal/application"
	"github.com/oksasatya/go-taskboard/internal/domain/repository"
	"github.com/oksasatya/go-taskboard/pkg/helpers"
)

// Deps are the constructed stores and clients. Optional ones may be left nil;
// leave interface fields unset rather than assigning a typed nil pointer.
type Deps struct {
	Users    repository.UserRepository
	Projects repository.ProjectRepository
	Tasks    repository.TaskRepository
	Audit    repository.AuditRepository

	Cache     application.UserCache
	TaskIndex application.TaskIndex
	UserIndex application.UserIndex
	Avatars   application.AvatarStore
	Publisher application.Publisher

	Redis *redis.Client
}

// Check is a named dependency probe for the health endpoint.
type Check func(ctx context.Context) error

type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	JWT    *helpers.JWTManager
	Redis  *redis.Client

	Users    *application.UserService
	Projects *application.ProjectService
	Tasks    *application.TaskService

	Checks map[string]Check

	mu      sync.Mutex
	closers []func()
}

func New(cfg *config.Config, logger *logrus.Logger, d Deps) *Container {
	jwt := helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	audit := application.NewAuditRecorder(d.Audit, logger)
	notifier := application.NewNotifier(d.Publisher, cfg, logger)

	return &Container{
		Config: cfg,
		Logger: logger,
		JWT:    jwt,
		Redis:  d.Redis,
		Users: &application.UserService{
			Repo:           d.Users,
			JWT:            jwt,
			Cache:          d.Cache,
			Index:          d.UserIndex,
			Avatars:        d.Avatars,
			Audit:          audit,
			Logger:         logger,
			AvatarMaxBytes: cfg.AvatarMaxBytes,
		},
		Projects: &application.ProjectService{
			Projects: d.Projects,
			Tasks:    d.Tasks,
			Users:    d.Users,
			Index:    d.TaskIndex,
			Notifier: notifier,
			Audit:    audit,
			Logger:   logger,
		},
		Tasks: &application.TaskService{
			Projects: d.Projects,
			Tasks:    d.Tasks,
			Users:    d.Users,
			Index:    d.TaskIndex,
			Notifier: notifier,
			Audit:    audit,
			Logger:   logger,
		},
		Checks: map[string]Check{},
	}
}

// RateLimitStore returns the Redis client for the rate limiter, or an untyped
// nil when Redis is not configured so the limiter disables itself.
func (c *Container) RateLimitStore() redis.Scripter {
	if c.Redis == nil {
		return nil
	}
	return c.Redis
}

// AddCheck registers a dependency probe reported by /api/health.
func (c *Container) AddCheck(name string, fn Check) {
	c.Checks[name] = fn
}

// OnClose registers fn to run on Close. Closers run in reverse order.
func (c *Container) OnClose(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closers = append(c.closers, fn)
}

func (c *Container) Close() {
	c.mu.Lock()
	closers := c.closers
	c.closers = nil
	c.mu.Unlock()
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
}
