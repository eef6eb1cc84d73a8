package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-taskboard/config"
	"github.com/oksasatya/go-taskboard/internal/container"
	"github.com/oksasatya/go-taskboard/internal/infrastructure/cache"
	"github.com/oksasatya/go-taskboard/internal/infrastructure/mongodb"
	pginfra "github.com/oksasatya/go-taskboard/internal/infrastructure/postgres"
	"github.com/oksasatya/go-taskboard/internal/infrastructure/search"
	"github.com/oksasatya/go-taskboard/internal/infrastructure/storage"
	"github.com/oksasatya/go-taskboard/internal/router"
	"github.com/oksasatya/go-taskboard/pkg/helpers"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()
	c, err := build(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("startup failed")
	}
	defer c.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.NewEngine(c),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}
	logger.Info("server exited properly")
}

// build connects the required stores (Postgres, MongoDB) and whichever
// optional services are configured, then assembles the container.
func build(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*container.Container, error) {
	var closers []func()
	fail := func(err error) (*container.Container, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
		return nil, err
	}

	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, pool.Close)
	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		return fail(err)
	}

	mc, db, err := mongodb.Connect(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, func() { _ = mc.Disconnect(context.Background()) })
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return fail(err)
	}

	deps := container.Deps{
		Users:    pginfra.NewUserRepository(pool),
		Audit:    pginfra.NewAuditRepository(pool),
		Projects: mongodb.NewProjectRepository(db),
		Tasks:    mongodb.NewTaskRepository(db),
	}
	checks := map[string]container.Check{
		"postgres": pool.Ping,
		"mongodb":  func(ctx context.Context) error { return mc.Ping(ctx, nil) },
	}

	if rdb := connectRedis(ctx, cfg, logger); rdb != nil {
		closers = append(closers, func() { _ = rdb.Close() })
		deps.Redis = rdb
		deps.Cache = cache.NewUserCache(rdb, cfg.UserCacheTTL)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	switch {
	case err != nil:
		logger.WithError(err).Warn("elasticsearch client init failed; search falls back to the database")
	case es != nil:
		deps.TaskIndex = search.NewTaskIndex(es, cfg.ESTasksIndex)
		deps.UserIndex = search.NewUserIndex(es, cfg.ESUsersIndex)
		checks["elasticsearch"] = func(ctx context.Context) error {
			res, err := es.Ping(es.Ping.WithContext(ctx))
			if err != nil {
				return err
			}
			defer res.Body.Close()
			if res.IsError() {
				return errors.New(res.Status())
			}
			return nil
		}
	default:
		logger.Info("elasticsearch not configured; search falls back to the database")
	}

	if cfg.GCSBucket != "" {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.WithError(err).Warn("gcs client init failed; avatar upload disabled")
		} else {
			closers = append(closers, func() { _ = gcs.Close() })
			deps.Avatars = storage.NewAvatarStore(gcs, cfg.GCSBucket)
		}
	}

	if cfg.MailSendEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; notification emails disabled")
		} else {
			closers = append(closers, pub.Close)
			deps.Publisher = pub
		}
	}

	c := container.New(cfg, logger, deps)
	for _, fn := range closers {
		c.OnClose(fn)
	}
	for name, fn := range checks {
		c.AddCheck(name, fn)
	}
	return c, nil
}

// connectRedis returns nil when Redis is not configured or unreachable; rate
// limiting and the user cache are then off.
func connectRedis(ctx context.Context, cfg *config.Config, logger *logrus.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.WithError(err).Warn("redis unreachable; rate limiting and user cache disabled")
		_ = rdb.Close()
		return nil
	}
	return rdb
}
