package main

import (
	"context"
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-taskboard/config"
	"github.com/oksasatya/go-taskboard/internal/domain/entity"
	"github.com/oksasatya/go-taskboard/internal/domain/repository"
	"github.com/oksasatya/go-taskboard/internal/infrastructure/mongodb"
	pginfra "github.com/oksasatya/go-taskboard/internal/infrastructure/postgres"
	"github.com/oksasatya/go-taskboard/pkg/helpers"
)

const (
	demoPassword = "password123"
	demoProject  = "Demo Board"
)

var demoUsers = []struct{ name, email string }{
	{"Demo Owner", "owner@taskboard.dev"},
	{"Demo Member", "member@taskboard.dev"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("connect postgres")
	}
	defer pool.Close()
	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		logger.WithError(err).Fatal("migrate")
	}

	mc, db, err := mongodb.Connect(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("connect mongodb")
	}
	defer func() { _ = mc.Disconnect(context.Background()) }()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		logger.WithError(err).Fatal("ensure indexes")
	}

	s := &seeder{
		users:    pginfra.NewUserRepository(pool),
		projects: mongodb.NewProjectRepository(db),
		tasks:    mongodb.NewTaskRepository(db),
		logger:   logger,
	}
	if err := s.run(ctx); err != nil {
		logger.WithError(err).Fatal("seed failed")
	}
}

type seeder struct {
	users    repository.UserRepository
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	logger   *logrus.Logger
}

// run is idempotent: existing users and an existing demo project are reused.
func (s *seeder) run(ctx context.Context) error {
	hash, err := helpers.HashPassword(demoPassword)
	if err != nil {
		return err
	}
	users := make([]*entity.User, 0, len(demoUsers))
	for _, d := range demoUsers {
		u, err := s.users.GetByEmail(ctx, d.email)
		if errors.Is(err, repository.ErrNotFound) {
			u = &entity.User{Name: d.name, Email: d.email, Password: hash, AvatarURL: entity.DefaultAvatarURL(d.name)}
			err = s.users.Create(ctx, u)
		}
		if err != nil {
			return err
		}
		users = append(users, u)
		s.logger.WithFields(logrus.Fields{"id": u.ID, "email": u.Email, "password": demoPassword}).Info("seeded user")
	}
	owner, member := users[0], users[1]

	existing, err := s.projects.ListForUser(ctx, owner.ID)
	if err != nil {
		return err
	}
	for _, p := range existing {
		if p.Name == demoProject && p.OwnerID == owner.ID {
			s.logger.WithField("project_id", p.ID).Info("demo project already present")
			return nil
		}
	}

	p := &entity.Project{
		Name:        demoProject,
		Description: "Sample project created by the seed command",
		OwnerID:     owner.ID,
		MemberIDs:   []string{owner.ID, member.ID},
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return err
	}

	due := time.Now().UTC().AddDate(0, 0, 7).Truncate(24 * time.Hour)
	tasks := []*entity.Task{
		{Title: "Write onboarding guide", Description: "Cover registration and the board", Status: entity.StatusTodo, Priority: entity.PriorityMedium, CreatedBy: owner.ID, AssigneeID: &member.ID, DueDate: &due},
		{Title: "Set up CI", Description: "Run tests on every push", Status: entity.StatusInProgress, Priority: entity.PriorityHigh, CreatedBy: owner.ID, AssigneeID: &owner.ID},
		{Title: "Pick a logo", Description: "Three options to vote on", Status: entity.StatusDone, Priority: entity.PriorityLow, CreatedBy: member.ID},
	}
	for _, t := range tasks {
		t.ProjectID = p.ID
		if err := s.tasks.Create(ctx, t); err != nil {
			return err
		}
	}
	s.logger.WithFields(logrus.Fields{"project_id": p.ID, "tasks": len(tasks)}).Info("seeded demo project")
	return nil
}
