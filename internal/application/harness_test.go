package application_test

import (
	"testing"
	"time"

	"github.com/oksasatya/go-taskboard/config"
	"github.com/oksasatya/go-taskboard/internal/application"
	"github.com/oksasatya/go-taskboard/internal/domain/apperror"
	"github.com/oksasatya/go-taskboard/internal/testutil"
	"github.com/oksasatya/go-taskboard/pkg/helpers"
)

type harness struct {
	fx       *testutil.Fixtures
	pub      *testutil.Publisher
	index    *testutil.TaskIndex
	audit    *testutil.AuditRepo
	cache    *testutil.UserCache
	avatars  *testutil.AvatarStore
	users    *application.UserService
	projects *application.ProjectService
	tasks    *application.TaskService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	fx := testutil.NewFixtures(t)
	logger := helpers.NewDiscardLogger()
	cfg := &config.Config{AppName: "Taskboard", AppURL: "http://board.test", MailSendEnabled: true}

	h := &harness{
		fx:      fx,
		pub:     &testutil.Publisher{},
		index:   testutil.NewTaskIndex(),
		audit:   &testutil.AuditRepo{},
		cache:   &testutil.UserCache{},
		avatars: &testutil.AvatarStore{},
	}
	audit := application.NewAuditRecorder(h.audit, logger)
	notifier := application.NewNotifier(h.pub, cfg, logger)

	h.users = &application.UserService{
		Repo:           fx.Users,
		JWT:            helpers.NewJWTManager("test-secret", time.Hour),
		Cache:          h.cache,
		Avatars:        h.avatars,
		Audit:          audit,
		Logger:         logger,
		AvatarMaxBytes: 1 << 10,
	}
	h.projects = &application.ProjectService{
		Projects: fx.Projects, Tasks: fx.Tasks, Users: fx.Users,
		Index: h.index, Notifier: notifier, Audit: audit, Logger: logger,
	}
	h.tasks = &application.TaskService{
		Projects: fx.Projects, Tasks: fx.Tasks, Users: fx.Users,
		Index: h.index, Notifier: notifier, Audit: audit, Logger: logger,
	}
	return h
}

func wantKind(t *testing.T, err error, k apperror.Kind) {
	t.Helper()
	if got := apperror.KindOf(err); got != k {
		t.Fatalf("error kind = %v (%v), want %v", got, err, k)
	}
}

func ptr[T any](v T) *T { return &v }
