package container

import (
	"testing"
	"time"

	"github.com/oksasatya/go-taskboard/config"
	"github.com/oksasatya/go-taskboard/internal/testutil"
	"github.com/oksasatya/go-taskboard/pkg/helpers"
)

func TestNewWiresServices(t *testing.T) {
	fx := testutil.NewFixtures(t)
	cfg := &config.Config{JWTSecret: "s", JWTTTL: time.Hour, AvatarMaxBytes: 42}
	c := New(cfg, helpers.NewDiscardLogger(), Deps{Users: fx.Users, Projects: fx.Projects, Tasks: fx.Tasks})

	if c.Users.Repo != fx.Users || c.Users.AvatarMaxBytes != 42 {
		t.Fatal("user service not wired")
	}
	if c.Projects.Tasks != fx.Tasks || c.Tasks.Projects != fx.Projects {
		t.Fatal("project/task services not wired")
	}
	if c.Users.JWT != c.JWT || c.JWT.TTL != time.Hour {
		t.Fatal("jwt manager not shared")
	}
	if c.RateLimitStore() != nil {
		t.Fatal("rate limit store should be nil without redis")
	}
}

func TestCloseRunsInReverseOnce(t *testing.T) {
	c := New(&config.Config{}, helpers.NewDiscardLogger(), Deps{})
	var order []int
	c.OnClose(func() { order = append(order, 1) })
	c.OnClose(func() { order = append(order, 2) })

	c.Close()
	c.Close()
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Fatalf("close order = %v, want [2 1]", order)
	}
}
