package main

import (
	"context"
	"testing"

	"github.com/oksasatya/go-taskboard/internal/testutil"
	"github.com/oksasatya/go-taskboard/pkg/helpers"
)

func TestSeedIsIdempotent(t *testing.T) {
	fx := testutil.NewFixtures(t)
	s := &seeder{users: fx.Users, projects: fx.Projects, tasks: fx.Tasks, logger: helpers.NewDiscardLogger()}

	for i := 0; i < 2; i++ {
		if err := s.run(context.Background()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if n := fx.Projects.Len(); n != 1 {
		t.Fatalf("projects = %d, want 1", n)
	}
	if n := fx.Tasks.Len(); n != 3 {
		t.Fatalf("tasks = %d, want 3", n)
	}
	owner, err := fx.Users.GetByEmail(context.Background(), "owner@taskboard.dev")
	if err != nil {
		t.Fatal(err)
	}
	if !helpers.CompareHashAndPassword(owner.Password, demoPassword) {
		t.Fatal("seeded password does not verify")
	}
}
