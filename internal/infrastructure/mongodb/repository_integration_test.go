package mongodb

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/go-taskboard/internal/domain/entity"
	"github.com/oksasatya/go-taskboard/internal/domain/repository"
)

// setupTestDB connects to MONGO_TEST_URI and returns a throwaway database.
// Tests are skipped when the variable is not set.
func setupTestDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	db := client.Database("taskboard_test_" + primitive.NewObjectID().Hex())
	if err := EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("indexes: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func TestProjectMembersIntegration(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	p := &entity.Project{Name: "Board", Description: "d", OwnerID: "owner"}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !p.HasMember("owner") {
		t.Fatal("owner must be a member after create")
	}

	got, err := repo.AddMember(ctx, p.ID, "bob")
	if err != nil || !got.HasMember("bob") {
		t.Fatalf("AddMember: %v %v", got, err)
	}
	if _, err := repo.AddMember(ctx, p.ID, "bob"); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("second AddMember err = %v", err)
	}
	if _, err := repo.RemoveMember(ctx, p.ID, "owner"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("removing owner err = %v", err)
	}
	got, err = repo.RemoveMember(ctx, p.ID, "bob")
	if err != nil || got.HasMember("bob") {
		t.Fatalf("RemoveMember: %v %v", got, err)
	}

	list, err := repo.ListForUser(ctx, "owner")
	if err != nil || len(list) != 1 {
		t.Fatalf("ListForUser = %v, %v", list, err)
	}

	if err := repo.Delete(ctx, p.ID, "bob"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("Delete by non-owner err = %v", err)
	}
	if err := repo.Delete(ctx, p.ID, "owner"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestTaskCascadeIntegration(t *testing.T) {
	db := setupTestDB(t)
	projects := NewProjectRepository(db)
	tasks := NewTaskRepository(db)
	ctx := context.Background()

	p := &entity.Project{Name: "Board", OwnerID: "owner"}
	if err := projects.Create(ctx, p); err != nil {
		t.Fatalf("Create project: %v", err)
	}
	for _, title := range []string{"a", "b"} {
		task := &entity.Task{Title: title, Status: entity.StatusTodo, Priority: entity.PriorityMedium, ProjectID: p.ID, CreatedBy: "owner"}
		if err := tasks.Create(ctx, task); err != nil {
			t.Fatalf("Create task: %v", err)
		}
	}

	updated, err := tasks.ListByProject(ctx, p.ID)
	if err != nil || len(updated) != 2 {
		t.Fatalf("ListByProject = %d, %v", len(updated), err)
	}
	moved, err := tasks.UpdateStatus(ctx, updated[0].ID, entity.StatusDone)
	if err != nil || moved.Status != entity.StatusDone {
		t.Fatalf("UpdateStatus = %v, %v", moved, err)
	}

	ids, err := tasks.DeleteByProject(ctx, p.ID)
	if err != nil || len(ids) != 2 {
		t.Fatalf("DeleteByProject = %v, %v", ids, err)
	}
	if _, err := tasks.GetByID(ctx, ids[0]); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("task survived cascade: %v", err)
	}
}
