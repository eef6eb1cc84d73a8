package mongodb

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes is called at startup. CreateMany is idempotent for indexes
// with identical names and keys; problems are aggregated so startup can fail fast.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensure(ctx, db.Collection(projectsCollection), projectIndexes()); err != nil {
		problems = append(problems, projectsCollection+": "+err.Error())
	}
	if err := ensure(ctx, db.Collection(tasksCollection), taskIndexes()); err != nil {
		problems = append(problems, tasksCollection+": "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func projectIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner", Value: 1}}, Options: options.Index().SetName("idx_projects_owner")},
		{Keys: bson.D{{Key: "members", Value: 1}, {Key: "created_at", Value: -1}}, Options: options.Index().SetName("idx_projects_members_created")},
	}
}

func taskIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "created_at", Value: -1}}, Options: options.Index().SetName("idx_tasks_project_created")},
		{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "status", Value: 1}}, Options: options.Index().SetName("idx_tasks_project_status")},
		{Keys: bson.D{{Key: "assignee_id", Value: 1}}, Options: options.Index().SetName("idx_tasks_assignee")},
		{Keys: bson.D{{Key: "created_by", Value: 1}}, Options: options.Index().SetName("idx_tasks_created_by")},
	}
}

func ensure(ctx context.Context, c *mongo.Collection, models []mongo.IndexModel) error {
	_, err := c.Indexes().CreateMany(ctx, models)
	return err
}
