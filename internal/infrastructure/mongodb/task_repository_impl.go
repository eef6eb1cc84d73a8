package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/go-taskboard/internal/domain/entity"
	"github.com/oksasatya/go-taskboard/internal/domain/repository"
)

type TaskRepository struct {
	c *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{c: db.Collection(tasksCollection)}
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	pid, err := objectID(t.ProjectID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	doc := newTaskDoc(t, pid)
	doc.ID = primitive.NewObjectID()
	if _, err := r.c.InsertOne(ctx, doc); err != nil {
		return mapErr(err)
	}
	t.ID = doc.ID.Hex()
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc taskDoc
	if err := r.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.toEntity(), nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]*entity.Task, error) {
	pid, err := objectID(projectID)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{"project_id": pid})
}

func (r *TaskRepository) ListForUser(ctx context.Context, userID string) ([]*entity.Task, error) {
	return r.find(ctx, bson.M{"$or": bson.A{
		bson.M{"created_by": userID},
		bson.M{"assignee_id": userID},
	}})
}

func (r *TaskRepository) find(ctx context.Context, filter bson.M) ([]*entity.Task, error) {
	cur, err := r.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []taskDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*entity.Task, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toEntity())
	}
	return out, nil
}

// Update rewrites the mutable fields. project_id, created_by and created_at are never touched.
func (r *TaskRepository) Update(ctx context.Context, t *entity.Task) error {
	oid, err := objectID(t.ID)
	if err != nil {
		return err
	}
	t.UpdatedAt = time.Now().UTC()
	res, err := r.c.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"title":       t.Title,
		"description": t.Description,
		"status":      string(t.Status),
		"priority":    string(t.Priority),
		"assignee_id": t.AssigneeID,
		"due_date":    t.DueDate,
		"updated_at":  t.UpdatedAt,
	}})
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, id string, status entity.TaskStatus) (*entity.Task, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc taskDoc
	err = r.c.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": string(status), "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, mapErr(err)
	}
	return doc.toEntity(), nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByProject removes every task of a project and returns the ids removed.
func (r *TaskRepository) DeleteByProject(ctx context.Context, projectID string) ([]string, error) {
	pid, err := objectID(projectID)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"project_id": pid}
	cur, err := r.c.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	if _, err := r.c.DeleteMany(ctx, filter); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID.Hex())
	}
	return ids, nil
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
