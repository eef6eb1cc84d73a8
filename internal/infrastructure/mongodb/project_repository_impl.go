package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/go-taskboard/internal/domain/entity"
	"github.com/oksasatya/go-taskboard/internal/domain/repository"
)

type ProjectRepository struct {
	c *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{c: db.Collection(projectsCollection)}
}

func (r *ProjectRepository) Create(ctx context.Context, p *entity.Project) error {
	now := time.Now().UTC()
	p.EnsureOwnerMember()
	doc := projectDoc{
		ID:          primitive.NewObjectID(),
		Name:        p.Name,
		Description: p.Description,
		Owner:       p.OwnerID,
		Members:     p.MemberIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.c.InsertOne(ctx, doc); err != nil {
		return mapErr(err)
	}
	p.ID = doc.ID.Hex()
	p.CreatedAt, p.UpdatedAt = now, now
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc projectDoc
	if err := r.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.toEntity(), nil
}

func (r *ProjectRepository) ListForUser(ctx context.Context, userID string) ([]*entity.Project, error) {
	filter := bson.M{"$or": bson.A{bson.M{"owner": userID}, bson.M{"members": userID}}}
	cur, err := r.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []projectDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*entity.Project, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toEntity())
	}
	return out, nil
}

func (r *ProjectRepository) UpdateInfo(ctx context.Context, p *entity.Project) error {
	oid, err := objectID(p.ID)
	if err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()
	res, err := r.c.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"name":        p.Name,
		"description": p.Description,
		"updated_at":  p.UpdatedAt,
	}})
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id, ownerID string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": oid, "owner": ownerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AddMember pushes userID into members in one atomic update. The filter only
// matches when userID is not yet a member, so a concurrent duplicate add
// reports ErrDuplicate instead of silently succeeding twice.
func (r *ProjectRepository) AddMember(ctx context.Context, projectID, userID string) (*entity.Project, error) {
	oid, err := objectID(projectID)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"_id": oid, "members": bson.M{"$ne": userID}}
	update := bson.M{
		"$addToSet": bson.M{"members": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}
	var doc projectDoc
	err = r.c.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		n, cerr := r.c.CountDocuments(ctx, bson.M{"_id": oid})
		if cerr != nil {
			return nil, cerr
		}
		if n > 0 {
			return nil, repository.ErrDuplicate
		}
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, mapErr(err)
	}
	return doc.toEntity(), nil
}

// RemoveMember pulls userID from members. The owner can never be pulled: the
// filter excludes documents whose owner is userID.
func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, userID string) (*entity.Project, error) {
	oid, err := objectID(projectID)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"_id": oid, "owner": bson.M{"$ne": userID}}
	update := bson.M{
		"$pull": bson.M{"members": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	var doc projectDoc
	err = r.c.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		return nil, mapErr(err)
	}
	return doc.toEntity(), nil
}

var _ repository.ProjectRepository = (*ProjectRepository)(nil)
