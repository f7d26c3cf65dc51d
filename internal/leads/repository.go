package leads

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionLeads is the document-store collection backing the repository.
const CollectionLeads = "leads"

var (
	ErrNotFound      = errors.New("lead not found")
	ErrInvalidStatus = errors.New("invalid lead status")
)

// Repository defines persistence operations for leads
type Repository interface {
	Create(ctx context.Context, l *Lead) (*Lead, error)
	List(ctx context.Context) ([]Lead, error)
	ListByStatus(ctx context.Context, status Status) ([]Lead, error)
	GetByID(ctx context.Context, id string) (*Lead, error)
	UpdateStatus(ctx context.Context, id string, status Status, notes string) error
	Assign(ctx context.Context, id, assigneeID string) error
	Delete(ctx context.Context, id string) error
}

// MongoRepository implements Repository using a Mongo collection
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, l *Lead) (*Lead, error) {
	now := time.Now().UTC()
	if l.ID == "" {
		l.ID = primitive.NewObjectID().Hex()
	}
	l.Status = StatusNew
	l.AssignedTo = ""
	l.CreatedAt = now
	l.UpdatedAt = now
	if l.Services == nil {
		l.Services = []string{}
	}
	if _, err := r.col.InsertOne(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *MongoRepository) List(ctx context.Context) ([]Lead, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoRepository) ListByStatus(ctx context.Context, status Status) ([]Lead, error) {
	return r.find(ctx, bson.M{"status": status})
}

// find runs a filtered query ordered by createdAt descending.
func (r *MongoRepository) find(ctx context.Context, filter bson.M) ([]Lead, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []Lead{}
	for cur.Next(ctx) {
		var l Lead
		if err := cur.Decode(&l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	var l Lead
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *MongoRepository) UpdateStatus(ctx context.Context, id string, status Status, notes string) error {
	set := bson.M{"status": status, "notes": notes, "updatedAt": time.Now().UTC()}
	return r.updateOne(ctx, id, set)
}

func (r *MongoRepository) Assign(ctx context.Context, id, assigneeID string) error {
	set := bson.M{"assignedTo": assigneeID, "updatedAt": time.Now().UTC()}
	return r.updateOne(ctx, id, set)
}

func (r *MongoRepository) updateOne(ctx context.Context, id string, set bson.M) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
