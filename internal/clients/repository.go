package clients

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository defines persistence operations for client profiles
type Repository interface {
	UpsertBySubject(ctx context.Context, p *Profile) (*Profile, error)
	GetBySubject(ctx context.Context, subject string) (*Profile, error)
}

// MongoRepository implements Repository using MongoDB
type MongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository creates a new repository for the given collection
func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

// upsertUpdate builds the profile upsert document. The contact fields and
// updatedAt are rewritten on every login; createdAt lives in $setOnInsert so
// a returning client keeps their original creation time.
func upsertUpdate(p *Profile, now time.Time) bson.M {
	return bson.M{
		"$set": bson.M{
			"email":     p.Email,
			"name":      p.Name,
			"company":   p.Company,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"createdAt": now,
		},
	}
}

func (r *MongoRepository) UpsertBySubject(ctx context.Context, p *Profile) (*Profile, error) {
	now := time.Now().UTC()
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var updated Profile
	err := r.col.FindOneAndUpdate(ctx, bson.M{"subject": p.Subject}, upsertUpdate(p, now), opts).Decode(&updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *MongoRepository) GetBySubject(ctx context.Context, subject string) (*Profile, error) {
	var p Profile
	if err := r.col.FindOne(ctx, bson.M{"subject": subject}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
