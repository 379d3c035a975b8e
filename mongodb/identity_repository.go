package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/guildforms/guildforms/domain"
	"github.com/guildforms/guildforms/errors"
)

// MongoIdentityRepository implements domain.IdentityRepository.
type MongoIdentityRepository struct {
	collection *mongo.Collection
}

// NewMongoIdentityRepository creates a new identity repository over the
// given database.
func NewMongoIdentityRepository(db *mongo.Database) *MongoIdentityRepository {
	return &MongoIdentityRepository{collection: db.Collection(IdentitiesCollection)}
}

// Upsert creates the identity or refreshes its display attributes. The
// created_at field is only written on insert.
func (r *MongoIdentityRepository) Upsert(ctx context.Context, identity *domain.Identity) error {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"display_name": identity.DisplayName,
			"avatar_url":   identity.AvatarURL,
			"updated_at":   now,
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateByID(ctx, identity.ID, update, opts); err != nil {
		return errors.NewPersistenceError(fmt.Sprintf("failed to upsert identity: %v", err))
	}
	return nil
}

// GetByID fetches an identity record.
func (r *MongoIdentityRepository) GetByID(ctx context.Context, userID string) (*domain.Identity, error) {
	var identity domain.Identity
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&identity)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NewNotFound("identity not found")
	}
	if err != nil {
		return nil, errors.NewPersistenceError(fmt.Sprintf("failed to get identity: %v", err))
	}
	return &identity, nil
}

var _ domain.IdentityRepository = (*MongoIdentityRepository)(nil)
