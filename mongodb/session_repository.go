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

// MongoSessionRepository implements domain.SessionRepository.
type MongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new session repository and ensures
// its indexes: token lookup plus a TTL index so expired sessions age out of
// the store on their own.
func NewMongoSessionRepository(ctx context.Context, db *mongo.Database) (*MongoSessionRepository, error) {
	repo := &MongoSessionRepository{collection: db.Collection(SessionsCollection)}

	_, err := repo.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token_value", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session indexes: %w", err)
	}
	return repo, nil
}

// Store persists a new session.
func (r *MongoSessionRepository) Store(ctx context.Context, session *domain.Session) error {
	if _, err := r.collection.InsertOne(ctx, session); err != nil {
		return errors.NewPersistenceError(fmt.Sprintf("failed to store session: %v", err))
	}
	return nil
}

// GetByToken fetches a session by its token value and records the access
// time, best effort.
func (r *MongoSessionRepository) GetByToken(ctx context.Context, tokenValue string) (*domain.Session, error) {
	var session domain.Session
	err := r.collection.FindOne(ctx, bson.M{"token_value": tokenValue}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NewNotFound("session not found")
	}
	if err != nil {
		return nil, errors.NewPersistenceError(fmt.Sprintf("failed to get session: %v", err))
	}

	_, _ = r.collection.UpdateByID(ctx, session.ID, bson.M{
		"$set": bson.M{"last_used_at": time.Now().UTC()},
	})
	return &session, nil
}

// Revoke marks a session as logged out.
func (r *MongoSessionRepository) Revoke(ctx context.Context, tokenValue string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"token_value": tokenValue},
		bson.M{"$set": bson.M{"is_revoked": true}},
	)
	if err != nil {
		return errors.NewPersistenceError(fmt.Sprintf("failed to revoke session: %v", err))
	}
	return nil
}

var _ domain.SessionRepository = (*MongoSessionRepository)(nil)
