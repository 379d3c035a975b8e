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

// MongoGuildSettingsRepository implements domain.GuildSettingsRepository.
// Reads always hit the store: the premium flag gates paid behavior and must
// not be served from a cache.
type MongoGuildSettingsRepository struct {
	collection *mongo.Collection
}

// NewMongoGuildSettingsRepository creates a new guild settings repository.
func NewMongoGuildSettingsRepository(db *mongo.Database) *MongoGuildSettingsRepository {
	return &MongoGuildSettingsRepository{collection: db.Collection(GuildSettingsCollection)}
}

// Get fetches the settings for a guild. An unknown guild yields the default
// settings (premium off) rather than an error.
func (r *MongoGuildSettingsRepository) Get(ctx context.Context, guildID string) (*domain.GuildSettings, error) {
	var settings domain.GuildSettings
	err := r.collection.FindOne(ctx, bson.M{"_id": guildID}).Decode(&settings)
	if err == mongo.ErrNoDocuments {
		return &domain.GuildSettings{GuildID: guildID, IsPremium: false}, nil
	}
	if err != nil {
		return nil, errors.NewPersistenceError(fmt.Sprintf("failed to get guild settings: %v", err))
	}
	return &settings, nil
}

// SetPremium writes the premium flag, creating the settings document if
// absent.
func (r *MongoGuildSettingsRepository) SetPremium(ctx context.Context, guildID string, premium bool) error {
	update := bson.M{
		"$set": bson.M{
			"is_premium": premium,
			"updated_at": time.Now().UTC(),
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateByID(ctx, guildID, update, opts); err != nil {
		return errors.NewPersistenceError(fmt.Sprintf("failed to set premium flag: %v", err))
	}
	return nil
}

var _ domain.GuildSettingsRepository = (*MongoGuildSettingsRepository)(nil)
