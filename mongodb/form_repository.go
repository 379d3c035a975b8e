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

// MongoFormRepository implements domain.FormRepository.
type MongoFormRepository struct {
	collection *mongo.Collection
}

// NewMongoFormRepository creates a new form repository over the given
// database.
func NewMongoFormRepository(db *mongo.Database) *MongoFormRepository {
	return &MongoFormRepository{collection: db.Collection(FormsCollection)}
}

// Create persists a new form.
func (r *MongoFormRepository) Create(ctx context.Context, form *domain.Form) error {
	now := time.Now().UTC()
	form.CreatedAt = now
	form.UpdatedAt = now
	if _, err := r.collection.InsertOne(ctx, form); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.NewConflict("form id already exists")
		}
		return errors.NewPersistenceError(fmt.Sprintf("failed to create form: %v", err))
	}
	return nil
}

// Update replaces a form, keyed by id and guild so a form can never be
// moved between guilds.
func (r *MongoFormRepository) Update(ctx context.Context, form *domain.Form) error {
	form.UpdatedAt = time.Now().UTC()
	filter := bson.M{"_id": form.ID, "guild_id": form.GuildID}
	result, err := r.collection.ReplaceOne(ctx, filter, form)
	if err != nil {
		return errors.NewPersistenceError(fmt.Sprintf("failed to update form: %v", err))
	}
	if result.MatchedCount == 0 {
		return errors.NewNotFound("form not found")
	}
	return nil
}

// Delete removes a form.
func (r *MongoFormRepository) Delete(ctx context.Context, guildID, formID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": formID, "guild_id": guildID})
	if err != nil {
		return errors.NewPersistenceError(fmt.Sprintf("failed to delete form: %v", err))
	}
	if result.DeletedCount == 0 {
		return errors.NewNotFound("form not found")
	}
	return nil
}

// GetByID fetches a single form. This lookup is not guild-scoped: the
// submission UI fetches forms by id alone.
func (r *MongoFormRepository) GetByID(ctx context.Context, formID string) (*domain.Form, error) {
	var form domain.Form
	err := r.collection.FindOne(ctx, bson.M{"_id": formID}).Decode(&form)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NewNotFound("form not found")
	}
	if err != nil {
		return nil, errors.NewPersistenceError(fmt.Sprintf("failed to get form: %v", err))
	}
	return &form, nil
}

// ListByGuild lists a guild's forms, newest first.
func (r *MongoFormRepository) ListByGuild(ctx context.Context, guildID string) ([]*domain.Form, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"guild_id": guildID}, opts)
	if err != nil {
		return nil, errors.NewPersistenceError(fmt.Sprintf("failed to list forms: %v", err))
	}
	defer cursor.Close(ctx)

	var forms []*domain.Form
	if err := cursor.All(ctx, &forms); err != nil {
		return nil, errors.NewPersistenceError(fmt.Sprintf("failed to decode forms: %v", err))
	}
	return forms, nil
}

var _ domain.FormRepository = (*MongoFormRepository)(nil)
