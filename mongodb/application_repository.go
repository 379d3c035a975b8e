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

// MongoApplicationRepository implements domain.ApplicationRepository.
type MongoApplicationRepository struct {
	collection *mongo.Collection
}

// NewMongoApplicationRepository creates a new application repository over
// the given database.
func NewMongoApplicationRepository(db *mongo.Database) *MongoApplicationRepository {
	return &MongoApplicationRepository{collection: db.Collection(ApplicationsCollection)}
}

// Create persists a new pending application.
func (r *MongoApplicationRepository) Create(ctx context.Context, app *domain.Application) error {
	if _, err := r.collection.InsertOne(ctx, app); err != nil {
		return errors.NewPersistenceError(fmt.Sprintf("failed to create application: %v", err))
	}
	return nil
}

// GetByID fetches a guild's application by id.
func (r *MongoApplicationRepository) GetByID(ctx context.Context, guildID, appID string) (*domain.Application, error) {
	var app domain.Application
	err := r.collection.FindOne(ctx, bson.M{"_id": appID, "guild_id": guildID}).Decode(&app)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NewNotFound("application not found")
	}
	if err != nil {
		return nil, errors.NewPersistenceError(fmt.Sprintf("failed to get application: %v", err))
	}
	return &app, nil
}

// ListByGuild lists a guild's applications, newest first, optionally
// narrowed by form and status.
func (r *MongoApplicationRepository) ListByGuild(ctx context.Context, guildID string, filter domain.ApplicationFilter) ([]*domain.Application, error) {
	query := bson.M{"guild_id": guildID}
	if filter.FormID != "" {
		query["form_id"] = filter.FormID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, errors.NewPersistenceError(fmt.Sprintf("failed to list applications: %v", err))
	}
	defer cursor.Close(ctx)

	var apps []*domain.Application
	if err := cursor.All(ctx, &apps); err != nil {
		return nil, errors.NewPersistenceError(fmt.Sprintf("failed to decode applications: %v", err))
	}
	return apps, nil
}

// Decide applies the one-shot status transition. The filter includes
// status=pending so that two concurrent decisions cannot both succeed: the
// loser matches nothing and gets a Conflict.
func (r *MongoApplicationRepository) Decide(
	ctx context.Context,
	guildID, appID string,
	status domain.ApplicationStatus,
	reviewerID, reviewerName string,
	decidedAt time.Time,
) (*domain.Application, error) {
	filter := bson.M{
		"_id":      appID,
		"guild_id": guildID,
		"status":   domain.StatusPending,
	}
	update := bson.M{
		"$set": bson.M{
			"status":        status,
			"reviewer_id":   reviewerID,
			"reviewer_name": reviewerName,
			"decided_at":    decidedAt,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var app domain.Application
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&app)
	if err == mongo.ErrNoDocuments {
		// Either the application does not exist or it is already decided.
		// Distinguish so the caller can answer 404 vs 409.
		if _, getErr := r.GetByID(ctx, guildID, appID); getErr != nil {
			return nil, getErr
		}
		return nil, errors.NewConflict("application has already been decided")
	}
	if err != nil {
		return nil, errors.NewPersistenceError(fmt.Sprintf("failed to decide application: %v", err))
	}
	return &app, nil
}

var _ domain.ApplicationRepository = (*MongoApplicationRepository)(nil)
