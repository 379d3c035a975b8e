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

// MongoPermissionRepository implements domain.PermissionRepository.
type MongoPermissionRepository struct {
	collection *mongo.Collection
}

// NewMongoPermissionRepository creates a new permission repository over the
// given database.
func NewMongoPermissionRepository(db *mongo.Database) *MongoPermissionRepository {
	return &MongoPermissionRepository{collection: db.Collection(PermissionsCollection)}
}

// MergeAdminGuilds unions guildIDs into the persisted set. $addToSet keeps
// the merge idempotent and tolerant of concurrent logins; entries are never
// removed here.
func (r *MongoPermissionRepository) MergeAdminGuilds(ctx context.Context, userID string, guildIDs []string) error {
	if len(guildIDs) == 0 {
		// Still touch the record so a user with no admin guilds gets one.
		guildIDs = []string{}
	}
	update := bson.M{
		"$addToSet": bson.M{"admin_guilds": bson.M{"$each": guildIDs}},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateByID(ctx, userID, update, opts); err != nil {
		return errors.NewPersistenceError(fmt.Sprintf("failed to merge admin guilds: %v", err))
	}
	return nil
}

// IsAdmin performs a point lookup: does the user's persisted set contain
// guildID.
func (r *MongoPermissionRepository) IsAdmin(ctx context.Context, userID, guildID string) (bool, error) {
	filter := bson.M{"_id": userID, "admin_guilds": guildID}
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, errors.NewPersistenceError(fmt.Sprintf("failed to check admin permission: %v", err))
	}
	return count > 0, nil
}

var _ domain.PermissionRepository = (*MongoPermissionRepository)(nil)
