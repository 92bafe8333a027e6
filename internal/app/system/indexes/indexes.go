// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/domain/models"
)

/*
EnsureAll is called at startup. Each ensure step is idempotent. Errors are
aggregated so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	steps := []struct {
		col    string
		models []mongo.IndexModel
	}{
		{models.ColUsers, []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "uid", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
		{models.ColSubscribers, []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "subscribed_at", Value: -1}}},
		}},
		{models.ColOrders, []mongo.IndexModel{
			{Keys: bson.D{{Key: "uid", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		}},
		{models.ColReviews, []mongo.IndexModel{
			{Keys: bson.D{{Key: "product_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "uid", Value: 1}}},
		}},
		{models.ColProducts, []mongo.IndexModel{
			{Keys: bson.D{{Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "name_ci", Value: 1}}},
		}},
		{models.ColCategories, []mongo.IndexModel{
			{Keys: bson.D{{Key: "name_ci", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "position", Value: 1}}},
		}},
		{models.ColHelpMessages, []mongo.IndexModel{
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		}},
		{models.ColGetInTouch, []mongo.IndexModel{
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		}},
	}

	for _, step := range steps {
		if err := ensureIndexSet(ctx, db.Collection(step.col), step.models); err != nil {
			problems = append(problems, step.col+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, idx []mongo.IndexModel) error {
	_, err := coll.Indexes().CreateMany(ctx, idx)
	if err == nil || isOptionsConflictErr(err) {
		// An index with the same keys already exists under another name;
		// good enough, don't fight it.
		return nil
	}
	return err
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}
