// internal/app/store/sitesettings/sitesettingsstore.go
package sitesettingsstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/domain/models"
)

// Store provides access to the site_settings collection.
// The storefront has a single settings document.
type Store struct {
	c *mongo.Collection
}

// New creates a new settings store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(models.ColSiteSettings)}
}

// Get returns the site settings. If no settings document exists yet,
// returns defaults.
func (s *Store) Get(ctx context.Context) (models.SiteSettings, error) {
	var settings models.SiteSettings
	err := s.c.FindOne(ctx, bson.M{}).Decode(&settings)
	if err == mongo.ErrNoDocuments {
		return models.SiteSettings{
			SiteName:    models.DefaultSiteName,
			DeliveryFee: models.DefaultDeliveryFee,
		}, nil
	}
	if err != nil {
		return models.SiteSettings{}, err
	}
	return settings, nil
}

// SeedDefaults creates the settings document if the collection is empty.
// Existing settings are never touched, so this is safe to run on every
// startup.
func (s *Store) SeedDefaults(ctx context.Context) error {
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":          primitive.NewObjectID(),
			"site_name":    models.DefaultSiteName,
			"delivery_fee": models.DefaultDeliveryFee,
			"created_at":   time.Now().UTC(),
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, bson.M{}, update, opts)
	return err
}
