// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/domain/models"
)

// EnsureAll creates the store's collections (if missing) and attaches
// JSON-Schema validators to the ones with a fixed shape. Deployments
// that don't support collMod validators (some DocumentDB versions) log
// and skip instead of failing startup.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure(models.ColUsers, usersSchema())
	ensure(models.ColProducts, productsSchema())
	ensure(models.ColCategories, categoriesSchema())
	ensure(models.ColOrders, ordersSchema())
	ensure(models.ColReviews, reviewsSchema())
	ensure(models.ColSubscribers, subscribersSchema())

	// Free-form collections: ensure existence only.
	ensure(models.ColSiteSettings, nil)
	ensure(models.ColShopSlideshow, nil)
	ensure(models.ColHelpMessages, nil)
	ensure(models.ColGetInTouch, nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers ---------------------- */

func ensureCollection(ctx context.Context, db *mongo.Database, name string) error {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err == nil && len(names) > 0 {
		return nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists is fine (race or prior run).
		if isNamespaceExists(err) {
			return nil
		}
		return err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	return db.RunCommand(ctx, cmd).Decode(&out)
}

/* ------------------------- error helpers ------------------------ */

func isNamespaceExists(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 48 {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 59 {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 115 {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs --------------------- */

func requiredText() bson.M {
	return bson.M{"bsonType": "string", "minLength": 1, "pattern": `.*\S.*`}
}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"uid", "email", "full_name"},
			"properties": bson.M{
				"uid":           requiredText(),
				"email":         requiredText(),
				"full_name":     requiredText(),
				"full_name_ci":  requiredText(),
				"phone":         bson.M{"bsonType": "string"},
				"addresses":     bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
				"auth_method":   bson.M{"enum": bson.A{"password", "google"}},
				"status":        bson.M{"enum": bson.A{models.StatusActive, models.StatusDisabled}},
				"password_hash": bson.M{"bsonType": "string"},
			},
		},
	}
}

func productsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "name_ci", "price", "stock", "active"},
			"properties": bson.M{
				"name":        requiredText(),
				"name_ci":     requiredText(),
				"description": bson.M{"bsonType": "string"},
				"category":    bson.M{"bsonType": "string"},
				"price":       bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
				"mrp":         bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
				"image_url":   bson.M{"bsonType": "string"},
				"weight":      bson.M{"bsonType": "string"},
				"stock":       bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
				"active":      bson.M{"bsonType": "bool"},
			},
		},
	}
}

func categoriesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "name_ci", "position"},
			"properties": bson.M{
				"name":        requiredText(),
				"name_ci":     requiredText(),
				"description": bson.M{"bsonType": "string"},
				"image_url":   bson.M{"bsonType": "string"},
				"position":    bson.M{"bsonType": bson.A{"int", "long"}},
			},
		},
	}
}

func ordersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"uid", "customer_name", "customer_email", "address", "items", "status", "payment_method"},
			"properties": bson.M{
				"uid":            requiredText(),
				"customer_name":  requiredText(),
				"customer_email": requiredText(),
				"customer_phone": bson.M{"bsonType": "string"},
				"address":        requiredText(),
				"items": bson.M{
					"bsonType": "array",
					"minItems": 1,
					"items": bson.M{
						"bsonType": "object",
						"required": bson.A{"product_id", "name", "price", "qty"},
						"properties": bson.M{
							"product_id": requiredText(),
							"name":       requiredText(),
							"price":      bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
							"qty":        bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 1},
							"image_url":  bson.M{"bsonType": "string"},
						},
					},
				},
				"reviewed_items": bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
				"subtotal":       bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
				"delivery_fee":   bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
				"total":          bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
				"payment_method": bson.M{"enum": bson.A{"cod", "online"}},
				"status": bson.M{"enum": bson.A{
					models.OrderPlaced,
					models.OrderConfirmed,
					models.OrderPacked,
					models.OrderOutForDelivery,
					models.OrderDelivered,
					models.OrderCancelled,
				}},
			},
		},
	}
}

func reviewsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"uid", "product_id", "rating", "author"},
			"properties": bson.M{
				"uid":        requiredText(),
				"product_id": requiredText(),
				"rating":     bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 1, "maximum": 5},
				"comment":    bson.M{"bsonType": "string"},
				"author":     requiredText(),
			},
		},
	}
}

func subscribersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"email", "subscribed_at"},
			"properties": bson.M{
				"email":         requiredText(),
				"subscribed_at": bson.M{"bsonType": "date"},
			},
		},
	}
}
