package validators_test

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/validators"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/testutil"
)

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	expected := []string{
		"users",
		"products",
		"categories",
		"orders",
		"reviews",
		"subscribers",
		"site_settings",
		"shop_slideshow",
		"help_messages",
		"get_in_touch",
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	have := make(map[string]bool, len(names))
	for _, n := range names {
		have[n] = true
	}
	for _, name := range expected {
		if !have[name] {
			t.Errorf("expected collection %q to exist", name)
		}
	}
}

func TestUsersValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Missing required fields.
	if _, err := db.Collection("users").InsertOne(ctx, bson.M{"email": "a@b.com"}); err == nil {
		t.Error("expected validation error for user without uid/full_name")
	}

	// Unknown auth method.
	_, err := db.Collection("users").InsertOne(ctx, bson.M{
		"uid":         "u1",
		"email":       "a@b.com",
		"full_name":   "Asha Verma",
		"auth_method": "carrier_pigeon",
	})
	if err == nil {
		t.Error("expected validation error for unknown auth_method")
	}

	// Valid user.
	_, err = db.Collection("users").InsertOne(ctx, bson.M{
		"uid":         "u1",
		"email":       "a@b.com",
		"full_name":   "Asha Verma",
		"auth_method": "password",
		"status":      "active",
	})
	if err != nil {
		t.Errorf("insert valid user failed: %v", err)
	}
}

func TestProductsValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	if _, err := db.Collection("products").InsertOne(ctx, bson.M{"name": "Turmeric"}); err == nil {
		t.Error("expected validation error for product without price/stock/active")
	}

	// Negative price.
	_, err := db.Collection("products").InsertOne(ctx, bson.M{
		"name": "Turmeric", "name_ci": "turmeric",
		"price": -5, "stock": 10, "active": true,
	})
	if err == nil {
		t.Error("expected validation error for negative price")
	}

	_, err = db.Collection("products").InsertOne(ctx, bson.M{
		"name": "Turmeric", "name_ci": "turmeric",
		"price": 120, "stock": 10, "active": true,
	})
	if err != nil {
		t.Errorf("insert valid product failed: %v", err)
	}
}

func TestOrdersValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	item := bson.M{"product_id": "p1", "name": "Turmeric", "price": 120, "qty": 2}
	valid := bson.M{
		"uid":            "u1",
		"customer_name":  "Asha Verma",
		"customer_email": "asha@example.com",
		"address":        "12 MG Road",
		"items":          bson.A{item},
		"status":         "placed",
		"payment_method": "cod",
	}

	if _, err := db.Collection("orders").InsertOne(ctx, valid); err != nil {
		t.Errorf("insert valid order failed: %v", err)
	}

	// Empty cart.
	bad := bson.M{}
	for k, v := range valid {
		bad[k] = v
	}
	bad["items"] = bson.A{}
	if _, err := db.Collection("orders").InsertOne(ctx, bad); err == nil {
		t.Error("expected validation error for order with no items")
	}

	// Status outside the lifecycle vocabulary.
	bad = bson.M{}
	for k, v := range valid {
		bad[k] = v
	}
	bad["status"] = "teleported"
	if _, err := db.Collection("orders").InsertOne(ctx, bad); err == nil {
		t.Error("expected validation error for unknown status")
	}
}

func TestReviewsValidator_RatingBounds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := db.Collection("reviews").InsertOne(ctx, bson.M{
		"uid": "u1", "product_id": "p1", "rating": 6, "author": "Asha",
	})
	if err == nil {
		t.Error("expected validation error for rating above 5")
	}

	_, err = db.Collection("reviews").InsertOne(ctx, bson.M{
		"uid": "u1", "product_id": "p1", "rating": 4, "author": "Asha",
	})
	if err != nil {
		t.Errorf("insert valid review failed: %v", err)
	}
}

func TestSubscribersValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	if _, err := db.Collection("subscribers").InsertOne(ctx, bson.M{"email": "a@b.com"}); err == nil {
		t.Error("expected validation error for subscriber without subscribed_at")
	}

	_, err := db.Collection("subscribers").InsertOne(ctx, bson.M{
		"email": "a@b.com", "subscribed_at": time.Now().UTC(),
	})
	if err != nil {
		t.Errorf("insert valid subscriber failed: %v", err)
	}
}
