package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateProduct creates a test product in the given category.
func (f *Fixtures) CreateProduct(ctx context.Context, name, category string, price int) models.Product {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Product{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Category:  category,
		Price:     price,
		MRP:       price,
		Stock:     100,
		Active:    true,
		CreatedAt: now,
	}

	if _, err := f.db.Collection(models.ColProducts).InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test product: %v", err)
	}
	return p
}

// CreateCategory creates a test category at the given position.
func (f *Fixtures) CreateCategory(ctx context.Context, name string, position int) models.Category {
	f.t.Helper()

	c := models.Category{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Position:  position,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection(models.ColCategories).InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test category: %v", err)
	}
	return c
}

// CreateUser creates a test user account.
func (f *Fixtures) CreateUser(ctx context.Context, uid, fullName, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		UID:        uid,
		Email:      email,
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		AuthMethod: "password",
		Status:     models.StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection(models.ColUsers).InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateOrder creates a placed test order owned by uid with one line item.
func (f *Fixtures) CreateOrder(ctx context.Context, uid string, productID primitive.ObjectID, qty int) models.Order {
	f.t.Helper()

	o := models.Order{
		ID:            primitive.NewObjectID(),
		UID:           uid,
		CustomerName:  "Test Customer",
		CustomerEmail: "customer@test.com",
		Address:       "12 Test Street",
		Items: []models.OrderItem{
			{ProductID: productID.Hex(), Name: "Test Product", Price: 100, Qty: qty},
		},
		Subtotal:      100 * qty,
		DeliveryFee:   0,
		Total:         100 * qty,
		PaymentMethod: "cod",
		Status:        models.OrderPlaced,
		CreatedAt:     time.Now().UTC(),
	}

	if _, err := f.db.Collection(models.ColOrders).InsertOne(ctx, o); err != nil {
		f.t.Fatalf("failed to create test order: %v", err)
	}
	return o
}

// CreateReview creates a test review for the given product.
func (f *Fixtures) CreateReview(ctx context.Context, uid, productID string, rating int) models.Review {
	f.t.Helper()

	rv := models.Review{
		ID:        primitive.NewObjectID(),
		UID:       uid,
		ProductID: productID,
		Rating:    rating,
		Comment:   "Test review",
		Author:    "Test Customer",
		CreatedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection(models.ColReviews).InsertOne(ctx, rv); err != nil {
		f.t.Fatalf("failed to create test review: %v", err)
	}
	return rv
}

// CreateSubscriber creates a newsletter subscriber.
func (f *Fixtures) CreateSubscriber(ctx context.Context, email string) models.Subscriber {
	f.t.Helper()

	s := models.Subscriber{
		ID:           primitive.NewObjectID(),
		Email:        email,
		SubscribedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection(models.ColSubscribers).InsertOne(ctx, s); err != nil {
		f.t.Fatalf("failed to create test subscriber: %v", err)
	}
	return s
}

// CreateSlide creates a slideshow entry.
func (f *Fixtures) CreateSlide(ctx context.Context, imageURL string, position int) models.Slide {
	f.t.Helper()

	s := models.Slide{
		ID:        primitive.NewObjectID(),
		ImageURL:  imageURL,
		Position:  position,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection(models.ColShopSlideshow).InsertOne(ctx, s); err != nil {
		f.t.Fatalf("failed to create test slide: %v", err)
	}
	return s
}

// CreateHelpMessage creates an unread help request from a signed-in customer.
func (f *Fixtures) CreateHelpMessage(ctx context.Context, uid, email, subject, body string) models.HelpMessage {
	f.t.Helper()

	m := models.HelpMessage{
		ID:        primitive.NewObjectID(),
		UID:       uid,
		Email:     email,
		Subject:   subject,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection(models.ColHelpMessages).InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test help message: %v", err)
	}
	return m
}

// CreateContactMessage creates a get-in-touch submission.
func (f *Fixtures) CreateContactMessage(ctx context.Context, name, email, message string) models.ContactMessage {
	f.t.Helper()

	m := models.ContactMessage{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection(models.ColGetInTouch).InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test contact message: %v", err)
	}
	return m
}
