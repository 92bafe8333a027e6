// internal/domain/models/review.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a customer product review. Comment HTML is sanitized before it
// is stored.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UID       string             `bson:"uid" json:"uid"`
	ProductID string             `bson:"product_id" json:"product_id"`
	Rating    int                `bson:"rating" json:"rating"` // 1..5
	Comment   string             `bson:"comment,omitempty" json:"comment,omitempty"`
	Author    string             `bson:"author" json:"author"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
