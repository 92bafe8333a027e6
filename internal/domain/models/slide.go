// internal/domain/models/slide.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Slide is one promotional image in the shop slideshow.
type Slide struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ImageURL string             `bson:"image_url" json:"image_url"`
	Caption  string             `bson:"caption,omitempty" json:"caption,omitempty"`
	Link     string             `bson:"link,omitempty" json:"link,omitempty"` // storefront path the slide points at
	Position int                `bson:"position" json:"position"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
