// internal/domain/models/messages.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HelpMessage is a support request from a signed-in customer.
type HelpMessage struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UID     string             `bson:"uid,omitempty" json:"uid,omitempty"`
	Email   string             `bson:"email" json:"email"`
	Subject string             `bson:"subject" json:"subject"`
	Body    string             `bson:"body" json:"body"`
	Read    bool               `bson:"read" json:"read"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// ContactMessage is a get-in-touch submission from the public contact form.
type ContactMessage struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name    string             `bson:"name" json:"name"`
	Email   string             `bson:"email" json:"email"`
	Phone   string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Message string             `bson:"message" json:"message"`
	Read    bool               `bson:"read" json:"read"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
