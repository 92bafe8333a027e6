// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a customer/staff account profile.
//
// NOTE:
//   - There is deliberately no stored role field. Role is derived from the
//     verified email on every request; a role stored on the record would be
//     forgeable client state.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UID        string             `bson:"uid" json:"uid"` // identity provider id
	Email      string             `bson:"email" json:"email"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Addresses  []string           `bson:"addresses,omitempty" json:"addresses,omitempty"`
	AuthMethod string             `bson:"auth_method,omitempty" json:"auth_method,omitempty"` // "password" | "google"
	Status     string             `bson:"status,omitempty" json:"status,omitempty"`           // active | disabled

	// PasswordHash is set only for password accounts; never serialized.
	PasswordHash string `bson:"password_hash,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Account statuses.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)
