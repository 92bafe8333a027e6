// internal/domain/models/product.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is one storefront catalog entry.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"name_ci"` // lowercase, diacritics-stripped
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Category    string             `bson:"category" json:"category"` // category name, resolved via categories collection

	// Pricing in rupees. MRP is the printed price; Price is the selling price.
	Price int `bson:"price" json:"price"`
	MRP   int `bson:"mrp,omitempty" json:"mrp,omitempty"`

	ImageURL string `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Weight   string `bson:"weight,omitempty" json:"weight,omitempty"` // pack size, e.g. "500g"
	Stock    int    `bson:"stock" json:"stock"`
	Active   bool   `bson:"active" json:"active"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// InStock reports whether the product can currently be ordered.
func (p *Product) InStock() bool {
	return p.Active && p.Stock > 0
}
