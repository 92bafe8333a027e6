// internal/domain/models/order.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses, in the order they normally progress.
const (
	OrderPlaced         = "placed"
	OrderConfirmed      = "confirmed"
	OrderPacked         = "packed"
	OrderOutForDelivery = "out_for_delivery"
	OrderDelivered      = "delivered"
	OrderCancelled      = "cancelled"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPlaced, OrderConfirmed, OrderPacked, OrderOutForDelivery, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// OrderItem is one line of an order. Price is captured at checkout time so
// later catalog edits don't change historical orders.
type OrderItem struct {
	ProductID string `bson:"product_id" json:"product_id"`
	Name      string `bson:"name" json:"name"`
	Price     int    `bson:"price" json:"price"`
	Qty       int    `bson:"qty" json:"qty"`
	ImageURL  string `bson:"image_url,omitempty" json:"image_url,omitempty"`
}

// Order is a customer checkout. UID is the owning identity's provider id.
type Order struct {
	ID  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UID string             `bson:"uid" json:"uid"`

	CustomerName  string `bson:"customer_name" json:"customer_name"`
	CustomerEmail string `bson:"customer_email" json:"customer_email"`
	CustomerPhone string `bson:"customer_phone,omitempty" json:"customer_phone,omitempty"`
	Address       string `bson:"address" json:"address"`

	Items []OrderItem `bson:"items" json:"items"`

	// ReviewedItems lists product ids the customer has already reviewed
	// from this order. Maintained with $addToSet, never rewritten whole.
	ReviewedItems []string `bson:"reviewed_items,omitempty" json:"reviewed_items,omitempty"`

	Subtotal    int `bson:"subtotal" json:"subtotal"`
	DeliveryFee int `bson:"delivery_fee" json:"delivery_fee"`
	Total       int `bson:"total" json:"total"`

	PaymentMethod string `bson:"payment_method" json:"payment_method"` // "cod" or "online"
	Status        string `bson:"status" json:"status"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Cancellable reports whether the order can still be cancelled by the customer.
func (o *Order) Cancellable() bool {
	return o.Status == OrderPlaced || o.Status == OrderConfirmed
}
