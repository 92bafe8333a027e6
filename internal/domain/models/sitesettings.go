// internal/domain/models/sitesettings.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SiteSettings holds storefront configuration that admins can edit.
// There is a single settings document for the whole site.
type SiteSettings struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`

	// Display settings
	SiteName     string `bson:"site_name" json:"site_name"`
	LogoURL      string `bson:"logo_url,omitempty" json:"logo_url,omitempty"`
	Announcement string `bson:"announcement,omitempty" json:"announcement,omitempty"`

	// Footer
	FooterHTML string `bson:"footer_html,omitempty" json:"footer_html,omitempty"`

	// Support contact shown in the storefront footer
	SupportEmail string `bson:"support_email,omitempty" json:"support_email,omitempty"`
	SupportPhone string `bson:"support_phone,omitempty" json:"support_phone,omitempty"`

	// Delivery pricing (rupees)
	DeliveryFee           int `bson:"delivery_fee" json:"delivery_fee"`
	FreeDeliveryThreshold int `bson:"free_delivery_threshold" json:"free_delivery_threshold"`

	// Audit fields
	UpdatedAt     *time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	UpdatedByID   *primitive.ObjectID `bson:"updated_by_id,omitempty" json:"updated_by_id,omitempty"`
	UpdatedByName string              `bson:"updated_by_name,omitempty" json:"updated_by_name,omitempty"`
}

// HasLogo returns true if a logo has been uploaded.
func (s *SiteSettings) HasLogo() bool {
	return s.LogoURL != ""
}

// Defaults used when no settings document exists yet.
const (
	DefaultSiteName    = "Hyjain Foods"
	DefaultDeliveryFee = 40
)
