// internal/domain/models/collections.go
package models

// Collection names used across stores, the live aggregator, and index setup.
const (
	ColSiteSettings  = "site_settings"
	ColProducts      = "products"
	ColCategories    = "categories"
	ColShopSlideshow = "shop_slideshow"
	ColOrders        = "orders"
	ColReviews       = "reviews"
	ColUsers         = "users"
	ColHelpMessages  = "help_messages"
	ColGetInTouch    = "get_in_touch"
	ColSubscribers   = "subscribers"
)
