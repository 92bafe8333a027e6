// internal/app/live/schema.go
package live

import "github.com/nidhishatechnology96-eng/hyjain-server/internal/domain/models"

// createRequired lists the fields a Create payload must carry per
// collection. Each collection has exactly one shape; payloads are checked
// here at the aggregator boundary rather than trusting the store.
var createRequired = map[string][]string{
	models.ColSiteSettings:  {"site_name"},
	models.ColProducts:      {"name", "category", "price"},
	models.ColCategories:    {"name"},
	models.ColShopSlideshow: {"image_url"},
	models.ColOrders:        {"uid", "customer_name", "customer_email", "address", "items", "total", "status"},
	models.ColReviews:       {"uid", "product_id", "rating", "author"},
	models.ColUsers:         {"uid", "email"},
	models.ColHelpMessages:  {"email", "subject", "body"},
	models.ColGetInTouch:    {"name", "email", "message"},
	models.ColSubscribers:   {"email"},
}

// validateCreate checks a Create payload: known collection, required fields
// present and not empty, no Unset sentinel anywhere.
func validateCreate(collection string, payload Record) error {
	required, ok := createRequired[collection]
	if !ok {
		return &ValidationError{Collection: collection, Reason: "unknown collection"}
	}
	for _, field := range required {
		v, present := payload[field]
		if !present || v == nil {
			return &ValidationError{Collection: collection, Field: field, Reason: "required field missing"}
		}
		if s, isStr := v.(string); isStr && s == "" {
			return &ValidationError{Collection: collection, Field: field, Reason: "required field empty"}
		}
	}
	if field, found := findUnset(payload); found {
		return &ValidationError{Collection: collection, Field: field, Reason: "unset value"}
	}
	return nil
}

// validateUpdate checks an Update partial: non-empty and free of the Unset
// sentinel. Persisting Unset would silently erase a field, so it fails here
// before any write is attempted.
func validateUpdate(collection string, partial Record) error {
	if len(partial) == 0 {
		return &ValidationError{Collection: collection, Reason: "empty update"}
	}
	if field, found := findUnset(partial); found {
		return &ValidationError{Collection: collection, Field: field, Reason: "unset value"}
	}
	return nil
}

// findUnset walks a payload, including nested maps and slices, and returns
// the path of the first Unset sentinel it finds.
func findUnset(payload Record) (string, bool) {
	for field, v := range payload {
		if path, found := scanUnset(field, v); found {
			return path, true
		}
	}
	return "", false
}

func scanUnset(path string, v any) (string, bool) {
	switch val := v.(type) {
	case unsetType:
		return path, true
	case Record:
		if p, found := findUnset(val); found {
			return path + "." + p, true
		}
	case map[string]any:
		if p, found := findUnset(Record(val)); found {
			return path + "." + p, true
		}
	case []any:
		for _, item := range val {
			if p, found := scanUnset(path, item); found {
				return p, true
			}
		}
	}
	return "", false
}
