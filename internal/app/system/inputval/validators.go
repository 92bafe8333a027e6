package inputval

import "strings"

// IsValidAuthMethod reports whether method is a supported sign-in
// method. Comparison is case-insensitive and ignores surrounding
// whitespace.
func IsValidAuthMethod(method string) bool {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case "password", "google":
		return true
	}
	return false
}

// IsValidPaymentMethod reports whether method is a supported checkout
// payment method.
func IsValidPaymentMethod(method string) bool {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case "cod", "online":
		return true
	}
	return false
}

// IsValidRating reports whether n is a legal review rating.
func IsValidRating(n int) bool {
	return n >= 1 && n <= 5
}
