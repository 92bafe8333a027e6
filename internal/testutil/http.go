package testutil

import (
	"net/http"
	"net/http/httptest"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/auth"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	UID   string
	Name  string
	Email string
}

// AdminUser returns a TestUser whose email derives the admin role.
func AdminUser() TestUser {
	return TestUser{UID: "uid-admin", Name: "Test Admin", Email: "admin@hyjain.com"}
}

// StaffUser returns a TestUser whose email derives the staff role.
func StaffUser() TestUser {
	return TestUser{UID: "uid-staff", Name: "Test Staff", Email: "tester@staff.hyjain.com"}
}

// DeliveryUser returns a TestUser whose email derives the delivery role.
func DeliveryUser() TestUser {
	return TestUser{UID: "uid-delivery", Name: "Test Delivery", Email: "tester@delivery.hyjain.com"}
}

// CustomerUser returns a TestUser with a plain customer email.
func CustomerUser() TestUser {
	return TestUser{UID: "uid-customer", Name: "Test Customer", Email: "customer@gmail.com"}
}

// WithUser adds a user to the request context for testing authenticated
// handlers. This bypasses the session middleware and injects the user
// directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	sessionUser := &auth.SessionUser{
		UID:   user.UID,
		Name:  user.Name,
		Email: user.Email,
	}
	return auth.WithTestUser(r, sessionUser)
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}
