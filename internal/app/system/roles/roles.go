// internal/app/system/roles/roles.go
package roles

import "strings"

// Role is the access level derived from a verified email address.
type Role string

const (
	Admin    Role = "admin"
	Staff    Role = "staff"
	Delivery Role = "delivery"
	Customer Role = "customer"
)

// Privileged reports whether the role may see the orders collection.
func (r Role) Privileged() bool {
	return r == Admin || r == Staff || r == Delivery
}

// Default rules for the hyjain deployment. Overridable via config.
const (
	DefaultAdminEmail     = "admin@hyjain.com"
	DefaultStaffDomain    = "staff.hyjain.com"
	DefaultDeliveryDomain = "delivery.hyjain.com"
)

// Deriver maps a verified email to a Role. It is a pure function of its
// fields and the input email: no database lookups, no stored role field.
// A role stored on the user record would be forgeable client state, so it
// is never consulted.
type Deriver struct {
	AdminEmail     string // exact match → admin
	StaffDomain    string // "@<domain>" suffix → staff
	DeliveryDomain string // "@<domain>" suffix → delivery
}

// Default returns a Deriver with the stock hyjain rules.
func Default() Deriver {
	return Deriver{
		AdminEmail:     DefaultAdminEmail,
		StaffDomain:    DefaultStaffDomain,
		DeliveryDomain: DefaultDeliveryDomain,
	}
}

// Derive returns the role for email. Comparison is case-insensitive and
// whitespace-tolerant. An empty email is a customer (the weakest role).
func (d Deriver) Derive(email string) Role {
	e := strings.ToLower(strings.TrimSpace(email))
	if e == "" {
		return Customer
	}
	if e == strings.ToLower(strings.TrimSpace(d.AdminEmail)) && d.AdminEmail != "" {
		return Admin
	}
	if d.StaffDomain != "" && strings.HasSuffix(e, "@"+strings.ToLower(d.StaffDomain)) {
		return Staff
	}
	if d.DeliveryDomain != "" && strings.HasSuffix(e, "@"+strings.ToLower(d.DeliveryDomain)) {
		return Delivery
	}
	return Customer
}
