// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/auth"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/roles"
)

// UserCtx returns the user's derived role, name, provider uid, and a found
// flag. If no user is present in context it returns customer, "", "",
// false, so ok=true means a valid, authenticated user. The role always
// comes from the verified session email, never from stored state.
func UserCtx(r *http.Request) (role roles.Role, name string, uid string, ok bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return roles.Customer, "", "", false
	}
	return u.Role(), u.Name, u.UID, true
}

// IsPrivileged reports whether the user may see the order book
// (admin, staff, or delivery).
func IsPrivileged(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role.Privileged()
}

// OwnsOrCanView reports whether the current user owns the record with the
// given uid, or holds a privileged role. Used for order detail access.
func OwnsOrCanView(r *http.Request, ownerUID string) bool {
	if IsPrivileged(r) {
		return true
	}
	_, _, uid, ok := UserCtx(r)
	return ok && uid != "" && uid == ownerUID
}
