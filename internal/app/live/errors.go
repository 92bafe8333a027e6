// internal/app/live/errors.go
package live

import "fmt"

// unsetType is the type of the Unset sentinel. Unexported so the only value
// of this type callers can produce is Unset itself.
type unsetType struct{}

// Unset marks a field whose value was never produced (for example an upload
// step that failed to return a URL). Update and Create refuse to persist it:
// never write an unset value, fail loudly instead.
var Unset unsetType

// IsUnset reports whether v is the Unset sentinel.
func IsUnset(v any) bool {
	_, ok := v.(unsetType)
	return ok
}

// ValidationError means the caller-supplied payload failed shape checks.
// It is returned before any write is attempted.
type ValidationError struct {
	Collection string
	Field      string
	Reason     string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: invalid field %q: %s", e.Collection, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: invalid payload: %s", e.Collection, e.Reason)
}

// NotFoundError means the target record id does not exist at write time.
type NotFoundError struct {
	Collection string
	ID         string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: no record with id %q", e.Collection, e.ID)
}

// WriteError means the backing store rejected the write for any reason
// other than a missing record (permission, transient network, quota).
type WriteError struct {
	Collection string
	Err        error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: write rejected: %v", e.Collection, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// SubscriptionError means a live subscription failed after establishment.
// It is logged per collection; it never tears down other subscriptions.
type SubscriptionError struct {
	Collection string
	Err        error
}

func (e *SubscriptionError) Error() string {
	return fmt.Sprintf("%s: subscription failed: %v", e.Collection, e.Err)
}

func (e *SubscriptionError) Unwrap() error { return e.Err }
