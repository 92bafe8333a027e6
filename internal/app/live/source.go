// internal/app/live/source.go
package live

import "context"

// Record is one document from a collection. Snapshots carry the store's
// opaque id under the "id" key as a hex string.
type Record map[string]any

// ID returns the record's opaque identifier, or "" if absent.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// CancelFunc releases one subscription. Safe to call more than once; only
// the first call has any effect. It must not block waiting for in-flight
// snapshot callbacks.
type CancelFunc func()

// SubscribeOptions narrows and orders a subscription's result set.
type SubscribeOptions struct {
	SortField string // "" means store order
	SortDesc  bool

	// Optional equality filter.
	FilterField string
	FilterValue any
}

// Snapshot is a full replacement of one collection's cached records.
type Snapshot struct {
	Collection string
	Records    []Record
}

// Source is the backing document store: live snapshot subscriptions plus
// write-through mutations. Implemented by store/records against MongoDB.
//
// Subscribe delivers the current full contents of the collection to fn,
// then again after every collection change (replace, not patch). Delivery
// happens on a source-owned goroutine. After cancel, fn is never invoked
// again. Write errors are reported with the package's typed errors:
// *NotFoundError when the target id does not exist, *WriteError otherwise.
type Source interface {
	Subscribe(ctx context.Context, collection string, opts SubscribeOptions, fn func([]Record)) (CancelFunc, error)

	Create(ctx context.Context, collection string, payload Record) (string, error)
	Update(ctx context.Context, collection, id string, partial Record) error
	Delete(ctx context.Context, collection, id string) error
	AddToSet(ctx context.Context, collection, id, field string, value any) error

	// Get returns the record or nil if absent. Never consults any cache.
	Get(ctx context.Context, collection, id string) (Record, error)

	// FindByField returns the first record whose field equals value, or nil.
	FindByField(ctx context.Context, collection, field string, value any) (Record, error)

	// List returns the collection's current contents without opening a
	// subscription. Never consults any cache.
	List(ctx context.Context, collection string, opts SubscribeOptions) ([]Record, error)
}
