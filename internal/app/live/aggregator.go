// internal/app/live/aggregator.go
package live

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/roles"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/domain/models"
)

// Identity is the authenticated principal as asserted by the session layer.
// A nil *Identity means signed out.
type Identity struct {
	UID   string
	Email string
	Name  string
}

// DefaultSettleDelay is how long after a reconcile the loading flag stays
// set. Cosmetic only: snapshots may still be in flight when it clears.
const DefaultSettleDelay = 400 * time.Millisecond

// privilegedCollections are the read-model entries that must be cleared
// when the identity loses access to them.
var privilegedCollections = []string{
	models.ColOrders,
	models.ColReviews,
	models.ColUsers,
	models.ColHelpMessages,
	models.ColGetInTouch,
	models.ColSubscribers,
}

// subscription pairs a collection with how its live query is ordered.
type subscription struct {
	col  string
	opts SubscribeOptions
}

// subscriptionsFor is the authorization table: which live queries a role
// gets. Public collections are independent of identity; orders require a
// privileged role; everything else is admin-only.
func subscriptionsFor(role roles.Role) []subscription {
	byCreatedDesc := SubscribeOptions{SortField: "created_at", SortDesc: true}

	subs := []subscription{
		{models.ColSiteSettings, SubscribeOptions{}},
		{models.ColProducts, byCreatedDesc},
		{models.ColCategories, SubscribeOptions{SortField: "position"}},
		{models.ColShopSlideshow, SubscribeOptions{SortField: "position"}},
	}
	if role.Privileged() {
		subs = append(subs, subscription{models.ColOrders, byCreatedDesc})
	}
	if role == roles.Admin {
		subs = append(subs,
			subscription{models.ColReviews, byCreatedDesc},
			subscription{models.ColUsers, byCreatedDesc},
			subscription{models.ColHelpMessages, byCreatedDesc},
			subscription{models.ColGetInTouch, byCreatedDesc},
			subscription{models.ColSubscribers, SubscribeOptions{SortField: "subscribed_at", SortDesc: true}},
		)
	}
	return subs
}

// Aggregator maintains a live, role-scoped read model over the named
// collections and exposes write-through mutations against the same
// collections. It exclusively owns its subscriptions and read model; no
// other component opens subscriptions against these collections.
//
// Snapshots arrive on source goroutines, so the read model is guarded by a
// mutex. A generation counter makes Reconcile re-entrant safe: snapshots
// and subscription handles from a superseded reconcile are dropped or
// released as soon as they surface.
type Aggregator struct {
	src    Source
	der    roles.Deriver
	settle time.Duration
	log    *zap.Logger

	mu        sync.Mutex
	gen       uint64
	subs      map[string]CancelFunc
	model     map[string][]Record
	identity  *Identity
	role      roles.Role
	loading   bool
	loadTimer *time.Timer
	closed    bool

	events chan Snapshot
}

// New creates an Aggregator over src. settle <= 0 uses DefaultSettleDelay.
// The aggregator starts with no subscriptions; call Reconcile to open the
// set for the current identity (nil for the public set).
func New(src Source, der roles.Deriver, settle time.Duration, logger *zap.Logger) *Aggregator {
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	return &Aggregator{
		src:    src,
		der:    der,
		settle: settle,
		log:    logger,
		subs:   make(map[string]CancelFunc),
		model:  make(map[string][]Record),
		role:   roles.Customer,
		events: make(chan Snapshot, 64),
	}
}

// Reconcile tears down every active subscription and opens the set the
// given identity's role authorizes. Safe to call again before a prior call
// has finished establishing subscriptions: the latest call wins and no
// stale handle stays active.
func (a *Aggregator) Reconcile(ctx context.Context, ident *Identity) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.gen++
	gen := a.gen
	old := a.subs
	a.subs = make(map[string]CancelFunc)

	role := roles.Customer
	if ident != nil {
		role = a.der.Derive(ident.Email)
	}
	a.identity = ident
	a.role = role
	a.loading = true
	if a.loadTimer != nil {
		a.loadTimer.Stop()
		a.loadTimer = nil
	}

	// Unauthorized privileged entries are cleared so no stale admin-only
	// data remains observable after the identity change.
	if !role.Privileged() {
		a.model[models.ColOrders] = []Record{}
	}
	if role != roles.Admin {
		for _, col := range privilegedCollections {
			if col == models.ColOrders {
				continue
			}
			a.model[col] = []Record{}
		}
	}
	a.mu.Unlock()

	// Tear down before build up.
	for _, cancel := range old {
		cancel()
	}

	for _, sub := range subscriptionsFor(role) {
		cancel, err := a.src.Subscribe(ctx, sub.col, sub.opts, a.snapshotFunc(gen, sub.col))
		if err != nil {
			// Isolated per collection: the read model keeps its last
			// known value and the other subscriptions proceed.
			a.log.Error("live subscription failed",
				zap.String("collection", sub.col),
				zap.Error(&SubscriptionError{Collection: sub.col, Err: err}))
			continue
		}

		a.mu.Lock()
		if a.gen != gen || a.closed {
			// A newer reconcile (or Close) won while we were subscribing.
			a.mu.Unlock()
			cancel()
			continue
		}
		a.subs[sub.col] = cancel
		a.mu.Unlock()
	}

	a.mu.Lock()
	if a.gen == gen && !a.closed {
		a.loadTimer = time.AfterFunc(a.settle, func() {
			a.mu.Lock()
			if a.gen == gen && !a.closed {
				a.loading = false
			}
			a.mu.Unlock()
		})
	}
	a.mu.Unlock()
}

// snapshotFunc builds the delivery callback for one collection of one
// reconcile generation. Replaying the same snapshot is idempotent; a
// snapshot from a superseded generation is dropped.
func (a *Aggregator) snapshotFunc(gen uint64, col string) func([]Record) {
	return func(recs []Record) {
		a.mu.Lock()
		if a.gen != gen || a.closed {
			a.mu.Unlock()
			return
		}
		a.model[col] = recs
		a.mu.Unlock()

		select {
		case a.events <- Snapshot{Collection: col, Records: recs}:
		default:
			// Slow consumer; the read model is still current.
		}
	}
}

// Records returns the cached sequence for a collection. The slice must be
// treated as read-only.
func (a *Aggregator) Records(collection string) []Record {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.model[collection]
}

// Loading reports whether the aggregator is inside the settle window after
// a reconcile. Cosmetic; not a readiness guarantee.
func (a *Aggregator) Loading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loading
}

// Role returns the role of the current identity.
func (a *Aggregator) Role() roles.Role {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.role
}

// Events is the change feed: one Snapshot per read-model replacement.
// Sends never block; a full channel drops the event (the read model itself
// is always current via Records).
func (a *Aggregator) Events() <-chan Snapshot {
	return a.events
}

// ActiveSubscriptions returns the collections with an open subscription,
// for diagnostics.
func (a *Aggregator) ActiveSubscriptions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	cols := make([]string, 0, len(a.subs))
	for col := range a.subs {
		cols = append(cols, col)
	}
	return cols
}

// Close releases every active subscription exactly once. The aggregator is
// unusable afterwards; Reconcile becomes a no-op.
func (a *Aggregator) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.gen++
	old := a.subs
	a.subs = make(map[string]CancelFunc)
	if a.loadTimer != nil {
		a.loadTimer.Stop()
		a.loadTimer = nil
	}
	a.mu.Unlock()

	for _, cancel := range old {
		cancel()
	}
}

/* ───────────────────────── write-through mutations ───────────────────── */

// Create validates payload against the collection's schema and writes it
// through to the store. The read model is updated only by the next
// snapshot, never here.
func (a *Aggregator) Create(ctx context.Context, collection string, payload Record) (string, error) {
	if err := validateCreate(collection, payload); err != nil {
		return "", err
	}
	return a.src.Create(ctx, collection, payload)
}

// Update applies a partial update to one record. It fails with a
// *ValidationError before any write if the partial carries the Unset
// sentinel anywhere, and with *NotFoundError if id does not exist.
func (a *Aggregator) Update(ctx context.Context, collection, id string, partial Record) error {
	if err := validateUpdate(collection, partial); err != nil {
		return err
	}
	return a.src.Update(ctx, collection, id, partial)
}

// Delete removes one record. Fails with *NotFoundError if id does not exist.
func (a *Aggregator) Delete(ctx context.Context, collection, id string) error {
	return a.src.Delete(ctx, collection, id)
}

// AddToSet adds value to an array field as a set union: adding a value that
// is already present leaves the record unchanged.
func (a *Aggregator) AddToSet(ctx context.Context, collection, id, field string, value any) error {
	return a.src.AddToSet(ctx, collection, id, field, value)
}

// Get is a point read: the record or nil if absent. It does not touch the
// read model or any subscription.
func (a *Aggregator) Get(ctx context.Context, collection, id string) (Record, error) {
	return a.src.Get(ctx, collection, id)
}

// FindByField returns the first record whose field equals value, or nil.
// Used for slug-style lookups such as resolving a category by name.
func (a *Aggregator) FindByField(ctx context.Context, collection, field string, value any) (Record, error) {
	return a.src.FindByField(ctx, collection, field, value)
}

// List is a one-shot fetch of a collection's current contents, bypassing
// the read model. Privileged REST reads (admin order lists, subscriber
// exports) use this so they never depend on which collections the shared
// aggregator happens to be subscribed to.
func (a *Aggregator) List(ctx context.Context, collection string, opts SubscribeOptions) ([]Record, error) {
	return a.src.List(ctx, collection, opts)
}

// SubscribeOwned opens a live query filtered to records owned by ownerUID,
// newest first. With an empty ownerUID it returns a no-op cancel and never
// invokes fn.
func (a *Aggregator) SubscribeOwned(ctx context.Context, collection, ownerUID string, fn func([]Record)) (CancelFunc, error) {
	if ownerUID == "" {
		return func() {}, nil
	}
	return a.src.Subscribe(ctx, collection, SubscribeOptions{
		SortField:   "created_at",
		SortDesc:    true,
		FilterField: "uid",
		FilterValue: ownerUID,
	}, fn)
}
