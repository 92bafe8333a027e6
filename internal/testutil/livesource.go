package testutil

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/live"
)

// MemSource is an in-memory live.Source for handler tests. It applies
// mutations immediately and pushes a fresh snapshot to every subscriber
// of the touched collection, which is the same observable behavior the
// Mongo-backed store provides.
type MemSource struct {
	mu   sync.Mutex
	data map[string][]live.Record
	subs map[string][]memSub
}

type memSub struct {
	opts live.SubscribeOptions
	fn   func([]live.Record)
}

// NewMemSource returns an empty in-memory source.
func NewMemSource() *MemSource {
	return &MemSource{
		data: make(map[string][]live.Record),
		subs: make(map[string][]memSub),
	}
}

// Seed inserts a record directly, bypassing notification. Returns the id.
func (m *MemSource) Seed(collection string, rec live.Record) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID().Hex()
	cp := cloneRecord(rec)
	cp["id"] = id
	m.data[collection] = append(m.data[collection], cp)
	return id
}

// Records returns a copy of the collection's current contents.
func (m *MemSource) Records(collection string) []live.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneAll(m.data[collection])
}

func (m *MemSource) Subscribe(ctx context.Context, collection string, opts live.SubscribeOptions, fn func([]live.Record)) (live.CancelFunc, error) {
	m.mu.Lock()
	m.subs[collection] = append(m.subs[collection], memSub{opts: opts, fn: fn})
	snapshot := filterAll(cloneAll(m.data[collection]), opts)
	m.mu.Unlock()

	fn(snapshot)
	return func() {}, nil
}

func (m *MemSource) Create(ctx context.Context, collection string, payload live.Record) (string, error) {
	m.mu.Lock()
	id := primitive.NewObjectID().Hex()
	cp := cloneRecord(payload)
	cp["id"] = id
	cp["created_at"] = time.Now().UTC()
	m.data[collection] = append(m.data[collection], cp)
	m.mu.Unlock()

	m.notify(collection)
	return id, nil
}

func (m *MemSource) Update(ctx context.Context, collection, id string, partial live.Record) error {
	m.mu.Lock()
	idx := m.indexOf(collection, id)
	if idx < 0 {
		m.mu.Unlock()
		return &live.NotFoundError{Collection: collection, ID: id}
	}
	for k, v := range partial {
		m.data[collection][idx][k] = v
	}
	m.data[collection][idx]["updated_at"] = time.Now().UTC()
	m.mu.Unlock()

	m.notify(collection)
	return nil
}

func (m *MemSource) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	idx := m.indexOf(collection, id)
	if idx < 0 {
		m.mu.Unlock()
		return &live.NotFoundError{Collection: collection, ID: id}
	}
	m.data[collection] = append(m.data[collection][:idx], m.data[collection][idx+1:]...)
	m.mu.Unlock()

	m.notify(collection)
	return nil
}

func (m *MemSource) AddToSet(ctx context.Context, collection, id, field string, value any) error {
	m.mu.Lock()
	idx := m.indexOf(collection, id)
	if idx < 0 {
		m.mu.Unlock()
		return &live.NotFoundError{Collection: collection, ID: id}
	}
	rec := m.data[collection][idx]
	existing, _ := rec[field].([]any)
	for _, v := range existing {
		if v == value {
			m.mu.Unlock()
			return nil
		}
	}
	rec[field] = append(existing, value)
	m.mu.Unlock()

	m.notify(collection)
	return nil
}

func (m *MemSource) Get(ctx context.Context, collection, id string) (live.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.indexOf(collection, id)
	if idx < 0 {
		return nil, nil
	}
	return cloneRecord(m.data[collection][idx]), nil
}

func (m *MemSource) FindByField(ctx context.Context, collection, field string, value any) (live.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.data[collection] {
		if rec[field] == value {
			return cloneRecord(rec), nil
		}
	}
	return nil, nil
}

func (m *MemSource) List(ctx context.Context, collection string, opts live.SubscribeOptions) ([]live.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]live.Record, 0, len(m.data[collection]))
	for _, rec := range m.data[collection] {
		if opts.FilterField != "" && rec[opts.FilterField] != opts.FilterValue {
			continue
		}
		out = append(out, cloneRecord(rec))
	}
	return out, nil
}

func (m *MemSource) notify(collection string) {
	m.mu.Lock()
	subs := append([]memSub{}, m.subs[collection]...)
	snapshot := cloneAll(m.data[collection])
	m.mu.Unlock()

	for _, sub := range subs {
		sub.fn(filterAll(snapshot, sub.opts))
	}
}

// filterAll applies the subscription's equality filter, if any.
func filterAll(recs []live.Record, opts live.SubscribeOptions) []live.Record {
	if opts.FilterField == "" {
		return recs
	}
	out := make([]live.Record, 0, len(recs))
	for _, rec := range recs {
		if rec[opts.FilterField] == opts.FilterValue {
			out = append(out, rec)
		}
	}
	return out
}

// indexOf is called with m.mu held.
func (m *MemSource) indexOf(collection, id string) int {
	for i, rec := range m.data[collection] {
		if rec.ID() == id {
			return i
		}
	}
	return -1
}

func cloneRecord(rec live.Record) live.Record {
	cp := make(live.Record, len(rec))
	for k, v := range rec {
		cp[k] = v
	}
	return cp
}

func cloneAll(recs []live.Record) []live.Record {
	out := make([]live.Record, 0, len(recs))
	for _, rec := range recs {
		out = append(out, cloneRecord(rec))
	}
	return out
}
