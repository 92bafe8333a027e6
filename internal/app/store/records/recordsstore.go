// internal/app/store/records/recordsstore.go
package records

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/live"
)

// ErrDuplicate is reported (wrapped in *live.WriteError) when an insert
// hits a unique index, e.g. subscribing an already-subscribed email.
var ErrDuplicate = errors.New("duplicate key")

// DefaultPollInterval is the refetch cadence used when MongoDB change
// streams are unavailable (standalone mongod without a replica set).
const DefaultPollInterval = 2 * time.Second

// Store implements live.Source over a Mongo database. Subscriptions
// deliver the full collection contents on every change: replace, not
// patch.
type Store struct {
	db           *mongo.Database
	pollInterval time.Duration
	log          *zap.Logger
}

// New creates a records store. pollInterval <= 0 uses DefaultPollInterval.
func New(db *mongo.Database, pollInterval time.Duration, logger *zap.Logger) *Store {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Store{db: db, pollInterval: pollInterval, log: logger}
}

// Subscribe delivers an initial full snapshot, then watches the collection
// and re-delivers the full contents after every change. The returned
// cancel releases the watcher exactly once.
func (s *Store) Subscribe(ctx context.Context, col string, opts live.SubscribeOptions, fn func([]live.Record)) (live.CancelFunc, error) {
	subCtx, stop := context.WithCancel(ctx)

	recs, err := s.fetch(subCtx, col, opts)
	if err != nil {
		stop()
		return nil, err
	}
	fn(recs)

	go s.watch(subCtx, col, opts, fn)

	return func() { stop() }, nil
}

// watch follows the collection's change stream, refetching the full
// contents per event. When change streams are unsupported it falls back to
// interval polling. Errors freeze the last delivered snapshot; they never
// propagate to other subscriptions.
func (s *Store) watch(ctx context.Context, col string, opts live.SubscribeOptions, fn func([]live.Record)) {
	cs, err := s.db.Collection(col).Watch(ctx, mongo.Pipeline{})
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.log.Warn("change streams unavailable, polling instead",
			zap.String("collection", col),
			zap.Duration("interval", s.pollInterval),
			zap.Error(err))
		s.poll(ctx, col, opts, fn)
		return
	}
	defer cs.Close(context.Background())

	for cs.Next(ctx) {
		recs, err := s.fetch(ctx, col, opts)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.Error("live refetch failed",
				zap.Error(&live.SubscriptionError{Collection: col, Err: err}))
			continue
		}
		fn(recs)
	}
	if err := cs.Err(); err != nil && ctx.Err() == nil {
		s.log.Error("change stream closed",
			zap.Error(&live.SubscriptionError{Collection: col, Err: err}))
	}
}

// poll refetches on a ticker and delivers only when the contents changed.
func (s *Store) poll(ctx context.Context, col string, opts live.SubscribeOptions, fn func([]live.Record)) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	var last []live.Record
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			recs, err := s.fetch(ctx, col, opts)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.log.Error("live poll failed",
					zap.Error(&live.SubscriptionError{Collection: col, Err: err}))
				continue
			}
			if sameRecords(last, recs) {
				continue
			}
			last = recs
			fn(recs)
		}
	}
}

// sameRecords is a cheap change check for polling: id and updated_at per
// position. Collections here are small, so O(n) per tick is fine.
func sameRecords(a, b []live.Record) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID() != b[i].ID() {
			return false
		}
		if a[i]["updated_at"] != b[i]["updated_at"] {
			return false
		}
		if a[i]["read"] != b[i]["read"] {
			return false
		}
	}
	return true
}

func (s *Store) fetch(ctx context.Context, col string, opts live.SubscribeOptions) ([]live.Record, error) {
	filter := bson.M{}
	if opts.FilterField != "" {
		filter[opts.FilterField] = opts.FilterValue
	}

	fo := options.Find()
	if opts.SortField != "" {
		dir := 1
		if opts.SortDesc {
			dir = -1
		}
		// _id as tiebreaker keeps the order stable across refetches.
		fo.SetSort(bson.D{{Key: opts.SortField, Value: dir}, {Key: "_id", Value: dir}})
	}

	cur, err := s.db.Collection(col).Find(ctx, filter, fo)
	if err != nil {
		return nil, err
	}
	var rows []bson.M
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	recs := make([]live.Record, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, toRecord(row))
	}
	return recs, nil
}

// toRecord exposes the Mongo _id as an opaque hex string under "id".
func toRecord(row bson.M) live.Record {
	rec := live.Record(row)
	if oid, ok := row["_id"].(primitive.ObjectID); ok {
		rec["id"] = oid.Hex()
		delete(rec, "_id")
	}
	return rec
}

/* ───────────────────────── write-through mutations ───────────────────── */

func (s *Store) Create(ctx context.Context, col string, payload live.Record) (string, error) {
	doc := make(bson.M, len(payload)+2)
	for k, v := range payload {
		doc[k] = v
	}
	id := primitive.NewObjectID()
	doc["_id"] = id
	if _, ok := doc["created_at"]; !ok {
		doc["created_at"] = time.Now().UTC()
	}

	if _, err := s.db.Collection(col).InsertOne(ctx, doc); err != nil {
		if wafflemongo.IsDup(err) {
			return "", &live.WriteError{Collection: col, Err: ErrDuplicate}
		}
		return "", &live.WriteError{Collection: col, Err: err}
	}
	return id.Hex(), nil
}

func (s *Store) Update(ctx context.Context, col, id string, partial live.Record) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return &live.NotFoundError{Collection: col, ID: id}
	}

	set := make(bson.M, len(partial)+1)
	for k, v := range partial {
		set[k] = v
	}
	set["updated_at"] = time.Now().UTC()

	res, err := s.db.Collection(col).UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return &live.WriteError{Collection: col, Err: err}
	}
	if res.MatchedCount == 0 {
		return &live.NotFoundError{Collection: col, ID: id}
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, col, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return &live.NotFoundError{Collection: col, ID: id}
	}
	res, err := s.db.Collection(col).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return &live.WriteError{Collection: col, Err: err}
	}
	if res.DeletedCount == 0 {
		return &live.NotFoundError{Collection: col, ID: id}
	}
	return nil
}

// AddToSet uses $addToSet, so adding an already-present value leaves the
// array unchanged (set union). updated_at is bumped so the polling
// fallback's change check sees the write.
func (s *Store) AddToSet(ctx context.Context, col, id, field string, value any) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return &live.NotFoundError{Collection: col, ID: id}
	}
	res, err := s.db.Collection(col).UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$addToSet": bson.M{field: value},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return &live.WriteError{Collection: col, Err: err}
	}
	if res.MatchedCount == 0 {
		return &live.NotFoundError{Collection: col, ID: id}
	}
	return nil
}

func (s *Store) Get(ctx context.Context, col, id string) (live.Record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var row bson.M
	if err := s.db.Collection(col).FindOne(ctx, bson.M{"_id": oid}).Decode(&row); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return toRecord(row), nil
}

// List is a one-shot fetch of the collection's current contents.
func (s *Store) List(ctx context.Context, col string, opts live.SubscribeOptions) ([]live.Record, error) {
	return s.fetch(ctx, col, opts)
}

func (s *Store) FindByField(ctx context.Context, col, field string, value any) (live.Record, error) {
	var row bson.M
	if err := s.db.Collection(col).FindOne(ctx, bson.M{field: value}).Decode(&row); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return toRecord(row), nil
}
