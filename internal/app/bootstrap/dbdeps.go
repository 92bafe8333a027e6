// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/live"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/store/records"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/roles"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/workers"
)

// DBDeps holds database/back-end dependencies for the app.
//
// Records wraps the Mongo database with the live-subscription record
// store that all feature handlers write through. Public is the shared
// aggregator that serves the anonymous storefront read model; it is
// reconciled once at startup with no identity and closed on shutdown.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Records *records.Store
	Deriver roles.Deriver
	Public  *live.Aggregator

	// StateCleanup sweeps expired OAuth states; started in Startup,
	// stopped in Shutdown.
	StateCleanup *workers.StateCleanup
}
