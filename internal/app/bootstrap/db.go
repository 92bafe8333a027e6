// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/live"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/store/oauthstate"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/store/records"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/indexes"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/roles"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/validators"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/workers"
)

// ConnectDB establishes the MongoDB connection and builds the shared
// back-end dependencies (record store, role deriver, public aggregator).
//
// WAFFLE calls this after config validation and passes the returned
// DBDeps to every later lifecycle hook.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		logger.Error("MongoDB connect failed", zap.Error(err))
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		logger.Error("MongoDB ping failed", zap.Error(err))
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(appCfg.MongoDatabase)
	store := records.New(db, appCfg.LivePollInterval, logger)
	deriver := roles.Deriver{
		AdminEmail:     appCfg.AdminEmail,
		StaffDomain:    appCfg.StaffDomain,
		DeliveryDomain: appCfg.DeliveryDomain,
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: db,
		Records:       store,
		Deriver:       deriver,
		Public:        live.New(store, deriver, appCfg.LiveSettleDelay, logger),
		StateCleanup:  workers.NewStateCleanup(oauthstate.New(db), logger, 10*time.Minute),
	}, nil
}

// EnsureSchema creates collections with their JSON-Schema validators
// and the indexes the stores rely on (unique emails, sort-supporting
// compound indexes). Everything here is idempotent, so it runs on
// every startup.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		return err
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		return err
	}
	return oauthstate.New(deps.MongoDatabase).EnsureIndexes(ctx)
}
