// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	sitesettingsstore "github.com/nidhishatechnology96-eng/hyjain-server/internal/app/store/sitesettings"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/auth"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
//
// It seeds the site settings document if the collection is empty, wires
// the role deriver into the auth layer, and reconciles the shared public
// aggregator with no identity so the storefront read model (settings,
// products, categories, slides) is warm before the first request.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	auth.UseDeriver(deps.Deriver)

	if err := sitesettingsstore.New(deps.MongoDatabase).SeedDefaults(ctx); err != nil {
		logger.Error("seeding site settings failed", zap.Error(err))
		return err
	}

	deps.Public.Reconcile(ctx, nil)
	logger.Info("public live feed reconciled",
		zap.Int("subscriptions", len(deps.Public.ActiveSubscriptions())))

	deps.StateCleanup.Start()

	return nil
}
