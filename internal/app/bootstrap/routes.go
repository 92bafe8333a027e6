// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	adminusersfeature "github.com/nidhishatechnology96-eng/hyjain-server/internal/app/features/adminusers"
	authsessionfeature "github.com/nidhishatechnology96-eng/hyjain-server/internal/app/features/authsession"
	catalogfeature "github.com/nidhishatechnology96-eng/hyjain-server/internal/app/features/catalog"
	healthfeature "github.com/nidhishatechnology96-eng/hyjain-server/internal/app/features/health"
	livefeedfeature "github.com/nidhishatechnology96-eng/hyjain-server/internal/app/features/livefeed"
	messagesfeature "github.com/nidhishatechnology96-eng/hyjain-server/internal/app/features/messages"
	newsletterfeature "github.com/nidhishatechnology96-eng/hyjain-server/internal/app/features/newsletter"
	ordersfeature "github.com/nidhishatechnology96-eng/hyjain-server/internal/app/features/orders"
	reviewsfeature "github.com/nidhishatechnology96-eng/hyjain-server/internal/app/features/reviews"
	sitesettingsfeature "github.com/nidhishatechnology96-eng/hyjain-server/internal/app/features/sitesettings"
	uploadsfeature "github.com/nidhishatechnology96-eng/hyjain-server/internal/app/features/uploads"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/auth"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// The handler is a JSON API serving both the storefront and the admin
// dashboard. Public catalog reads come from the shared aggregator's
// read model; admin and customer routes are gated by session role.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	if err := auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger); err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(auth.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Uploaded images with pre-compressed file support (gzip/brotli)
	r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))

	// Authentication and session
	authHandler := authsessionfeature.NewHandler(deps.MongoDatabase, deps.Deriver, authsessionfeature.OAuthConfig{
		GoogleClientID:     appCfg.GoogleClientID,
		GoogleClientSecret: appCfg.GoogleClientSecret,
		BaseURL:            appCfg.BaseURL,
		Secure:             secure,
	}, logger)
	r.Mount("/api/auth", authsessionfeature.Routes(authHandler))

	// Storefront catalog: settings, products, categories, slideshow.
	// Public reads are served from the shared aggregator's read model;
	// writes go through the aggregator so validation and the live feed
	// see every mutation.
	catalogHandler := catalogfeature.NewHandler(deps.Public, logger)
	r.Mount("/api/catalog", catalogfeature.Routes(catalogHandler))

	// Orders: checkout, customer order history, fulfillment updates
	ordersHandler := ordersfeature.NewHandler(deps.Public, logger)
	r.Mount("/api/orders", ordersfeature.Routes(ordersHandler))

	// Product reviews
	reviewsHandler := reviewsfeature.NewHandler(deps.Public, logger)
	r.Mount("/api/reviews", reviewsfeature.Routes(reviewsHandler))

	// Help messages and contact form
	messagesHandler := messagesfeature.NewHandler(deps.Public, logger)
	r.Mount("/api/messages", messagesfeature.Routes(messagesHandler))

	// Newsletter subscriptions
	newsletterHandler := newsletterfeature.NewHandler(deps.Public, logger)
	r.Mount("/api/newsletter", newsletterfeature.Routes(newsletterHandler))

	// Site settings (admin editable, publicly readable)
	settingsHandler := sitesettingsfeature.NewHandler(deps.Public, logger)
	r.Mount("/api/settings", sitesettingsfeature.Routes(settingsHandler))

	// Admin user management
	adminUsersHandler := adminusersfeature.NewHandler(deps.MongoDatabase, deps.Deriver, logger)
	r.Mount("/api/admin/users", adminusersfeature.Routes(adminUsersHandler))

	// Live feeds: per-connection role-scoped SSE streams
	liveHandler := livefeedfeature.NewHandler(deps.Records, deps.Deriver, appCfg.LiveSettleDelay, logger)
	r.Mount("/api/live", livefeedfeature.Routes(liveHandler))

	// Image uploads
	uploadsHandler := uploadsfeature.NewHandler(appCfg.StorageLocalPath, appCfg.StorageLocalURL, logger)
	r.Mount("/api/uploads", uploadsfeature.Routes(uploadsHandler))

	return r, nil
}
