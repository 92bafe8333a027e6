// internal/app/features/sitesettings/handler.go
package sitesettings

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/live"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/auth"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/htmlsanitize"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/respond"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/timeouts"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/domain/models"
)

// Handler owns site settings: publicly readable, admin editable.
type Handler struct {
	Live *live.Aggregator
	Log  *zap.Logger
}

// NewHandler constructs a Handler bound to the shared public aggregator.
func NewHandler(agg *live.Aggregator, logger *zap.Logger) *Handler {
	return &Handler{
		Live: agg,
		Log:  logger,
	}
}

// ServeSettings handles GET /api/settings.
func (h *Handler) ServeSettings(w http.ResponseWriter, r *http.Request) {
	recs := h.Live.Records(models.ColSiteSettings)
	if len(recs) == 0 {
		respond.JSON(w, http.StatusOK, map[string]any{
			"site_name":    models.DefaultSiteName,
			"delivery_fee": models.DefaultDeliveryFee,
		})
		return
	}
	respond.JSON(w, http.StatusOK, recs[0])
}

type settingsRequest struct {
	SiteName              string `json:"site_name"`
	LogoURL               *string `json:"logo_url"`
	Announcement          *string `json:"announcement"`
	FooterHTML            *string `json:"footer_html"`
	SupportEmail          *string `json:"support_email"`
	SupportPhone          *string `json:"support_phone"`
	DeliveryFee           *int    `json:"delivery_fee"`
	FreeDeliveryThreshold *int    `json:"free_delivery_threshold"`
}

// HandleUpdateSettings handles PUT /api/settings (admin).
//
// The settings document is a singleton; the update targets whatever
// document the read model currently holds.
func (h *Handler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.MediumCtx(r)
	defer cancel()

	recs := h.Live.Records(models.ColSiteSettings)
	if len(recs) == 0 {
		respond.Error(w, http.StatusConflict, "settings not initialized yet")
		return
	}
	id := recs[0].ID()

	var req settingsRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	partial := live.Record{}
	if name := strings.TrimSpace(req.SiteName); name != "" {
		partial["site_name"] = name
	}
	if req.LogoURL != nil {
		partial["logo_url"] = *req.LogoURL
	}
	if req.Announcement != nil {
		partial["announcement"] = htmlsanitize.SanitizeText(*req.Announcement)
	}
	if req.FooterHTML != nil {
		partial["footer_html"] = htmlsanitize.Sanitize(*req.FooterHTML)
	}
	if req.SupportEmail != nil {
		partial["support_email"] = strings.TrimSpace(*req.SupportEmail)
	}
	if req.SupportPhone != nil {
		partial["support_phone"] = strings.TrimSpace(*req.SupportPhone)
	}
	if req.DeliveryFee != nil {
		if *req.DeliveryFee < 0 {
			respond.Error(w, http.StatusBadRequest, "delivery_fee must be non-negative")
			return
		}
		partial["delivery_fee"] = *req.DeliveryFee
	}
	if req.FreeDeliveryThreshold != nil {
		partial["free_delivery_threshold"] = *req.FreeDeliveryThreshold
	}

	if u, ok := auth.CurrentUser(r); ok {
		partial["updated_by_name"] = u.Name
	}

	if err := h.Live.Update(ctx, models.ColSiteSettings, id, partial); err != nil {
		h.Log.Error("settings update failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "update failed")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"id": id})
}
