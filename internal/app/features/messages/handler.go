// internal/app/features/messages/handler.go
package messages

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/live"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/auth"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/htmlsanitize"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/inputval"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/normalize"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/respond"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/timeouts"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/domain/models"
)

// Handler owns the two inbound message boxes: help messages from
// signed-in customers and get-in-touch submissions from the public
// contact page. Both are written through the aggregator and read by
// admins.
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

type helpRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// HandleCreateHelp handles POST /api/messages/help (signed-in).
//
// The sender's email comes from the verified session, never from the
// request body.
func (h *Handler) HandleCreateHelp(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.MediumCtx(r)
	defer cancel()

	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req helpRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Subject) == "" {
		respond.Error(w, http.StatusBadRequest, "subject is required")
		return
	}
	if strings.TrimSpace(req.Body) == "" {
		respond.Error(w, http.StatusBadRequest, "body is required")
		return
	}

	id, err := h.Live.Create(ctx, models.ColHelpMessages, live.Record{
		"uid":     u.UID,
		"email":   normalize.Email(u.Email),
		"subject": htmlsanitize.SanitizeText(req.Subject),
		"body":    htmlsanitize.SanitizeText(req.Body),
		"read":    false,
	})
	if err != nil {
		writeCreateError(w, h.Log, models.ColHelpMessages, err)
		return
	}
	respond.JSON(w, http.StatusCreated, map[string]string{"id": id})
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// HandleCreateContact handles POST /api/messages/contact (public).
func (h *Handler) HandleCreateContact(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.MediumCtx(r)
	defer cancel()

	var req contactRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respond.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	if !inputval.IsValidEmail(req.Email) {
		respond.Error(w, http.StatusBadRequest, "invalid email address")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respond.Error(w, http.StatusBadRequest, "message is required")
		return
	}
	if req.Phone != "" && !inputval.IsValidPhone(req.Phone) {
		respond.Error(w, http.StatusBadRequest, "invalid phone number")
		return
	}

	payload := live.Record{
		"name":    normalize.Name(req.Name),
		"email":   normalize.Email(req.Email),
		"message": htmlsanitize.SanitizeText(req.Message),
		"read":    false,
	}
	if req.Phone != "" {
		payload["phone"] = normalize.Phone(req.Phone)
	}

	id, err := h.Live.Create(ctx, models.ColGetInTouch, payload)
	if err != nil {
		writeCreateError(w, h.Log, models.ColGetInTouch, err)
		return
	}
	respond.JSON(w, http.StatusCreated, map[string]string{"id": id})
}

// ServeHelp handles GET /api/messages/help (admin), newest first.
func (h *Handler) ServeHelp(w http.ResponseWriter, r *http.Request) {
	h.listMessages(w, r, models.ColHelpMessages)
}

// ServeContact handles GET /api/messages/contact (admin), newest first.
func (h *Handler) ServeContact(w http.ResponseWriter, r *http.Request) {
	h.listMessages(w, r, models.ColGetInTouch)
}

func (h *Handler) listMessages(w http.ResponseWriter, r *http.Request, collection string) {
	ctx, cancel := timeouts.MediumCtx(r)
	defer cancel()

	msgs, err := h.Live.List(ctx, collection, live.SubscribeOptions{
		SortField: "created_at",
		SortDesc:  true,
	})
	if err != nil {
		h.Log.Error("message list failed", zap.String("collection", collection), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "list failed")
		return
	}
	respond.JSON(w, http.StatusOK, msgs)
}

// HandleMarkHelpRead handles PATCH /api/messages/help/{id}/read (admin).
func (h *Handler) HandleMarkHelpRead(w http.ResponseWriter, r *http.Request) {
	h.markRead(w, r, models.ColHelpMessages)
}

// HandleMarkContactRead handles PATCH /api/messages/contact/{id}/read (admin).
func (h *Handler) HandleMarkContactRead(w http.ResponseWriter, r *http.Request) {
	h.markRead(w, r, models.ColGetInTouch)
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request, collection string) {
	ctx, cancel := timeouts.MediumCtx(r)
	defer cancel()

	id := chi.URLParam(r, "id")
	if err := h.Live.Update(ctx, collection, id, live.Record{"read": true}); err != nil {
		var nfErr *live.NotFoundError
		if errors.As(err, &nfErr) {
			respond.Error(w, http.StatusNotFound, "message not found")
			return
		}
		h.Log.Error("mark read failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "update failed")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"id": id})
}

// HandleDeleteHelp handles DELETE /api/messages/help/{id} (admin).
func (h *Handler) HandleDeleteHelp(w http.ResponseWriter, r *http.Request) {
	h.deleteMessage(w, r, models.ColHelpMessages)
}

// HandleDeleteContact handles DELETE /api/messages/contact/{id} (admin).
func (h *Handler) HandleDeleteContact(w http.ResponseWriter, r *http.Request) {
	h.deleteMessage(w, r, models.ColGetInTouch)
}

func (h *Handler) deleteMessage(w http.ResponseWriter, r *http.Request, collection string) {
	ctx, cancel := timeouts.MediumCtx(r)
	defer cancel()

	id := chi.URLParam(r, "id")
	if err := h.Live.Delete(ctx, collection, id); err != nil {
		var nfErr *live.NotFoundError
		if errors.As(err, &nfErr) {
			respond.Error(w, http.StatusNotFound, "message not found")
			return
		}
		h.Log.Error("message delete failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeCreateError(w http.ResponseWriter, log *zap.Logger, collection string, err error) {
	var vErr *live.ValidationError
	if errors.As(err, &vErr) {
		respond.Error(w, http.StatusBadRequest, vErr.Error())
		return
	}
	log.Error("message create failed", zap.String("collection", collection), zap.Error(err))
	respond.Error(w, http.StatusInternalServerError, "send failed")
}
