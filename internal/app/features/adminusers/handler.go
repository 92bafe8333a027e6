// internal/app/features/adminusers/handler.go
package adminusers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	userstore "github.com/nidhishatechnology96-eng/hyjain-server/internal/app/store/users"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/respond"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/roles"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/timeouts"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/domain/models"
)

// Handler owns the admin account-management endpoints.
type Handler struct {
	Users   *userstore.Store
	Deriver roles.Deriver
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, deriver roles.Deriver, logger *zap.Logger) *Handler {
	return &Handler{
		Users:   userstore.New(db),
		Deriver: deriver,
		Log:     logger,
	}
}

// userView is the account shape for the admin list. The role is derived
// from the email at read time, never stored.
type userView struct {
	UID       string   `json:"uid"`
	Email     string   `json:"email"`
	FullName  string   `json:"full_name"`
	Phone     string   `json:"phone,omitempty"`
	Addresses []string `json:"addresses,omitempty"`
	Status    string   `json:"status"`
	Role      string   `json:"role"`
	CreatedAt string   `json:"created_at"`
}

func (h *Handler) view(u models.User) userView {
	return userView{
		UID:       u.UID,
		Email:     u.Email,
		FullName:  u.FullName,
		Phone:     u.Phone,
		Addresses: u.Addresses,
		Status:    u.Status,
		Role:      string(h.Deriver.Derive(u.Email)),
		CreatedAt: u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// ServeUsers handles GET /api/admin/users, newest first.
func (h *Handler) ServeUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.MediumCtx(r)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		h.Log.Error("user list failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "list failed")
		return
	}

	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, h.view(u))
	}
	respond.JSON(w, http.StatusOK, out)
}

type statusRequest struct {
	Status string `json:"status"`
}

// HandleSetStatus handles PATCH /api/admin/users/{uid}/status with
// {"status": "active"|"disabled"}.
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.MediumCtx(r)
	defer cancel()

	uid := chi.URLParam(r, "uid")

	var req statusRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Status != models.StatusActive && req.Status != models.StatusDisabled {
		respond.Error(w, http.StatusBadRequest, `status must be "active" or "disabled"`)
		return
	}

	u, err := h.Users.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "user not found")
			return
		}
		h.Log.Error("user lookup failed", zap.Error(err), zap.String("uid", uid))
		respond.Error(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	// The admin account cannot be locked out through this endpoint.
	if req.Status == models.StatusDisabled && h.Deriver.Derive(u.Email) == roles.Admin {
		respond.Error(w, http.StatusBadRequest, "cannot disable an administrator account")
		return
	}

	if err := h.Users.SetStatus(ctx, uid, req.Status); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "user not found")
			return
		}
		h.Log.Error("status update failed", zap.Error(err), zap.String("uid", uid))
		respond.Error(w, http.StatusInternalServerError, "update failed")
		return
	}

	h.Log.Info("account status changed",
		zap.String("uid", uid),
		zap.String("status", req.Status))
	respond.JSON(w, http.StatusOK, map[string]string{"uid": uid, "status": req.Status})
}
