// internal/app/features/authsession/handler.go
package authsession

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/store/oauthstate"
	userstore "github.com/nidhishatechnology96-eng/hyjain-server/internal/app/store/users"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/auth"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/authutil"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/inputval"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/ratelimit"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/respond"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/roles"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/timeouts"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/domain/models"
)

// OAuthConfig carries the Google sign-in settings. Google auth is
// optional: with an empty client ID the endpoints answer 503.
type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	BaseURL            string // e.g. "https://hyjain.com", used to build the callback URL
	Secure             bool
}

// Handler owns registration, password login, Google OAuth, and the
// current-session endpoints.
type Handler struct {
	Users   *userstore.Store
	States  *oauthstate.Store
	Deriver roles.Deriver
	OAuth   OAuthConfig
	Limiter *ratelimit.LoginLimiter
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, deriver roles.Deriver, oauth OAuthConfig, logger *zap.Logger) *Handler {
	return &Handler{
		Users:   userstore.New(db),
		States:  oauthstate.New(db),
		Deriver: deriver,
		OAuth:   oauth,
		Limiter: ratelimit.NewLoginLimiter(),
		Log:     logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Registration and password login                                              |
*─────────────────────────────────────────────────────────────────────────────*/

type registerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

// HandleRegister handles POST /api/auth/register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.MediumCtx(r)
	defer cancel()

	var req registerRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.FullName) == "" {
		respond.Error(w, http.StatusBadRequest, "full_name is required")
		return
	}
	if !inputval.IsValidEmail(req.Email) {
		respond.Error(w, http.StatusBadRequest, "invalid email address")
		return
	}
	if req.Phone != "" && !inputval.IsValidPhone(req.Phone) {
		respond.Error(w, http.StatusBadRequest, "invalid phone number")
		return
	}
	if err := authutil.ValidatePassword(req.Password); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error()+". "+authutil.PasswordRules())
		return
	}

	if ok, reason := h.Limiter.Check(r, req.Email); !ok {
		respond.Error(w, http.StatusTooManyRequests, reason)
		return
	}

	hash, err := authutil.HashPassword(req.Password)
	if err != nil {
		h.Log.Error("password hash failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "registration failed")
		return
	}

	u, err := h.Users.Create(ctx, models.User{
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		AuthMethod:   "password",
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			respond.Error(w, http.StatusConflict, "an account with this email already exists")
			return
		}
		h.Log.Error("user create failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "registration failed")
		return
	}

	if err := h.signIn(w, r, &u); err != nil {
		h.Log.Error("session create failed after register", zap.Error(err), zap.String("uid", u.UID))
		respond.Error(w, http.StatusInternalServerError, "registration failed")
		return
	}

	h.Log.Info("user registered", zap.String("uid", u.UID), zap.String("email", u.Email))
	respond.JSON(w, http.StatusCreated, h.userView(&u))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin handles POST /api/auth/login.
//
// Unknown email, wrong auth method, and wrong password all produce the
// same 401 so the endpoint does not confirm which emails have accounts.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.MediumCtx(r)
	defer cancel()

	var req loginRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if ok, reason := h.Limiter.Check(r, req.Email); !ok {
		respond.Error(w, http.StatusTooManyRequests, reason)
		return
	}

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.Log.Error("user lookup failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "login failed")
		return
	}

	if u.AuthMethod != "password" || !authutil.CheckPassword(req.Password, u.PasswordHash) {
		respond.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if u.Status == models.StatusDisabled {
		respond.Error(w, http.StatusForbidden, "account is disabled")
		return
	}

	if err := h.signIn(w, r, u); err != nil {
		h.Log.Error("session create failed", zap.Error(err), zap.String("uid", u.UID))
		respond.Error(w, http.StatusInternalServerError, "login failed")
		return
	}

	h.Limiter.ResetEmail(req.Email)
	h.Log.Info("user logged in", zap.String("uid", u.UID))
	respond.JSON(w, http.StatusOK, h.userView(u))
}

// HandleLogout handles POST /api/auth/logout.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := auth.SignOut(w, r); err != nil {
		h.Log.Warn("sign out failed", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Current session                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeMe handles GET /api/auth/me (signed-in).
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.ShortCtx(r)
	defer cancel()

	su, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Users.GetByUID(ctx, su.UID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Session outlived the account record.
			respond.Error(w, http.StatusUnauthorized, "account not found")
			return
		}
		h.Log.Error("user lookup failed", zap.Error(err), zap.String("uid", su.UID))
		respond.Error(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	respond.JSON(w, http.StatusOK, h.userView(u))
}

type profileRequest struct {
	FullName  string   `json:"full_name"`
	Phone     string   `json:"phone,omitempty"`
	Addresses []string `json:"addresses,omitempty"`
}

// HandleUpdateProfile handles PUT /api/auth/profile (signed-in).
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.MediumCtx(r)
	defer cancel()

	su, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req profileRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.FullName) == "" {
		respond.Error(w, http.StatusBadRequest, "full_name is required")
		return
	}
	if req.Phone != "" && !inputval.IsValidPhone(req.Phone) {
		respond.Error(w, http.StatusBadRequest, "invalid phone number")
		return
	}

	err := h.Users.UpdateProfile(ctx, su.UID, userstore.ProfileUpdate{
		FullName:  req.FullName,
		Phone:     req.Phone,
		Addresses: req.Addresses,
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "account not found")
			return
		}
		h.Log.Error("profile update failed", zap.Error(err), zap.String("uid", su.UID))
		respond.Error(w, http.StatusInternalServerError, "update failed")
		return
	}

	u, err := h.Users.GetByUID(ctx, su.UID)
	if err != nil {
		h.Log.Error("user reload failed", zap.Error(err), zap.String("uid", su.UID))
		respond.Error(w, http.StatusInternalServerError, "update failed")
		return
	}

	// The session carries the display name; refresh it.
	if err := h.signIn(w, r, u); err != nil {
		h.Log.Warn("session refresh failed", zap.Error(err), zap.String("uid", su.UID))
	}

	respond.JSON(w, http.StatusOK, h.userView(u))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Google OAuth                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.OAuth.GoogleClientID,
		ClientSecret: h.OAuth.GoogleClientSecret,
		RedirectURL:  h.OAuth.BaseURL + "/api/auth/google/callback",
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// IsConfigured returns true if Google OAuth is configured.
func (h *Handler) IsConfigured() bool {
	return h.OAuth.GoogleClientID != "" && h.OAuth.GoogleClientSecret != ""
}

// ServeGoogleLogin handles GET /api/auth/google: redirects to Google's
// consent screen with a one-time state token.
func (h *Handler) ServeGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		respond.Error(w, http.StatusServiceUnavailable, "Google sign-in is not configured")
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "sign-in failed")
		return
	}

	returnURL := r.URL.Query().Get("return")

	ctx, cancel := timeouts.ShortCtx(r)
	defer cancel()

	expiresAt := time.Now().UTC().Add(10 * time.Minute)
	if err := h.States.Save(ctx, state, returnURL, expiresAt); err != nil {
		h.Log.Error("failed to save OAuth state", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "sign-in failed")
		return
	}

	url := h.oauth2Config().AuthCodeURL(state)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// ServeGoogleCallback handles GET /api/auth/google/callback. A verified
// Google email signs in its existing account or creates a fresh customer
// account on first use.
func (h *Handler) ServeGoogleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		h.redirectToLogin(w, r, "google_denied")
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		h.redirectToLogin(w, r, "invalid_state")
		return
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	returnURL, valid, err := h.States.Validate(ctxTimeout, state)
	if err != nil {
		h.Log.Error("failed to validate OAuth state", zap.Error(err))
		h.redirectToLogin(w, r, "internal")
		return
	}
	if !valid {
		h.Log.Warn("invalid or expired OAuth state")
		h.redirectToLogin(w, r, "invalid_state")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectToLogin(w, r, "invalid_code")
		return
	}

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		h.redirectToLogin(w, r, "token_exchange")
		return
	}

	googleUser, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("failed to fetch Google user info", zap.Error(err))
		h.redirectToLogin(w, r, "user_info")
		return
	}
	if !googleUser.EmailVerified {
		h.Log.Warn("Google account email not verified", zap.String("email", googleUser.Email))
		h.redirectToLogin(w, r, "email_unverified")
		return
	}

	u, err := h.findOrCreateGoogleUser(ctxTimeout, googleUser)
	if err != nil {
		if err == errUserDisabled {
			h.redirectToLogin(w, r, "account_disabled")
			return
		}
		h.Log.Error("Google user lookup failed", zap.Error(err), zap.String("email", googleUser.Email))
		h.redirectToLogin(w, r, "internal")
		return
	}

	if err := h.signIn(w, r, u); err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			h.Log.Warn("stale session cookie during OAuth login", zap.Error(err))
		} else {
			h.Log.Error("session create failed after OAuth", zap.Error(err), zap.String("uid", u.UID))
			h.redirectToLogin(w, r, "session")
			return
		}
	}

	h.Log.Info("user logged in via Google",
		zap.String("uid", u.UID),
		zap.String("email", u.Email))

	http.Redirect(w, r, safeReturn(returnURL), http.StatusSeeOther)
}

var errUserDisabled = errors.New("user disabled")

// findOrCreateGoogleUser resolves the verified Google identity to a local
// account, creating a customer account on first sign-in.
func (h *Handler) findOrCreateGoogleUser(ctx context.Context, gu *googleUserInfo) (*models.User, error) {
	u, err := h.Users.GetByEmail(ctx, gu.Email)
	if err == nil {
		if u.Status == models.StatusDisabled {
			return nil, errUserDisabled
		}
		return u, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	created, err := h.Users.Create(ctx, models.User{
		UID:        "google:" + gu.ID,
		FullName:   gu.Name,
		Email:      gu.Email,
		AuthMethod: "google",
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			// Lost a race with a concurrent first sign-in.
			return h.Users.GetByEmail(ctx, gu.Email)
		}
		return nil, err
	}
	return &created, nil
}

// googleUserInfo represents user info returned from Google.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// fetchGoogleUserInfo retrieves user information from Google's userinfo endpoint.
func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	return &info, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Helpers                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request, u *models.User) error {
	return auth.SignIn(w, r, &auth.SessionUser{
		UID:   u.UID,
		Name:  u.FullName,
		Email: u.Email,
	})
}

// userView is the JSON shape for the signed-in account, including the
// role derived from the email.
func (h *Handler) userView(u *models.User) map[string]any {
	return map[string]any{
		"uid":       u.UID,
		"email":     u.Email,
		"full_name": u.FullName,
		"phone":     u.Phone,
		"addresses": u.Addresses,
		"role":      string(h.Deriver.Derive(u.Email)),
	}
}

func (h *Handler) redirectToLogin(w http.ResponseWriter, r *http.Request, errorCode string) {
	http.Redirect(w, r, h.OAuth.BaseURL+"/login?error="+errorCode, http.StatusSeeOther)
}

// generateState creates a cryptographically secure random state string.
func generateState() (string, error) {
	b := securecookie.GenerateRandomKey(32)
	if b == nil {
		return "", errors.New("random source unavailable")
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// safeReturn keeps post-login redirects on-site: only rooted paths pass.
func safeReturn(returnURL string) string {
	if strings.HasPrefix(returnURL, "/") && !strings.HasPrefix(returnURL, "//") {
		return returnURL
	}
	return "/"
}
