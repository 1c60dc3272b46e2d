package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ooo-portfolio/backend/internal/logging"
	"github.com/ooo-portfolio/backend/internal/model"
	"github.com/ooo-portfolio/backend/internal/service"
	"github.com/ooo-portfolio/backend/pkg/auth"
)

// AuthConfig は AuthHandler の設定
type AuthConfig struct {
	SessionSecret []byte
	SecureCookie  bool
	SessionTTL    time.Duration
}

// AuthHandler は管理者ログイン・ログアウトの HTTP ハンドラ
type AuthHandler struct {
	authService service.AuthService
	cfg         AuthConfig
	now         func() time.Time
}

// NewAuthHandler は AuthHandler を生成する
func NewAuthHandler(authService service.AuthService, cfg AuthConfig) *AuthHandler {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = auth.SessionTTL
	}
	return &AuthHandler{authService: authService, cfg: cfg, now: time.Now}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login は POST /api/auth/login を処理する
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	admin, err := h.authService.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "email_and_password_required")
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
		return
	default:
		logging.FromContext(r.Context()).Error("admin login failed", "error", err)
		writeError(w, http.StatusBadGateway, "auth_unavailable")
		return
	}

	expires := h.now().Add(h.cfg.SessionTTL)
	token, err := auth.CreateSessionToken(auth.Identity{ID: admin.ID, Email: admin.Email}, h.cfg.SessionSecret, expires)
	if err != nil {
		logging.FromContext(r.Context()).Error("create session failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName(),
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(h.cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.cfg.SecureCookie,
	})
	writeJSON(w, http.StatusOK, admin)
}

// Logout は POST /api/auth/logout を処理する
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.cfg.SecureCookie,
		Expires:  time.Unix(0, 0),
	})
	writeJSON(w, http.StatusOK, map[string]string{"ok": "true"})
}

// Me は GET /api/admin/me を処理する
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, model.Admin{ID: id.ID, Email: id.Email})
}
