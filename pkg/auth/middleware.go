package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

type contextKey string

const identityKey contextKey = "admin_identity"

// IdentityFromContext は context から管理者情報を取得する
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	v, ok := ctx.Value(identityKey).(*Identity)
	return v, ok && v != nil
}

// WithIdentity は context に管理者情報をセットする
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// TokenVerifier checks a bearer ID token issued by the managed auth service.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*Identity, error)
}

// Option configures RequireAuth.
type Option func(*guard)

type guard struct {
	verifier TokenVerifier
	allow    func(email string) bool
	now      func() time.Time
}

// WithTokenVerifier accepts "Authorization: Bearer <token>" when no session cookie is sent.
func WithTokenVerifier(v TokenVerifier) Option {
	return func(g *guard) { g.verifier = v }
}

// WithAllowFunc restricts bearer-token identities to administrators.
// Session cookies are only issued to administrators, so they are not rechecked.
func WithAllowFunc(fn func(email string) bool) Option {
	return func(g *guard) { g.allow = fn }
}

// RequireAuth は認証必須ミドルウェア。セッションまたは Bearer トークンを検証し、管理者情報を context にセットする
func RequireAuth(sessionSecret []byte, opts ...Option) func(http.Handler) http.Handler {
	g := &guard{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(SessionCookieName()); err == nil {
				id, err := VerifySessionToken(cookie.Value, sessionSecret, g.now())
				if err != nil {
					writeError(w, http.StatusUnauthorized, "invalid_session")
					return
				}
				next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
				return
			}

			token, ok := bearerToken(r)
			if !ok || g.verifier == nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			id, err := g.verifier.VerifyToken(r.Context(), token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid_token")
				return
			}
			if g.allow != nil && !g.allow(id.Email) {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(h, "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

// DevIdentity は開発用のダミー管理者（AUTH_REQUIRED=false 時に使用）
var DevIdentity = Identity{ID: "dev-admin", Email: "dev@localhost"}

// DevAuth は開発用ミドルウェア。ダミー管理者を context にセットする
func DevAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := DevIdentity
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), &id)))
	})
}
