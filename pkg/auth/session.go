package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidSession is returned for tokens that are malformed, forged or expired.
var ErrInvalidSession = errors.New("invalid session")

// SessionTTL は管理者セッションの有効期間
const SessionTTL = 7 * 24 * time.Hour

// Identity is the signed-in administrator carried by a session or bearer token.
type Identity struct {
	ID    string `json:"sub"`
	Email string `json:"email"`
}

type sessionPayload struct {
	Identity
	ExpiresAt int64 `json:"exp"`
}

// CreateSessionToken は管理者情報から署名付きセッショントークンを生成する
func CreateSessionToken(id Identity, secret []byte, expiresAt time.Time) (string, error) {
	payload, err := json.Marshal(sessionPayload{Identity: id, ExpiresAt: expiresAt.Unix()})
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(payload) + "." + sign(payload, secret), nil
}

// VerifySessionToken はトークンを検証し管理者情報を返す
func VerifySessionToken(token string, secret []byte, now time.Time) (*Identity, error) {
	encoded, sig, ok := strings.Cut(token, ".")
	if !ok {
		return nil, fmt.Errorf("%w: bad format", ErrInvalidSession)
	}
	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if !hmac.Equal([]byte(sign(payload, secret)), []byte(sig)) {
		return nil, fmt.Errorf("%w: bad signature", ErrInvalidSession)
	}

	var p sessionPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if p.ID == "" || !now.Before(time.Unix(p.ExpiresAt, 0)) {
		return nil, fmt.Errorf("%w: expired", ErrInvalidSession)
	}
	return &p.Identity, nil
}

func sign(payload, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

const sessionCookieName = "ooo_admin_session"

// MinSecretLen is the shortest session secret accepted in production.
const MinSecretLen = 32

// SessionCookieName はセッションクッキー名
func SessionCookieName() string {
	return sessionCookieName
}

// SessionSecretBytes は文字列からセッション署名用のバイト列を生成する（最低32バイト）
func SessionSecretBytes(s string) []byte {
	b := []byte(s)
	if len(b) < MinSecretLen {
		out := make([]byte, MinSecretLen)
		copy(out, b)
		return out
	}
	return b
}
