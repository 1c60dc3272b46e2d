package service

import (
	"context"

	"github.com/ooo-portfolio/backend/internal/model"
	"github.com/ooo-portfolio/backend/pkg/auth"
)

// PasswordAuthenticator は外部認証サービスでメール・パスワードを検証する
type PasswordAuthenticator interface {
	SignIn(ctx context.Context, email, password string) (*auth.Identity, error)
}

// AuthService は管理者認証に関するビジネスロジックのインターフェース
type AuthService interface {
	Login(ctx context.Context, email, password string) (*model.Admin, error)
	// IsAdmin reports whether email may use the admin area.
	IsAdmin(email string) bool
}
