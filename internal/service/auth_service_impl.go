package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ooo-portfolio/backend/internal/model"
	"github.com/ooo-portfolio/backend/pkg/auth"
)

// ErrCredentialsRequired is returned when email or password is blank.
var ErrCredentialsRequired = fmt.Errorf("%w: email and password are required", ErrInvalidInput)

// AuthServiceImpl は AuthService の実装
type AuthServiceImpl struct {
	authenticator PasswordAuthenticator
	adminEmails   map[string]struct{}
}

// NewAuthService は AuthServiceImpl を生成する。adminEmails が空の場合は認証済みアカウントをすべて管理者とみなす
func NewAuthService(authenticator PasswordAuthenticator, adminEmails []string) AuthService {
	allow := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = normalizeEmail(e); e != "" {
			allow[e] = struct{}{}
		}
	}
	return &AuthServiceImpl{authenticator: authenticator, adminEmails: allow}
}

// Login は外部認証サービスで資格情報を検証し、管理者であれば管理者情報を返す
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*model.Admin, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrCredentialsRequired
	}

	id, err := s.authenticator.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			slog.Info("admin login rejected", "email", email)
			return nil, err
		}
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if id.Email == "" {
		id.Email = email
	}
	if !s.IsAdmin(id.Email) {
		slog.Warn("non-admin login attempt", "email", id.Email)
		return nil, ErrForbidden
	}

	slog.Info("admin logged in", "admin_id", id.ID)
	return &model.Admin{ID: id.ID, Email: id.Email}, nil
}

func (s *AuthServiceImpl) IsAdmin(email string) bool {
	if len(s.adminEmails) == 0 {
		return true
	}
	_, ok := s.adminEmails[normalizeEmail(email)]
	return ok
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
