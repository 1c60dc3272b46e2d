package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrInvalidCredentials は認証サービスがメールアドレスまたはパスワードを拒否した場合のエラー
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnavailable は認証サービスに到達できない、または想定外の応答を返した場合のエラー
	ErrUnavailable = errors.New("auth service unavailable")
)

// PasswordClient signs administrators in against a hosted auth service using
// the password grant (POST {base}/auth/v1/token?grant_type=password).
type PasswordClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewPasswordClient は PasswordClient を生成する
func NewPasswordClient(baseURL, apiKey string) *PasswordClient {
	return &PasswordClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type passwordGrantResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// SignIn exchanges email and password for the account's identity.
func (c *PasswordClient) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("%w: not configured", ErrUnavailable)
	}
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/token?grant_type=password", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest, resp.StatusCode == http.StatusUnauthorized:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, ErrInvalidCredentials
	case resp.StatusCode != http.StatusOK:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out passwordGrantResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if out.User.ID == "" {
		return nil, fmt.Errorf("%w: response without user", ErrUnavailable)
	}
	return &Identity{ID: out.User.ID, Email: out.User.Email}, nil
}
