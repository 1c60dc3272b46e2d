package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordClient_SignIn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "correct" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok","user":{"id":"u-1","email":"` + body["email"] + `"}}`))
	}))
	defer srv.Close()

	c := NewPasswordClient(srv.URL+"/", "anon-key")

	id, err := c.SignIn(context.Background(), "owner@example.com", "correct")
	require.NoError(t, err)
	assert.Equal(t, &Identity{ID: "u-1", Email: "owner@example.com"}, id)

	_, err = c.SignIn(context.Background(), "owner@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPasswordClient_Unavailable(t *testing.T) {
	tests := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"garbage body": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("not json"))
		},
		"missing user": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"access_token":"tok"}`))
		},
	}
	for name, h := range tests {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			_, err := NewPasswordClient(srv.URL, "").SignIn(context.Background(), "a@example.com", "pw")
			assert.ErrorIs(t, err, ErrUnavailable)
		})
	}
}

func TestPasswordClient_NotConfigured(t *testing.T) {
	_, err := NewPasswordClient("", "").SignIn(context.Background(), "a@example.com", "pw")
	assert.ErrorIs(t, err, ErrUnavailable)
}
