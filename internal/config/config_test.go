package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ooo-portfolio/backend/internal/storage"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("AUTH_REQUIRED", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "text", cfg.App.LogFormat)
	assert.False(t, cfg.Auth.Required)
	assert.Equal(t, storage.BackendLocal, cfg.Storage.Backend)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxFileBytes)
	assert.Equal(t, 20, cfg.Upload.MaxFiles)
	assert.Equal(t, 30*time.Second, cfg.Upload.CallTimeout)
	assert.False(t, cfg.Upload.CleanupOrphans)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("STORAGE_BACKEND", "MINIO")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_BUCKET", "portfolio")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("ADMIN_EMAILS", "a@example.com, b@example.com,,")
	t.Setenv("UPLOAD_MAX_FILES", "5")
	t.Setenv("UPLOAD_CALL_TIMEOUT", "3s")
	t.Setenv("UPLOAD_CLEANUP_ORPHANS", "true")
	t.Setenv("DB_MAX_CONNS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, storage.BackendMinio, cfg.Storage.Backend)
	assert.Equal(t, "localhost:9000", cfg.Storage.Minio.Endpoint)
	assert.True(t, cfg.Storage.Minio.UseSSL)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Auth.AdminEmails)
	assert.Equal(t, 5, cfg.Upload.MaxFiles)
	assert.Equal(t, 3*time.Second, cfg.Upload.CallTimeout)
	assert.True(t, cfg.Upload.CleanupOrphans)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
}

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8080"},
		Database: DatabaseConfig{URL: "postgres://x", MaxConns: 4},
		Auth:     AuthConfig{Required: true, SessionSecret: strings.Repeat("s", 40), PasswordGrantURL: "https://auth.example.com", LoginAttemptsPerMinute: 10},
		Storage:  storage.Config{Backend: storage.BackendLocal, Local: storage.LocalConfig{BaseDir: "./uploads"}},
		Upload:   UploadConfig{MaxFileBytes: 1, MaxFiles: 1, MaxBatchBytes: 1},
		App:      AppConfig{Environment: "production"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "ftp" }, "unknown STORAGE_BACKEND"},
		{"s3 without bucket", func(c *Config) { c.Storage.Backend = storage.BackendS3 }, "S3_BUCKET"},
		{"minio without bucket", func(c *Config) {
			c.Storage.Backend = storage.BackendMinio
			c.Storage.Minio.Endpoint = "localhost:9000"
		}, "MINIO_BUCKET"},
		{"short secret in production", func(c *Config) { c.Auth.SessionSecret = "short" }, "SESSION_SECRET"},
		{"dev secret in production", func(c *Config) { c.Auth.SessionSecret = devSessionSecret }, "SESSION_SECRET"},
		{"short secret in development", func(c *Config) {
			c.App.Environment = "development"
			c.Auth.SessionSecret = "short"
		}, ""},
		{"dev auth in production", func(c *Config) { c.Auth.Required = false }, "AUTH_REQUIRED"},
		{"zero file limit", func(c *Config) { c.Upload.MaxFileBytes = 0 }, "upload limits"},
		{"negative batch limit", func(c *Config) { c.Upload.MaxFiles = -1 }, "upload limits"},
		{"negative timeout", func(c *Config) { c.Upload.CallTimeout = -time.Second }, "UPLOAD_CALL_TIMEOUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
