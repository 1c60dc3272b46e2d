// Package storage puts uploaded files into an object store and hands back their public URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// ErrInvalidKey is returned for keys that are empty, absolute or escape the store root.
var ErrInvalidKey = errors.New("storage: invalid key")

// Storage は画像ファイルの保存・削除を抽象化するインターフェース。
// ローカルファイルシステム、S3、MinIO の実装がある。
type Storage interface {
	// Save writes size bytes from data under key.
	// key はストレージ内の一意パス (例: "<project-id>/<millis>-<uuid>.jpg")。
	Save(ctx context.Context, key string, data io.Reader, size int64, contentType string) error

	// PublicURL returns the URL under which a saved key is publicly readable.
	PublicURL(key string) (string, error)

	// Delete は key に対応するファイルを削除する。存在しない key はエラーにしない。
	Delete(ctx context.Context, key string) error
}

// Backend names accepted by New.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
	BackendMinio = "minio"
)

// Config selects and configures one backend.
type Config struct {
	Backend string
	Local   LocalConfig
	S3      S3Config
	Minio   MinioConfig
}

// New builds the Storage named by cfg.Backend.
func New(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Backend {
	case BackendLocal, "":
		return NewLocalStorage(cfg.Local.BaseDir, cfg.Local.URLPrefix), nil
	case BackendS3:
		return NewS3Storage(ctx, cfg.S3)
	case BackendMinio:
		return NewMinioStorage(ctx, cfg.Minio)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
	}
}

func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}

// joinURL appends an escaped key to base.
func joinURL(base, key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	return strings.TrimRight(base, "/") + "/" + escaped
}
