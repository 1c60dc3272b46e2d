package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalConfig configures LocalStorage.
type LocalConfig struct {
	BaseDir   string // ディスク上のルートディレクトリ (例: "./uploads")
	URLPrefix string // HTTP で配信する際の URL プレフィックス (例: "/uploads")
}

// LocalStorage はローカルファイルシステムに画像を保存する Storage 実装。
type LocalStorage struct {
	baseDir   string
	urlPrefix string
}

// NewLocalStorage は LocalStorage を生成する。
func NewLocalStorage(baseDir, urlPrefix string) *LocalStorage {
	return &LocalStorage{baseDir: baseDir, urlPrefix: urlPrefix}
}

// BaseDir is the directory served under the URL prefix.
func (s *LocalStorage) BaseDir() string { return s.baseDir }

func (s *LocalStorage) Save(ctx context.Context, key string, data io.Reader, _ int64, _ string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dest := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	// O_EXCL: keys are unique per upload, an existing file means a collision.
	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("storage: create: %w", err)
	}

	if _, err := io.Copy(f, data); err != nil {
		f.Close()
		_ = os.Remove(dest)
		return fmt.Errorf("storage: write: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("storage: close: %w", err)
	}
	return nil
}

func (s *LocalStorage) PublicURL(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	return joinURL(s.urlPrefix, key), nil
}

func (s *LocalStorage) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	dest := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: remove: %w", err)
	}
	return nil
}
