package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockMinioAPI struct {
	putFunc    func(bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	removeFunc func(bucket, key string) error
	exists     bool
	existsErr  error
	made       []string
}

func (m *mockMinioAPI) PutObject(_ context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if m.putFunc != nil {
		return m.putFunc(bucket, key, r, size, opts)
	}
	return minio.UploadInfo{Bucket: bucket, Key: key, Size: size}, nil
}

func (m *mockMinioAPI) RemoveObject(_ context.Context, bucket, key string, _ minio.RemoveObjectOptions) error {
	if m.removeFunc != nil {
		return m.removeFunc(bucket, key)
	}
	return nil
}

func (m *mockMinioAPI) BucketExists(context.Context, string) (bool, error) {
	return m.exists, m.existsErr
}

func (m *mockMinioAPI) MakeBucket(_ context.Context, bucket string, _ minio.MakeBucketOptions) error {
	m.made = append(m.made, bucket)
	return nil
}

func TestMinioStorage_Save(t *testing.T) {
	var gotBucket, gotKey, gotType string
	var gotSize int64
	api := &mockMinioAPI{
		putFunc: func(bucket, key string, _ io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
			gotBucket, gotKey, gotSize, gotType = bucket, key, size, opts.ContentType
			return minio.UploadInfo{}, nil
		},
	}
	s := newMinioStorage(api, "drawings", "us-east-1", "http://localhost:9000/drawings")

	require.NoError(t, s.Save(context.Background(), "p1/a.webp", strings.NewReader("webp"), 4, "image/webp"))
	assert.Equal(t, "drawings", gotBucket)
	assert.Equal(t, "p1/a.webp", gotKey)
	assert.Equal(t, int64(4), gotSize)
	assert.Equal(t, "image/webp", gotType)
}

func TestMinioStorage_SaveWrapsError(t *testing.T) {
	boom := errors.New("bucket quota exceeded")
	api := &mockMinioAPI{
		putFunc: func(string, string, io.Reader, int64, minio.PutObjectOptions) (minio.UploadInfo, error) {
			return minio.UploadInfo{}, boom
		},
	}
	s := newMinioStorage(api, "drawings", "", "http://localhost:9000/drawings")
	assert.ErrorIs(t, s.Save(context.Background(), "p1/a.jpg", strings.NewReader("x"), 1, "image/jpeg"), boom)
}

func TestMinioStorage_EnsureBucket(t *testing.T) {
	api := &mockMinioAPI{exists: true}
	s := newMinioStorage(api, "drawings", "", "")
	require.NoError(t, s.EnsureBucket(context.Background()))
	assert.Empty(t, api.made)

	api.exists = false
	require.NoError(t, s.EnsureBucket(context.Background()))
	assert.Equal(t, []string{"drawings"}, api.made)

	api.existsErr = errors.New("unreachable")
	assert.Error(t, s.EnsureBucket(context.Background()))
}

func TestMinioStorage_PublicURLAndDelete(t *testing.T) {
	var removed string
	api := &mockMinioAPI{removeFunc: func(_, key string) error { removed = key; return nil }}
	s := newMinioStorage(api, "drawings", "", minioBaseURL(MinioConfig{Endpoint: "localhost:9000", Bucket: "drawings"}))

	url, err := s.PublicURL("p1/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/drawings/p1/a.jpg", url)

	require.NoError(t, s.Delete(context.Background(), "p1/a.jpg"))
	assert.Equal(t, "p1/a.jpg", removed)
}
