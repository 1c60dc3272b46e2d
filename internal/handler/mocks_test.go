package handler

import (
	"context"
	"io"

	"github.com/ooo-portfolio/backend/internal/model"
	"github.com/ooo-portfolio/backend/internal/upload"
)

type mockDB struct {
	pingFunc func(ctx context.Context) error
}

func (m *mockDB) Ping(ctx context.Context) error {
	if m.pingFunc != nil {
		return m.pingFunc(ctx)
	}
	return nil
}

// mockProjectService は ProjectService のモック
type mockProjectService struct {
	listFunc   func(ctx context.Context) ([]*model.ProjectWithImages, error)
	getFunc    func(ctx context.Context, id string) (*model.ProjectWithImages, error)
	createFunc func(ctx context.Context, in model.ProjectInput) (*model.Project, error)
	updateFunc func(ctx context.Context, id string, in model.ProjectInput) (*model.Project, error)
	deleteFunc func(ctx context.Context, id string) error
}

func (m *mockProjectService) List(ctx context.Context) ([]*model.ProjectWithImages, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return []*model.ProjectWithImages{}, nil
}

func (m *mockProjectService) Get(ctx context.Context, id string) (*model.ProjectWithImages, error) {
	return m.getFunc(ctx, id)
}

func (m *mockProjectService) Create(ctx context.Context, in model.ProjectInput) (*model.Project, error) {
	return m.createFunc(ctx, in)
}

func (m *mockProjectService) Update(ctx context.Context, id string, in model.ProjectInput) (*model.Project, error) {
	return m.updateFunc(ctx, id, in)
}

func (m *mockProjectService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// mockImageService は ImageService のモック
type mockImageService struct {
	listByProjectFunc func(ctx context.Context, projectID string) ([]*model.Image, error)
	deleteFunc        func(ctx context.Context, id string) error
	uploadFunc        func(ctx context.Context, projectID string, files []upload.Candidate, onProgress upload.ProgressFunc) (*upload.Result, error)
	startUploadFunc   func(ctx context.Context, projectID string, files []upload.Candidate) (*upload.Batch, error)
}

func (m *mockImageService) ListByProject(ctx context.Context, projectID string) ([]*model.Image, error) {
	return m.listByProjectFunc(ctx, projectID)
}

func (m *mockImageService) Delete(ctx context.Context, id string) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockImageService) Upload(ctx context.Context, projectID string, files []upload.Candidate, onProgress upload.ProgressFunc) (*upload.Result, error) {
	return m.uploadFunc(ctx, projectID, files, onProgress)
}

func (m *mockImageService) StartUpload(ctx context.Context, projectID string, files []upload.Candidate) (*upload.Batch, error) {
	return m.startUploadFunc(ctx, projectID, files)
}

// mockAuthService は AuthService のモック
type mockAuthService struct {
	loginFunc func(ctx context.Context, email, password string) (*model.Admin, error)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*model.Admin, error) {
	return m.loginFunc(ctx, email, password)
}

func (m *mockAuthService) IsAdmin(string) bool { return true }

type mockDashboardService struct {
	statsFunc func(ctx context.Context) (*model.DashboardStats, error)
}

func (m *mockDashboardService) Stats(ctx context.Context) (*model.DashboardStats, error) {
	return m.statsFunc(ctx)
}

// memStorage is an in-memory storage.Storage for driving a real pipeline.
type memStorage struct {
	saveErr error
}

func (m *memStorage) Save(_ context.Context, _ string, data io.Reader, _ int64, _ string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	_, err := io.Copy(io.Discard, data)
	return err
}

func (m *memStorage) PublicURL(key string) (string, error) { return "https://cdn.test/" + key, nil }

func (m *memStorage) Delete(context.Context, string) error { return nil }

type memImageStore struct{ n int }

func (m *memImageStore) Insert(_ context.Context, img *model.Image) error {
	m.n++
	img.ID = "img-" + img.Filename
	return nil
}
