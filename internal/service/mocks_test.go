package service

import (
	"context"
	"io"
	"sync"

	"github.com/ooo-portfolio/backend/internal/model"
	"github.com/ooo-portfolio/backend/internal/repository"
)

// mockProjectRepository は ProjectRepository のモック
type mockProjectRepository struct {
	listFunc       func(ctx context.Context) ([]*model.Project, error)
	listRecentFunc func(ctx context.Context, limit int) ([]*model.Project, error)
	getByIDFunc    func(ctx context.Context, id string) (*model.Project, error)
	createFunc     func(ctx context.Context, project *model.Project) error
	updateFunc     func(ctx context.Context, project *model.Project) error
	deleteFunc     func(ctx context.Context, id string) error
	countFunc      func(ctx context.Context) (int, error)
}

func (m *mockProjectRepository) List(ctx context.Context) ([]*model.Project, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockProjectRepository) ListRecent(ctx context.Context, limit int) ([]*model.Project, error) {
	if m.listRecentFunc != nil {
		return m.listRecentFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockProjectRepository) GetByID(ctx context.Context, id string) (*model.Project, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockProjectRepository) Create(ctx context.Context, project *model.Project) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, project)
	}
	return nil
}

func (m *mockProjectRepository) Update(ctx context.Context, project *model.Project) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, project)
	}
	return nil
}

func (m *mockProjectRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockProjectRepository) Count(ctx context.Context) (int, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

// mockImageRepository は ImageRepository のモック
type mockImageRepository struct {
	insertFunc          func(ctx context.Context, image *model.Image) error
	listByProjectIDFunc func(ctx context.Context, projectID string) ([]*model.Image, error)
	listAllFunc         func(ctx context.Context) ([]*model.Image, error)
	deleteFunc          func(ctx context.Context, id string) error
	countFunc           func(ctx context.Context) (int, error)
}

func (m *mockImageRepository) Insert(ctx context.Context, image *model.Image) error {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, image)
	}
	return nil
}

func (m *mockImageRepository) ListByProjectID(ctx context.Context, projectID string) ([]*model.Image, error) {
	if m.listByProjectIDFunc != nil {
		return m.listByProjectIDFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *mockImageRepository) ListAll(ctx context.Context) ([]*model.Image, error) {
	if m.listAllFunc != nil {
		return m.listAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockImageRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockImageRepository) Count(ctx context.Context) (int, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

// memStorage is an in-memory storage.Storage.
type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	saveErr error
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

func (m *memStorage) Save(_ context.Context, key string, data io.Reader, _ int64, _ string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = b
	return nil
}

func (m *memStorage) PublicURL(key string) (string, error) {
	return "https://cdn.test/" + key, nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}
