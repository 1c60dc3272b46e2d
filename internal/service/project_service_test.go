package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ooo-portfolio/backend/internal/model"
	"github.com/ooo-portfolio/backend/internal/repository"
)

func strPtr(s string) *string { return &s }

func TestProjectService_List_GroupsImages(t *testing.T) {
	projects := &mockProjectRepository{
		listFunc: func(context.Context) ([]*model.Project, error) {
			return []*model.Project{{ID: "p2", Title: "Second"}, {ID: "p1", Title: "First"}}, nil
		},
	}
	images := &mockImageRepository{
		listAllFunc: func(context.Context) ([]*model.Image, error) {
			return []*model.Image{
				{ID: "i3", ProjectID: "p1"},
				{ID: "i2", ProjectID: "p2"},
				{ID: "i1", ProjectID: "p1"},
			}, nil
		},
	}

	got, err := NewProjectService(projects, images).List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "p2", got[0].ID)
	require.Len(t, got[0].Images, 1)
	assert.Equal(t, "i2", got[0].Images[0].ID)

	assert.Equal(t, "p1", got[1].ID)
	require.Len(t, got[1].Images, 2)
	assert.Equal(t, "i3", got[1].Images[0].ID)
}

func TestProjectService_List_EmptyImagesNotNil(t *testing.T) {
	projects := &mockProjectRepository{
		listFunc: func(context.Context) ([]*model.Project, error) {
			return []*model.Project{{ID: "p1", Title: "Solo"}}, nil
		},
	}

	got, err := NewProjectService(projects, &mockImageRepository{}).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got[0].Images)
	assert.Empty(t, got[0].Images)
}

func TestProjectService_List_RepoError(t *testing.T) {
	projects := &mockProjectRepository{
		listFunc: func(context.Context) ([]*model.Project, error) { return nil, errors.New("db down") },
	}

	_, err := NewProjectService(projects, &mockImageRepository{}).List(context.Background())
	assert.Error(t, err)
}

func TestProjectService_Get(t *testing.T) {
	projects := &mockProjectRepository{
		getByIDFunc: func(_ context.Context, id string) (*model.Project, error) {
			return &model.Project{ID: id, Title: "One"}, nil
		},
	}
	images := &mockImageRepository{
		listByProjectIDFunc: func(_ context.Context, projectID string) ([]*model.Image, error) {
			assert.Equal(t, "p1", projectID)
			return []*model.Image{{ID: "i1", ProjectID: "p1"}}, nil
		},
	}

	got, err := NewProjectService(projects, images).Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "One", got.Title)
	assert.Len(t, got.Images, 1)
}

func TestProjectService_Get_NotFound(t *testing.T) {
	_, err := NewProjectService(&mockProjectRepository{}, &mockImageRepository{}).Get(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectService_Create(t *testing.T) {
	var saved *model.Project
	projects := &mockProjectRepository{
		createFunc: func(_ context.Context, p *model.Project) error {
			p.ID = "new-id"
			saved = p
			return nil
		},
	}

	got, err := NewProjectService(projects, &mockImageRepository{}).Create(context.Background(), model.ProjectInput{
		Title:       "  Poster  ",
		Description: strPtr("  "),
		Category:    strPtr(" print "),
	})
	require.NoError(t, err)

	assert.Equal(t, "new-id", got.ID)
	assert.Equal(t, "Poster", saved.Title)
	assert.Nil(t, saved.Description)
	require.NotNil(t, saved.Category)
	assert.Equal(t, "print", *saved.Category)
}

func TestProjectService_Create_TitleRequired(t *testing.T) {
	projects := &mockProjectRepository{
		createFunc: func(context.Context, *model.Project) error {
			t.Error("repository must not be called")
			return nil
		},
	}

	_, err := NewProjectService(projects, &mockImageRepository{}).Create(context.Background(), model.ProjectInput{Title: "   "})
	assert.ErrorIs(t, err, ErrTitleRequired)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProjectService_Update(t *testing.T) {
	projects := &mockProjectRepository{
		updateFunc: func(_ context.Context, p *model.Project) error {
			assert.Equal(t, "p1", p.ID)
			assert.Equal(t, "Renamed", p.Title)
			return nil
		},
	}

	got, err := NewProjectService(projects, &mockImageRepository{}).Update(context.Background(), "p1", model.ProjectInput{Title: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "p1", got.ID)
}

func TestProjectService_Update_NotFound(t *testing.T) {
	projects := &mockProjectRepository{
		updateFunc: func(context.Context, *model.Project) error { return repository.ErrNotFound },
	}

	_, err := NewProjectService(projects, &mockImageRepository{}).Update(context.Background(), "p1", model.ProjectInput{Title: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectService_Delete(t *testing.T) {
	var deleted string
	projects := &mockProjectRepository{
		deleteFunc: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	}

	require.NoError(t, NewProjectService(projects, &mockImageRepository{}).Delete(context.Background(), "p1"))
	assert.Equal(t, "p1", deleted)
}
