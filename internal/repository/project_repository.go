package repository

import (
	"context"

	"github.com/ooo-portfolio/backend/internal/model"
)

// ProjectRepository is the persistence interface for projects.
type ProjectRepository interface {
	List(ctx context.Context) ([]*model.Project, error)
	ListRecent(ctx context.Context, limit int) ([]*model.Project, error)
	GetByID(ctx context.Context, id string) (*model.Project, error)
	Create(ctx context.Context, project *model.Project) error
	Update(ctx context.Context, project *model.Project) error
	// Delete removes the project; its images go with it through ON DELETE CASCADE.
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
