package repository

import (
	"context"

	"github.com/ooo-portfolio/backend/internal/model"
)

// ImageRepository is the persistence interface for image metadata rows.
type ImageRepository interface {
	// Insert stores the row and fills in ID and CreatedAt.
	Insert(ctx context.Context, image *model.Image) error
	ListByProjectID(ctx context.Context, projectID string) ([]*model.Image, error)
	// ListAll returns every image newest first; callers group them by project.
	ListAll(ctx context.Context) ([]*model.Image, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
