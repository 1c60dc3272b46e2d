package service

import (
	"context"

	"github.com/ooo-portfolio/backend/internal/model"
)

// ProjectService はプロジェクトに関するビジネスロジックのインターフェース
type ProjectService interface {
	List(ctx context.Context) ([]*model.ProjectWithImages, error)
	Get(ctx context.Context, id string) (*model.ProjectWithImages, error)
	Create(ctx context.Context, in model.ProjectInput) (*model.Project, error)
	Update(ctx context.Context, id string, in model.ProjectInput) (*model.Project, error)
	Delete(ctx context.Context, id string) error
}
