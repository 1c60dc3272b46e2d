package service

import (
	"context"

	"github.com/ooo-portfolio/backend/internal/model"
	"github.com/ooo-portfolio/backend/internal/upload"
)

// ImageService は画像メタデータとアップロードのインターフェース
type ImageService interface {
	ListByProject(ctx context.Context, projectID string) ([]*model.Image, error)
	Delete(ctx context.Context, id string) error
	// Upload stores the files for an existing project and returns the collected result.
	Upload(ctx context.Context, projectID string, files []upload.Candidate, onProgress upload.ProgressFunc) (*upload.Result, error)
	// StartUpload prepares a batch for callers that consume outcomes as they happen.
	StartUpload(ctx context.Context, projectID string, files []upload.Candidate) (*upload.Batch, error)
}
