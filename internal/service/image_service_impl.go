package service

import (
	"context"
	"fmt"

	"github.com/ooo-portfolio/backend/internal/model"
	"github.com/ooo-portfolio/backend/internal/repository"
	"github.com/ooo-portfolio/backend/internal/upload"
)

// ImageServiceImpl は ImageService の実装
type ImageServiceImpl struct {
	projectRepo repository.ProjectRepository
	imageRepo   repository.ImageRepository
	pipeline    *upload.Pipeline
}

// NewImageService は ImageServiceImpl を生成する
func NewImageService(projectRepo repository.ProjectRepository, imageRepo repository.ImageRepository, pipeline *upload.Pipeline) ImageService {
	return &ImageServiceImpl{projectRepo: projectRepo, imageRepo: imageRepo, pipeline: pipeline}
}

func (s *ImageServiceImpl) ListByProject(ctx context.Context, projectID string) ([]*model.Image, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	images, err := s.imageRepo.ListByProjectID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	if images == nil {
		images = []*model.Image{}
	}
	return images, nil
}

// Delete removes the metadata row only. The stored object is kept.
func (s *ImageServiceImpl) Delete(ctx context.Context, id string) error {
	return s.imageRepo.Delete(ctx, id)
}

func (s *ImageServiceImpl) Upload(ctx context.Context, projectID string, files []upload.Candidate, onProgress upload.ProgressFunc) (*upload.Result, error) {
	if err := s.checkUpload(ctx, projectID, files); err != nil {
		return nil, err
	}
	return s.pipeline.Run(ctx, projectID, files, onProgress)
}

func (s *ImageServiceImpl) StartUpload(ctx context.Context, projectID string, files []upload.Candidate) (*upload.Batch, error) {
	if err := s.checkUpload(ctx, projectID, files); err != nil {
		return nil, err
	}
	return s.pipeline.Start(ctx, projectID, files)
}

// checkUpload rejects empty batches and unknown projects before any object is written.
func (s *ImageServiceImpl) checkUpload(ctx context.Context, projectID string, files []upload.Candidate) error {
	if len(files) == 0 {
		return ErrNoFiles
	}
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return err
	}
	return nil
}
