package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ooo-portfolio/backend/internal/model"
	"github.com/ooo-portfolio/backend/internal/repository"
)

// ProjectServiceImpl は ProjectService の実装
type ProjectServiceImpl struct {
	projectRepo repository.ProjectRepository
	imageRepo   repository.ImageRepository
}

// NewProjectService は ProjectServiceImpl を生成する（DI: ProjectRepository, ImageRepository を注入）
func NewProjectService(projectRepo repository.ProjectRepository, imageRepo repository.ImageRepository) ProjectService {
	return &ProjectServiceImpl{projectRepo: projectRepo, imageRepo: imageRepo}
}

// List returns every project newest first with its images attached.
func (s *ProjectServiceImpl) List(ctx context.Context) ([]*model.ProjectWithImages, error) {
	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	images, err := s.imageRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}

	byProject := make(map[string][]*model.Image, len(projects))
	for _, img := range images {
		byProject[img.ProjectID] = append(byProject[img.ProjectID], img)
	}

	out := make([]*model.ProjectWithImages, len(projects))
	for i, p := range projects {
		imgs := byProject[p.ID]
		if imgs == nil {
			imgs = []*model.Image{}
		}
		out[i] = &model.ProjectWithImages{Project: *p, Images: imgs}
	}
	return out, nil
}

// Get は ID でプロジェクトと画像を取得する
func (s *ProjectServiceImpl) Get(ctx context.Context, id string) (*model.ProjectWithImages, error) {
	p, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	images, err := s.imageRepo.ListByProjectID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	if images == nil {
		images = []*model.Image{}
	}
	return &model.ProjectWithImages{Project: *p, Images: images}, nil
}

// Create はプロジェクトを作成する
func (s *ProjectServiceImpl) Create(ctx context.Context, in model.ProjectInput) (*model.Project, error) {
	p, err := projectFromInput(in)
	if err != nil {
		return nil, err
	}
	if err := s.projectRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	slog.Info("project created", "project_id", p.ID)
	return p, nil
}

// Update はプロジェクトを更新する
func (s *ProjectServiceImpl) Update(ctx context.Context, id string, in model.ProjectInput) (*model.Project, error) {
	p, err := projectFromInput(in)
	if err != nil {
		return nil, err
	}
	p.ID = id
	if err := s.projectRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the project. Its images are removed by the database cascade.
func (s *ProjectServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("project deleted", "project_id", id)
	return nil
}

func projectFromInput(in model.ProjectInput) (*model.Project, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	return &model.Project{
		Title:       title,
		Description: optionalText(in.Description),
		Category:    optionalText(in.Category),
	}, nil
}

// optionalText trims s and maps blank values to NULL.
func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
