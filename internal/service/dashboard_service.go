package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ooo-portfolio/backend/internal/model"
	"github.com/ooo-portfolio/backend/internal/repository"
)

// RecentProjectLimit is how many projects the dashboard lists.
const RecentProjectLimit = 5

// DashboardService は管理画面ダッシュボードの集計を提供する
type DashboardService interface {
	Stats(ctx context.Context) (*model.DashboardStats, error)
}

// DashboardServiceImpl は DashboardService の実装
type DashboardServiceImpl struct {
	projectRepo repository.ProjectRepository
	imageRepo   repository.ImageRepository
}

func NewDashboardService(projectRepo repository.ProjectRepository, imageRepo repository.ImageRepository) DashboardService {
	return &DashboardServiceImpl{projectRepo: projectRepo, imageRepo: imageRepo}
}

// Stats runs the three reads concurrently and fails if any of them fails.
func (s *DashboardServiceImpl) Stats(ctx context.Context) (*model.DashboardStats, error) {
	var stats model.DashboardStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.projectRepo.Count(gctx)
		if err != nil {
			return fmt.Errorf("count projects: %w", err)
		}
		stats.ProjectCount = n
		return nil
	})
	g.Go(func() error {
		n, err := s.imageRepo.Count(gctx)
		if err != nil {
			return fmt.Errorf("count images: %w", err)
		}
		stats.ImageCount = n
		return nil
	})
	g.Go(func() error {
		recent, err := s.projectRepo.ListRecent(gctx, RecentProjectLimit)
		if err != nil {
			return fmt.Errorf("recent projects: %w", err)
		}
		stats.RecentProjects = recent
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if stats.RecentProjects == nil {
		stats.RecentProjects = []*model.Project{}
	}
	return &stats, nil
}
