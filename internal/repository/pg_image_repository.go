package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ooo-portfolio/backend/internal/model"
)

const imageColumns = `id, project_id, url, filename, created_at`

// PgImageRepository は ImageRepository の PostgreSQL 実装
type PgImageRepository struct {
	pool *pgxpool.Pool
}

// NewPgImageRepository は PgImageRepository を生成する
func NewPgImageRepository(pool *pgxpool.Pool) *PgImageRepository {
	return &PgImageRepository{pool: pool}
}

// Insert records one uploaded object. A missing project surfaces as ErrNotFound.
func (r *PgImageRepository) Insert(ctx context.Context, image *model.Image) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO images (project_id, url, filename)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		image.ProjectID, image.URL, image.Filename,
	).Scan(&image.ID, &image.CreatedAt)
	if isForeignKeyViolation(err) || isMalformedID(err) {
		return fmt.Errorf("project %s: %w", image.ProjectID, ErrNotFound)
	}
	return err
}

// ListByProjectID returns the project's images, newest first.
func (r *PgImageRepository) ListByProjectID(ctx context.Context, projectID string) ([]*model.Image, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+imageColumns+` FROM images WHERE project_id = $1 ORDER BY created_at DESC`,
		projectID,
	)
	if err == nil {
		var images []*model.Image
		images, err = collectImages(rows)
		if err == nil {
			return images, nil
		}
	}
	if isMalformedID(err) {
		return []*model.Image{}, nil
	}
	return nil, err
}

// ListAll returns every image, newest first.
func (r *PgImageRepository) ListAll(ctx context.Context) ([]*model.Image, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+imageColumns+` FROM images ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	return collectImages(rows)
}

// Delete removes a single image row.
func (r *PgImageRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM images WHERE id = $1`, id)
	if isMalformedID(err) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of images across all projects.
func (r *PgImageRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM images`).Scan(&n)
	return n, err
}

func collectImages(rows pgx.Rows) ([]*model.Image, error) {
	defer rows.Close()

	images := make([]*model.Image, 0)
	for rows.Next() {
		var img model.Image
		if err := rows.Scan(&img.ID, &img.ProjectID, &img.URL, &img.Filename, &img.CreatedAt); err != nil {
			return nil, err
		}
		images = append(images, &img)
	}
	return images, rows.Err()
}
