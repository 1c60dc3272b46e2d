package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ooo-portfolio/backend/internal/model"
)

const projectColumns = `id, title, description, category, created_at`

// PgProjectRepository は ProjectRepository の PostgreSQL 実装
type PgProjectRepository struct {
	pool *pgxpool.Pool
}

// NewPgProjectRepository は PgProjectRepository を生成する
func NewPgProjectRepository(pool *pgxpool.Pool) *PgProjectRepository {
	return &PgProjectRepository{pool: pool}
}

// List returns all projects, newest first.
func (r *PgProjectRepository) List(ctx context.Context) ([]*model.Project, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	return collectProjects(rows)
}

// ListRecent returns at most limit projects, newest first.
func (r *PgProjectRepository) ListRecent(ctx context.Context, limit int) ([]*model.Project, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	return collectProjects(rows)
}

// GetByID は ID でプロジェクトを取得する
func (r *PgProjectRepository) GetByID(ctx context.Context, id string) (*model.Project, error) {
	var p model.Project
	err := r.pool.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Title, &p.Description, &p.Category, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) || isMalformedID(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create はプロジェクトを作成する
func (r *PgProjectRepository) Create(ctx context.Context, project *model.Project) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO projects (title, description, category)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		project.Title, project.Description, project.Category,
	).Scan(&project.ID, &project.CreatedAt)
}

// Update はプロジェクトを更新する
func (r *PgProjectRepository) Update(ctx context.Context, project *model.Project) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE projects SET title = $1, description = $2, category = $3
		 WHERE id = $4
		 RETURNING created_at`,
		project.Title, project.Description, project.Category, project.ID,
	).Scan(&project.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) || isMalformedID(err) {
		return ErrNotFound
	}
	return err
}

// Delete removes the project row. 対象が存在しない場合は ErrNotFound を返す。
func (r *PgProjectRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
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

// Count returns the number of projects.
func (r *PgProjectRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n)
	return n, err
}

func collectProjects(rows pgx.Rows) ([]*model.Project, error) {
	defer rows.Close()

	projects := make([]*model.Project, 0)
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Category, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}
