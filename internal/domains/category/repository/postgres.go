package repository

import (
	"context"
	"errors"
	"fmt"

	"catalog-backend/internal/domains/category"
	"catalog-backend/internal/shared"
	"catalog-backend/internal/shared/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation = "23505"

	categoryColumns = `id, name, slug, description, status, created_at, updated_at`
)

// Schema cho backend PostgreSQL. id là CHAR(24) hex để cùng format với ObjectID.
const categorySchema = `
CREATE TABLE IF NOT EXISTS categories (
    id          CHAR(24)     PRIMARY KEY,
    name        TEXT         NOT NULL,
    slug        TEXT         NOT NULL,
    description TEXT         NOT NULL DEFAULT '',
    status      VARCHAR(16)  NOT NULL DEFAULT 'active',
    created_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
    CONSTRAINT categories_name_key UNIQUE (name),
    CONSTRAINT categories_slug_key UNIQUE (slug)
);
CREATE INDEX IF NOT EXISTS idx_categories_status ON categories (status);
`

// postgresRepository implements category.CategoryRepository bằng pgxpool
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) category.CategoryRepository {
	return &postgresRepository{pool: pool}
}

// scanCategory đọc 1 row theo thứ tự categoryColumns
func scanCategory(row pgx.Row) (*category.Category, error) {
	var c category.Category
	if err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Slug,
		&c.Description,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// ========== READ ==========
func (r *postgresRepository) ListActive(ctx context.Context) ([]category.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE status = $1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, shared.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]category.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return categories, nil
}

func (r *postgresRepository) GetActiveByID(ctx context.Context, id string) (*category.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND status = $2`
	return r.queryOne(ctx, query, id, shared.StatusActive)
}

func (r *postgresRepository) GetActiveBySlug(ctx context.Context, slug string) (*category.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE slug = $1 AND status = $2`
	return r.queryOne(ctx, query, slug, shared.StatusActive)
}

func (r *postgresRepository) queryOne(ctx context.Context, query string, args ...any) (*category.Category, error) {
	c, err := scanCategory(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

// ========== CREATE ==========
func (r *postgresRepository) Create(ctx context.Context, entity *category.Category) (*category.Category, error) {
	query := `
        INSERT INTO categories (id, name, slug, description, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + categoryColumns

	created, err := scanCategory(r.pool.QueryRow(ctx, query,
		entity.ID,
		entity.Name,
		entity.Slug,
		entity.Description,
		entity.Status,
		entity.CreatedAt,
		entity.UpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, category.ErrDuplicateCategory
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return created, nil
}

// ========== UPDATE (partial) ==========
func (r *postgresRepository) Update(ctx context.Context, id string, patch category.Patch) (*category.Category, error) {
	b := &utils.UpdateBuilder{}
	if patch.Name != nil {
		b.Set("name", *patch.Name)
	}
	if patch.Slug != nil {
		b.Set("slug", *patch.Slug)
	}
	if patch.Description != nil {
		b.Set("description", *patch.Description)
	}
	b.SetExpr("updated_at", "NOW()")

	return r.updateActive(ctx, b, id)
}

// ========== DELETE (soft) ==========
func (r *postgresRepository) SoftDelete(ctx context.Context, id string) (*category.Category, error) {
	b := &utils.UpdateBuilder{}
	b.Set("status", shared.StatusDeleted)
	b.SetExpr("updated_at", "NOW()")

	return r.updateActive(ctx, b, id)
}

// updateActive: UPDATE ... WHERE status = 'active' RETURNING, 0 row => not found
func (r *postgresRepository) updateActive(ctx context.Context, b *utils.UpdateBuilder, id string) (*category.Category, error) {
	query := fmt.Sprintf(
		`UPDATE categories SET %s WHERE %s RETURNING %s`,
		b.Clause(),
		utils.JoinWithAnd([]string{"id = " + b.Arg(id), "status = " + b.Arg(shared.StatusActive)}),
		categoryColumns,
	)

	updated, err := scanCategory(r.pool.QueryRow(ctx, query, b.Args()...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, category.ErrCategoryNotFound
		}
		if isUniqueViolation(err) {
			return nil, category.ErrDuplicateCategory
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return updated, nil
}

// ========== SCHEMA ==========
func (r *postgresRepository) EnsureIndexes(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, categorySchema); err != nil {
		return fmt.Errorf("failed to ensure categories schema: %w", err)
	}
	return nil
}
