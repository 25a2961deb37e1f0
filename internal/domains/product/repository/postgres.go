package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-backend/internal/domains/category"
	"catalog-backend/internal/domains/product"
	"catalog-backend/internal/infrastructure/database"
	"catalog-backend/internal/shared"
	"catalog-backend/internal/shared/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Cần categories table tồn tại trước (FK)
const productSchema = `
CREATE TABLE IF NOT EXISTS products (
    id          CHAR(24)     PRIMARY KEY,
    name        TEXT         NOT NULL,
    slug        TEXT         NOT NULL,
    price       NUMERIC      NOT NULL CHECK (price >= 0),
    quantity    BIGINT       NOT NULL DEFAULT 0 CHECK (quantity >= 0),
    description TEXT         NOT NULL DEFAULT '',
    url_img     TEXT         NOT NULL DEFAULT '',
    category_id CHAR(24)     NOT NULL REFERENCES categories (id),
    status      VARCHAR(16)  NOT NULL DEFAULT 'active',
    created_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
    CONSTRAINT products_name_key UNIQUE (name),
    CONSTRAINT products_slug_key UNIQUE (slug)
);
CREATE INDEX IF NOT EXISTS idx_products_category_status ON products (category_id, status);
`

// populatedSelect: LEFT JOIN để product vẫn đọc được khi category không còn
const populatedSelect = `
    SELECT
        p.id, p.name, p.slug, p.price::text, p.quantity, p.description, p.url_img,
        p.category_id, p.status, p.created_at, p.updated_at,
        c.id, c.name, c.slug, c.description, c.status, c.created_at, c.updated_at
    FROM products p
    LEFT JOIN categories c ON c.id = p.category_id`

// postgresRepository dùng PostgresDB (không chỉ pool) để chạy
// check category + write trong 1 transaction
type postgresRepository struct {
	db *database.PostgresDB
}

func NewPostgresRepository(db *database.PostgresDB) product.ProductRepository {
	return &postgresRepository{db: db}
}

func scanProduct(row pgx.Row) (*product.Product, error) {
	var (
		p        product.Product
		priceStr string

		catID, catName, catSlug, catDesc, catStatus *string
		catCreatedAt, catUpdatedAt                  *time.Time
	)
	if err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &priceStr, &p.Quantity, &p.Description, &p.URLImg,
		&p.CategoryID, &p.Status, &p.CreatedAt, &p.UpdatedAt,
		&catID, &catName, &catSlug, &catDesc, &catStatus, &catCreatedAt, &catUpdatedAt,
	); err != nil {
		return nil, err
	}

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", priceStr, err)
	}
	p.Price = price

	if catID != nil {
		p.Category = &category.Category{
			ID:          *catID,
			Name:        deref(catName),
			Slug:        deref(catSlug),
			Description: deref(catDesc),
			Status:      shared.Status(deref(catStatus)),
		}
		if catCreatedAt != nil {
			p.Category.CreatedAt = *catCreatedAt
		}
		if catUpdatedAt != nil {
			p.Category.UpdatedAt = *catUpdatedAt
		}
	}
	return &p, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// mapWriteError: unique => duplicate, FK => category not found
func mapWriteError(err error, op string) error {
	switch pgErrorCode(err) {
	case pgUniqueViolation:
		return product.ErrDuplicateProduct
	case pgForeignKeyViolation:
		return category.ErrCategoryNotFound
	}
	return fmt.Errorf("failed to %s product: %w", op, err)
}

// ========== READ ==========
func (r *postgresRepository) ListActive(ctx context.Context) ([]product.Product, error) {
	query := populatedSelect + ` WHERE p.status = $1 ORDER BY p.created_at ASC`

	rows, err := r.db.Pool.Query(ctx, query, shared.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]product.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return products, nil
}

func (r *postgresRepository) GetActiveByID(ctx context.Context, id string) (*product.Product, error) {
	return r.queryOne(ctx, populatedSelect+` WHERE p.id = $1 AND p.status = $2`, id, shared.StatusActive)
}

func (r *postgresRepository) GetActiveBySlug(ctx context.Context, slug string) (*product.Product, error) {
	return r.queryOne(ctx, populatedSelect+` WHERE p.slug = $1 AND p.status = $2`, slug, shared.StatusActive)
}

func (r *postgresRepository) GetActiveBySlugInCategory(ctx context.Context, slug, categoryID string) (*product.Product, error) {
	return r.queryOne(ctx,
		populatedSelect+` WHERE p.slug = $1 AND p.category_id = $2 AND p.status = $3`,
		slug, categoryID, shared.StatusActive,
	)
}

// getByID không lọc status, dùng để trả record sau khi ghi
func (r *postgresRepository) getByID(ctx context.Context, id string) (*product.Product, error) {
	return r.queryOne(ctx, populatedSelect+` WHERE p.id = $1`, id)
}

func (r *postgresRepository) queryOne(ctx context.Context, query string, args ...any) (*product.Product, error) {
	p, err := scanProduct(r.db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// lockActiveCategory giữ row category (FOR SHARE) tới hết transaction:
// category không thể bị soft-delete giữa lúc check và lúc ghi product
func lockActiveCategory(ctx context.Context, tx pgx.Tx, categoryID string) error {
	var one int
	err := tx.QueryRow(ctx,
		`SELECT 1 FROM categories WHERE id = $1 AND status = $2 FOR SHARE`,
		categoryID, shared.StatusActive,
	).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return category.ErrCategoryNotFound
		}
		return fmt.Errorf("failed to lock category: %w", err)
	}
	return nil
}

// ========== CREATE ==========
func (r *postgresRepository) Create(ctx context.Context, entity *product.Product) (*product.Product, error) {
	err := r.db.ExecuteInTransaction(ctx, nil, func(tx pgx.Tx) error {
		if err := lockActiveCategory(ctx, tx, entity.CategoryID); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, `
            INSERT INTO products
                (id, name, slug, price, quantity, description, url_img, category_id, status, created_at, updated_at)
            VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9, $10, $11)`,
			entity.ID,
			entity.Name,
			entity.Slug,
			entity.Price.String(),
			entity.Quantity,
			entity.Description,
			entity.URLImg,
			entity.CategoryID,
			entity.Status,
			entity.CreatedAt,
			entity.UpdatedAt,
		)
		if err != nil {
			return mapWriteError(err, "create")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.getByID(ctx, entity.ID)
}

// ========== UPDATE (partial) ==========
func (r *postgresRepository) Update(ctx context.Context, id string, patch product.Patch) (*product.Product, error) {
	b := &utils.UpdateBuilder{}
	if patch.Name != nil {
		b.Set("name", *patch.Name)
	}
	if patch.Slug != nil {
		b.Set("slug", *patch.Slug)
	}
	if patch.Price != nil {
		b.SetCast("price", patch.Price.String(), "numeric")
	}
	if patch.Quantity != nil {
		b.Set("quantity", *patch.Quantity)
	}
	if patch.Description != nil {
		b.Set("description", *patch.Description)
	}
	if patch.URLImg != nil {
		b.Set("url_img", *patch.URLImg)
	}
	if patch.CategoryID != nil {
		b.Set("category_id", *patch.CategoryID)
	}
	b.SetExpr("updated_at", "NOW()")

	err := r.db.ExecuteInTransaction(ctx, nil, func(tx pgx.Tx) error {
		if patch.CategoryID != nil {
			if err := lockActiveCategory(ctx, tx, *patch.CategoryID); err != nil {
				return err
			}
		}
		return updateActive(ctx, tx, b, id)
	})
	if err != nil {
		return nil, err
	}

	return r.getByID(ctx, id)
}

// ========== DELETE (soft) ==========
func (r *postgresRepository) SoftDelete(ctx context.Context, id string) (*product.Product, error) {
	b := &utils.UpdateBuilder{}
	b.Set("status", shared.StatusDeleted)
	b.SetExpr("updated_at", "NOW()")

	err := r.db.ExecuteInTransaction(ctx, nil, func(tx pgx.Tx) error {
		return updateActive(ctx, tx, b, id)
	})
	if err != nil {
		return nil, err
	}

	return r.getByID(ctx, id)
}

// updateActive: 0 row bị ảnh hưởng => product không tồn tại hoặc đã xoá
func updateActive(ctx context.Context, tx pgx.Tx, b *utils.UpdateBuilder, id string) error {
	query := fmt.Sprintf(
		`UPDATE products SET %s WHERE %s`,
		b.Clause(),
		utils.JoinWithAnd([]string{"id = " + b.Arg(id), "status = " + b.Arg(shared.StatusActive)}),
	)

	tag, err := tx.Exec(ctx, query, b.Args()...)
	if err != nil {
		return mapWriteError(err, "update")
	}
	if tag.RowsAffected() == 0 {
		return product.ErrProductNotFound
	}
	return nil
}

// ========== SCHEMA ==========
func (r *postgresRepository) EnsureIndexes(ctx context.Context) error {
	if _, err := r.db.Pool.Exec(ctx, productSchema); err != nil {
		return fmt.Errorf("failed to ensure products schema: %w", err)
	}
	return nil
}
