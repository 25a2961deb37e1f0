package service

import (
	"context"
	"fmt"
	"strings"

	"catalog-backend/internal/domains/category"
	"catalog-backend/internal/domains/product"
	"catalog-backend/internal/shared"
	"catalog-backend/internal/shared/utils"
	"catalog-backend/pkg/logger"
)

type productServiceImpl struct {
	repository product.ProductRepository
	categories product.CategoryLookup
	slugMode   utils.SlugMode
}

// NewProductService: slugMode quyết định cách sinh slug cho product
// (utils.SlugStrict là mặc định, giống category; utils.SlugSimple chỉ để tương thích).
func NewProductService(repo product.ProductRepository, categories product.CategoryLookup, slugMode utils.SlugMode) product.ProductService {
	return &productServiceImpl{
		repository: repo,
		categories: categories,
		slugMode:   slugMode,
	}
}

// ========== READ: List ==========
func (s *productServiceImpl) List(ctx context.Context) ([]product.ProductResp, error) {
	entities, err := s.repository.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return product.ProductsToResp(entities), nil
}

// ========== READ: Resolve (id hoặc slug) ==========
func (s *productServiceImpl) Resolve(ctx context.Context, identifier string) (*product.ProductResp, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, product.ErrProductNotFound
	}

	var (
		entity *product.Product
		err    error
	)
	if utils.IsObjectID(identifier) {
		entity, err = s.repository.GetActiveByID(ctx, strings.ToLower(identifier))
	} else {
		entity, err = s.repository.GetActiveBySlug(ctx, identifier)
	}
	if err != nil {
		if product.IsNotFound(err) {
			return nil, product.ErrProductNotFound
		}
		return nil, fmt.Errorf("resolve product %q: %w", identifier, err)
	}
	return product.ProductToResp(entity), nil
}

// ========== READ: product trong category ==========
// 2 bước: category (active) theo slug, rồi product theo slug + category id.
func (s *productServiceImpl) GetInCategory(ctx context.Context, categorySlug, productSlug string) (*product.ProductResp, error) {
	cat, err := s.categories.GetActiveBySlug(ctx, strings.TrimSpace(categorySlug))
	if err != nil {
		return nil, err
	}

	productSlug = strings.TrimSpace(productSlug)
	if productSlug == "" {
		return nil, product.ErrProductNotFound
	}

	entity, err := s.repository.GetActiveBySlugInCategory(ctx, productSlug, cat.ID)
	if err != nil {
		if product.IsNotFound(err) {
			logger.Debug("product not found in category", map[string]interface{}{
				"category": cat.Slug,
				"product":  productSlug,
			})
			return nil, product.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product in category: %w", err)
	}
	return product.ProductToResp(entity), nil
}

// ========== CREATE ==========
// Category được check trước khi ghi (best-effort). Backend có transaction
// (postgres) check lại trong cùng transaction với INSERT.
func (s *productServiceImpl) Create(ctx context.Context, req *product.CreateProductReq) (*product.ProductResp, error) {
	if req == nil {
		return nil, fmt.Errorf("create product: invalid request")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.categories.GetActiveByID(ctx, req.Category); err != nil {
		if category.IsNotFound(err) {
			logger.Info("create product: category not found", map[string]interface{}{
				"category": req.Category,
			})
		}
		return nil, err
	}

	entity, err := product.NewProduct(req.Name, *req.Price, *req.Quantity, req.Category, s.slugMode)
	if err != nil {
		return nil, err
	}
	entity.Description = req.Description
	entity.URLImg = req.URLImg

	created, err := s.repository.Create(ctx, entity)
	if err != nil {
		switch {
		case product.IsDuplicate(err):
			return nil, product.ErrDuplicateProduct
		case category.IsNotFound(err):
			return nil, category.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("create product: %w", err)
	}

	logger.Info("product created", map[string]interface{}{
		"id":       created.ID,
		"slug":     created.Slug,
		"category": created.CategoryID,
	})
	return product.ProductToResp(created), nil
}

// ========== UPDATE (partial) ==========
func (s *productServiceImpl) Update(ctx context.Context, id string, req *product.UpdateProductReq) (*product.ProductResp, error) {
	if req == nil {
		return nil, fmt.Errorf("update product: invalid request")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !utils.IsObjectID(id) {
		return nil, product.ErrProductNotFound
	}

	patch, err := s.buildPatch(req)
	if err != nil {
		return nil, err
	}

	if patch.CategoryID != nil {
		if _, err := s.categories.GetActiveByID(ctx, *patch.CategoryID); err != nil {
			return nil, err
		}
	}

	updated, err := s.repository.Update(ctx, strings.ToLower(id), patch)
	if err != nil {
		switch {
		case product.IsNotFound(err):
			return nil, product.ErrProductNotFound
		case product.IsDuplicate(err):
			return nil, product.ErrDuplicateProduct
		case category.IsNotFound(err):
			return nil, category.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	return product.ProductToResp(updated), nil
}

// buildPatch: đổi name => slug tính lại bằng cùng rule lúc create;
// chỉ đổi price/quantity thì slug giữ nguyên
func (s *productServiceImpl) buildPatch(req *product.UpdateProductReq) (product.Patch, error) {
	patch := product.Patch{
		Price:       req.Price,
		Quantity:    req.Quantity,
		Description: req.Description,
		URLImg:      req.URLImg,
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return patch, shared.NewValidationError("name", "product name cannot be empty")
		}
		slug := utils.Slugify(name, s.slugMode)
		if slug == "" {
			return patch, product.ErrEmptySlug
		}
		patch.Name = &name
		patch.Slug = &slug
	}

	if req.Price != nil {
		if err := product.ValidatePrice(*req.Price); err != nil {
			return patch, err
		}
	}
	if req.Quantity != nil {
		if err := product.ValidateQuantity(*req.Quantity); err != nil {
			return patch, err
		}
	}

	if req.Category != nil {
		categoryID := strings.ToLower(strings.TrimSpace(*req.Category))
		patch.CategoryID = &categoryID
	}

	return patch, nil
}

// ========== DELETE (soft) ==========
func (s *productServiceImpl) Delete(ctx context.Context, id string) (*product.ProductResp, error) {
	if !utils.IsObjectID(id) {
		return nil, product.ErrProductNotFound
	}

	deleted, err := s.repository.SoftDelete(ctx, strings.ToLower(id))
	if err != nil {
		if product.IsNotFound(err) {
			return nil, product.ErrProductNotFound
		}
		return nil, fmt.Errorf("delete product: %w", err)
	}

	logger.Info("product soft-deleted", map[string]interface{}{
		"id": deleted.ID,
	})
	return product.ProductToResp(deleted), nil
}
