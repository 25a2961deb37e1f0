package service

import (
	"context"
	"fmt"
	"strings"

	"catalog-backend/internal/domains/category"
	"catalog-backend/internal/shared"
	"catalog-backend/internal/shared/utils"
	"catalog-backend/pkg/logger"
)

type categoryServiceImpl struct {
	repository category.CategoryRepository
}

func NewCategoryService(repo category.CategoryRepository) category.CategoryService {
	return &categoryServiceImpl{
		repository: repo,
	}
}

// ========== READ: List ==========
func (s *categoryServiceImpl) List(ctx context.Context) ([]category.CategoryResp, error) {
	entities, err := s.repository.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return category.CategoriesToResp(entities), nil
}

// ========== READ: Resolve (id hoặc slug) ==========
// 24 hex => tìm theo id, còn lại => tìm theo slug.
// Không tồn tại và đã soft-delete đều trả ErrCategoryNotFound.
func (s *categoryServiceImpl) Resolve(ctx context.Context, identifier string) (*category.CategoryResp, error) {
	identifier = strings.TrimSpace(identifier)

	var (
		entity *category.Category
		err    error
	)
	if utils.IsObjectID(identifier) {
		entity, err = s.GetActiveByID(ctx, identifier)
	} else {
		entity, err = s.GetActiveBySlug(ctx, identifier)
	}
	if err != nil {
		return nil, err
	}
	return category.CategoryToResp(entity), nil
}

func (s *categoryServiceImpl) GetActiveByID(ctx context.Context, id string) (*category.Category, error) {
	if !utils.IsObjectID(id) {
		return nil, category.ErrCategoryNotFound
	}

	entity, err := s.repository.GetActiveByID(ctx, strings.ToLower(id))
	if err != nil {
		if category.IsNotFound(err) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category by id: %w", err)
	}
	return entity, nil
}

func (s *categoryServiceImpl) GetActiveBySlug(ctx context.Context, slug string) (*category.Category, error) {
	if slug == "" {
		return nil, category.ErrCategoryNotFound
	}

	entity, err := s.repository.GetActiveBySlug(ctx, slug)
	if err != nil {
		if category.IsNotFound(err) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category by slug: %w", err)
	}
	return entity, nil
}

// ========== CREATE ==========
// Không pre-check slug/name tồn tại: unique index là cơ chế duy nhất,
// race giữa 2 request cùng name sẽ bị storage từ chối request thứ 2.
func (s *categoryServiceImpl) Create(ctx context.Context, req *category.CreateCategoryReq) (*category.CategoryResp, error) {
	if req == nil {
		return nil, fmt.Errorf("create category: invalid request")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	entity, err := category.NewCategory(req.Name, req.Slug, req.Description)
	if err != nil {
		return nil, err
	}

	created, err := s.repository.Create(ctx, entity)
	if err != nil {
		if category.IsDuplicate(err) {
			logger.Info("create category: duplicate", map[string]interface{}{
				"name": entity.Name,
				"slug": entity.Slug,
			})
			return nil, category.ErrDuplicateCategory
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	logger.Info("category created", map[string]interface{}{
		"id":   created.ID,
		"slug": created.Slug,
	})
	return category.CategoryToResp(created), nil
}

// ========== UPDATE (partial) ==========
func (s *categoryServiceImpl) Update(ctx context.Context, id string, req *category.UpdateCategoryReq) (*category.CategoryResp, error) {
	if req == nil {
		return nil, fmt.Errorf("update category: invalid request")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !utils.IsObjectID(id) {
		return nil, category.ErrCategoryNotFound
	}

	patch, err := buildPatch(req)
	if err != nil {
		return nil, err
	}

	updated, err := s.repository.Update(ctx, strings.ToLower(id), patch)
	if err != nil {
		switch {
		case category.IsNotFound(err):
			return nil, category.ErrCategoryNotFound
		case category.IsDuplicate(err):
			return nil, category.ErrDuplicateCategory
		}
		return nil, fmt.Errorf("update category: %w", err)
	}

	return category.CategoryToResp(updated), nil
}

// buildPatch: name đổi => tính lại slug, trừ khi client gửi slug riêng
func buildPatch(req *category.UpdateCategoryReq) (category.Patch, error) {
	patch := category.Patch{Description: req.Description}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return patch, shared.NewValidationError("name", "category name cannot be empty")
		}
		patch.Name = &name
	}

	var source *string
	switch {
	case req.Slug != nil:
		source = req.Slug
	case patch.Name != nil:
		source = patch.Name
	}
	if source != nil {
		slug := utils.GenerateSlug(*source)
		if slug == "" {
			return patch, category.ErrEmptySlug
		}
		patch.Slug = &slug
	}

	return patch, nil
}

// ========== DELETE (soft) ==========
func (s *categoryServiceImpl) Delete(ctx context.Context, id string) (*category.CategoryResp, error) {
	if !utils.IsObjectID(id) {
		return nil, category.ErrCategoryNotFound
	}

	deleted, err := s.repository.SoftDelete(ctx, strings.ToLower(id))
	if err != nil {
		if category.IsNotFound(err) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("delete category: %w", err)
	}

	logger.Info("category soft-deleted", map[string]interface{}{
		"id": deleted.ID,
	})
	return category.CategoryToResp(deleted), nil
}
