package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/GopinathBalasubramanian/eduactivity/internal/cache"
	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
	"github.com/GopinathBalasubramanian/eduactivity/internal/repositories"
	"github.com/GopinathBalasubramanian/eduactivity/internal/validator"
)

// MaxCategoryDepth bounds every walk up the parent chain
const MaxCategoryDepth = 16

const categoryPathSeparator = " > "

type categoryService struct {
	repo      repositories.Repository
	cache     *cache.CacheManager
	logger    *slog.Logger
	validator *validator.Validator
}

func NewCategoryService(repo repositories.Repository, cm *cache.CacheManager, logger *slog.Logger, validator *validator.Validator) CategoryService {
	return &categoryService{
		repo:      repo,
		cache:     cm,
		logger:    logger,
		validator: validator,
	}
}

func (s *categoryService) List(ctx context.Context) ([]*models.CategoryView, error) {
	var views []*models.CategoryView
	err := s.cache.Category.CacheOrExecute(ctx, cache.CategoryListKey, &views, cache.CategoryCacheConfig.TTL, func() (interface{}, error) {
		categories, err := s.repo.Category().List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list categories: %w", err)
		}

		index := indexCategories(categories)
		result := make([]*models.CategoryView, 0, len(categories))
		for _, c := range categories {
			result = append(result, buildCategoryView(c, index))
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (s *categoryService) Get(ctx context.Context, id uuid.UUID) (*models.CategoryView, error) {
	var view models.CategoryView
	err := s.cache.Category.CacheOrExecute(ctx, cache.CategoryKey(id), &view, cache.CategoryCacheConfig.TTL, func() (interface{}, error) {
		category, err := s.repo.Category().GetByID(ctx, id)
		if err != nil {
			return nil, translateRepoError(err, ErrCategoryNotFound, "get category")
		}
		return s.view(ctx, category)
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *categoryService) Create(ctx context.Context, principal Principal, req *CategoryRequest) (*models.CategoryView, error) {
	if err := RequireRole(principal, models.RoleAdmin); err != nil {
		return nil, err
	}
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}

	category := &models.Category{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		ParentID:    req.Parent,
	}
	if req.Parent != nil {
		if _, err := s.repo.Category().GetByID(ctx, *req.Parent); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, fieldError("parent", "Parent category not found.", "exists")
			}
			return nil, fmt.Errorf("failed to get parent category: %w", err)
		}
	}

	if err := s.repo.Category().Create(ctx, category); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, NewConflictError("category", "category with this name already exists.")
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	cache.InvalidateCategoryCache(ctx, s.cache)
	s.logger.Info("Category created", "category_id", category.ID, "name", category.Name)
	return s.view(ctx, category)
}

func (s *categoryService) Update(ctx context.Context, principal Principal, id uuid.UUID, req *CategoryRequest) (*models.CategoryView, error) {
	if err := RequireRole(principal, models.RoleAdmin); err != nil {
		return nil, err
	}
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}

	category, err := s.repo.Category().GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, ErrCategoryNotFound, "get category")
	}

	if req.Parent != nil {
		categories, err := s.repo.Category().List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list categories: %w", err)
		}
		index := indexCategories(categories)
		if _, ok := index[*req.Parent]; !ok {
			return nil, fieldError("parent", "Parent category not found.", "exists")
		}
		if createsCycle(id, *req.Parent, index) {
			return nil, fieldError("parent", "A category cannot be nested under itself or its descendants.", "acyclic")
		}
	}

	category.Name = strings.TrimSpace(req.Name)
	category.Description = req.Description
	category.ParentID = req.Parent
	category.Parent = nil

	if err := s.repo.Category().Update(ctx, category); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, NewConflictError("category", "category with this name already exists.")
		}
		return nil, translateRepoError(err, ErrCategoryNotFound, "update category")
	}
	cache.InvalidateCategoryCache(ctx, s.cache)
	return s.view(ctx, category)
}

func (s *categoryService) Delete(ctx context.Context, principal Principal, id uuid.UUID) error {
	if err := RequireRole(principal, models.RoleAdmin); err != nil {
		return err
	}
	if err := s.repo.Category().Delete(ctx, id); err != nil {
		return translateRepoError(err, ErrCategoryNotFound, "delete category")
	}
	cache.InvalidateCategoryCache(ctx, s.cache)
	s.logger.Info("Category deleted", "category_id", id)
	return nil
}

func (s *categoryService) view(ctx context.Context, category *models.Category) (*models.CategoryView, error) {
	if category.ParentID == nil {
		return buildCategoryView(category, nil), nil
	}
	categories, err := s.repo.Category().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return buildCategoryView(category, indexCategories(categories)), nil
}

// ===== TREE HELPERS =====

func indexCategories(categories []*models.Category) map[uuid.UUID]*models.Category {
	index := make(map[uuid.UUID]*models.Category, len(categories))
	for _, c := range categories {
		index[c.ID] = c
	}
	return index
}

// buildCategoryView renders full_path by iterative ascent, stopping at a missing
// parent, a repeated id or MaxCategoryDepth
func buildCategoryView(c *models.Category, index map[uuid.UUID]*models.Category) *models.CategoryView {
	view := &models.CategoryView{Category: c}

	names := []string{c.Name}
	seen := map[uuid.UUID]bool{c.ID: true}
	parentID := c.ParentID
	for depth := 0; parentID != nil && depth < MaxCategoryDepth; depth++ {
		parent, ok := index[*parentID]
		if !ok || seen[parent.ID] {
			break
		}
		if depth == 0 {
			name := parent.Name
			view.ParentName = &name
		}
		seen[parent.ID] = true
		names = append(names, parent.Name)
		parentID = parent.ParentID
	}

	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	view.FullPath = strings.Join(names, categoryPathSeparator)
	return view
}

// createsCycle reports whether hanging id under parentID would make id its own ancestor
func createsCycle(id, parentID uuid.UUID, index map[uuid.UUID]*models.Category) bool {
	current := &parentID
	for depth := 0; current != nil && depth <= MaxCategoryDepth; depth++ {
		if *current == id {
			return true
		}
		node, ok := index[*current]
		if !ok {
			return false
		}
		current = node.ParentID
	}
	// a chain deeper than the bound is treated as malformed
	return current != nil
}
