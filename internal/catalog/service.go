package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aurumworks/aurum/internal/platform/httpx"
)

var (
	ErrValidation = fmt.Errorf("catalog: %w", httpx.ErrValidation)
	// ErrInUse means the category still holds items and cannot be deleted.
	ErrInUse = fmt.Errorf("%w: category has items", httpx.ErrConflict)
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	id, err := s.repo.CreateCategory(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return s.repo.GetCategory(ctx, id)
}

// DeleteCategory refuses while items still reference the category. Items are
// reassigned or removed first; nothing cascades.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	inUse, err := s.repo.CategoryHasItems(ctx, id)
	if err != nil {
		return fmt.Errorf("check category items: %w", err)
	}
	if inUse {
		return fmt.Errorf("%w: move or delete its items first", ErrInUse)
	}
	return s.repo.DeleteCategory(ctx, id)
}

func (s *Service) GetItem(ctx context.Context, id int64) (*Item, error) {
	return s.repo.GetItem(ctx, id)
}

func (s *Service) ListItems(ctx context.Context, req ListItemsRequest) ([]Item, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	return s.repo.ListItems(ctx, req)
}

func (s *Service) CreateItem(ctx context.Context, req CreateItemRequest) (*Item, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if req.CategoryID != nil {
		if _, err := s.repo.GetCategory(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("%w: category %d does not exist", ErrValidation, *req.CategoryID)
			}
			return nil, err
		}
	}

	item := Item{
		CategoryID:  req.CategoryID,
		Name:        name,
		Description: req.Description,
		MetalType:   req.MetalType,
		MetalKarat:  req.MetalKarat,
	}
	if req.LabourHours != nil {
		item.LabourHours = *req.LabourHours
	}
	if req.MetalGrams != nil {
		item.MetalGrams = *req.MetalGrams
	}
	if req.BasePrice != nil {
		item.BasePrice = *req.BasePrice
	}

	id, err := s.repo.CreateItem(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return s.repo.GetItem(ctx, id)
}

func (s *Service) UpdateItem(ctx context.Context, id int64, req UpdateItemRequest) (*Item, error) {
	existing, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
		}
		existing.Name = name
	}
	if req.CategoryID != nil {
		if _, err := s.repo.GetCategory(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("%w: category %d does not exist", ErrValidation, *req.CategoryID)
			}
			return nil, err
		}
		existing.CategoryID = req.CategoryID
	}
	if req.Description != nil {
		existing.Description = req.Description
	}
	if req.LabourHours != nil {
		existing.LabourHours = *req.LabourHours
	}
	if req.MetalType != nil {
		existing.MetalType = req.MetalType
	}
	if req.MetalKarat != nil {
		existing.MetalKarat = req.MetalKarat
	}
	if req.MetalGrams != nil {
		existing.MetalGrams = *req.MetalGrams
	}
	if req.BasePrice != nil {
		existing.BasePrice = *req.BasePrice
	}

	if err := s.repo.UpdateItem(ctx, *existing); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return s.repo.GetItem(ctx, id)
}

func (s *Service) DeleteItem(ctx context.Context, id int64) error {
	return s.repo.DeleteItem(ctx, id)
}
