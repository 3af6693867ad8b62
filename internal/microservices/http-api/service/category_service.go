package service

import (
	"context"
	"errors"
	"fmt"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
)

type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, req dto.CategoryRequest) (*models.Category, error)
	Update(ctx context.Context, slug string, req dto.UpdateCategoryRequest) (*models.Category, error)
	Delete(ctx context.Context, slug string) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.repo.List(ctx)
}

func (s *categoryService) Get(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, ErrCategoryNotFound)
	}
	return category, nil
}

func (s *categoryService) Create(ctx context.Context, req dto.CategoryRequest) (*models.Category, error) {
	category := &models.Category{Name: req.Name, Slug: req.Slug}
	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, invalid("slug", ErrSlugInUse)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, slug string, req dto.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}

	if req.Slug != nil && *req.Slug != category.Slug {
		n, err := s.repo.CountTitles(ctx, category.ID)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, invalid("slug", ErrSlugLocked)
		}
		category.Slug = *req.Slug
	}
	if req.Name != nil {
		category.Name = *req.Name
	}

	if err := s.repo.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, invalid("slug", ErrSlugInUse)
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, slug string) error {
	return notFound(s.repo.Delete(ctx, slug), ErrCategoryNotFound)
}
