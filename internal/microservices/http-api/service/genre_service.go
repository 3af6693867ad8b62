package service

import (
	"context"
	"errors"
	"fmt"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
)

type GenreService interface {
	List(ctx context.Context) ([]models.Genre, error)
	Get(ctx context.Context, slug string) (*models.Genre, error)
	Create(ctx context.Context, req dto.GenreRequest) (*models.Genre, error)
	Update(ctx context.Context, slug string, req dto.UpdateGenreRequest) (*models.Genre, error)
	Delete(ctx context.Context, slug string) error
}

type genreService struct {
	repo repository.GenreRepository
}

func NewGenreService(repo repository.GenreRepository) GenreService {
	return &genreService{repo: repo}
}

func (s *genreService) List(ctx context.Context) ([]models.Genre, error) {
	return s.repo.List(ctx)
}

func (s *genreService) Get(ctx context.Context, slug string) (*models.Genre, error) {
	genre, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, ErrGenreNotFound)
	}
	return genre, nil
}

func (s *genreService) Create(ctx context.Context, req dto.GenreRequest) (*models.Genre, error) {
	genre := &models.Genre{Name: req.Name, Slug: req.Slug}
	if err := s.repo.Create(ctx, genre); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, invalid("slug", ErrSlugInUse)
		}
		return nil, fmt.Errorf("create genre: %w", err)
	}
	return genre, nil
}

func (s *genreService) Update(ctx context.Context, slug string, req dto.UpdateGenreRequest) (*models.Genre, error) {
	genre, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}

	if req.Slug != nil && *req.Slug != genre.Slug {
		n, err := s.repo.CountTitles(ctx, genre.ID)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, invalid("slug", ErrSlugLocked)
		}
		genre.Slug = *req.Slug
	}
	if req.Name != nil {
		genre.Name = *req.Name
	}

	if err := s.repo.Update(ctx, genre); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, invalid("slug", ErrSlugInUse)
		}
		return nil, fmt.Errorf("update genre: %w", err)
	}
	return genre, nil
}

func (s *genreService) Delete(ctx context.Context, slug string) error {
	return notFound(s.repo.Delete(ctx, slug), ErrGenreNotFound)
}
