package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

type TitleService interface {
	List(ctx context.Context) ([]models.Title, error)
	Get(ctx context.Context, id int64) (*models.Title, error)
	Create(ctx context.Context, req dto.CreateTitleRequest) (*models.Title, error)
	Update(ctx context.Context, id int64, req dto.UpdateTitleRequest) (*models.Title, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	categoryRepo repository.CategoryRepository
	genreRepo    repository.GenreRepository
	now          func() time.Time
}

func NewTitleService(
	titleRepo repository.TitleRepository,
	categoryRepo repository.CategoryRepository,
	genreRepo repository.GenreRepository,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
		now:          time.Now,
	}
}

func (s *titleService) List(ctx context.Context) ([]models.Title, error) {
	return s.titleRepo.List(ctx)
}

func (s *titleService) Get(ctx context.Context, id int64) (*models.Title, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrTitleNotFound)
	}
	return title, nil
}

func (s *titleService) Create(ctx context.Context, req dto.CreateTitleRequest) (*models.Title, error) {
	if err := s.checkYear(*req.Year); err != nil {
		return nil, err
	}
	categoryID, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}
	genreIDs, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}

	title := &models.Title{
		Name:        req.Name,
		Year:        *req.Year,
		Description: req.Description,
		CategoryID:  categoryID,
	}
	if err := s.titleRepo.Create(ctx, title, genreIDs); err != nil {
		return nil, err
	}
	return s.Get(ctx, title.ID)
}

func (s *titleService) Update(ctx context.Context, id int64, req dto.UpdateTitleRequest) (*models.Title, error) {
	title, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		if err := s.checkYear(*req.Year); err != nil {
			return nil, err
		}
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = req.Description
	}
	if req.Category != nil {
		categoryID, err := s.resolveCategory(ctx, req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = categoryID
	}

	var genreIDs []int64
	if req.Genre != nil {
		if genreIDs, err = s.resolveGenres(ctx, req.Genre); err != nil {
			return nil, err
		}
		if genreIDs == nil {
			genreIDs = []int64{}
		}
	}

	if err := s.titleRepo.Save(ctx, title, genreIDs); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	return notFound(s.titleRepo.Delete(ctx, id), ErrTitleNotFound)
}

func (s *titleService) checkYear(year int) error {
	if year > s.now().Year() {
		return invalid("year", ErrInvalidYear)
	}
	return nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug *string) (*int64, error) {
	if slug == nil || *slug == "" {
		return nil, nil
	}
	category, err := s.categoryRepo.GetBySlug(ctx, *slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid("category", fmt.Errorf("%w: %s", ErrUnknownCategory, *slug))
		}
		return nil, err
	}
	return &category.ID, nil
}

// resolveGenres maps genre slugs to ids, failing on the first slug that does not exist.
func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]int64, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	genres, err := s.genreRepo.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}

	bySlug := make(map[string]int64, len(genres))
	for _, g := range genres {
		bySlug[g.Slug] = g.ID
	}

	ids := make([]int64, 0, len(slugs))
	seen := make(map[int64]bool, len(slugs))
	for _, slug := range slugs {
		id, ok := bySlug[slug]
		if !ok {
			return nil, invalid("genre", fmt.Errorf("%w: %s", ErrUnknownGenre, slug))
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}
