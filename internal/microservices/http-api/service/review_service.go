package service

import (
	"context"
	"errors"
	"fmt"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/repository"
)

type ReviewService interface {
	List(ctx context.Context, titleID int64) ([]models.Review, error)
	Get(ctx context.Context, titleID, id int64) (*models.Review, error)
	Create(ctx context.Context, caller permission.Caller, titleID int64, req dto.CreateReviewRequest) (*models.Review, error)
	Update(ctx context.Context, caller permission.Caller, titleID, id int64, req dto.UpdateReviewRequest) (*models.Review, error)
	Delete(ctx context.Context, caller permission.Caller, titleID, id int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo repository.TitleRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, titleRepo: titleRepo}
}

func (s *reviewService) List(ctx context.Context, titleID int64) ([]models.Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	return s.reviewRepo.ListByTitle(ctx, titleID)
}

func (s *reviewService) Get(ctx context.Context, titleID, id int64) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, titleID, id)
	if err != nil {
		return nil, notFound(err, ErrReviewNotFound)
	}
	return review, nil
}

// Create posts the caller's review of a title. Each author reviews a title at most once.
func (s *reviewService) Create(ctx context.Context, caller permission.Caller, titleID int64, req dto.CreateReviewRequest) (*models.Review, error) {
	if !caller.Authenticated {
		return nil, ErrForbidden
	}
	if req.Score == nil || !models.ScoreInRange(*req.Score) {
		return nil, invalid("score", ErrScoreOutOfRange)
	}
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsForAuthor(ctx, titleID, caller.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	review := &models.Review{
		AuthorID: caller.UserID,
		TitleID:  titleID,
		Text:     req.Text,
		Score:    *req.Score,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		// a concurrent request won the unique_title_author race
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyReviewed
		}
		return nil, fmt.Errorf("create review: %w", err)
	}
	review.Author = models.User{ID: caller.UserID, Username: caller.Username}
	return review, nil
}

func (s *reviewService) Update(ctx context.Context, caller permission.Caller, titleID, id int64, req dto.UpdateReviewRequest) (*models.Review, error) {
	review, err := s.Get(ctx, titleID, id)
	if err != nil {
		return nil, err
	}
	if !permission.AuthorOrModeratorOrAdmin(caller, review.AuthorID) {
		return nil, ErrForbidden
	}

	if req.Score != nil {
		if !models.ScoreInRange(*req.Score) {
			return nil, invalid("score", ErrScoreOutOfRange)
		}
		review.Score = *req.Score
	}
	if req.Text != nil {
		review.Text = *req.Text
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, caller permission.Caller, titleID, id int64) error {
	review, err := s.Get(ctx, titleID, id)
	if err != nil {
		return err
	}
	if !permission.AuthorOrModeratorOrAdmin(caller, review.AuthorID) {
		return ErrForbidden
	}
	return notFound(s.reviewRepo.Delete(ctx, review.ID), ErrReviewNotFound)
}

func (s *reviewService) requireTitle(ctx context.Context, titleID int64) error {
	ok, err := s.titleRepo.Exists(ctx, titleID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTitleNotFound
	}
	return nil
}
