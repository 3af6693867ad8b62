package service

import (
	"context"
	"fmt"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/repository"
)

type CommentService interface {
	List(ctx context.Context, titleID, reviewID int64) ([]models.Comment, error)
	Get(ctx context.Context, titleID, reviewID, id int64) (*models.Comment, error)
	Create(ctx context.Context, caller permission.Caller, titleID, reviewID int64, req dto.CreateCommentRequest) (*models.Comment, error)
	Update(ctx context.Context, caller permission.Caller, titleID, reviewID, id int64, req dto.UpdateCommentRequest) (*models.Comment, error)
	Delete(ctx context.Context, caller permission.Caller, titleID, reviewID, id int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository) CommentService {
	return &commentService{commentRepo: commentRepo, reviewRepo: reviewRepo}
}

func (s *commentService) List(ctx context.Context, titleID, reviewID int64) ([]models.Comment, error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByReview(ctx, reviewID)
}

func (s *commentService) Get(ctx context.Context, titleID, reviewID, id int64) (*models.Comment, error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByID(ctx, reviewID, id)
	if err != nil {
		return nil, notFound(err, ErrCommentNotFound)
	}
	return comment, nil
}

func (s *commentService) Create(ctx context.Context, caller permission.Caller, titleID, reviewID int64, req dto.CreateCommentRequest) (*models.Comment, error) {
	if !caller.Authenticated {
		return nil, ErrForbidden
	}
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		AuthorID: caller.UserID,
		ReviewID: reviewID,
		Text:     req.Text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	comment.Author = models.User{ID: caller.UserID, Username: caller.Username}
	return comment, nil
}

func (s *commentService) Update(ctx context.Context, caller permission.Caller, titleID, reviewID, id int64, req dto.UpdateCommentRequest) (*models.Comment, error) {
	comment, err := s.Get(ctx, titleID, reviewID, id)
	if err != nil {
		return nil, err
	}
	if !permission.AuthorOrModeratorOrAdmin(caller, comment.AuthorID) {
		return nil, ErrForbidden
	}

	comment.Text = req.Text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, caller permission.Caller, titleID, reviewID, id int64) error {
	comment, err := s.Get(ctx, titleID, reviewID, id)
	if err != nil {
		return err
	}
	if !permission.AuthorOrModeratorOrAdmin(caller, comment.AuthorID) {
		return ErrForbidden
	}
	return notFound(s.commentRepo.Delete(ctx, comment.ID), ErrCommentNotFound)
}

// requireReview checks that reviewID exists and belongs to titleID.
func (s *commentService) requireReview(ctx context.Context, titleID, reviewID int64) error {
	if _, err := s.reviewRepo.GetByID(ctx, titleID, reviewID); err != nil {
		return notFound(err, ErrReviewNotFound)
	}
	return nil
}
