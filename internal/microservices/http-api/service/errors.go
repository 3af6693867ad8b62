package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

var (
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	ErrGenreNotFound    = fmt.Errorf("genre %w", ErrNotFound)
	ErrTitleNotFound    = fmt.Errorf("title %w", ErrNotFound)
	ErrReviewNotFound   = fmt.Errorf("review %w", ErrNotFound)
	ErrCommentNotFound  = fmt.Errorf("comment %w", ErrNotFound)
)

var (
	ErrForbidden       = errors.New("you do not have permission to perform this action")
	ErrAlreadyReviewed = errors.New("you have already reviewed this title")
	ErrSignupThrottled = errors.New("a confirmation code was sent recently, try again later")
)

// Field-level validation failures, always wrapped in a ValidationError.
var (
	ErrRestrictedUsername      = errors.New(`username "me" is restricted`)
	ErrNameInUse               = errors.New("username already in use")
	ErrEmailInUse              = errors.New("email already in use")
	ErrInvalidConfirmationCode = errors.New("invalid confirmation code")
	ErrScoreOutOfRange         = errors.New("score must be between 1 and 10")
	ErrSlugInUse               = errors.New("slug already in use")
	ErrSlugLocked              = errors.New("slug cannot change while titles reference it")
	ErrUnknownCategory         = errors.New("category does not exist")
	ErrUnknownGenre            = errors.New("genre does not exist")
	ErrInvalidYear             = errors.New("year cannot be in the future")
)

// ValidationError ties a rejected value to the request field it came from.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// notFound swaps gorm's record-not-found for the given sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
