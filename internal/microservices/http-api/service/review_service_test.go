package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/repository"
)

var (
	author    = permission.Caller{UserID: "author", Username: "author", Role: models.RoleUser, Authenticated: true}
	stranger  = permission.Caller{UserID: "stranger", Username: "stranger", Role: models.RoleUser, Authenticated: true}
	moderator = permission.Caller{UserID: "mod", Username: "mod", Role: models.RoleModerator, Authenticated: true}
	admin     = permission.Caller{UserID: "admin", Username: "admin", Role: models.RoleAdmin, Authenticated: true}
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestReviewCreate(t *testing.T) {
	reviews := new(MockReviewRepository)
	titles := new(MockTitleRepository)
	svc := NewReviewService(reviews, titles)

	titles.On("Exists", mock.Anything, int64(5)).Return(true, nil)
	reviews.On("ExistsForAuthor", mock.Anything, int64(5), "author").Return(false, nil).Once()
	reviews.On("Create", mock.Anything, mock.MatchedBy(func(r *models.Review) bool {
		return r.TitleID == 5 && r.AuthorID == "author" && r.Score == 8
	})).Return(nil).Once()

	review, err := svc.Create(context.Background(), author, 5, dto.CreateReviewRequest{Text: "good", Score: intPtr(8)})
	require.NoError(t, err)
	assert.Equal(t, "author", review.Author.Username)

	// second review by the same author for the same title
	reviews.On("ExistsForAuthor", mock.Anything, int64(5), "author").Return(true, nil)
	_, err = svc.Create(context.Background(), author, 5, dto.CreateReviewRequest{Text: "again", Score: intPtr(9)})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)

	reviews.AssertNumberOfCalls(t, "Create", 1)
}

func TestReviewCreate_RaceLostToUniqueConstraint(t *testing.T) {
	reviews := new(MockReviewRepository)
	titles := new(MockTitleRepository)
	svc := NewReviewService(reviews, titles)

	titles.On("Exists", mock.Anything, int64(5)).Return(true, nil)
	reviews.On("ExistsForAuthor", mock.Anything, int64(5), "author").Return(false, nil)
	reviews.On("Create", mock.Anything, mock.Anything).
		Return(&repository.DuplicateError{Constraint: "unique_title_author"})

	_, err := svc.Create(context.Background(), author, 5, dto.CreateReviewRequest{Text: "x", Score: intPtr(5)})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestReviewCreate_ScoreBounds(t *testing.T) {
	for _, tt := range []struct {
		score int
		ok    bool
	}{{0, false}, {1, true}, {10, true}, {11, false}} {
		reviews := new(MockReviewRepository)
		titles := new(MockTitleRepository)
		svc := NewReviewService(reviews, titles)

		titles.On("Exists", mock.Anything, int64(1)).Return(true, nil)
		reviews.On("ExistsForAuthor", mock.Anything, int64(1), "author").Return(false, nil)
		reviews.On("Create", mock.Anything, mock.Anything).Return(nil)

		_, err := svc.Create(context.Background(), author, 1, dto.CreateReviewRequest{Text: "x", Score: intPtr(tt.score)})
		if tt.ok {
			assert.NoError(t, err, "score %d", tt.score)
		} else {
			assertFieldError(t, err, "score", ErrScoreOutOfRange)
		}
	}
}

func TestReviewCreate_UnknownTitle(t *testing.T) {
	reviews := new(MockReviewRepository)
	titles := new(MockTitleRepository)
	titles.On("Exists", mock.Anything, int64(404)).Return(false, nil)

	_, err := NewReviewService(reviews, titles).
		Create(context.Background(), author, 404, dto.CreateReviewRequest{Text: "x", Score: intPtr(5)})
	assert.ErrorIs(t, err, ErrTitleNotFound)
}

func TestReviewUpdateAndDelete_Permissions(t *testing.T) {
	tests := []struct {
		name    string
		caller  permission.Caller
		allowed bool
	}{
		{"author", author, true},
		{"moderator", moderator, true},
		{"admin", admin, true},
		{"other user", stranger, false},
		{"anonymous", permission.Anonymous(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviews := new(MockReviewRepository)
			svc := NewReviewService(reviews, new(MockTitleRepository))

			reviews.On("GetByID", mock.Anything, int64(5), int64(7)).
				Return(&models.Review{ID: 7, TitleID: 5, AuthorID: "author", Score: 4, Text: "meh"}, nil)
			reviews.On("Update", mock.Anything, mock.Anything).Return(nil)
			reviews.On("Delete", mock.Anything, int64(7)).Return(nil)

			updated, err := svc.Update(context.Background(), tt.caller, 5, 7, dto.UpdateReviewRequest{Score: intPtr(9)})
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, 9, updated.Score)
				assert.Equal(t, "meh", updated.Text)
				assert.NoError(t, svc.Delete(context.Background(), tt.caller, 5, 7))
			} else {
				assert.ErrorIs(t, err, ErrForbidden)
				assert.ErrorIs(t, svc.Delete(context.Background(), tt.caller, 5, 7), ErrForbidden)
				reviews.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
				reviews.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestReviewGet_WrongTitle(t *testing.T) {
	reviews := new(MockReviewRepository)
	reviews.On("GetByID", mock.Anything, int64(2), int64(7)).Return(nil, gorm.ErrRecordNotFound)

	_, err := NewReviewService(reviews, new(MockTitleRepository)).Get(context.Background(), 2, 7)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}
