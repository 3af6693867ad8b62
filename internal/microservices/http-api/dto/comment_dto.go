package dto

import (
	"time"

	"yamdb/internal/microservices/http-api/models"
)

// CreateCommentRequest for creating a comment
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required,max=5000"`
}

// UpdateCommentRequest for updating a comment
type UpdateCommentRequest struct {
	Text string `json:"text" binding:"required,max=5000"`
}

type CommentResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

// FromModelToCommentResponse converts a Comment model to CommentResponse DTO
func FromModelToCommentResponse(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:      c.ID,
		Text:    c.Text,
		Author:  c.Author.Username,
		PubDate: c.PubDate,
	}
}

func FromModelsToCommentResponses(comments []models.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, FromModelToCommentResponse(&comments[i]))
	}
	return out
}
