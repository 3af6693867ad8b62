package dto

import "yamdb/internal/microservices/http-api/models"

type CategoryRequest struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50,slug"`
}

type UpdateCategoryRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=256"`
	Slug *string `json:"slug" binding:"omitempty,max=50,slug"`
}

type CategoryResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func FromModelToCategoryResponse(c *models.Category) *CategoryResponse {
	if c == nil {
		return nil
	}
	return &CategoryResponse{Name: c.Name, Slug: c.Slug}
}

func FromModelsToCategoryResponses(categories []models.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, *FromModelToCategoryResponse(&categories[i]))
	}
	return out
}
