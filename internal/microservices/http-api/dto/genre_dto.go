package dto

import "yamdb/internal/microservices/http-api/models"

type GenreRequest struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50,slug"`
}

type UpdateGenreRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=256"`
	Slug *string `json:"slug" binding:"omitempty,max=50,slug"`
}

type GenreResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func FromModelsToGenreResponses(genres []models.Genre) []GenreResponse {
	out := make([]GenreResponse, 0, len(genres))
	for _, g := range genres {
		out = append(out, GenreResponse{Name: g.Name, Slug: g.Slug})
	}
	return out
}
