package dto

import "yamdb/internal/microservices/http-api/models"

// CreateTitleRequest references its category and genres by slug
type CreateTitleRequest struct {
	Name        string   `json:"name" binding:"required,max=256"`
	Year        *int     `json:"year" binding:"required"`
	Description *string  `json:"description"`
	Genre       []string `json:"genre" binding:"omitempty,dive,max=50,slug"`
	Category    *string  `json:"category" binding:"omitempty,max=50,slug"`
}

// UpdateTitleRequest is a partial update. A present "genre" list replaces the current genres.
type UpdateTitleRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=1,max=256"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Genre       []string `json:"genre" binding:"omitempty,dive,max=50,slug"`
	Category    *string  `json:"category" binding:"omitempty,max=50,slug"`
}

// TitleResponse renders nested category and genres. Rating is null until the title is reviewed.
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *float64          `json:"rating"`
	Description *string           `json:"description"`
	Genre       []GenreResponse   `json:"genre"`
	Category    *CategoryResponse `json:"category"`
}

func FromModelToTitleResponse(t *models.Title) TitleResponse {
	return TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       FromModelsToGenreResponses(t.Genres),
		Category:    FromModelToCategoryResponse(t.Category),
	}
}

func FromModelsToTitleResponses(titles []models.Title) []TitleResponse {
	out := make([]TitleResponse, 0, len(titles))
	for i := range titles {
		out = append(out, FromModelToTitleResponse(&titles[i]))
	}
	return out
}
