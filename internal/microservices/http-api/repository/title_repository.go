package repository

import (
	"context"
	"fmt"

	"yamdb/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TitleRepository interface {
	List(ctx context.Context) ([]models.Title, error)
	GetByID(ctx context.Context, id int64) (*models.Title, error)
	Create(ctx context.Context, title *models.Title, genreIDs []int64) error
	// Save updates the title columns. A nil genreIDs keeps the current genres.
	Save(ctx context.Context, title *models.Title, genreIDs []int64) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

func (r *titleRepository) List(ctx context.Context) ([]models.Title, error) {
	var titles []models.Title
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.name ASC") }).
		Order("id ASC").
		Find(&titles).Error
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}

	if err := r.attachRatings(ctx, titles); err != nil {
		return nil, err
	}
	return titles, nil
}

func (r *titleRepository) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	var title models.Title
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.name ASC") }).
		First(&title, id).Error
	if err != nil {
		return nil, err
	}

	titles := []models.Title{title}
	if err := r.attachRatings(ctx, titles); err != nil {
		return nil, err
	}
	return &titles[0], nil
}

func (r *titleRepository) Create(ctx context.Context, title *models.Title, genreIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(title).Error; err != nil {
			return fmt.Errorf("create title: %w", err)
		}
		return linkGenres(tx, title.ID, genreIDs)
	})
}

func (r *titleRepository) Save(ctx context.Context, title *models.Title, genreIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(title).
			Omit(clause.Associations).
			Select("name", "year", "description", "category_id").
			Updates(title).Error
		if err != nil {
			return fmt.Errorf("update title: %w", err)
		}
		if genreIDs == nil {
			return nil
		}
		if err := tx.Where("title_id = ?", title.ID).Delete(&models.GenreTitle{}).Error; err != nil {
			return fmt.Errorf("unlink genres: %w", err)
		}
		return linkGenres(tx, title.ID, genreIDs)
	})
}

// Delete removes a title together with its reviews, their comments and its genre links.
func (r *titleRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Title{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *titleRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Title{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func linkGenres(tx *gorm.DB, titleID int64, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}
	links := make([]models.GenreTitle, 0, len(genreIDs))
	for _, id := range genreIDs {
		links = append(links, models.GenreTitle{GenreID: id, TitleID: titleID})
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error; err != nil {
		return fmt.Errorf("link genres: %w", err)
	}
	return nil
}

type titleScore struct {
	TitleID int64
	Avg     float64
}

// attachRatings fills Rating on every title with a single aggregate query.
func (r *titleRepository) attachRatings(ctx context.Context, titles []models.Title) error {
	if len(titles) == 0 {
		return nil
	}
	ids := make([]int64, len(titles))
	for i := range titles {
		ids[i] = titles[i].ID
	}

	var rows []titleScore
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("title_id, AVG(score)::float8 AS avg").
		Where("title_id IN ?", ids).
		Group("title_id").
		Scan(&rows).Error
	if err != nil {
		return fmt.Errorf("aggregate ratings: %w", err)
	}

	applyRatings(titles, rows)
	return nil
}

func applyRatings(titles []models.Title, rows []titleScore) {
	avgs := make(map[int64]float64, len(rows))
	for _, row := range rows {
		avgs[row.TitleID] = row.Avg
	}
	for i := range titles {
		titles[i].Rating = nil
		if avg, ok := avgs[titles[i].ID]; ok {
			rating := models.RoundRating(avg)
			titles[i].Rating = &rating
		}
	}
}
