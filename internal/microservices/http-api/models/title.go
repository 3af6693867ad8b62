package models

type Title struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"size:256;not null"`
	Year        int       `json:"year" gorm:"not null;index"`
	Description *string   `json:"description"`
	CategoryID  *int64    `json:"-" gorm:"index"`
	Category    *Category `json:"category" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;"`

	// association
	Genres []Genre `json:"genre" gorm:"many2many:genre_title;constraint:OnDelete:CASCADE;"`

	// mean review score, filled by the repository on read and never persisted
	Rating *float64 `json:"rating" gorm:"-"`
}

func (Title) TableName() string {
	return "titles"
}
