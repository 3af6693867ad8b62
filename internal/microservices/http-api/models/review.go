package models

import "time"

const (
	MinScore = 1
	MaxScore = 10
)

type Review struct {
	ID       int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	AuthorID string    `json:"-" gorm:"type:uuid;not null;uniqueIndex:unique_title_author,priority:2"`
	TitleID  int64     `json:"-" gorm:"not null;uniqueIndex:unique_title_author,priority:1"`
	Text     string    `json:"text" gorm:"not null;type:text"`
	Score    int       `json:"score" gorm:"not null;check:score >= 1 AND score <= 10"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime;<-:create"`

	// Associations
	Author User  `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Title  Title `json:"-" gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE;"`
}

func (Review) TableName() string {
	return "reviews"
}

// ScoreInRange reports whether score is an accepted review score.
func ScoreInRange(score int) bool {
	return score >= MinScore && score <= MaxScore
}
