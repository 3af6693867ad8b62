package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID          string  `gorm:"primaryKey;type:uuid" json:"id"`
	Username    string  `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email       string  `gorm:"uniqueIndex;size:254;not null" json:"email"`
	Role        Role    `gorm:"size:10;default:'user';not null" json:"role"`
	FirstName   string  `gorm:"size:150" json:"first_name"`
	LastName    string  `gorm:"size:150" json:"last_name"`
	Bio         *string `json:"bio"`
	IsSuperuser bool    `gorm:"not null;default:false" json:"-"`
	// bcrypt hash of the pending confirmation code, nil once exchanged for a token
	ConfirmationCode *string   `gorm:"size:72" json:"-"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = RoleUser
	}
	return
}

func (User) TableName() string {
	return "users"
}

// IsAdmin is true for the admin role and for superusers regardless of role.
func (user *User) IsAdmin() bool {
	return user.Role.CanWrite() || user.IsSuperuser
}

func (user *User) IsModerator() bool {
	return user.Role == RoleModerator
}
