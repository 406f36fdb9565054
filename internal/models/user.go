package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username *string `gorm:"uniqueIndex;size:32" json:"username"` // chosen after sign-up
	Name     string  `json:"name"`
	Email    string  `gorm:"uniqueIndex;not null" json:"email"`
	Image    string  `json:"image"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// DisplayName returns the username or an empty string when none was chosen yet.
func (u User) DisplayName() string {
	if u.Username == nil {
		return ""
	}
	return *u.Username
}

type UsernameRequest struct {
	Name string `json:"name" binding:"required,username"`
}
