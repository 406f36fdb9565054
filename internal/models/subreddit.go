package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subreddit is a community posts are submitted to.
type Subreddit struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null;size:21" json:"name"`
	CreatorID *string   `gorm:"type:varchar(36);index" json:"creator_id"`
	Creator   *User     `gorm:"foreignKey:CreatorID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Subreddit) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Subscription model
type Subscription struct {
	UserID      string    `gorm:"primaryKey;type:varchar(36)" json:"user_id"`
	SubredditID string    `gorm:"primaryKey;type:varchar(36)" json:"subreddit_id"`
	User        User      `gorm:"foreignKey:UserID" json:"-"`
	Subreddit   Subreddit `gorm:"foreignKey:SubredditID" json:"-"`
}

type CreateSubredditRequest struct {
	Name string `json:"name" binding:"required,min=3,max=21"`
}

type SubscriptionRequest struct {
	SubredditID string `json:"subredditId" binding:"required"`
}
