package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Content     string    `gorm:"type:text" json:"-"` // serialized editor JSON
	SubredditID string    `gorm:"type:varchar(36);not null;index" json:"subreddit_id"`
	Subreddit   Subreddit `gorm:"foreignKey:SubredditID" json:"subreddit"`
	AuthorID    string    `gorm:"type:varchar(36);not null;index" json:"author_id"`
	Author      User      `gorm:"foreignKey:AuthorID" json:"author"`
	Votes       []Vote    `gorm:"foreignKey:PostID" json:"-"`
	Comments    []Comment `gorm:"foreignKey:PostID" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// RawContent returns the stored content as JSON, null when empty.
func (p Post) RawContent() json.RawMessage {
	if p.Content == "" {
		return json.RawMessage("null")
	}
	return json.RawMessage(p.Content)
}

type CreatePostRequest struct {
	Title       string          `json:"title" binding:"required,min=3,max=128"`
	Content     json.RawMessage `json:"content"`
	SubredditID string          `json:"subredditId" binding:"required"`
}

type FeedQuery struct {
	Limit         int    `form:"limit" binding:"omitempty,min=1,max=50"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	SubredditName string `form:"subredditName"`
}
