package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Comment struct {
	ID        string        `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Text      string        `gorm:"type:text;not null" json:"text"`
	AuthorID  string        `gorm:"type:varchar(36);not null;index" json:"author_id"`
	Author    User          `gorm:"foreignKey:AuthorID" json:"author"`
	PostID    string        `gorm:"type:varchar(36);not null;index" json:"post_id"`
	ReplyToID *string       `gorm:"type:varchar(36);index" json:"reply_to_id,omitempty"`
	Replies   []Comment     `gorm:"foreignKey:ReplyToID" json:"-"`
	Votes     []CommentVote `gorm:"foreignKey:CommentID" json:"-"`
	CreatedAt time.Time     `json:"created_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type CreateCommentRequest struct {
	PostID    string  `json:"postId" binding:"required"`
	Text      string  `json:"text" binding:"required"`
	ReplyToID *string `json:"replyToId,omitempty"`
}
