package handlers

import (
	"context"

	"gorm.io/gorm"

	"github.com/emilythestrangee/breadit/backend/internal/models"
	"github.com/emilythestrangee/breadit/backend/internal/votes"
)

// PostReader serves cached post projections.
type PostReader interface {
	Get(ctx context.Context, postID string) (models.CachedPost, bool, error)
}

// Handler combines all handler types
type Handler struct {
	Vote      *VoteHandler
	Post      *PostHandler
	Comment   *CommentHandler
	Subreddit *SubredditHandler
	User      *UserHandler
}

// NewHandler creates a unified handler with all sub-handlers. posts may be nil when no
// cache is configured.
func NewHandler(db *gorm.DB, posts PostReader, voteService *votes.Service) *Handler {
	RegisterValidations()

	return &Handler{
		Vote:      NewVoteHandler(voteService),
		Post:      NewPostHandler(db, posts),
		Comment:   NewCommentHandler(db),
		Subreddit: NewSubredditHandler(db),
		User:      NewUserHandler(db),
	}
}
