package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emilythestrangee/breadit/backend/internal/apperror"
	"github.com/emilythestrangee/breadit/backend/internal/auth"
	"github.com/emilythestrangee/breadit/backend/internal/models"
	"github.com/emilythestrangee/breadit/backend/internal/thread"
)

var errPostNotFound = apperror.WithMessage(apperror.ErrNotFound, "Post not found")

type CommentHandler struct {
	db *gorm.DB
}

func NewCommentHandler(db *gorm.DB) *CommentHandler {
	return &CommentHandler{db: db}
}

// GetComments returns the two-level comment tree of a post.
func (h *CommentHandler) GetComments(c *gin.Context) {
	postID := c.Param("postId")
	db := h.db.WithContext(c.Request.Context())

	if err := postExists(db, postID); err != nil {
		respondError(c, err, "Could not fetch comments")
		return
	}

	var comments []models.Comment
	err := db.
		Where("post_id = ? AND reply_to_id IS NULL", postID).
		Preload("Author").
		Preload("Votes").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		}).
		Preload("Replies.Author").
		Preload("Replies.Votes").
		Order("created_at desc").
		Find(&comments).Error
	if err != nil {
		respondError(c, err, "Could not fetch comments")
		return
	}

	c.JSON(http.StatusOK, thread.Build(comments, auth.SessionFrom(c).ID()))
}

// CreateComment handles PATCH /api/subreddit/post/comment. A reply to a reply is
// attached to the top-level comment so threads stay two levels deep.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	session := auth.SessionFrom(c)
	if session == nil {
		respondError(c, apperror.ErrUnauthorized, "")
		return
	}

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err, "Invalid PATCH request data passed")
		return
	}

	db := h.db.WithContext(c.Request.Context())
	if err := postExists(db, req.PostID); err != nil {
		respondError(c, err, "Could not post comment")
		return
	}

	comment := models.Comment{
		Text:     req.Text,
		PostID:   req.PostID,
		AuthorID: session.UserID,
	}

	if req.ReplyToID != nil && *req.ReplyToID != "" {
		var parent models.Comment
		err := db.Select("id", "post_id", "reply_to_id").First(&parent, "id = ?", *req.ReplyToID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && parent.PostID != req.PostID) {
			respondError(c, apperror.WithMessage(apperror.ErrValidation, "Invalid reply target"), "")
			return
		}
		if err != nil {
			respondError(c, err, "Could not post comment")
			return
		}

		comment.ReplyToID = &parent.ID
		if parent.ReplyToID != nil {
			comment.ReplyToID = parent.ReplyToID
		}
	}

	if err := db.Create(&comment).Error; err != nil {
		respondError(c, err, "Could not post comment")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": comment.ID, "postId": comment.PostID, "replyToId": comment.ReplyToID})
}

func postExists(db *gorm.DB, postID string) error {
	var count int64
	if err := db.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errPostNotFound
	}
	return nil
}
