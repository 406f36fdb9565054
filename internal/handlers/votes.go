package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/breadit/backend/internal/apperror"
	"github.com/emilythestrangee/breadit/backend/internal/auth"
	"github.com/emilythestrangee/breadit/backend/internal/models"
	"github.com/emilythestrangee/breadit/backend/internal/votes"
)

const voteFailed = "Could not update vote. Please try again later."

type VoteHandler struct {
	votes *votes.Service
}

func NewVoteHandler(svc *votes.Service) *VoteHandler {
	return &VoteHandler{votes: svc}
}

// VotePost handles PATCH /api/subreddit/post/vote
func (h *VoteHandler) VotePost(c *gin.Context) {
	session := auth.SessionFrom(c)
	if session == nil {
		respondError(c, apperror.ErrUnauthorized, voteFailed)
		return
	}

	var req models.PostVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err, "Invalid PATCH request data passed")
		return
	}

	h.cast(c, session, votes.Posts, req.PostID, req.VoteType)
}

// VoteComment handles PATCH /api/subreddit/post/comment/vote
func (h *VoteHandler) VoteComment(c *gin.Context) {
	session := auth.SessionFrom(c)
	if session == nil {
		respondError(c, apperror.ErrUnauthorized, voteFailed)
		return
	}

	var req models.CommentVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err, "Invalid PATCH request data passed")
		return
	}

	h.cast(c, session, votes.Comments, req.CommentID, req.VoteType)
}

func (h *VoteHandler) cast(c *gin.Context, session *auth.Session, kind votes.Kind, targetID string, voteType models.VoteType) {
	out, err := h.votes.Cast(c.Request.Context(), session, kind, targetID, voteType)
	if err != nil {
		respondError(c, err, voteFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": out.Result.Message()})
}
