package models

import "time"

type VoteType string

const (
	VoteUp   VoteType = "UP"
	VoteDown VoteType = "DOWN"
)

func (t VoteType) Valid() bool {
	return t == VoteUp || t == VoteDown
}

// Vote model - a user's vote on a post, one per (user, post)
type Vote struct {
	UserID    string    `gorm:"primaryKey;type:varchar(36)" json:"user_id"`
	PostID    string    `gorm:"primaryKey;type:varchar(36);index" json:"post_id"`
	Type      VoteType  `gorm:"type:varchar(4);not null" json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentVote model - a user's vote on a comment, one per (user, comment)
type CommentVote struct {
	UserID    string    `gorm:"primaryKey;type:varchar(36)" json:"user_id"`
	CommentID string    `gorm:"primaryKey;type:varchar(36);index" json:"comment_id"`
	Type      VoteType  `gorm:"type:varchar(4);not null" json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Score folds vote types into a net score: UP is +1, DOWN is -1.
func Score(types []VoteType) int {
	score := 0
	for _, t := range types {
		switch t {
		case VoteUp:
			score++
		case VoteDown:
			score--
		}
	}
	return score
}

// PostScore returns the net score and the given user's vote, if any.
func PostScore(votes []Vote, userID string) (int, *VoteType) {
	types := make([]VoteType, len(votes))
	var current *VoteType
	for i, v := range votes {
		types[i] = v.Type
		if userID != "" && v.UserID == userID {
			t := v.Type
			current = &t
		}
	}
	return Score(types), current
}

// CommentScore is PostScore for comment votes.
func CommentScore(votes []CommentVote, userID string) (int, *VoteType) {
	types := make([]VoteType, len(votes))
	var current *VoteType
	for i, v := range votes {
		types[i] = v.Type
		if userID != "" && v.UserID == userID {
			t := v.Type
			current = &t
		}
	}
	return Score(types), current
}

type PostVoteRequest struct {
	PostID   string   `json:"postId" binding:"required"`
	VoteType VoteType `json:"voteType" binding:"required,oneof=UP DOWN"`
}

type CommentVoteRequest struct {
	CommentID string   `json:"commentId" binding:"required"`
	VoteType  VoteType `json:"voteType" binding:"required,oneof=UP DOWN"`
}
