package votes

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/emilythestrangee/breadit/backend/internal/apperror"
	"github.com/emilythestrangee/breadit/backend/internal/models"
)

// Kind is the set of vote operations for one kind of votable entity. Every method runs
// on the transaction it is handed.
type Kind interface {
	Name() string
	// FindTarget returns apperror.ErrNotFound when the target does not exist.
	FindTarget(tx *gorm.DB, targetID string) error
	FindVote(tx *gorm.DB, userID, targetID string) (t models.VoteType, found bool, err error)
	CreateVote(tx *gorm.DB, userID, targetID string, t models.VoteType) error
	// UpdateVote switches from -> to and reports false if the stored vote was not from.
	UpdateVote(tx *gorm.DB, userID, targetID string, from, to models.VoteType) (bool, error)
	// DeleteVote removes a vote of type t and reports false if there was none.
	DeleteVote(tx *gorm.DB, userID, targetID string, t models.VoteType) (bool, error)
	VoteTypes(tx *gorm.DB, targetID string) ([]models.VoteType, error)
}

// Projector is implemented by kinds whose targets get a cache projection.
type Projector interface {
	Project(tx *gorm.DB, targetID string, current models.VoteType) (models.CachedPost, error)
}

var (
	Posts Kind = postKind{tableKind{
		name:     "post",
		target:   func() interface{} { return &models.Post{} },
		vote:     func() interface{} { return &models.Vote{} },
		column:   "post_id",
		notFound: "Post not found",
		newVote: func(userID, targetID string, t models.VoteType) interface{} {
			return &models.Vote{UserID: userID, PostID: targetID, Type: t}
		},
	}}

	Comments Kind = tableKind{
		name:     "comment",
		target:   func() interface{} { return &models.Comment{} },
		vote:     func() interface{} { return &models.CommentVote{} },
		column:   "comment_id",
		notFound: "Comment not found",
		newVote: func(userID, targetID string, t models.VoteType) interface{} {
			return &models.CommentVote{UserID: userID, CommentID: targetID, Type: t}
		},
	}
)

// tableKind implements Kind for a target table and its vote table.
type tableKind struct {
	name     string
	target   func() interface{}
	vote     func() interface{}
	column   string
	notFound string
	newVote  func(userID, targetID string, t models.VoteType) interface{}
}

func (k tableKind) Name() string { return k.name }

func (k tableKind) FindTarget(tx *gorm.DB, targetID string) error {
	err := tx.Select("id").Where("id = ?", targetID).Take(k.target()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.WithMessage(apperror.ErrNotFound, k.notFound)
	}
	if err != nil {
		return fmt.Errorf("votes: find %s: %w", k.name, err)
	}
	return nil
}

func (k tableKind) FindVote(tx *gorm.DB, userID, targetID string) (models.VoteType, bool, error) {
	var types []models.VoteType
	err := tx.Model(k.vote()).
		Where("user_id = ? AND "+k.column+" = ?", userID, targetID).
		Limit(1).
		Pluck("type", &types).Error
	if err != nil {
		return "", false, fmt.Errorf("votes: find %s vote: %w", k.name, err)
	}
	if len(types) == 0 {
		return "", false, nil
	}
	return types[0], true, nil
}

func (k tableKind) CreateVote(tx *gorm.DB, userID, targetID string, t models.VoteType) error {
	if err := tx.Create(k.newVote(userID, targetID, t)).Error; err != nil {
		return fmt.Errorf("votes: create %s vote: %w", k.name, err)
	}
	return nil
}

func (k tableKind) UpdateVote(tx *gorm.DB, userID, targetID string, from, to models.VoteType) (bool, error) {
	res := tx.Model(k.vote()).
		Where("user_id = ? AND "+k.column+" = ? AND type = ?", userID, targetID, from).
		Update("type", to)
	if res.Error != nil {
		return false, fmt.Errorf("votes: update %s vote: %w", k.name, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (k tableKind) DeleteVote(tx *gorm.DB, userID, targetID string, t models.VoteType) (bool, error) {
	res := tx.Where("user_id = ? AND "+k.column+" = ? AND type = ?", userID, targetID, t).
		Delete(k.vote())
	if res.Error != nil {
		return false, fmt.Errorf("votes: delete %s vote: %w", k.name, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (k tableKind) VoteTypes(tx *gorm.DB, targetID string) ([]models.VoteType, error) {
	var types []models.VoteType
	if err := tx.Model(k.vote()).Where(k.column+" = ?", targetID).Pluck("type", &types).Error; err != nil {
		return nil, fmt.Errorf("votes: count %s votes: %w", k.name, err)
	}
	return types, nil
}

type postKind struct {
	tableKind
}

func (postKind) Project(tx *gorm.DB, postID string, current models.VoteType) (models.CachedPost, error) {
	var post models.Post
	if err := tx.Preload("Author").Where("id = ?", postID).Take(&post).Error; err != nil {
		return models.CachedPost{}, fmt.Errorf("votes: load post %s for cache: %w", postID, err)
	}
	return models.CachedPost{
		ID:             post.ID,
		AuthorUsername: post.Author.DisplayName(),
		Content:        post.Content,
		Title:          post.Title,
		CurrentVote:    current,
		CreatedAt:      post.CreatedAt,
	}, nil
}
