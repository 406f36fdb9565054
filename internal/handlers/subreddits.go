package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emilythestrangee/breadit/backend/internal/apperror"
	"github.com/emilythestrangee/breadit/backend/internal/auth"
	"github.com/emilythestrangee/breadit/backend/internal/models"
)

const searchLimit = 5

var (
	errSubredditExists   = apperror.WithMessage(apperror.ErrConflict, "Subreddit already exists")
	errSubredditNotFound = apperror.WithMessage(apperror.ErrNotFound, "Subreddit not found")
	errAlreadySubscribed = apperror.WithMessage(apperror.ErrBadRequest, "You've already subscribed to this subreddit")
	errNotSubscribed     = apperror.WithMessage(apperror.ErrBadRequest, "You've not been subscribed to this subreddit, yet.")
	errCreatorLeaving    = apperror.WithMessage(apperror.ErrBadRequest, "You can't unsubscribe from your own subreddit")
)

type SubredditHandler struct {
	db *gorm.DB
}

func NewSubredditHandler(db *gorm.DB) *SubredditHandler {
	return &SubredditHandler{db: db}
}

// CreateSubreddit creates a subreddit and subscribes its creator in one transaction.
func (h *SubredditHandler) CreateSubreddit(c *gin.Context) {
	session := auth.SessionFrom(c)
	if session == nil {
		respondError(c, apperror.ErrUnauthorized, "")
		return
	}

	var req models.CreateSubredditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err, "Invalid POST request data passed")
		return
	}

	sub := models.Subreddit{Name: req.Name, CreatorID: &session.UserID}
	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&models.Subreddit{}).Where("name = ?", req.Name).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return errSubredditExists
		}
		if err := tx.Create(&sub).Error; err != nil {
			return err
		}
		return tx.Create(&models.Subscription{UserID: session.UserID, SubredditID: sub.ID}).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = errSubredditExists
	}
	if err != nil {
		respondError(c, err, "Could not create subreddit")
		return
	}

	log.Printf("🆕 Subreddit r/%s created by %s", sub.Name, session.UserID)
	c.JSON(http.StatusCreated, gin.H{"id": sub.ID, "name": sub.Name})
}

// GetSubreddit returns a subreddit with its member count and the viewer's membership.
func (h *SubredditHandler) GetSubreddit(c *gin.Context) {
	db := h.db.WithContext(c.Request.Context())

	var sub models.Subreddit
	err := db.First(&sub, "name = ?", c.Param("name")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = errSubredditNotFound
	}
	if err != nil {
		respondError(c, err, "Could not fetch subreddit")
		return
	}

	var members int64
	if err := db.Model(&models.Subscription{}).Where("subreddit_id = ?", sub.ID).Count(&members).Error; err != nil {
		respondError(c, err, "Could not fetch subreddit")
		return
	}

	subscribed := false
	viewerID := auth.SessionFrom(c).ID()
	if viewerID != "" {
		var n int64
		err := db.Model(&models.Subscription{}).
			Where("user_id = ? AND subreddit_id = ?", viewerID, sub.ID).
			Count(&n).Error
		if err != nil {
			respondError(c, err, "Could not fetch subreddit")
			return
		}
		subscribed = n > 0
	}

	c.JSON(http.StatusOK, gin.H{
		"subreddit":    sub,
		"memberCount":  members,
		"isSubscribed": subscribed,
		"isCreator":    viewerID != "" && sub.CreatorID != nil && *sub.CreatorID == viewerID,
	})
}

// Subscribe adds the session user to a subreddit.
func (h *SubredditHandler) Subscribe(c *gin.Context) {
	session := auth.SessionFrom(c)
	if session == nil {
		respondError(c, apperror.ErrUnauthorized, "")
		return
	}

	var req models.SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err, "Invalid POST request data passed")
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var sub models.Subreddit
	err := db.Select("id").First(&sub, "id = ?", req.SubredditID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = errSubredditNotFound
	}
	if err != nil {
		respondError(c, err, "Could not subscribe, please try again later")
		return
	}

	err = db.Create(&models.Subscription{UserID: session.UserID, SubredditID: sub.ID}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = errAlreadySubscribed
	}
	if err != nil {
		respondError(c, err, "Could not subscribe, please try again later")
		return
	}

	c.JSON(http.StatusOK, gin.H{"subredditId": sub.ID})
}

// Unsubscribe removes the session user from a subreddit. Creators cannot leave.
func (h *SubredditHandler) Unsubscribe(c *gin.Context) {
	session := auth.SessionFrom(c)
	if session == nil {
		respondError(c, apperror.ErrUnauthorized, "")
		return
	}

	var req models.SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err, "Invalid POST request data passed")
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var sub models.Subreddit
		err := tx.Select("id", "creator_id").First(&sub, "id = ?", req.SubredditID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errSubredditNotFound
		}
		if err != nil {
			return err
		}
		if sub.CreatorID != nil && *sub.CreatorID == session.UserID {
			return errCreatorLeaving
		}

		res := tx.Where("user_id = ? AND subreddit_id = ?", session.UserID, sub.ID).Delete(&models.Subscription{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errNotSubscribed
		}
		return nil
	})
	if err != nil {
		respondError(c, err, "Could not unsubscribe, please try again later")
		return
	}

	c.JSON(http.StatusOK, gin.H{"subredditId": req.SubredditID})
}

type searchResult struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	SubscriberCount int64  `json:"subscriberCount"`
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search returns up to five subreddits whose name starts with q.
func (h *SubredditHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		respondError(c, apperror.WithMessage(apperror.ErrBadRequest, "Invalid query"), "")
		return
	}

	results := make([]searchResult, 0, searchLimit)
	err := h.db.WithContext(c.Request.Context()).
		Model(&models.Subreddit{}).
		Select("subreddits.id, subreddits.name, COUNT(subscriptions.user_id) AS subscriber_count").
		Joins("LEFT JOIN subscriptions ON subscriptions.subreddit_id = subreddits.id").
		Where(`subreddits.name LIKE ? ESCAPE '\'`, likeEscaper.Replace(q)+"%").
		Group("subreddits.id, subreddits.name").
		Order("subreddits.name").
		Limit(searchLimit).
		Scan(&results).Error
	if err != nil {
		respondError(c, err, "Could not search subreddits")
		return
	}

	c.JSON(http.StatusOK, results)
}
