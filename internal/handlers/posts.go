package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emilythestrangee/breadit/backend/internal/apperror"
	"github.com/emilythestrangee/breadit/backend/internal/auth"
	"github.com/emilythestrangee/breadit/backend/internal/models"
	"github.com/emilythestrangee/breadit/backend/internal/thread"
)

const (
	defaultFeedLimit = 10
	postFailed       = "Could not fetch posts"
)

type PostHandler struct {
	db    *gorm.DB
	cache PostReader
}

func NewPostHandler(db *gorm.DB, cache PostReader) *PostHandler {
	return &PostHandler{db: db, cache: cache}
}

type subredditRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type postView struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Content      any              `json:"content"`
	Subreddit    subredditRef     `json:"subreddit"`
	Author       thread.Author    `json:"author"`
	CreatedAt    time.Time        `json:"createdAt"`
	VotesAmt     int              `json:"votesAmt"`
	CurrentVote  *models.VoteType `json:"currentVote"`
	CommentCount int64            `json:"commentCount"`
}

func newPostView(p models.Post, viewerID string) postView {
	score, current := models.PostScore(p.Votes, viewerID)
	return postView{
		ID:          p.ID,
		Title:       p.Title,
		Content:     p.RawContent(),
		Subreddit:   subredditRef{ID: p.Subreddit.ID, Name: p.Subreddit.Name},
		Author:      authorOf(p.Author),
		CreatedAt:   p.CreatedAt,
		VotesAmt:    score,
		CurrentVote: current,
	}
}

func authorOf(u models.User) thread.Author {
	return thread.Author{ID: u.ID, Username: u.Username, Name: u.Name, Image: u.Image}
}

// GetPosts handles GET /api/posts. Signed-in users without a subreddit filter see posts
// from their subscriptions.
func (h *PostHandler) GetPosts(c *gin.Context) {
	var query models.FeedQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondInvalid(c, err, "Invalid request data passed")
		return
	}
	if query.Limit == 0 {
		query.Limit = defaultFeedLimit
	}
	if query.Page == 0 {
		query.Page = 1
	}

	viewerID := auth.SessionFrom(c).ID()
	tx := h.db.WithContext(c.Request.Context()).
		Preload("Author").
		Preload("Subreddit").
		Preload("Votes").
		Order("created_at desc").
		Limit(query.Limit).
		Offset((query.Page - 1) * query.Limit)

	switch {
	case query.SubredditName != "":
		tx = tx.Where("subreddit_id IN (?)", h.db.Model(&models.Subreddit{}).Select("id").Where("name = ?", query.SubredditName))
	case viewerID != "":
		tx = tx.Where("subreddit_id IN (?)", h.db.Model(&models.Subscription{}).Select("subreddit_id").Where("user_id = ?", viewerID))
	}

	var posts []models.Post
	if err := tx.Find(&posts).Error; err != nil {
		respondError(c, err, postFailed)
		return
	}

	counts, err := h.commentCounts(c, posts)
	if err != nil {
		respondError(c, err, postFailed)
		return
	}

	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		v := newPostView(p, viewerID)
		v.CommentCount = counts[p.ID]
		views = append(views, v)
	}
	c.JSON(http.StatusOK, views)
}

func (h *PostHandler) commentCounts(c *gin.Context, posts []models.Post) (map[string]int64, error) {
	counts := make(map[string]int64, len(posts))
	if len(posts) == 0 {
		return counts, nil
	}

	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	var rows []struct {
		PostID string
		Count  int64
	}
	err := h.db.WithContext(c.Request.Context()).
		Model(&models.Comment{}).
		Select("post_id, COUNT(*) AS count").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.PostID] = r.Count
	}
	return counts, nil
}

// GetPost returns a single post, from the cache when a projection exists.
func (h *PostHandler) GetPost(c *gin.Context) {
	postID := c.Param("postId")

	if h.cache != nil {
		cached, ok, err := h.cache.Get(c.Request.Context(), postID)
		if err != nil {
			log.Printf("⚠️ Cache lookup for post %s failed: %v", postID, err)
		}
		if ok {
			c.JSON(http.StatusOK, gin.H{"cached": true, "post": cached})
			return
		}
	}

	var post models.Post
	err := h.db.WithContext(c.Request.Context()).
		Preload("Author").
		Preload("Subreddit").
		Preload("Votes").
		First(&post, "id = ?", postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = apperror.WithMessage(apperror.ErrNotFound, "Post not found")
	}
	if err != nil {
		respondError(c, err, "Could not fetch post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"cached": false, "post": newPostView(post, auth.SessionFrom(c).ID())})
}

// CreatePost handles POST /api/subreddit/post/create. Only subscribers may post.
func (h *PostHandler) CreatePost(c *gin.Context) {
	session := auth.SessionFrom(c)
	if session == nil {
		respondError(c, apperror.ErrUnauthorized, "")
		return
	}

	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err, "Invalid POST request data passed")
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var subscribed int64
	err := db.Model(&models.Subscription{}).
		Where("user_id = ? AND subreddit_id = ?", session.UserID, req.SubredditID).
		Count(&subscribed).Error
	if err != nil {
		respondError(c, err, "Could not create post")
		return
	}
	if subscribed == 0 {
		respondError(c, apperror.WithMessage(apperror.ErrForbidden, "Subscribe to post"), "")
		return
	}

	post := models.Post{
		Title:       req.Title,
		Content:     string(req.Content),
		SubredditID: req.SubredditID,
		AuthorID:    session.UserID,
	}
	if err := db.Create(&post).Error; err != nil {
		respondError(c, err, "Could not create post")
		return
	}

	log.Printf("📝 Post %s created in subreddit %s by %s", post.ID, post.SubredditID, session.UserID)
	c.JSON(http.StatusCreated, gin.H{"id": post.ID, "title": post.Title, "subredditId": post.SubredditID})
}
