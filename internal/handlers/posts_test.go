package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/breadit/backend/internal/database/dbtest"
	"github.com/emilythestrangee/breadit/backend/internal/models"
)

type postJSON struct {
	ID           string                `json:"id"`
	Title        string                `json:"title"`
	VotesAmt     int                   `json:"votesAmt"`
	CurrentVote  *string               `json:"currentVote"`
	CommentCount int64                 `json:"commentCount"`
	Content      map[string]any        `json:"content"`
	Subreddit    struct{ Name string } `json:"subreddit"`
}

func TestCreatePostRequiresSubscription(t *testing.T) {
	e := newTestEnv(t)
	owner := dbtest.CreateUser(t, e.db, "owner")
	outsider := dbtest.CreateUser(t, e.db, "outsider")
	sub := dbtest.CreateSubreddit(t, e.db, "golang", owner)
	body := gin.H{
		"title":       "Hello gophers",
		"content":     gin.H{"blocks": []any{}},
		"subredditId": sub.ID,
	}

	w := e.do(http.MethodPost, "/api/subreddit/post/create", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(http.MethodPost, "/api/subreddit/post/create", body, &outsider)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Subscribe to post", errorOf(t, w))

	w = e.do(http.MethodPost, "/api/subreddit/post/create", gin.H{"title": "no", "subredditId": sub.ID}, &owner)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = e.do(http.MethodPost, "/api/subreddit/post/create", body, &owner)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var post models.Post
	require.NoError(t, e.db.First(&post, "id = ?", decode[map[string]string](t, w)["id"]).Error)
	assert.Equal(t, owner.ID, post.AuthorID)
	assert.JSONEq(t, `{"blocks":[]}`, post.Content)
}

func TestFeed(t *testing.T) {
	e := newTestEnv(t)
	alice := dbtest.CreateUser(t, e.db, "alice")
	bob := dbtest.CreateUser(t, e.db, "bob")
	golang := dbtest.CreateSubreddit(t, e.db, "golang", alice)
	rust := dbtest.CreateSubreddit(t, e.db, "rust", bob)

	goPost := dbtest.CreatePost(t, e.db, alice, golang, "Go post")
	rustPost := dbtest.CreatePost(t, e.db, bob, rust, "Rust post")
	dbtest.CreateComment(t, e.db, bob, goPost, "hi", nil)
	dbtest.CreateComment(t, e.db, alice, goPost, "hello", nil)
	require.NoError(t, e.db.Create(&models.Vote{UserID: bob.ID, PostID: goPost.ID, Type: models.VoteUp}).Error)

	t.Run("anonymous sees everything", func(t *testing.T) {
		w := e.do(http.MethodGet, "/api/posts", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]postJSON](t, w), 2)
	})

	t.Run("signed in sees subscriptions", func(t *testing.T) {
		w := e.do(http.MethodGet, "/api/posts", nil, &bob)
		require.Equal(t, http.StatusOK, w.Code)
		posts := decode[[]postJSON](t, w)
		require.Len(t, posts, 1)
		assert.Equal(t, rustPost.ID, posts[0].ID)
	})

	t.Run("subreddit filter", func(t *testing.T) {
		w := e.do(http.MethodGet, "/api/posts?subredditName=golang", nil, &bob)
		require.Equal(t, http.StatusOK, w.Code)
		posts := decode[[]postJSON](t, w)
		require.Len(t, posts, 1)
		assert.Equal(t, goPost.ID, posts[0].ID)
		assert.Equal(t, "golang", posts[0].Subreddit.Name)
		assert.Equal(t, 1, posts[0].VotesAmt)
		require.NotNil(t, posts[0].CurrentVote)
		assert.Equal(t, "UP", *posts[0].CurrentVote)
		assert.EqualValues(t, 2, posts[0].CommentCount)
		assert.Contains(t, posts[0].Content, "blocks")
	})

	t.Run("pagination", func(t *testing.T) {
		w := e.do(http.MethodGet, "/api/posts?limit=1&page=3", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode[[]postJSON](t, w))

		w = e.do(http.MethodGet, "/api/posts?limit=500", nil, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestGetPostFallsBackToDatabase(t *testing.T) {
	e := newTestEnv(t)
	author := dbtest.CreateUser(t, e.db, "author")
	sub := dbtest.CreateSubreddit(t, e.db, "golang", author)
	post := dbtest.CreatePost(t, e.db, author, sub, "Uncached")

	w := e.do(http.MethodGet, "/api/subreddit/post/"+post.ID, nil, &author)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[struct {
		Cached bool     `json:"cached"`
		Post   postJSON `json:"post"`
	}](t, w)
	assert.False(t, resp.Cached)
	assert.Equal(t, "Uncached", resp.Post.Title)
	assert.Nil(t, resp.Post.CurrentVote)

	w = e.do(http.MethodGet, "/api/subreddit/post/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Post not found", errorOf(t, w))
}

func TestGetPostServesCachedProjection(t *testing.T) {
	e := newTestEnv(t)
	author := dbtest.CreateUser(t, e.db, "author")
	sub := dbtest.CreateSubreddit(t, e.db, "golang", author)
	post := dbtest.CreatePost(t, e.db, author, sub, "Popular")

	w := e.do(http.MethodPatch, "/api/subreddit/post/vote", gin.H{"postId": post.ID, "voteType": "UP"}, &author)
	require.Equal(t, http.StatusOK, w.Code)
	e.votes.Wait()

	w = e.do(http.MethodGet, "/api/subreddit/post/"+post.ID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[struct {
		Cached bool              `json:"cached"`
		Post   models.CachedPost `json:"post"`
	}](t, w)
	assert.True(t, resp.Cached)
	assert.Equal(t, "Popular", resp.Post.Title)
	assert.Equal(t, "author", resp.Post.AuthorUsername)
	assert.Equal(t, models.VoteUp, resp.Post.CurrentVote)
}
