// Package dbtest provides a migrated in-memory database and fixtures for tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emilythestrangee/breadit/backend/internal/database"
	"github.com/emilythestrangee/breadit/backend/internal/models"
)

// New returns a fresh SQLite database private to the test.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	return NewService(t).GetDB()
}

// NewService is New wrapped in a database.Service. The pool is capped at one connection
// so the shared in-memory database survives and writers serialize.
func NewService(t testing.TB) database.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	svc, err := database.Open(sqlite.Open(dsn), logger.Silent)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	sqlDB, err := svc.GetDB().DB()
	if err != nil {
		t.Fatalf("test database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() { svc.Close() })
	return svc
}

func CreateUser(t testing.TB, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Username: &username,
		Name:     username,
		Email:    username + "@example.com",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

// CreateSubreddit creates a subreddit and subscribes its creator.
func CreateSubreddit(t testing.TB, db *gorm.DB, name string, creator models.User) models.Subreddit {
	t.Helper()
	sub := models.Subreddit{Name: name, CreatorID: &creator.ID}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("create subreddit %s: %v", name, err)
	}
	Subscribe(t, db, creator, sub)
	return sub
}

func Subscribe(t testing.TB, db *gorm.DB, user models.User, sub models.Subreddit) {
	t.Helper()
	if err := db.Create(&models.Subscription{UserID: user.ID, SubredditID: sub.ID}).Error; err != nil {
		t.Fatalf("subscribe %s to %s: %v", user.ID, sub.Name, err)
	}
}

func CreatePost(t testing.TB, db *gorm.DB, author models.User, sub models.Subreddit, title string) models.Post {
	t.Helper()
	post := models.Post{
		Title:       title,
		Content:     `{"blocks":[{"type":"paragraph","data":{"text":"hello"}}]}`,
		SubredditID: sub.ID,
		AuthorID:    author.ID,
	}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("create post %q: %v", title, err)
	}
	return post
}

func CreateComment(t testing.TB, db *gorm.DB, author models.User, post models.Post, text string, replyTo *models.Comment) models.Comment {
	t.Helper()
	comment := models.Comment{Text: text, AuthorID: author.ID, PostID: post.ID}
	if replyTo != nil {
		comment.ReplyToID = &replyTo.ID
	}
	if err := db.Create(&comment).Error; err != nil {
		t.Fatalf("create comment %q: %v", text, err)
	}
	return comment
}
