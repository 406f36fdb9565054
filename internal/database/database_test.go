//go:build integration

package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"

	"github.com/emilythestrangee/breadit/backend/internal/models"
)

func mustStartPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("breadit"),
		postgres.WithUsername("breadit"),
		postgres.WithPassword("breadit"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func TestNewMigratesAndReportsHealth(t *testing.T) {
	svc, err := New(mustStartPostgres(t))
	require.NoError(t, err)
	defer svc.Close()

	stats := svc.Health()
	assert.Equal(t, "up", stats["status"])
	assert.True(t, svc.GetDB().Migrator().HasTable(&models.Vote{}))
	assert.True(t, svc.GetDB().Migrator().HasTable(&models.CommentVote{}))
}

func TestVotePrimaryKeyRejectsDuplicates(t *testing.T) {
	svc, err := New(mustStartPostgres(t))
	require.NoError(t, err)
	defer svc.Close()
	db := svc.GetDB()

	name := "voter"
	user := models.User{Username: &name, Email: "voter@example.com"}
	require.NoError(t, db.Create(&user).Error)
	sub := models.Subreddit{Name: "golang", CreatorID: &user.ID}
	require.NoError(t, db.Create(&sub).Error)
	post := models.Post{Title: "hello", SubredditID: sub.ID, AuthorID: user.ID, CreatedAt: time.Now()}
	require.NoError(t, db.Create(&post).Error)

	require.NoError(t, db.Create(&models.Vote{UserID: user.ID, PostID: post.ID, Type: models.VoteUp}).Error)
	err = db.Create(&models.Vote{UserID: user.ID, PostID: post.ID, Type: models.VoteDown}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
