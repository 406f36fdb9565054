package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/emilythestrangee/breadit/backend/internal/models"
)

// PostCache stores CachedPost projections as redis hashes under post:<id>.
type PostCache struct {
	client *redis.Client
}

func NewPostCache(client *redis.Client) *PostCache {
	return &PostCache{client: client}
}

func Key(postID string) string {
	return "post:" + postID
}

// Put writes or overwrites the projection of a post.
func (c *PostCache) Put(ctx context.Context, p models.CachedPost) error {
	err := c.client.HSet(ctx, Key(p.ID), map[string]interface{}{
		"id":             p.ID,
		"authorUsername": p.AuthorUsername,
		"content":        p.Content,
		"title":          p.Title,
		"currentVote":    string(p.CurrentVote),
		"createdAt":      p.CreatedAt.UTC().Format(time.RFC3339Nano),
	}).Err()
	if err != nil {
		return fmt.Errorf("cache: put %s: %w", Key(p.ID), err)
	}
	return nil
}

// Get returns the projection of a post; ok is false when nothing is cached.
func (c *PostCache) Get(ctx context.Context, postID string) (p models.CachedPost, ok bool, err error) {
	fields, err := c.client.HGetAll(ctx, Key(postID)).Result()
	if err != nil {
		return p, false, fmt.Errorf("cache: get %s: %w", Key(postID), err)
	}
	if len(fields) == 0 {
		return p, false, nil
	}

	p = models.CachedPost{
		ID:             fields["id"],
		AuthorUsername: fields["authorUsername"],
		Content:        fields["content"],
		Title:          fields["title"],
		CurrentVote:    models.VoteType(fields["currentVote"]),
	}
	if raw := fields["createdAt"]; raw != "" {
		p.CreatedAt, err = time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return p, false, fmt.Errorf("cache: %s has malformed createdAt: %w", Key(postID), err)
		}
	}
	return p, true, nil
}

// Health pings redis and reports the result in the same shape as the database health.
func (c *PostCache) Health(ctx context.Context) map[string]string {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return map[string]string{"status": "down", "error": fmt.Sprintf("cache down: %v", err)}
	}
	return map[string]string{"status": "up"}
}
