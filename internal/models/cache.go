package models

import "time"

// CachedPost is the denormalized projection of a popular post kept in Redis.
// It may be stale or missing; the database stays the source of truth.
type CachedPost struct {
	ID             string    `json:"id"`
	AuthorUsername string    `json:"authorUsername"`
	Content        string    `json:"content"`
	Title          string    `json:"title"`
	CurrentVote    VoteType  `json:"currentVote"`
	CreatedAt      time.Time `json:"createdAt"`
}
