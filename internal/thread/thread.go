// Package thread shapes a post's comments into the two-level tree shown under a post.
package thread

import (
	"sort"
	"time"

	"github.com/emilythestrangee/breadit/backend/internal/models"
)

type Author struct {
	ID       string  `json:"id"`
	Username *string `json:"username"`
	Name     string  `json:"name"`
	Image    string  `json:"image"`
}

// Node is a comment with its net score and the viewer's own vote, if any.
type Node struct {
	ID          string           `json:"id"`
	Text        string           `json:"text"`
	PostID      string           `json:"postId"`
	ReplyToID   *string          `json:"replyToId"`
	Author      Author           `json:"author"`
	CreatedAt   time.Time        `json:"createdAt"`
	VotesAmt    int              `json:"votesAmt"`
	CurrentVote *models.VoteType `json:"currentVote"`
	Replies     []Node           `json:"replies"`
}

// Build returns one node per top-level comment with its replies attached. Replies are
// ordered by how many votes they received, regardless of direction.
func Build(comments []models.Comment, viewerID string) []Node {
	nodes := make([]Node, 0, len(comments))
	for _, c := range comments {
		if c.ReplyToID != nil {
			continue
		}

		replies := append([]models.Comment(nil), c.Replies...)
		sort.SliceStable(replies, func(i, j int) bool {
			return len(replies[i].Votes) > len(replies[j].Votes)
		})

		node := newNode(c, viewerID)
		node.Replies = make([]Node, 0, len(replies))
		for _, r := range replies {
			node.Replies = append(node.Replies, newNode(r, viewerID))
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func newNode(c models.Comment, viewerID string) Node {
	score, current := models.CommentScore(c.Votes, viewerID)
	return Node{
		ID:        c.ID,
		Text:      c.Text,
		PostID:    c.PostID,
		ReplyToID: c.ReplyToID,
		Author: Author{
			ID:       c.Author.ID,
			Username: c.Author.Username,
			Name:     c.Author.Name,
			Image:    c.Author.Image,
		},
		CreatedAt:   c.CreatedAt,
		VotesAmt:    score,
		CurrentVote: current,
	}
}
