// Package votectl drives a vote widget optimistically: the new state is shown before
// the server confirms it and rolled back if the server refuses.
package votectl

import (
	"context"
	"fmt"
	"sync"

	"github.com/emilythestrangee/breadit/backend/internal/client"
	"github.com/emilythestrangee/breadit/backend/internal/models"
)

type State int

const (
	Neutral State = iota
	Upvoted
	Downvoted
)

func (s State) String() string {
	switch s {
	case Upvoted:
		return "upvoted"
	case Downvoted:
		return "downvoted"
	}
	return "neutral"
}

// StateOf maps the viewer's current vote, nil when none, to a State.
func StateOf(current *models.VoteType) State {
	if current == nil {
		return Neutral
	}
	switch *current {
	case models.VoteUp:
		return Upvoted
	case models.VoteDown:
		return Downvoted
	}
	return Neutral
}

// Snapshot is what the widget shows.
type Snapshot struct {
	State State
	Score int
}

// Apply returns the snapshot after clicking voteType. Clicking the active direction
// clears the vote, otherwise the vote moves to voteType.
func Apply(s Snapshot, voteType models.VoteType) Snapshot {
	target, weight := Upvoted, 1
	if voteType == models.VoteDown {
		target, weight = Downvoted, -1
	}

	switch s.State {
	case target:
		return Snapshot{State: Neutral, Score: s.Score - weight}
	case Neutral:
		return Snapshot{State: target, Score: s.Score + weight}
	default:
		return Snapshot{State: target, Score: s.Score + 2*weight}
	}
}

// Submitter sends a vote to the server.
type Submitter interface {
	Submit(ctx context.Context, voteType models.VoteType) error
}

type SubmitFunc func(ctx context.Context, voteType models.VoteType) error

func (f SubmitFunc) Submit(ctx context.Context, voteType models.VoteType) error {
	return f(ctx, voteType)
}

// PostSubmitter votes on postID through c.
func PostSubmitter(c *client.Client, postID string) SubmitFunc {
	return func(ctx context.Context, voteType models.VoteType) error {
		_, err := c.VotePost(ctx, postID, voteType)
		return err
	}
}

// CommentSubmitter votes on commentID through c.
func CommentSubmitter(c *client.Client, commentID string) SubmitFunc {
	return func(ctx context.Context, voteType models.VoteType) error {
		_, err := c.VoteComment(ctx, commentID, voteType)
		return err
	}
}

// Notifier surfaces failed votes to the user.
type Notifier interface {
	LoginRequired()
	VoteFailed(err error)
}

// Controller is the state machine behind one vote widget. It is safe for concurrent use;
// clicks are submitted one at a time in arrival order.
type Controller struct {
	submit Submitter
	notify Notifier

	submitMu sync.Mutex

	mu   sync.Mutex
	snap Snapshot
}

// New returns a controller seeded with the score and the viewer's vote from the server.
func New(score int, current *models.VoteType, submit Submitter, notify Notifier) *Controller {
	return &Controller{
		submit: submit,
		notify: notify,
		snap:   Snapshot{State: StateOf(current), Score: score},
	}
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Vote applies the click immediately and submits it. If the server refuses, the
// snapshot from before the click is restored and the error is returned.
func (c *Controller) Vote(ctx context.Context, voteType models.VoteType) error {
	if !voteType.Valid() {
		return fmt.Errorf("votectl: invalid vote type %q", voteType)
	}

	c.submitMu.Lock()
	defer c.submitMu.Unlock()

	c.mu.Lock()
	before := c.snap
	c.snap = Apply(before, voteType)
	c.mu.Unlock()

	err := c.submit.Submit(ctx, voteType)
	if err == nil {
		return nil
	}

	c.mu.Lock()
	c.snap = before
	c.mu.Unlock()

	if c.notify != nil {
		if client.IsUnauthorized(err) {
			c.notify.LoginRequired()
		} else {
			c.notify.VoteFailed(err)
		}
	}
	return err
}
