// Package votes applies vote transitions to posts and comments and keeps the post
// cache projection in step.
package votes

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/emilythestrangee/breadit/backend/internal/apperror"
	"github.com/emilythestrangee/breadit/backend/internal/auth"
	"github.com/emilythestrangee/breadit/backend/internal/models"
)

type Result string

const (
	Created Result = "created"
	Updated Result = "updated"
	Removed Result = "removed"
)

func (r Result) Message() string {
	switch r {
	case Created:
		return "Vote created"
	case Updated:
		return "Vote updated"
	case Removed:
		return "Vote removed"
	}
	return ""
}

// Outcome describes an applied vote. Score is only computed for Created and Updated.
type Outcome struct {
	Result    Result
	Score     int
	Projected bool // a cache write was queued
}

// ProjectionWriter receives cache projections of popular posts.
type ProjectionWriter interface {
	Put(ctx context.Context, p models.CachedPost) error
}

type Options struct {
	CacheAfterUpvotes int
	CacheWriteTimeout time.Duration
}

const maxAttempts = 3

var errLostRace = errors.New("vote changed concurrently")

type Service struct {
	db        *gorm.DB
	cache     ProjectionWriter
	threshold int
	timeout   time.Duration
	pending   sync.WaitGroup
}

// NewService returns a vote service. cache may be nil to disable projections.
func NewService(db *gorm.DB, cache ProjectionWriter, opts Options) *Service {
	if opts.CacheWriteTimeout <= 0 {
		opts.CacheWriteTimeout = 2 * time.Second
	}
	return &Service{
		db:        db,
		cache:     cache,
		threshold: opts.CacheAfterUpvotes,
		timeout:   opts.CacheWriteTimeout,
	}
}

// Cast applies a vote by actor on the target of the given kind:
// no vote creates one, the same type removes it, the other type switches it.
func (s *Service) Cast(ctx context.Context, actor *auth.Session, kind Kind, targetID string, voteType models.VoteType) (Outcome, error) {
	if actor == nil {
		return Outcome{}, apperror.ErrUnauthorized
	}
	if targetID == "" || !voteType.Valid() {
		return Outcome{}, apperror.ErrValidation
	}

	var (
		out        Outcome
		projection *models.CachedPost
		err        error
	)
	for attempt := 1; ; attempt++ {
		out, projection, err = s.cast(ctx, actor.UserID, kind, targetID, voteType)
		if err == nil {
			break
		}
		if attempt < maxAttempts && retryable(err) {
			log.Printf("Retrying %s vote by %s on %s (attempt %d): %v", kind.Name(), actor.UserID, targetID, attempt, err)
			continue
		}
		return Outcome{}, err
	}

	if projection != nil {
		s.writeProjection(ctx, *projection)
		out.Projected = true
	}
	return out, nil
}

func (s *Service) cast(ctx context.Context, userID string, kind Kind, targetID string, voteType models.VoteType) (Outcome, *models.CachedPost, error) {
	var (
		out        Outcome
		projection *models.CachedPost
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := kind.FindTarget(tx, targetID); err != nil {
			return err
		}

		existing, found, err := kind.FindVote(tx, userID, targetID)
		if err != nil {
			return err
		}

		switch {
		case !found:
			if err := kind.CreateVote(tx, userID, targetID, voteType); err != nil {
				return err
			}
			out.Result = Created
		case existing == voteType:
			ok, err := kind.DeleteVote(tx, userID, targetID, voteType)
			if err != nil {
				return err
			}
			if !ok {
				return errLostRace
			}
			out.Result = Removed
			return nil
		default:
			ok, err := kind.UpdateVote(tx, userID, targetID, existing, voteType)
			if err != nil {
				return err
			}
			if !ok {
				return errLostRace
			}
			out.Result = Updated
		}

		types, err := kind.VoteTypes(tx, targetID)
		if err != nil {
			return err
		}
		out.Score = models.Score(types)

		projector, ok := kind.(Projector)
		if !ok || s.cache == nil || out.Score < s.threshold {
			return nil
		}
		p, err := projector.Project(tx, targetID, voteType)
		if err != nil {
			log.Printf("⚠️ Skipping cache projection of %s %s: %v", kind.Name(), targetID, err)
			return nil
		}
		projection = &p
		return nil
	})
	if err != nil {
		return Outcome{}, nil, fmt.Errorf("votes: cast %s vote on %s: %w", kind.Name(), targetID, err)
	}
	return out, projection, nil
}

// writeProjection stores the projection in the background. Failures are logged only.
func (s *Service) writeProjection(ctx context.Context, p models.CachedPost) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		if err := s.cache.Put(ctx, p); err != nil {
			log.Printf("⚠️ Failed to cache post %s: %v", p.ID, err)
		}
	}()
}

// Wait blocks until all background cache writes have finished.
func (s *Service) Wait() {
	s.pending.Wait()
}

func retryable(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, errLostRace)
}
