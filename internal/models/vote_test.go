package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	cases := []struct {
		name  string
		types []VoteType
		want  int
	}{
		{"empty", nil, 0},
		{"two up one down", []VoteType{VoteUp, VoteUp, VoteDown}, 1},
		{"all down", []VoteType{VoteDown, VoteDown}, -2},
		{"unknown ignored", []VoteType{VoteUp, VoteType("SIDEWAYS")}, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Score(c.types))
		})
	}
}

func TestPostScoreFindsViewerVote(t *testing.T) {
	votes := []Vote{
		{UserID: "a", Type: VoteUp},
		{UserID: "b", Type: VoteDown},
		{UserID: "c", Type: VoteUp},
	}

	score, current := PostScore(votes, "b")
	assert.Equal(t, 1, score)
	require.NotNil(t, current)
	assert.Equal(t, VoteDown, *current)

	_, current = PostScore(votes, "")
	assert.Nil(t, current)
}

func TestVoteTypeValid(t *testing.T) {
	assert.True(t, VoteUp.Valid())
	assert.True(t, VoteDown.Valid())
	assert.False(t, VoteType("up").Valid())
}
