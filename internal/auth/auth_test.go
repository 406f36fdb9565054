package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	tokens := NewTokens("secret")

	token, err := tokens.Issue(Session{UserID: "u1", Username: "alice"}, time.Hour)
	require.NoError(t, err)

	s, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", s.UserID)
	assert.Equal(t, "alice", s.Username)
}

func TestParseRejectsBadTokens(t *testing.T) {
	tokens := NewTokens("secret")

	expired, err := tokens.Issue(Session{UserID: "u1"}, -time.Minute)
	require.NoError(t, err)

	foreign, err := NewTokens("other").Issue(Session{UserID: "u1"}, time.Hour)
	require.NoError(t, err)

	noSubject, err := tokens.Issue(Session{}, time.Hour)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":    expired,
		"foreign":    foreign,
		"no subject": noSubject,
		"unsigned":   unsigned,
		"garbage":    "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.Parse(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestSessionFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, SessionFrom(c))
	assert.Equal(t, "", SessionFrom(c).ID())

	SetSession(c, &Session{UserID: "u1"})
	assert.Equal(t, "u1", SessionFrom(c).ID())
}
