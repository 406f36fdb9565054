// Package auth verifies the bearer tokens issued by the identity provider and carries
// the resulting session through a request.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Session is the authenticated actor of a request.
type Session struct {
	UserID   string
	Username string
}

type claims struct {
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 session tokens with a shared secret.
type Tokens struct {
	secret []byte
}

func NewTokens(secret string) *Tokens {
	return &Tokens{secret: []byte(secret)}
}

// Issue signs a token for the session. The identity provider does this in production;
// the API only needs it for tooling and tests.
func (t *Tokens) Issue(s Session, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: s.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(t.secret)
}

// Parse validates the token signature and expiry and returns its session.
func (t *Tokens) Parse(tokenString string) (*Session, error) {
	var c claims
	_, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return &Session{UserID: c.Subject, Username: c.Username}, nil
}

const sessionKey = "session"

func SetSession(c *gin.Context, s *Session) {
	c.Set(sessionKey, s)
}

// SessionFrom returns the request's session or nil for anonymous requests.
func SessionFrom(c *gin.Context) *Session {
	raw, exists := c.Get(sessionKey)
	if !exists {
		return nil
	}
	s, _ := raw.(*Session)
	return s
}

// ID returns the session's user ID, or "" when s is nil.
func (s *Session) ID() string {
	if s == nil {
		return ""
	}
	return s.UserID
}
