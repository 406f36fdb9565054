package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/breadit/backend/internal/auth"
)

func newRouter(tokens *auth.Tokens) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(tokens))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, auth.SessionFrom(c).ID())
	})
	r.GET("/private", RequireAuth(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokens("secret")
	r := newRouter(tokens)

	token, err := tokens.Issue(auth.Session{UserID: "u1"}, time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"anonymous", "", "", ""},
		{"bearer", "Bearer " + token, "", "u1"},
		{"lowercase scheme", "bearer " + token, "", "u1"},
		{"cookie", "", token, "u1"},
		{"invalid token", "Bearer nope", "", ""},
		{"basic auth", "Basic dXNlcjpwYXNz", "", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if c.header != "" {
				req.Header.Set("Authorization", c.header)
			}
			if c.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: c.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, c.want, w.Body.String())
		})
	}
}

func TestRequireAuth(t *testing.T) {
	tokens := auth.NewTokens("secret")
	r := newRouter(tokens)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := tokens.Issue(auth.Session{UserID: "u1"}, time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
