package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/breadit/backend/internal/auth"
)

// AuthMiddleware attaches the session of a valid bearer token (or "token" cookie) to the
// request. Anonymous and invalid requests continue without a session.
func AuthMiddleware(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			if cookie, err := c.Cookie("token"); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			c.Next()
			return
		}

		session, err := tokens.Parse(tokenString)
		if err != nil {
			log.Printf("Rejected session token from %s: %v", c.ClientIP(), err)
			c.Next()
			return
		}

		auth.SetSession(c, session)
		c.Next()
	}
}

// RequireAuth aborts with 401 unless AuthMiddleware found a session.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.SessionFrom(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
