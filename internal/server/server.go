package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/breadit/backend/internal/auth"
	"github.com/emilythestrangee/breadit/backend/internal/cache"
	"github.com/emilythestrangee/breadit/backend/internal/config"
	"github.com/emilythestrangee/breadit/backend/internal/database"
	"github.com/emilythestrangee/breadit/backend/internal/handlers"
	"github.com/emilythestrangee/breadit/backend/internal/middleware"
	"github.com/emilythestrangee/breadit/backend/internal/votes"
)

// CacheHealth reports the state of the cache backend.
type CacheHealth interface {
	Health(ctx context.Context) map[string]string
}

type Server struct {
	db      database.Service
	cache   CacheHealth
	tokens  *auth.Tokens
	handler *handlers.Handler
}

// New wires the handlers to their dependencies. postCache may be nil to run without Redis.
func New(db database.Service, postCache *cache.PostCache, voteService *votes.Service, tokens *auth.Tokens) *Server {
	s := &Server{db: db, tokens: tokens}

	var reader handlers.PostReader
	if postCache != nil {
		reader = postCache
		s.cache = postCache
	}
	s.handler = handlers.NewHandler(db.GetDB(), reader, voteService)
	return s
}

// NewHTTPServer creates the HTTP server for the configured port
func NewHTTPServer(cfg *config.Config, s *Server) *http.Server {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	return &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.AuthMiddleware(s.tokens))

	r.GET("/health", s.healthHandler)

	api := r.Group("/api")
	{
		// Public reads, personalized when a session is present
		api.GET("/posts", s.handler.Post.GetPosts)
		api.GET("/search", s.handler.Subreddit.Search)
		api.GET("/r/:name", s.handler.Subreddit.GetSubreddit)
		api.GET("/subreddit/post/:postId", s.handler.Post.GetPost)
		api.GET("/subreddit/post/:postId/comments", s.handler.Comment.GetComments)

		protected := api.Group("")
		protected.Use(middleware.RequireAuth())
		{
			protected.GET("/me", s.handler.User.GetMe)
			protected.PATCH("/username", s.handler.User.UpdateUsername)

			protected.POST("/subreddit", s.handler.Subreddit.CreateSubreddit)
			protected.POST("/subreddit/subscribe", s.handler.Subreddit.Subscribe)
			protected.POST("/subreddit/unsubscribe", s.handler.Subreddit.Unsubscribe)

			protected.POST("/subreddit/post/create", s.handler.Post.CreatePost)
			protected.PATCH("/subreddit/post/comment", s.handler.Comment.CreateComment)

			protected.PATCH("/subreddit/post/vote", s.handler.Vote.VotePost)
			protected.PATCH("/subreddit/post/comment/vote", s.handler.Vote.VoteComment)
		}
	}

	return r
}

func (s *Server) healthHandler(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{"database": s.db.Health()}
	if body["database"].(map[string]string)["status"] != "up" {
		status = http.StatusServiceUnavailable
	}

	if s.cache != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		body["cache"] = s.cache.Health(ctx)
	}

	c.JSON(status, body)
}
