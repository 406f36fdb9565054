package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/emilythestrangee/breadit/backend/internal/auth"
	"github.com/emilythestrangee/breadit/backend/internal/cache"
	"github.com/emilythestrangee/breadit/backend/internal/config"
	"github.com/emilythestrangee/breadit/backend/internal/database"
	"github.com/emilythestrangee/breadit/backend/internal/server"
	"github.com/emilythestrangee/breadit/backend/internal/votes"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from the environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.New(cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	var postCache *cache.PostCache
	redisClient, err := cache.Open(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Printf("⚠️ Running without cache: %v", err)
	} else {
		postCache = cache.NewPostCache(redisClient)
	}

	var projections votes.ProjectionWriter
	if postCache != nil {
		projections = postCache
	}
	voteService := votes.NewService(db.GetDB(), projections, votes.Options{
		CacheAfterUpvotes: cfg.CacheAfterUpvotes,
		CacheWriteTimeout: cfg.CacheWriteTimeout,
	})

	srv := server.NewHTTPServer(cfg, server.New(db, postCache, voteService, auth.NewTokens(cfg.JWTSecret)))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("🚀 Server starting on port %s", cfg.Port)
		fmt.Println("📝 Press Ctrl+C to stop the server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down gracefully, press Ctrl+C again to force")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	voteService.Wait()
	if redisClient != nil {
		redisClient.Close()
	}
	if err := db.Close(); err != nil {
		log.Printf("Failed to close database: %v", err)
	}

	log.Println("✅ Server exiting")
}
