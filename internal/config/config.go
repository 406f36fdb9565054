package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds everything the API needs at startup.
type Config struct {
	Port string
	Env  string

	Database struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	JWTSecret string

	// CacheAfterUpvotes is the score a post needs before it is projected into Redis.
	CacheAfterUpvotes int
	// CacheWriteTimeout bounds a single projection write.
	CacheWriteTimeout time.Duration
}

// Load reads the configuration from the environment, falling back to local dev defaults.
// The .env file, if any, has to be loaded by the caller beforehand.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("APP_ENV", "development")

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnv("DB_PORT", "5432")
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "")
	cfg.Database.Name = getEnv("DB_NAME", "breadit")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("config: invalid REDIS_DB: %w", err)
	}
	cfg.Redis.DB = redisDB

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}

	cfg.CacheAfterUpvotes, err = strconv.Atoi(getEnv("CACHE_AFTER_UPVOTES", "1"))
	if err != nil {
		return nil, fmt.Errorf("config: invalid CACHE_AFTER_UPVOTES: %w", err)
	}

	timeout, err := time.ParseDuration(getEnv("CACHE_WRITE_TIMEOUT", "2s"))
	if err != nil {
		log.Printf("WARNING: invalid CACHE_WRITE_TIMEOUT, using 2s: %v", err)
		timeout = 2 * time.Second
	}
	cfg.CacheWriteTimeout = timeout

	return cfg, nil
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.Database.Host, c.Database.User, c.Database.Password, c.Database.Name, c.Database.Port, c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
