package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Catalog CatalogConfig
	Redis   RedisConfig
	TMDB    TMDBConfig
	Session SessionConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Env  string
	Port string
	Host string
}

type CatalogConfig struct {
	GraphQLURL string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TLS      bool
}

type TMDBConfig struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	RPS          float64
}

type SessionConfig struct {
	SecretKey string
	TTL       time.Duration
}

type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads environment variables and returns a Config struct
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Env:  getEnv("APP_ENV", "local"),
			Port: getEnv("PORT", "4000"),
			Host: getEnv("HOST", "http://localhost:4000"),
		},
		Catalog: CatalogConfig{
			GraphQLURL: getEnv("GRAPHQL_URL", ""),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			TLS:      getEnv("REDIS_TLS", "false") == "true",
		},
		TMDB: TMDBConfig{
			APIKey:       getEnv("TMDB_KEY", ""),
			BaseURL:      getEnv("TMDB_URL", "https://api.themoviedb.org/3"),
			ImageBaseURL: getEnv("TMDB_IMAGE_URL", "https://image.tmdb.org/t/p"),
		},
		Session: SessionConfig{
			SecretKey: getEnv("SECRET_KEY", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}

	rps, err := strconv.ParseFloat(getEnv("TMDB_RPS", "40"), 64)
	if err != nil || rps <= 0 {
		return nil, fmt.Errorf("TMDB_RPS must be a positive number")
	}
	cfg.TMDB.RPS = rps

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "168h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be a positive duration")
	}
	cfg.Session.TTL = ttl

	// Validate required fields
	if cfg.Catalog.GraphQLURL == "" {
		return nil, fmt.Errorf("GRAPHQL_URL is required")
	}
	if cfg.TMDB.APIKey == "" {
		return nil, fmt.Errorf("TMDB_KEY is required")
	}
	if cfg.Session.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY is required")
	}
	if len(cfg.Session.SecretKey) < 32 {
		return nil, fmt.Errorf("SECRET_KEY must be at least 32 characters")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// IsDevelopment returns true if running in development/local mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "local" || c.Server.Env == "development"
}

// RedisAddr returns the Redis address in host:port format
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
