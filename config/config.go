package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config holds the process settings. It is loaded once at startup and treated as read-only afterwards.
type Config struct {
	Env           string `validate:"oneof=development production test"`
	Port          string `validate:"required,numeric"`
	DatabaseURL   string `validate:"required,url"`
	RedisURL      string
	RedisPassword string
	RedisDB       int `validate:"min=0"`
	JWTSecret     string `validate:"required"`
	BaseURL       string `validate:"required,url"`
	LogLevel      string `validate:"oneof=debug info warn error"`

	// RateLimitPerMinute is the per-client request budget; 0 disables the limiter.
	RateLimitPerMinute int `validate:"min=0"`

	Uploads struct {
		AppID  string `validate:"required"`
		Secret string `validate:"required"`
		APIURL string `validate:"required,url"`
	}

	Cron struct {
		Secret         string        `validate:"required"`
		MediaRetention time.Duration `validate:"gt=0"`
	}
}

// IsProduction reports whether the service runs with production semantics.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Load reads the environment (and an optional .env file) and validates the result.
func Load() (*Config, error) {
	// .env is optional, system environment wins
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	rateLimit, err := strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %w", err)
	}
	retentionHours, err := strconv.Atoi(getEnv("MEDIA_RETENTION_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid MEDIA_RETENTION_HOURS: %w", err)
	}

	cfg := &Config{
		Env:                getEnv("APP_ENV", EnvDevelopment),
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            redisDB,
		JWTSecret:          os.Getenv("JWT_SECRET"),
		BaseURL:            os.Getenv("BASE_URL"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		RateLimitPerMinute: rateLimit,
	}

	cfg.Uploads.AppID = os.Getenv("UPLOADTHING_APP_ID")
	cfg.Uploads.Secret = os.Getenv("UPLOADTHING_SECRET")
	cfg.Uploads.APIURL = getEnv("UPLOADTHING_API_URL", "https://api.uploadthing.com")

	cfg.Cron.Secret = getEnv("CRON_SECRET", "dev-secret-change-in-production")
	cfg.Cron.MediaRetention = time.Duration(retentionHours) * time.Hour

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its rules and reports the first failures in one error.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	msg := "invalid configuration:"
	for _, fe := range verrs {
		msg += fmt.Sprintf(" %s failed %q;", fe.Namespace(), fe.Tag())
	}
	return fmt.Errorf("%s", msg)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
