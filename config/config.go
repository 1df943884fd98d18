package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Redis       RedisConfig
	Auth        AuthConfig
	UserService UserServiceConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	App         AppConfig
}

type ServerConfig struct {
	Port string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	Secret   string
	TokenTTL time.Duration
}

type UserServiceConfig struct {
	BaseURL string
	Timeout time.Duration
	// ServiceID is the subject encoded into the privileged credential the
	// backend presents to the user service.
	ServiceID string
}

type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

type CORSConfig struct {
	AllowOrigins []string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8000"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			Secret:   getEnv("AUTH_SECRET", ""),
			TokenTTL: getEnvAsDuration("AUTH_TOKEN_TTL", 2*time.Hour),
		},
		UserService: UserServiceConfig{
			BaseURL:   getEnv("USER_SERVICE_URL", "http://localhost:8001"),
			Timeout:   getEnvAsDuration("USER_SERVICE_TIMEOUT", 10*time.Second),
			ServiceID: getEnv("USER_SERVICE_SUBJECT", "adminUser"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_RPM", 120),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 120),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnvAsList("CORS_ORIGINS", "http://localhost:8080"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}

	if c.Auth.Secret == "" {
		return fmt.Errorf("AUTH_SECRET is required")
	}

	if c.UserService.BaseURL == "" {
		return fmt.Errorf("USER_SERVICE_URL is required")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key, defaultValue string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
