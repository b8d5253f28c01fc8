package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// LLM providers
const (
	ProviderLocal = "local"
	ProviderGroq  = "groq"
)

const defaultAccessSecret = "your-access-secret-change-in-production"

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	LLM      LLMConfig
	Streak   StreakConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	AccessSecret string
	AccessExpiry time.Duration
}

// LLMConfig selects and tunes the chat completion provider
type LLMConfig struct {
	Provider    string        `envconfig:"PROVIDER" default:"local"`
	Model       string        `envconfig:"MODEL" default:"llama3-8b-8192"`
	BaseURL     string        `envconfig:"BASE_URL"`
	APIKey      string        `envconfig:"API_KEY"`
	Temperature float64       `envconfig:"TEMPERATURE" default:"0.5"`
	MaxTokens   int           `envconfig:"MAX_TOKENS" default:"2048"`
	Timeout     time.Duration `envconfig:"TIMEOUT" default:"30s"`
	PromptEasy  string        `envconfig:"PROMPT_EASY"`
	PromptHard  string        `envconfig:"PROMPT_HARD"`
}

// StreakConfig holds the daily streak rules
type StreakConfig struct {
	Timezone      string        `envconfig:"TIMEZONE" default:"Asia/Kolkata"`
	PassThreshold int           `envconfig:"PASS_THRESHOLD" default:"50"`
	LockTTL       time.Duration `envconfig:"LOCK_TTL" default:"10s"`
	LockWait      time.Duration `envconfig:"LOCK_WAIT" default:"5s"`
}

// Location resolves the streak timezone
func (s StreakConfig) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  getEnvAsSlice("ALLOWED_ORIGINS", "http://localhost:3000"),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "loan_agent_trainer"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			AccessSecret: getEnv("JWT_ACCESS_SECRET", defaultAccessSecret),
			AccessExpiry: getEnvAsDuration("JWT_ACCESS_EXPIRY", "120h"),
		},
	}

	if err := envconfig.Process("LLM", &config.LLM); err != nil {
		return nil, fmt.Errorf("failed to load LLM config: %w", err)
	}
	if err := envconfig.Process("STREAK", &config.Streak); err != nil {
		return nil, fmt.Errorf("failed to load streak config: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.IsProduction() && (c.JWT.AccessSecret == "" || c.JWT.AccessSecret == defaultAccessSecret) {
		return fmt.Errorf("JWT_ACCESS_SECRET must be set in production")
	}
	switch c.LLM.Provider {
	case ProviderLocal:
	case ProviderGroq:
		if c.LLM.APIKey == "" {
			return fmt.Errorf("LLM_API_KEY is required when LLM_PROVIDER is %s", ProviderGroq)
		}
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLM.Provider)
	}
	if _, err := c.Streak.Location(); err != nil {
		return fmt.Errorf("invalid STREAK_TIMEZONE %q: %w", c.Streak.Timezone, err)
	}
	if c.Streak.PassThreshold < 0 || c.Streak.PassThreshold > 100 {
		return fmt.Errorf("STREAK_PASS_THRESHOLD must be within 0..100")
	}
	return nil
}

// IsProduction reports whether ENVIRONMENT is production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}

func getEnvAsSlice(key string, defaultValue string) []string {
	var out []string
	for _, v := range strings.Split(getEnv(key, defaultValue), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
