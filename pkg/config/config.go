package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig
	DB        DatabaseConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Payment   PaymentConfig
	Telegram  TelegramConfig
	Email     EmailConfig
	Log       LogConfig
	Metrics   MetricsConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	SigningKey     string
	ExpirationTime time.Duration
}

// RateLimitConfig holds the two limiter presets: one for general auth
// attempts, a stricter one for admin-area access.
type RateLimitConfig struct {
	AuthMaxAttempts  int
	AuthWindow       time.Duration
	AdminMaxAttempts int
	AdminWindow      time.Duration
}

// PaymentConfig holds payment gateway credentials. APIKey may be empty;
// the checkout handler fails with 500 in that case rather than at startup.
type PaymentConfig struct {
	BaseURL       string
	APIKey        string
	WebhookSecret string
}

// TelegramConfig holds the notification bot credentials
type TelegramConfig struct {
	BotToken     string
	ChatID       string
	WebhookToken string
}

// EmailConfig holds the outbound email provider credentials
type EmailConfig struct {
	APIKey     string
	FromEmail  string
	AdminEmail string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics-related configuration
type MetricsConfig struct {
	Prefix string
}

// GetDSN builds the postgres connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// Load loads the application configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		DB: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "satshop_db"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 1*time.Hour),
		},
		JWT: JWTConfig{
			SigningKey:     getEnv("JWT_SIGNING_KEY", "satshopsecretkey"),
			ExpirationTime: getEnvAsDuration("JWT_EXPIRATION", 24*time.Hour),
		},
		RateLimit: RateLimitConfig{
			AuthMaxAttempts:  getEnvAsInt("RATE_LIMIT_AUTH_MAX", 5),
			AuthWindow:       getEnvAsDuration("RATE_LIMIT_AUTH_WINDOW", 5*time.Minute),
			AdminMaxAttempts: getEnvAsInt("RATE_LIMIT_ADMIN_MAX", 3),
			AdminWindow:      getEnvAsDuration("RATE_LIMIT_ADMIN_WINDOW", 10*time.Minute),
		},
		Payment: PaymentConfig{
			BaseURL:       getEnv("PAYMENT_BASE_URL", "https://pay.chargily.net/api/v2"),
			APIKey:        getEnv("PAYMENT_API_KEY", ""),
			WebhookSecret: getEnv("PAYMENT_WEBHOOK_SECRET", ""),
		},
		Telegram: TelegramConfig{
			BotToken:     getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:       getEnv("TELEGRAM_CHAT_ID", ""),
			WebhookToken: getEnv("TELEGRAM_WEBHOOK_TOKEN", ""),
		},
		Email: EmailConfig{
			APIKey:     getEnv("EMAIL_API_KEY", ""),
			FromEmail:  getEnv("EMAIL_FROM", "orders@sat-shop.example"),
			AdminEmail: getEnv("EMAIL_ADMIN", ""),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", "satshop"),
		},
	}, nil
}

// Helper functions to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
