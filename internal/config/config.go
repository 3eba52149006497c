package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string
	// BaseURL is the public URL of the storefront, used when building the
	// register redirect for anonymous purchase attempts.
	BaseURL string

	Admin      AdminConfig
	DB         DatabaseConfig
	Redis      RedisConfig
	Payment    PaymentConfig
	AMQP       AMQPConfig
	Cloudinary CloudinaryConfig
	Mailer     MailerConfig
	Worker     WorkerConfig
	Order      OrderConfig
}

// AdminConfig optionally seeds a backoffice account at startup. Both fields
// empty disables seeding.
type AdminConfig struct {
	Email    string
	Password string
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// PaymentConfig contains credentials for the payment gateway.
type PaymentConfig struct {
	BaseURL   string
	ServerKey string
	ClientKey string
}

// AMQPConfig contains the broker URL for order events. Empty disables publishing.
type AMQPConfig struct {
	URL string
}

// CloudinaryConfig contains credentials for product image uploads.
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// MailerConfig contains credentials for the transactional mail API.
type MailerConfig struct {
	BaseURL string
	APIKey  string
	From    string
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	PaymentSyncInterval time.Duration
	OrderExpiryInterval time.Duration
}

// OrderConfig contains order lifecycle parameters.
type OrderConfig struct {
	ExpiryWindow time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.BaseURL = getEnv("BASE_URL", "https://kanalkids.id")

	// Backoffice seed account (optional)
	cfg.Admin = AdminConfig{
		Email:    getEnv("ADMIN_EMAIL", ""),
		Password: getEnv("ADMIN_PASSWORD", ""),
	}

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Payment gateway
	cfg.Payment = PaymentConfig{
		BaseURL:   getEnv("PAYMENT_BASE_URL", "https://app.sandbox.midtrans.com"),
		ServerKey: getEnv("PAYMENT_SERVER_KEY", ""),
		ClientKey: getEnv("PAYMENT_CLIENT_KEY", ""),
	}

	// Order events broker (optional)
	cfg.AMQP = AMQPConfig{
		URL: getEnv("AMQP_URL", ""),
	}

	// Cloudinary (admin image uploads)
	cfg.Cloudinary = CloudinaryConfig{
		CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		Folder:    getEnv("CLOUDINARY_FOLDER", "kanalkids/products"),
	}

	// Transactional mail
	cfg.Mailer = MailerConfig{
		BaseURL: getEnv("MAILER_BASE_URL", "https://api.resend.com"),
		APIKey:  getEnv("MAILER_API_KEY", ""),
		From:    getEnv("MAILER_FROM", "KanalKids <no-reply@kanalkids.id>"),
	}

	// Workers (durations)
	var err error
	if cfg.Worker.PaymentSyncInterval, err = parseDurationEnv("PAYMENT_SYNC_INTERVAL", "10s"); err != nil {
		return nil, fmt.Errorf("invalid PAYMENT_SYNC_INTERVAL: %w", err)
	}
	if cfg.Worker.OrderExpiryInterval, err = parseDurationEnv("ORDER_EXPIRY_INTERVAL", "1m"); err != nil {
		return nil, fmt.Errorf("invalid ORDER_EXPIRY_INTERVAL: %w", err)
	}
	if cfg.Order.ExpiryWindow, err = parseDurationEnv("ORDER_EXPIRY_WINDOW", "24h"); err != nil {
		return nil, fmt.Errorf("invalid ORDER_EXPIRY_WINDOW: %w", err)
	}

	// Basic validation for DB parameters — keeps messages concise and helpful.
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	// Validate JWT_SECRET
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
