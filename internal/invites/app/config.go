package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer        string // Required: expected issuer of access tokens
	VerifyKeyFile string // Optional: Ed25519 public key PEM; ephemeral dev key when empty

	DatabaseFile string // Optional: path to SQLite database file (default: ./invites.db)

	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)
	Port      int    // HTTP server port (default: 8080)

	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
	InviteRetention      time.Duration // How long expired unused invites are kept (default: 90 days)
	SenderInterval       time.Duration // Campaign sender poll interval (default: 15s)
	SenderBatchSize      int           // Recipients dispatched per sender pass (default: 50)

	// Email delivery.
	EmailProvider    string // resend, smtp, or console (default: console)
	ResendAPIKey     string
	SMTPHost         string
	SMTPPort         int
	EmailFromAddress string
	EmailFromName    string
	PublicBaseURL    string // Public URL invite links point at
}

func LoadConfig() Config {
	return Config{
		Issuer:        getEnvOrDefault("INVITES_ISSUER", "accredhub-identity"),
		VerifyKeyFile: os.Getenv("INVITES_VERIFY_KEY_FILE"),

		DatabaseFile: getEnvOrDefault("INVITES_DATABASE_FILE", "invites.db"),

		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
		Port:      getEnvIntOrDefault("PORT", 8080),

		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		InviteRetention:      getEnvDurationOrDefault("INVITE_RETENTION", 90*24*time.Hour),
		SenderInterval:       getEnvDurationOrDefault("SENDER_INTERVAL", 15*time.Second),
		SenderBatchSize:      getEnvIntOrDefault("SENDER_BATCH_SIZE", 50),

		EmailProvider:    getEnvOrDefault("EMAIL_PROVIDER", "console"),
		ResendAPIKey:     os.Getenv("RESEND_API_KEY"),
		SMTPHost:         getEnvOrDefault("SMTP_HOST", "localhost"),
		SMTPPort:         getEnvIntOrDefault("SMTP_PORT", 1025),
		EmailFromAddress: getEnvOrDefault("EMAIL_FROM_ADDRESS", "invites@accredhub.example"),
		EmailFromName:    getEnvOrDefault("EMAIL_FROM_NAME", "AccredHub"),
		PublicBaseURL:    getEnvOrDefault("PUBLIC_BASE_URL", "http://localhost:8080"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
