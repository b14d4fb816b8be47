package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	Environment string
	DataDir     string

	JWTSecret string
	JWTExpiry int64

	SendgridAPIKey  string
	EmailSender     string
	EmailSenderName string
	EmailReplyTo    string
	AdminEmail      string
	SiteBaseURL     string

	SubmitRateLimitMax    int
	SubmitRateLimitWindow time.Duration
	EmailRateLimitMax     int
	EmailRateLimitWindow  time.Duration
	VerifyRateLimitMax    int
	VerifyRateLimitWindow time.Duration

	VerificationTokenTTL time.Duration
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		DataDir:     getEnv("DATA_DIR", "./data"),

		JWTSecret: getEnv("JWT_SECRET", "your-secret-key"),
		JWTExpiry: getEnvAsInt64("JWT_EXPIRY", 24*60*60), // 24 hours

		SendgridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		EmailSender:     getEnv("EMAIL_SENDER", "reviews@localhost"),
		EmailSenderName: getEnv("EMAIL_SENDER_NAME", "Kudos Reviews"),
		EmailReplyTo:    getEnv("EMAIL_REPLY_TO", ""),
		AdminEmail:      getEnv("ADMIN_EMAIL", ""),
		SiteBaseURL:     getEnv("SITE_BASE_URL", "http://localhost:8080"),

		SubmitRateLimitMax:    getEnvAsInt("SUBMIT_RATE_LIMIT_MAX", 5),
		SubmitRateLimitWindow: time.Duration(getEnvAsInt64("SUBMIT_RATE_LIMIT_WINDOW_MINUTES", 60)) * time.Minute,
		EmailRateLimitMax:     getEnvAsInt("EMAIL_RATE_LIMIT_MAX", 3),
		EmailRateLimitWindow:  time.Duration(getEnvAsInt64("EMAIL_RATE_LIMIT_WINDOW_MINUTES", 24*60)) * time.Minute,
		VerifyRateLimitMax:    getEnvAsInt("VERIFY_RATE_LIMIT_MAX", 10),
		VerifyRateLimitWindow: time.Duration(getEnvAsInt64("VERIFY_RATE_LIMIT_WINDOW_MINUTES", 15)) * time.Minute,

		VerificationTokenTTL: time.Duration(getEnvAsInt64("VERIFICATION_TTL_HOURS", 24)) * time.Hour,
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
