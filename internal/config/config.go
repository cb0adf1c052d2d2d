package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Detector selection values for LanguageDetector.
const (
	DetectorHeuristic = "heuristic"
	DetectorRemote    = "remote"
)

// Config holds application configuration.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	DatabaseURL string

	GroqAPIKey      string
	GroqBaseURL     string
	GroqModel       string
	UpstreamTimeout time.Duration

	TwilioAccountSID    string
	TwilioAuthToken     string
	TwilioWhatsAppFrom  string
	TwilioWebhookSecret string

	LanguageDetector string
	DetectorBaseURL  string

	RedisAddr      string
	RedisPassword  string
	HistoryEnabled bool
	HistoryLimit   int

	CheckinHour     int
	CheckinDisabled bool

	BreakerThreshold int
	BreakerCooldown  time.Duration
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		GroqAPIKey:      getEnv("GROQ_API_KEY", ""),
		GroqBaseURL:     getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModel:       getEnv("GROQ_MODEL", "llama3-70b-8192"),
		UpstreamTimeout: getEnvAsDuration("UPSTREAM_TIMEOUT", 30*time.Second),

		TwilioAccountSID:    getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:     getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioWhatsAppFrom:  getEnv("TWILIO_WHATSAPP_FROM", "+14155238886"),
		TwilioWebhookSecret: getEnv("TWILIO_WEBHOOK_SECRET", ""),

		LanguageDetector: strings.ToLower(strings.TrimSpace(getEnv("LANGUAGE_DETECTOR", DetectorHeuristic))),
		DetectorBaseURL:  getEnv("DETECTOR_BASE_URL", ""),

		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		HistoryEnabled: getEnvAsBool("HISTORY_ENABLED", false),
		HistoryLimit:   getEnvAsInt("HISTORY_LIMIT", 10),

		CheckinHour:     getEnvAsInt("CHECKIN_HOUR", 9),
		CheckinDisabled: getEnvAsBool("CHECKIN_DISABLED", false),

		BreakerThreshold: getEnvAsInt("BREAKER_THRESHOLD", 5),
		BreakerCooldown:  getEnvAsDuration("BREAKER_COOLDOWN", 30*time.Second),
	}
}

// Validate reports missing required settings. Absence of any of these is a
// startup error, not something to discover on the first request.
func (c *Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.GroqAPIKey == "" {
		missing = append(missing, "GROQ_API_KEY")
	}
	if c.TwilioAccountSID == "" {
		missing = append(missing, "TWILIO_ACCOUNT_SID")
	}
	if c.TwilioAuthToken == "" {
		missing = append(missing, "TWILIO_AUTH_TOKEN")
	}
	if c.TwilioWhatsAppFrom == "" {
		missing = append(missing, "TWILIO_WHATSAPP_FROM")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if c.LanguageDetector == DetectorRemote && c.DetectorBaseURL == "" {
		return fmt.Errorf("config: LANGUAGE_DETECTOR=remote requires DETECTOR_BASE_URL")
	}
	if c.CheckinHour < 0 || c.CheckinHour > 23 {
		return fmt.Errorf("config: CHECKIN_HOUR must be between 0 and 23, got %d", c.CheckinHour)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value.
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
