package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Configuration errors surfaced at startup.
var (
	ErrMissingSender = errors.New("sender email configuration is missing (GMAIL_SENDER / GMAIL_PASSWORD)")
	ErrNoRecipients  = errors.New("no recipient emails configured (RECIPIENT_EMAILS)")
)

// Config holds all configuration for the application
type Config struct {
	// Sources
	NewsAPIKey string `json:"-"`
	FeedURL    string `json:"feed_url" validate:"required,url"`

	// Image generation
	OpenAIAPIKey string `json:"-"`

	// Delivery
	SenderEmail    string        `json:"sender_email" validate:"required,email"`
	SenderPassword string        `json:"-" validate:"required"`
	Recipients     []string      `json:"recipients" validate:"required,min=1,dive,email"`
	SMTPHost       string        `json:"smtp_host" validate:"required,hostname_rfc1123"`
	SMTPPort       int           `json:"smtp_port" validate:"required,min=1,max=65535"`
	SMTPTimeout    time.Duration `json:"smtp_timeout"`

	// Outbound HTTP
	HTTPTimeout time.Duration `json:"http_timeout"`
	HTTPRetries int           `json:"http_retries" validate:"min=0,max=5"`

	// Output
	OutputDir string `json:"output_dir" validate:"required"`

	// Delivery ledger
	RedisURL  string        `json:"redis_url"`
	LedgerTTL time.Duration `json:"ledger_ttl"`

	// CloudFlare R2 archive
	R2Endpoint  string `json:"r2_endpoint"`
	R2AccessKey string `json:"-"`
	R2SecretKey string `json:"-"`
	R2Bucket    string `json:"r2_bucket"`

	// HTTP trigger service
	Port               string        `json:"port"`
	ServerReadTimeout  time.Duration `json:"server_read_timeout"`
	ServerWriteTimeout time.Duration `json:"server_write_timeout"`
	AdminAPIKey        string        `json:"-"`
	Schedule           string        `json:"schedule"`
	ShutdownTimeout    time.Duration `json:"shutdown_timeout"`

	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`
}

// Load reads the configuration from the environment (and a .env file when
// present) and validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := &Config{
		NewsAPIKey: getEnv("NEWS_API_KEY", ""),
		FeedURL:    getEnv("FEED_URL", "https://timesofindia.indiatimes.com/rssfeeds/66949542.cms"),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),

		SenderEmail:    strings.TrimSpace(getEnv("GMAIL_SENDER", "")),
		SenderPassword: getEnv("GMAIL_PASSWORD", ""),
		Recipients:     SplitRecipients(getEnv("RECIPIENT_EMAILS", "")),
		SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       getEnvAsInt("SMTP_PORT", 587),
		SMTPTimeout:    getEnvAsDuration("SMTP_TIMEOUT", 30*time.Second),

		HTTPTimeout: getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),
		HTTPRetries: getEnvAsInt("HTTP_RETRIES", 2),

		OutputDir: getEnv("OUTPUT_DIR", "."),

		RedisURL:  getEnv("REDIS_URL", ""),
		LedgerTTL: getEnvAsDuration("LEDGER_TTL", 36*time.Hour),

		R2Endpoint:  getEnv("R2_ENDPOINT", ""),
		R2AccessKey: getEnv("R2_ACCESS_KEY", ""),
		R2SecretKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2Bucket:    getEnv("R2_BUCKET", "newsletter"),

		Port:               getEnv("PORT", "8080"),
		ServerReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
		ServerWriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		AdminAPIKey:        getEnv("ADMIN_API_KEY", ""),
		Schedule:           getEnv("SCHEDULE", ""),
		ShutdownTimeout:    getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration. Missing sender credentials and an empty
// recipient list map to their own sentinel errors.
func (c *Config) Validate() error {
	if c.SenderEmail == "" || c.SenderPassword == "" {
		return ErrMissingSender
	}
	if len(c.Recipients) == 0 {
		return ErrNoRecipients
	}

	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid fields: %s", strings.Join(fields, ", "))
		}
		return err
	}

	return nil
}

// ArchiveEnabled reports whether R2 credentials are present.
func (c *Config) ArchiveEnabled() bool {
	return c.R2Endpoint != "" && c.R2AccessKey != "" && c.R2SecretKey != ""
}

// SplitRecipients parses a comma-separated recipient list, dropping blanks.
func SplitRecipients(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if email := strings.TrimSpace(part); email != "" {
			out = append(out, email)
		}
	}
	return out
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %d", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
