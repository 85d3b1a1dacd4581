package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	// MinSessionSecretLength is the minimum required length for session secret in production
	MinSessionSecretLength = 32
)

type Config struct {
	ServerPort  string `env:"SERVER_PORT" envDefault:"8080"`
	DBPath      string `env:"DB_PATH" envDefault:"db/app.db"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	// Email (Resend)
	ResendAPIKey  string `env:"RESEND_API_KEY"`
	EmailFrom     string `env:"EMAIL_FROM" envDefault:"noreply@lexforge.app"`
	EmailFromName string `env:"EMAIL_FROM_NAME" envDefault:"LexForge"`
	EmailTestMode bool   `env:"EMAIL_TEST_MODE" envDefault:"true"` // When true, emails are logged to console instead of sent
	// Google sign-in
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	// Optional session cache
	RedisURL string `env:"REDIS_URL"`
	// Other
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	AppURL         string   `env:"APP_URL" envDefault:"http://localhost:8080"`
	SessionSecret  string   `env:"SESSION_SECRET"`
}

// Load reads the .env file (if any) and the process environment into a Config.
func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := Parse()
	if err != nil {
		log.Fatalf("[CRITICAL] Invalid configuration: %v", err)
	}

	// Validate session secret - this will fatal in production if invalid
	ValidateSessionSecret(cfg.SessionSecret, cfg.Environment)

	// In development, generate a secure secret if none provided
	if cfg.SessionSecret == "" && !cfg.IsProduction() {
		cfg.SessionSecret = GenerateSecureSecret()
		log.Println("[INFO] Generated temporary session secret for development. Set SESSION_SECRET env var for persistence.")
	}

	return cfg
}

// Parse builds a Config from the current environment without side effects.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.AppURL = strings.TrimRight(strings.TrimSpace(cfg.AppURL), "/")
	return cfg, nil
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GoogleEnabled reports whether Google sign-in credentials are configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// GoogleRedirectURL is the OAuth callback registered with Google.
func (c *Config) GoogleRedirectURL() string {
	return c.AppURL + "/auth/google/callback"
}

// ValidateSessionSecret validates the session secret meets security requirements
// In production, it must be at least 32 bytes and not a known insecure default
func ValidateSessionSecret(secret string, environment string) error {
	// Known insecure defaults that must be rejected
	insecureDefaults := []string{
		"dev-secret-change-in-production",
		"change-me",
		"secret",
		"development",
		"test",
		"",
	}

	for _, insecure := range insecureDefaults {
		if strings.EqualFold(secret, insecure) {
			if environment == "production" {
				log.Fatal("[CRITICAL] SESSION_SECRET is set to an insecure default value. Generate a secure random secret with: openssl rand -base64 32")
			}
			log.Printf("[WARNING] SESSION_SECRET is set to an insecure default value. This is acceptable only in development.")
			return nil
		}
	}

	if environment == "production" {
		if len(secret) < MinSessionSecretLength {
			log.Fatalf("[CRITICAL] SESSION_SECRET must be at least %d characters in production (current: %d). Generate with: openssl rand -base64 32", MinSessionSecretLength, len(secret))
		}
	}

	return nil
}

// GenerateSecureSecret generates a cryptographically secure random secret
// This is used only for development when no secret is provided
func GenerateSecureSecret() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Printf("[WARNING] Failed to generate secure secret: %v", err)
		return ""
	}
	return base64.StdEncoding.EncodeToString(bytes)
}
