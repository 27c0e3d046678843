package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/revaspay/freemopay/internal/secrets"
)

// Config holds all configuration for the application
type Config struct {
	FreemoPay   FreemoPayConfig
	Log         LogConfig
	Environment string

	secretSource    secrets.Source
	secretsInitOnce sync.Once
}

// FreemoPayConfig holds FreemoPay API credentials
type FreemoPayConfig struct {
	User        string
	Password    string
	URL         string
	AccessToken string // optional, pre-generated
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string
}

// LoadConfig creates a new Config instance with values from environment variables.
// It loads a .env file first when present; credentials are then looked up in
// Doppler with the environment as fallback.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return loadConfig(secrets.NewDopplerClient(
		getEnv("DOPPLER_PROJECT", "freemopay"),
		getEnv("DOPPLER_CONFIG", "dev"),
	))
}

func loadConfig(source secrets.Source) *Config {
	config := &Config{
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Environment:  getEnv("ENVIRONMENT", "development"),
		secretSource: source,
	}

	config.initSecrets()

	return config
}

// initSecrets resolves the FreemoPay credentials once
func (c *Config) initSecrets() {
	c.secretsInitOnce.Do(func() {
		if c.secretSource == nil {
			c.FreemoPay.User = getEnv("FREEMOPAY_USER", "")
			c.FreemoPay.Password = getEnv("FREEMOPAY_PASSWORD", "")
			c.FreemoPay.URL = getEnv("FREEMOPAY_URL", "")
			c.FreemoPay.AccessToken = getEnv("FREEMOPAY_TOKEN", "")
			return
		}

		c.FreemoPay.User = c.secretSource.GetSecretWithFallback("FREEMOPAY_USER", getEnv("FREEMOPAY_USER", ""))
		c.FreemoPay.Password = c.secretSource.GetSecretWithFallback("FREEMOPAY_PASSWORD", getEnv("FREEMOPAY_PASSWORD", ""))
		c.FreemoPay.URL = c.secretSource.GetSecretWithFallback("FREEMOPAY_URL", getEnv("FREEMOPAY_URL", ""))
		c.FreemoPay.AccessToken = c.secretSource.GetSecretWithFallback("FREEMOPAY_TOKEN", getEnv("FREEMOPAY_TOKEN", ""))
	})
}

// Validate reports the required variables that resolved to empty values
func (c *Config) Validate() error {
	var missing []string
	if c.FreemoPay.User == "" {
		missing = append(missing, "FREEMOPAY_USER")
	}
	if c.FreemoPay.Password == "" {
		missing = append(missing, "FREEMOPAY_PASSWORD")
	}
	if c.FreemoPay.URL == "" {
		missing = append(missing, "FREEMOPAY_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// IsDevelopment reports whether the application runs in development mode
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
