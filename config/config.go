package config

import (
	"fmt"
	"strings"

	"marketing-crm/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Development fallbacks; Validate rejects them in production.
const (
	devJWTSecret     = "dev-secret-change-me"
	devEncryptionKey = "dev-encryption-key-change-me"
)

// Config holds every environment-provided setting of the service.
type Config struct {
	AppEnv      string
	AppHost     string
	AppPort     string
	FrontendURL string

	DBHost     string
	DBPort     string
	DBDatabase string
	DBUsername string
	DBPassword string
	DBSSLMode  string

	JWTSecret     string
	EncryptionKey string
	BcryptCost    int

	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string

	GSTAPIKey     string
	GSTAPIBaseURL string

	RedisURL string

	AdminEmail    string
	AdminPassword string
}

// Load reads .env (if present) and the process environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Warning("No .env file loaded, using process environment")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		AppEnv:      strings.ToLower(v.GetString("APP_ENV")),
		AppHost:     v.GetString("APP_HOST"),
		AppPort:     v.GetString("APP_PORT"),
		FrontendURL: v.GetString("FRONTEND_URL"),

		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBDatabase: v.GetString("DB_DATABASE"),
		DBUsername: v.GetString("DB_USERNAME"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBSSLMode:  v.GetString("DB_SSLMODE"),

		JWTSecret:     v.GetString("JWT_SECRET"),
		EncryptionKey: v.GetString("ENCRYPTION_KEY"),
		BcryptCost:    v.GetInt("BCRYPT_COST"),

		TwilioAccountSID:  v.GetString("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:   v.GetString("TWILIO_AUTH_TOKEN"),
		TwilioPhoneNumber: v.GetString("TWILIO_PHONE_NUMBER"),

		GSTAPIKey:     v.GetString("GST_API_KEY"),
		GSTAPIBaseURL: strings.TrimRight(v.GetString("GST_API_BASE_URL"), "/"),

		RedisURL: v.GetString("REDIS_URL"),

		AdminEmail:    v.GetString("ADMIN_EMAIL"),
		AdminPassword: v.GetString("ADMIN_PASSWORD"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_HOST", "0.0.0.0")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_DATABASE", "marketing_crm")
	v.SetDefault("DB_USERNAME", "postgres")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("GST_API_BASE_URL", "https://sheet.gstincheck.co.in/check")
	v.SetDefault("JWT_SECRET", devJWTSecret)
	v.SetDefault("ENCRYPTION_KEY", devEncryptionKey)
}

// IsProduction reports whether provider failures must surface to callers
// instead of falling back to development behaviour.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate checks settings that must be present for the configured mode.
func (c *Config) Validate() error {
	if c.AppPort == "" {
		return fmt.Errorf("APP_PORT is required")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	if c.IsProduction() {
		if c.JWTSecret == "" || c.JWTSecret == devJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.EncryptionKey == "" || c.EncryptionKey == devEncryptionKey {
			return fmt.Errorf("ENCRYPTION_KEY must be set in production")
		}
	}
	return nil
}

// DSN builds the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUsername, c.DBPassword, c.DBDatabase, c.DBSSLMode)
}

// TwilioConfigured reports whether SMS delivery credentials are present.
func (c *Config) TwilioConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioPhoneNumber != ""
}
