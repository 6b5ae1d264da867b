package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("BCRYPT_COST", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "Production")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("JWT_SECRET", "super-secret")
	t.Setenv("ENCRYPTION_KEY", "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY=")
	t.Setenv("GST_API_BASE_URL", "https://gst.example.com/")
	t.Setenv("BCRYPT_COST", "12")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "9000", cfg.AppPort)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, "https://gst.example.com", cfg.GSTAPIBaseURL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"development with defaults", Config{AppEnv: "development", AppPort: "8080", BcryptCost: 10}, false},
		{"missing port", Config{AppEnv: "development", BcryptCost: 10}, true},
		{"bcrypt cost too low", Config{AppPort: "8080", BcryptCost: 2}, true},
		{"production without secret", Config{AppEnv: "production", AppPort: "8080", BcryptCost: 10, EncryptionKey: "k"}, true},
		{"production with default secret", Config{AppEnv: "production", AppPort: "8080", BcryptCost: 10, JWTSecret: "dev-secret-change-me", EncryptionKey: "k"}, true},
		{"production without encryption key", Config{AppEnv: "production", AppPort: "8080", BcryptCost: 10, JWTSecret: "s"}, true},
		{"production complete", Config{AppEnv: "production", AppPort: "8080", BcryptCost: 10, JWTSecret: "s", EncryptionKey: "k"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTwilioConfigured(t *testing.T) {
	cfg := Config{TwilioAccountSID: "AC1", TwilioAuthToken: "tok"}
	assert.False(t, cfg.TwilioConfigured())

	cfg.TwilioPhoneNumber = "+15550001111"
	assert.True(t, cfg.TwilioConfigured())
}
