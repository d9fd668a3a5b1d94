package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper to set env vars and clean up after
func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old := os.Getenv(key)
	os.Setenv(key, value)
	t.Cleanup(func() {
		if old == "" {
			os.Unsetenv(key)
		} else {
			os.Setenv(key, old)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultGDELTBaseURL, cfg.GDELTBaseURL)
	assert.Equal(t, DefaultUSGSFeedURL, cfg.USGSFeedURL)
	assert.Equal(t, DefaultAlertRadius, cfg.AlertRadiusKM)
	assert.Equal(t, DefaultCurrency, cfg.DefaultCurrency)
	assert.Equal(t, DefaultFeedTimeout, cfg.FeedTimeout)
	assert.False(t, cfg.FeedsDisabled)
}

func TestLoad_Overrides(t *testing.T) {
	setEnv(t, "PORT", "9090")
	setEnv(t, "ALERT_RADIUS_KM", "250")
	setEnv(t, "FEED_TIMEOUT", "5s")
	setEnv(t, "FEEDS_DISABLED", "true")
	setEnv(t, "DEFAULT_CURRENCY", "EUR")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 250.0, cfg.AlertRadiusKM)
	assert.Equal(t, 5*time.Second, cfg.FeedTimeout)
	assert.True(t, cfg.FeedsDisabled)
	assert.Equal(t, "EUR", cfg.DefaultCurrency)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	setEnv(t, "ALERT_RADIUS_KM", "not-a-number")
	setEnv(t, "FEED_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultAlertRadius, cfg.AlertRadiusKM)
	assert.Equal(t, DefaultFeedTimeout, cfg.FeedTimeout)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name: "valid config",
			config: Config{
				AlertRadiusKM: 100,
				MinPayout:     10,
				MaxPayout:     1000,
				FeedTimeout:   time.Second,
			},
			wantErr: "",
		},
		{
			name: "non-positive radius",
			config: Config{
				AlertRadiusKM: 0,
				MinPayout:     10,
				MaxPayout:     1000,
				FeedTimeout:   time.Second,
			},
			wantErr: "ALERT_RADIUS_KM",
		},
		{
			name: "max below min",
			config: Config{
				AlertRadiusKM: 100,
				MinPayout:     100,
				MaxPayout:     50,
				FeedTimeout:   time.Second,
			},
			wantErr: "MAX_PAYOUT",
		},
		{
			name: "zero feed timeout",
			config: Config{
				AlertRadiusKM: 100,
				MinPayout:     10,
				MaxPayout:     1000,
			},
			wantErr: "FEED_TIMEOUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_EnvHelpers(t *testing.T) {
	cfg := Config{Env: "development"}
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg.Env = "production"
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
}
