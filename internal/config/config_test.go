package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "PAYMENT_TIMEOUT", "SETTINGS_CACHE_TTL", "DEFAULT_LOCALE", "JWT_SECRET"} {
		t.Setenv(key, "")
	}
	t.Setenv("JWT_REFRESH_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.PaymentTimeout)
	assert.Equal(t, time.Minute, cfg.SettingsCacheTTL)
	assert.Equal(t, cfg.JWTSecret, cfg.JWTRefreshSecret)
	assert.Equal(t, "en", cfg.DefaultLocale)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PAYMENT_TIMEOUT", "5s")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("RATE_LIMIT_BURST", "2")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.PaymentTimeout)
	assert.Equal(t, 0.5, cfg.RateLimitRPS)
	assert.Equal(t, 2, cfg.RateLimitBurst)
	assert.Equal(t, "refresh", cfg.JWTRefreshSecret)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"PAYMENT_TIMEOUT", "soon"},
		{"PAYMENT_TIMEOUT", "-1s"},
		{"SETTINGS_CACHE_TTL", "forever"},
		{"RATE_LIMIT_RPS", "fast"},
		{"RATE_LIMIT_BURST", "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
