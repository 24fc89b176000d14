package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]interface{}) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViperDefaults(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]interface{}{"JWT_SECRET": "s3cret"}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 15*time.Second, cfg.App.ReadTimeout)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshExpiry)
	assert.Equal(t, "realtime:changes", cfg.Realtime.Channel)
	assert.Equal(t, 64, cfg.Realtime.SubscriberBuffer)
	assert.Empty(t, cfg.Realtime.AllowedOrigins)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "disable", cfg.DB.SSLMode)
}

func TestFromViperOverrides(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]interface{}{
		"JWT_SECRET":               "s3cret",
		"JWT_ACCESS_EXPIRY":        "1h",
		"APP_TIMEZONE":             "UTC",
		"REALTIME_ALLOWED_ORIGINS": "https://app.example.ci, ,https://agent.example.ci",
		"DB_AUTO_MIGRATE":          false,
	}))
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.JWT.AccessExpiry)
	assert.Equal(t, "UTC", cfg.App.Location.String())
	assert.Equal(t, "UTC", cfg.DB.TimeZoneParam)
	assert.Equal(t, []string{"https://app.example.ci", "https://agent.example.ci"}, cfg.Realtime.AllowedOrigins)
	assert.False(t, cfg.DB.AutoMigrate)
}

func TestFromViperRequiresSecret(t *testing.T) {
	_, err := fromViper(newViper(nil))
	assert.Error(t, err)
}
