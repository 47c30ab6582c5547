package config

import (
	"testing"
	"time"

	"github.com/gget5897-gif/brainrot-bot/internal/platform/logger"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestConfig_MissingTokenIsFatal(t *testing.T) {
	_, err := fromViper(newViper(nil), logger.NewNop())
	require.ErrorIs(t, err, ErrMissingToken)
}

func TestConfig_Defaults(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"TELEGRAM_BOT_TOKEN": "123:abc",
		"ADMIN_IDS":          "10, 20,",
	}), logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []int64{10, 20}, cfg.AdminIDs)
	assert.Equal(t, 6, cfg.DailyListingLimit)
	assert.Equal(t, 72*time.Hour, cfg.Lifecycle.ListingTTL)
	assert.Equal(t, 72*time.Hour, cfg.Lifecycle.RenewalCooldown)
	assert.Equal(t, 6*time.Hour, cfg.Lifecycle.ExpiryWarningWindow)
	assert.Equal(t, time.Hour, cfg.Lifecycle.ExpiryCheckInterval)
	assert.Equal(t, 6*time.Hour, cfg.Lifecycle.RelevanceCheckInterval)
	assert.Equal(t, "sqlite://brainrot_shop.db", cfg.DatabaseURL)
	assert.False(t, cfg.SMTP.Enabled())
}

func TestConfig_InvalidAdminID(t *testing.T) {
	_, err := fromViper(newViper(map[string]any{
		"TELEGRAM_BOT_TOKEN": "123:abc",
		"ADMIN_IDS":          "10,bob",
	}), logger.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bob")
}

func TestConfig_NonPositiveLimitRejected(t *testing.T) {
	_, err := fromViper(newViper(map[string]any{
		"TELEGRAM_BOT_TOKEN":  "123:abc",
		"DAILY_LISTING_LIMIT": 0,
	}), logger.NewNop())
	require.Error(t, err)
}
