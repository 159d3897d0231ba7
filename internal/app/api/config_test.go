package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ordertypes "github.com/Apurer/foxnuts-farm-api/internal/domains/orders/application/types"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENVIRONMENT", "POSTGRES_DSN", "AUTO_MIGRATE", "TEMPORAL_ADDRESS", "TEMPORAL_NAMESPACE",
		"TEMPORAL_DISABLED", "JWT_SECRET", "JWT_TTL_HOURS", "ORDER_PRICE_POLICY",
		"ORDER_ADMIN_STATUS_POLICY", "DEFAULT_SHIPPING_COST", "GIN_MODE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_LocalDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "local", cfg.Environment)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, localJWTSecret, cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, ordertypes.PriceFromRequest, cfg.OrderPricePolicy)
	assert.Equal(t, ordertypes.StatusPermissive, cfg.OrderStatusPolicy)
	assert.Nil(t, cfg.DefaultShippingCost)
	assert.Equal(t, "release", cfg.GinMode)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL_HOURS", "2")
	t.Setenv("ORDER_PRICE_POLICY", "CATALOG")
	t.Setenv("ORDER_ADMIN_STATUS_POLICY", "strict")
	t.Setenv("DEFAULT_SHIPPING_COST", "4.50")
	t.Setenv("TEMPORAL_DISABLED", "true")
	t.Setenv("AUTO_MIGRATE", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, ordertypes.PriceFromCatalog, cfg.OrderPricePolicy)
	assert.Equal(t, ordertypes.StatusStrict, cfg.OrderStatusPolicy)
	require.NotNil(t, cfg.DefaultShippingCost)
	assert.Equal(t, "4.5", cfg.DefaultShippingCost.String())
	assert.True(t, cfg.TemporalDisabled)
	assert.False(t, cfg.AutoMigrate)
}

func TestLoadConfig_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"secret outside local": {"ENVIRONMENT": "production"},
		"ttl":                  {"JWT_TTL_HOURS": "zero"},
		"price policy":         {"ORDER_PRICE_POLICY": "auction"},
		"status policy":        {"ORDER_ADMIN_STATUS_POLICY": "lenient"},
		"shipping":             {"DEFAULT_SHIPPING_COST": "-1"},
		"gin mode":             {"GIN_MODE": "loud"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
