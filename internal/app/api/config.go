package api

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.temporal.io/sdk/client"

	ordertypes "github.com/Apurer/foxnuts-farm-api/internal/domains/orders/application/types"
	"github.com/Apurer/foxnuts-farm-api/internal/domains/users/adapters/token"
)

// localJWTSecret signs tokens only when ENVIRONMENT=local and JWT_SECRET is unset.
const localJWTSecret = "foxnuts-local-development-secret"

var ErrMissingJWTSecret = errors.New("JWT_SECRET is required outside ENVIRONMENT=local")

// Config carries environment-driven settings for the API and worker processes.
type Config struct {
	Port                string
	Environment         string
	PostgresDSN         string
	AutoMigrate         bool
	TemporalAddress     string
	TemporalNamespace   string
	TemporalDisabled    bool
	JWTSecret           string
	JWTTTL              time.Duration
	OrderPricePolicy    ordertypes.PricePolicy
	OrderStatusPolicy   ordertypes.StatusPolicy
	DefaultShippingCost *decimal.Decimal
	GinMode             string
}

// LoadConfig reads a .env file when present, then environment variables,
// applies defaults, and validates the result.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		Environment:       envDefault("ENVIRONMENT", "local"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		AutoMigrate:       !isFalsy(os.Getenv("AUTO_MIGRATE")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		JWTSecret:         strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTTTL:            token.DefaultTTL,
		OrderPricePolicy:  ordertypes.PriceFromRequest,
		OrderStatusPolicy: ordertypes.StatusPermissive,
		GinMode:           envDefault("GIN_MODE", gin.ReleaseMode),
	}
	if cfg.JWTSecret == "" {
		if cfg.Environment != "local" {
			return Config{}, ErrMissingJWTSecret
		}
		cfg.JWTSecret = localJWTSecret
	}
	if raw := strings.TrimSpace(os.Getenv("JWT_TTL_HOURS")); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return Config{}, fmt.Errorf("JWT_TTL_HOURS must be a positive integer")
		}
		cfg.JWTTTL = time.Duration(hours) * time.Hour
	}
	switch raw := ordertypes.PricePolicy(strings.ToLower(envDefault("ORDER_PRICE_POLICY", string(cfg.OrderPricePolicy)))); raw {
	case ordertypes.PriceFromRequest, ordertypes.PriceFromCatalog:
		cfg.OrderPricePolicy = raw
	default:
		return Config{}, fmt.Errorf("ORDER_PRICE_POLICY must be %q or %q", ordertypes.PriceFromRequest, ordertypes.PriceFromCatalog)
	}
	switch raw := ordertypes.StatusPolicy(strings.ToLower(envDefault("ORDER_ADMIN_STATUS_POLICY", string(cfg.OrderStatusPolicy)))); raw {
	case ordertypes.StatusPermissive, ordertypes.StatusStrict:
		cfg.OrderStatusPolicy = raw
	default:
		return Config{}, fmt.Errorf("ORDER_ADMIN_STATUS_POLICY must be %q or %q", ordertypes.StatusPermissive, ordertypes.StatusStrict)
	}
	if raw := strings.TrimSpace(os.Getenv("DEFAULT_SHIPPING_COST")); raw != "" {
		cost, err := decimal.NewFromString(raw)
		if err != nil || cost.IsNegative() {
			return Config{}, fmt.Errorf("DEFAULT_SHIPPING_COST must be a non-negative number")
		}
		cfg.DefaultShippingCost = &cost
	}
	switch cfg.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return Config{}, fmt.Errorf("GIN_MODE must be one of debug, release, test")
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}

func isFalsy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "0" || value == "false" || value == "no"
}
