// Package httpx holds small gin helpers shared by the context handlers.
package httpx

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Apurer/foxnuts-farm-api/internal/shared/errkind"
)

// QueryInt reads an integer query parameter, returning fallback when absent.
func QueryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errkind.Invalid(fmt.Errorf("%s must be an integer", key))
	}
	return v, nil
}

// QueryDecimal reads an optional decimal query parameter.
func QueryDecimal(c *gin.Context, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, errkind.Invalid(fmt.Errorf("%s must be a number", key))
	}
	return &v, nil
}

// QueryList splits a comma separated query parameter, also accepting repeated keys.
func QueryList(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Money renders a decimal amount as a JSON number with two decimals.
func Money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// OptionalMoney renders nil as JSON null.
func OptionalMoney(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	v := Money(*d)
	return &v
}

// Timestamp formats t as RFC 3339 in UTC.
func Timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// OptionalTimestamp renders nil or zero times as JSON null.
func OptionalTimestamp(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	v := Timestamp(*t)
	return &v
}
