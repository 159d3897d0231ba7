package domain

import (
	"crypto/rand"
	"math/big"
	"time"
)

const orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewOrderNumber returns FN-YYYYMMDD-XXXXXX using the UTC date of at.
// Collisions are not retried.
func NewOrderNumber(at time.Time) (string, error) {
	suffix := make([]byte, 6)
	max := big.NewInt(int64(len(orderNumberAlphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		suffix[i] = orderNumberAlphabet[n.Int64()]
	}
	return "FN-" + at.UTC().Format("20060102") + "-" + string(suffix), nil
}
