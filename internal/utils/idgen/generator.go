package idgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateSecureID returns an identifier of the form "<prefix>_<random>".
// The random part is drawn from crypto/rand over a URL-safe alphabet.
func GenerateSecureID(prefix string, length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("id length must be positive, got %d", length)
	}

	buf := make([]byte, length)
	max := big.NewInt(int64(len(idAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate secure id: %w", err)
		}
		buf[i] = idAlphabet[n.Int64()]
	}

	return fmt.Sprintf("%s_%s", prefix, string(buf)), nil
}

// MustGenerateSecureID is GenerateSecureID for call sites where the only
// failure mode is an exhausted entropy source.
func MustGenerateSecureID(prefix string, length int) string {
	id, err := GenerateSecureID(prefix, length)
	if err != nil {
		panic(err)
	}
	return id
}

// OrderID returns a timestamped order identifier like "ORD-1717171717000".
func OrderID() string {
	return fmt.Sprintf("ORD-%d", time.Now().UnixMilli())
}
