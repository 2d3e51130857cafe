package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
)

// GenerateNumericCode produces a random numeric string of the given length
// using a cryptographically secure source. Leading zeros are allowed, so the
// keyspace is exactly 10^length.
func GenerateNumericCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("code length must be positive, got %d", length)
	}
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte(n.Int64() + '0')
	}
	return string(digits), nil
}

// HashToken hashes a plain token or code with SHA-256 and returns the
// hex-encoded digest. Stored alongside credentials instead of the plain
// value.
func HashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
