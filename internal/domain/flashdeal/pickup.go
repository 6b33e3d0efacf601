package flashdeal

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// PickupAlphabet omits characters that are easy to misread (I, O, 0, 1)
const PickupAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// PickupCodeLength is the number of characters in a pickup code
const PickupCodeLength = 6

// NewPickupCode draws a pickup code from a cryptographically secure source
func NewPickupCode() (string, error) {
	limit := big.NewInt(int64(len(PickupAlphabet)))
	code := make([]byte, PickupCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate pickup code: %w", err)
		}
		code[i] = PickupAlphabet[n.Int64()]
	}
	return string(code), nil
}

// ValidPickupCode reports whether code is well formed
func ValidPickupCode(code string) bool {
	if len(code) != PickupCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(PickupAlphabet, code[i]) < 0 {
			return false
		}
	}
	return true
}
