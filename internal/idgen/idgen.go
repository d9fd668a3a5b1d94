// Package idgen provides cryptographically random ID generation.
package idgen

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// New generates a UUID-like random ID (32 hex chars with dashes).
// Format: xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx
func New() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:])
}

// WithPrefix generates a random ID with a prefix (e.g. "alert_", "code_").
// Result is prefix + 24 hex chars (12 random bytes).
func WithPrefix(prefix string) string {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return prefix + hex.EncodeToString(b)
}

// Hex generates a random hex string of the given byte length.
func Hex(numBytes int) string {
	b := make([]byte, numBytes)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// Digits generates a random numeric string of exactly n digits.
// The first digit is never zero, so the result keeps its full width
// when parsed as a number (wire references, MTCNs).
func Digits(n int) string {
	if n <= 0 {
		return ""
	}
	out := make([]byte, n)
	out[0] = '1' + randByte(9)
	for i := 1; i < n; i++ {
		out[i] = '0' + randByte(10)
	}
	return string(out)
}

func randByte(max int64) byte {
	v, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return byte(v.Int64())
}
