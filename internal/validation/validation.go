// Package validation provides input validation helpers for the Safe-Passage API.
package validation

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

// MaxRequestSize is the maximum request body size (1MB)
const MaxRequestSize = 1 << 20 // 1MB

// MaxStringLength is the maximum length for string fields
const MaxStringLength = 10000

// phoneRegex accepts international numbers with optional + prefix.
var phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// RequestSizeMiddleware limits request body size
func RequestSizeMiddleware(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}

// IsValidEthAddress checks if a string is a valid Ethereum address.
// Crypto payouts settle to an on-chain address, so recipients for that
// method must pass this check.
func IsValidEthAddress(addr string) bool {
	return common.IsHexAddress(addr)
}

// IsValidPhone checks if a string looks like an international phone number.
func IsValidPhone(s string) bool {
	return phoneRegex.MatchString(s)
}

// SanitizeString removes dangerous characters and limits length
func SanitizeString(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	s = strings.ReplaceAll(s, "\x00", "")
	return s
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return e[0].Field + ": " + e[0].Message
}

// Validate validates a request and returns errors
func Validate(validators ...func() *ValidationError) ValidationErrors {
	var errors ValidationErrors
	for _, v := range validators {
		if err := v(); err != nil {
			errors = append(errors, *err)
		}
	}
	return errors
}

// Required checks if a field is non-empty
func Required(field, value string) func() *ValidationError {
	return func() *ValidationError {
		if strings.TrimSpace(value) == "" {
			return &ValidationError{Field: field, Message: "is required"}
		}
		return nil
	}
}

// MaxLength checks if a field exceeds max length
func MaxLength(field, value string, max int) func() *ValidationError {
	return func() *ValidationError {
		if len(value) > max {
			return &ValidationError{Field: field, Message: "exceeds maximum length"}
		}
		return nil
	}
}

// ValidCoordinates checks latitude and longitude ranges.
func ValidCoordinates(field string, lat, lon float64) func() *ValidationError {
	return func() *ValidationError {
		if lat < -90 || lat > 90 {
			return &ValidationError{Field: field, Message: "latitude must be between -90 and 90"}
		}
		if lon < -180 || lon > 180 {
			return &ValidationError{Field: field, Message: "longitude must be between -180 and 180"}
		}
		return nil
	}
}

// PositiveAmount checks that an amount is greater than zero.
func PositiveAmount(field string, amount float64) func() *ValidationError {
	return func() *ValidationError {
		if amount <= 0 {
			return &ValidationError{Field: field, Message: "must be greater than zero"}
		}
		return nil
	}
}

// AmountInRange checks that an amount falls within the configured payout bounds.
func AmountInRange(field string, amount, min, max float64) func() *ValidationError {
	return func() *ValidationError {
		if amount < min || amount > max {
			return &ValidationError{
				Field:   field,
				Message: fmt.Sprintf("must be between %.2f and %.2f", min, max),
			}
		}
		return nil
	}
}

// OneOf checks that a value is one of the allowed set.
func OneOf(field, value string, allowed []string) func() *ValidationError {
	return func() *ValidationError {
		if value == "" {
			return nil // Use Required for required fields
		}
		for _, a := range allowed {
			if value == a {
				return nil
			}
		}
		return &ValidationError{
			Field:   field,
			Message: "must be one of: " + strings.Join(allowed, ", "),
		}
	}
}

// ValidCryptoRecipient checks that a recipient is a valid on-chain address.
func ValidCryptoRecipient(field, value string) func() *ValidationError {
	return func() *ValidationError {
		if value == "" {
			return nil
		}
		if !IsValidEthAddress(value) {
			return &ValidationError{Field: field, Message: "must be a valid Ethereum address (0x...)"}
		}
		return nil
	}
}
