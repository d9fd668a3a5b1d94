// Package currency provides multi-currency display conversion.
//
// Rates are a static snapshot pivoted on USD. This is presentation-grade
// conversion for a simulated product, not a market data feed.
package currency

import (
	"errors"
	"math"
)

var ErrUnknownCurrency = errors.New("unknown currency code")

// Rates maps ISO 4217 codes to their value per 1 USD.
var Rates = map[string]float64{
	"USD": 1.0,
	"EUR": 0.92,
	"GBP": 0.79,
	"INR": 83.12,
	"JPY": 149.50,
	"CAD": 1.36,
	"AUD": 1.52,
	"CHF": 0.88,
}

// IsSupported reports whether the currency code has a known rate.
func IsSupported(code string) bool {
	_, ok := Rates[code]
	return ok
}

// Codes returns the supported currency codes in stable order.
func Codes() []string {
	return []string{"USD", "EUR", "GBP", "INR", "JPY", "CAD", "AUD", "CHF"}
}

// Convert converts an amount between two supported currencies,
// pivoting through USD and rounding to 2 decimals.
func Convert(amount float64, from, to string) (float64, error) {
	fromRate, ok := Rates[from]
	if !ok {
		return 0, ErrUnknownCurrency
	}
	toRate, ok := Rates[to]
	if !ok {
		return 0, ErrUnknownCurrency
	}
	if from == to {
		return amount, nil
	}

	usd := amount / fromRate
	converted := usd * toRate
	return math.Round(converted*100) / 100, nil
}
