// Package payout implements the simulated payout channels: transaction
// records, per-method time-driven state machines, and the orchestrator
// that fronts them.
//
// Nothing here moves real money. A transaction's status is a pure
// function of elapsed wall-clock time since initiation, which makes the
// machines safe to poll from a dashboard loop without bookkeeping.
package payout

import "time"

// Method is a channel for delivering emergency funds.
type Method string

const (
	MethodCrypto Method = "crypto_wallet"
	MethodWire   Method = "wire_transfer"
	MethodCash   Method = "cash_pickup"
	MethodMobile Method = "mobile_money"
)

// AllMethods lists every supported payout method in canonical order.
func AllMethods() []Method {
	return []Method{MethodCrypto, MethodWire, MethodCash, MethodMobile}
}

// IsValid reports whether m is a known payout method.
func (m Method) IsValid() bool {
	switch m {
	case MethodCrypto, MethodWire, MethodCash, MethodMobile:
		return true
	}
	return false
}

// Traits are a method's static fitness scores, each 1-10.
type Traits struct {
	Speed       int `json:"speed"`
	Reliability int `json:"reliability"`
	Cost        int `json:"cost"`
	Privacy     int `json:"privacy"`
}

// methodTraits is the single canonical trait table. Scoring, display,
// and analytics all read from here so the numbers cannot drift apart.
var methodTraits = map[Method]Traits{
	MethodCrypto: {Speed: 9, Reliability: 8, Cost: 7, Privacy: 10},
	MethodWire:   {Speed: 3, Reliability: 9, Cost: 5, Privacy: 6},
	MethodCash:   {Speed: 7, Reliability: 6, Cost: 4, Privacy: 8},
	MethodMobile: {Speed: 8, Reliability: 9, Cost: 9, Privacy: 7},
}

// defaultTraits is used for an unrecognized method so scoring still
// produces a middle-of-the-road result instead of panicking.
var defaultTraits = Traits{Speed: 5, Reliability: 5, Cost: 5, Privacy: 5}

// TraitsFor returns the static traits for a method.
func TraitsFor(m Method) Traits {
	if t, ok := methodTraits[m]; ok {
		return t
	}
	return defaultTraits
}

// thresholds are the fixed elapsed-time boundaries of a method's state
// machine, measured from initiation.
type thresholds struct {
	processing time.Duration // pending ends
	completed  time.Duration // processing ends
}

var methodThresholds = map[Method]thresholds{
	MethodCrypto: {processing: 2 * time.Minute, completed: 10 * time.Minute},
	MethodWire:   {processing: 1 * time.Hour, completed: 48 * time.Hour},
	MethodCash:   {processing: 30 * time.Minute, completed: 3 * time.Hour},
	MethodMobile: {processing: 5 * time.Minute, completed: 20 * time.Minute},
}

// estimatedArrival is the display ETA set once at initiation.
var estimatedArrival = map[Method]time.Duration{
	MethodCrypto: 15 * time.Minute,
	MethodWire:   48 * time.Hour,
	MethodCash:   4 * time.Hour,
	MethodMobile: 30 * time.Minute,
}

// MethodDetails is static display metadata for a payout method,
// independent of any live state.
type MethodDetails struct {
	Name                  string   `json:"name"`
	ETA                   string   `json:"eta"`
	Fee                   string   `json:"fee"`
	Network               string   `json:"network,omitempty"`
	Networks              []string `json:"networks,omitempty"`
	Partners              []string `json:"partners,omitempty"`
	Regions               []string `json:"regions,omitempty"`
	Limits                string   `json:"limits,omitempty"`
	Locations             string   `json:"locations,omitempty"`
	ConfirmationsRequired int      `json:"confirmationsRequired,omitempty"`
}

var methodDetails = map[Method]MethodDetails{
	MethodCrypto: {
		Name:                  "Crypto Wallet (USDC)",
		ETA:                   "15 minutes",
		Fee:                   "$2.50",
		Network:               "Ethereum",
		ConfirmationsRequired: 12,
	},
	MethodWire: {
		Name:     "Wire Transfer",
		ETA:      "2-3 business days",
		Fee:      "$25.00",
		Networks: []string{"SWIFT", "ACH"},
		Limits:   "$1,000 - $50,000",
	},
	MethodCash: {
		Name:      "Cash Pickup",
		ETA:       "2-4 hours",
		Fee:       "$10.00",
		Partners:  []string{"Western Union", "MoneyGram", "Ria"},
		Locations: "50,000+ worldwide",
	},
	MethodMobile: {
		Name:     "Mobile Money",
		ETA:      "30 minutes",
		Fee:      "$1.00",
		Networks: []string{"M-Pesa", "MTN Mobile Money"},
		Regions:  []string{"Africa", "Asia"},
	},
}

// DetailsFor returns the static display metadata for a method.
// The second return is false for an unknown method.
func DetailsFor(m Method) (MethodDetails, bool) {
	d, ok := methodDetails[m]
	return d, ok
}
