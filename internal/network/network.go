// Package network simulates the availability of real-world payment
// rails as a function of local risk level.
package network

import (
	"math/rand"

	"github.com/ankitlade12/SafePassage/internal/payout"
)

// Status is the simulated availability of a payment channel.
type Status string

const (
	StatusOnline     Status = "ONLINE"
	StatusCongested  Status = "CONGESTED"
	StatusOffline    Status = "OFFLINE"
	StatusRestricted Status = "RESTRICTED" // e.g. capital controls
)

// rank orders statuses from healthy to unusable, for worst-wins merges.
func (s Status) rank() int {
	switch s {
	case StatusOnline:
		return 0
	case StatusCongested:
		return 1
	case StatusRestricted:
		return 2
	case StatusOffline:
		return 3
	}
	return 0
}

// Worse returns the more degraded of two statuses.
func Worse(a, b Status) Status {
	if b.rank() > a.rank() {
		return b
	}
	return a
}

// Condition is a point-in-time snapshot of a payment channel's health.
// Produced fresh on every evaluation and never cached: the simulator
// consults its random source, so two calls with the same inputs may
// disagree.
type Condition struct {
	Status        Status  `json:"status"`
	LatencyMS     int     `json:"latencyMs"`
	FeeMultiplier float64 `json:"feeMultiplier"`
	SuccessRate   float64 `json:"successRate"`
	Message       string  `json:"message"`
}

// Simulator produces network conditions from a payout method and a risk
// level. The random source is injectable so tests can force a branch.
type Simulator struct {
	rng func() float64
}

// NewSimulator creates a simulator backed by math/rand.
func NewSimulator() *Simulator {
	return &Simulator{rng: rand.Float64}
}

// NewSimulatorWithRNG creates a simulator with a caller-supplied random
// source returning values in [0, 1).
func NewSimulatorWithRNG(rng func() float64) *Simulator {
	return &Simulator{rng: rng}
}

// Condition simulates the current state of a payment channel.
// High risk (8+) brings a strong chance of banking failures and capital
// controls on traditional rails; moderate risk (5+) occasionally limits
// cash agents. Crypto degrades to congestion rather than going offline.
func (s *Simulator) Condition(method payout.Method, riskLevel int) Condition {
	cond := Condition{
		Status:        StatusOnline,
		LatencyMS:     100,
		FeeMultiplier: 1.0,
		SuccessRate:   0.99,
		Message:       "Network optimal",
	}

	r := s.rng()

	switch {
	case riskLevel >= 8:
		switch method {
		case payout.MethodWire, payout.MethodMobile:
			if r < 0.7 {
				cond.Status = StatusOffline
				cond.SuccessRate = 0.0
				cond.Message = "Banks closed due to civil unrest"
			} else if r < 0.9 {
				cond.Status = StatusRestricted
				cond.FeeMultiplier = 2.0
				cond.Message = "Capital controls active - delays expected"
			}
		case payout.MethodCrypto:
			if r < 0.3 {
				cond.Status = StatusCongested
				cond.LatencyMS = 5000
				cond.FeeMultiplier = 3.0
				cond.Message = "Network congested - high gas fees"
			}
		}
	case riskLevel >= 5:
		if method == payout.MethodCash && r < 0.4 {
			cond.Status = StatusRestricted
			cond.Message = "Limited agent availability"
		}
	}

	return cond
}
