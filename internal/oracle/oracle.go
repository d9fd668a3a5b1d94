// Package oracle ranks payout methods for a user's current situation.
//
// The oracle weighs each method's static traits against simulated
// network conditions. In a crisis (risk 7+) speed and reliability
// dominate and cost barely matters; in calm conditions cost carries
// the most weight.
package oracle

import (
	"fmt"
	"sort"

	"github.com/ankitlade12/SafePassage/internal/network"
	"github.com/ankitlade12/SafePassage/internal/payout"
)

// Badge strings awarded to recommendations.
const (
	BadgeInstant     = "⚡ Instant"
	BadgeLowFee      = "💰 Low Fee"
	BadgeRecommended = "🏆 Recommended"
	BadgeBestMatch   = "⭐ Best Match"
	BadgeUnavailable = "UNAVAILABLE"
)

// Recommendation is one ranked payout option. Immutable after
// construction except for the set-relative best-match badge appended to
// the winner.
type Recommendation struct {
	Method           payout.Method     `json:"method"`
	MatchScore       int               `json:"matchScore"` // 0-100
	NetworkCondition network.Condition `json:"networkCondition"`
	EstimatedTime    string            `json:"estimatedTime"`
	EstimatedFee     string            `json:"estimatedFee"`
	Badges           []string          `json:"badges"`
	Reason           string            `json:"reason"`
}

// weights control the trait mix in the match score.
type weights struct {
	speed       float64
	reliability float64
	cost        float64
}

var (
	crisisWeights = weights{speed: 0.50, reliability: 0.40, cost: 0.10}
	normalWeights = weights{speed: 0.30, reliability: 0.30, cost: 0.40}
)

// baseFee is the displayed flat fee before the condition multiplier.
const baseFee = 5.0

// Oracle scores and ranks payout methods.
type Oracle struct {
	sim *network.Simulator
}

// New creates an oracle backed by the given network simulator.
func New(sim *network.Simulator) *Oracle {
	return &Oracle{sim: sim}
}

// Recommendations ranks the available methods for the given risk level,
// best match first. Ties keep the input order, so rankings are stable
// when scores are equal.
func (o *Oracle) Recommendations(methods []payout.Method, riskLevel int) []Recommendation {
	w := normalWeights
	if riskLevel >= 7 {
		w = crisisWeights
	}

	recs := make([]Recommendation, 0, len(methods))
	for _, method := range methods {
		cond := o.sim.Condition(method, riskLevel)

		if cond.Status == network.StatusOffline {
			recs = append(recs, Recommendation{
				Method:           method,
				MatchScore:       0,
				NetworkCondition: cond,
				EstimatedTime:    "N/A",
				EstimatedFee:     "N/A",
				Badges:           []string{BadgeUnavailable},
				Reason:           fmt.Sprintf("Unavailable: %s", cond.Message),
			})
			continue
		}

		traits := payout.TraitsFor(method)

		// Congestion primarily hurts perceived speed.
		adjSpeed := float64(traits.Speed)
		if cond.Status == network.StatusCongested {
			adjSpeed *= 0.5
		}

		rawScore := (adjSpeed*w.speed +
			float64(traits.Reliability)*w.reliability +
			float64(traits.Cost)*w.cost) * 10

		// Flat penalty for restricted rails, distinct from the speed
		// degradation applied for congestion.
		if cond.Status == network.StatusRestricted {
			rawScore *= 0.7
		}

		score := int(rawScore)
		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}

		var badges []string
		if cond.Status == network.StatusOnline {
			if method == payout.MethodCrypto {
				badges = append(badges, BadgeInstant)
			}
			if method == payout.MethodMobile {
				badges = append(badges, BadgeLowFee)
			}
		}
		if score > 90 {
			badges = append(badges, BadgeRecommended)
		}

		recs = append(recs, Recommendation{
			Method:           method,
			MatchScore:       score,
			NetworkCondition: cond,
			EstimatedTime:    estimatedTime(method, cond.Status),
			EstimatedFee:     fmt.Sprintf("$%.2f", baseFee*cond.FeeMultiplier),
			Badges:           badges,
			Reason:           cond.Message,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].MatchScore > recs[j].MatchScore
	})

	if len(recs) > 0 && recs[0].MatchScore > 0 {
		recs[0].Badges = append(recs[0].Badges, BadgeBestMatch)
	}

	return recs
}

// estimatedTime is static per method, except crypto lengthens when the
// chain is not fully healthy.
func estimatedTime(method payout.Method, status network.Status) string {
	switch method {
	case payout.MethodCrypto:
		if status == network.StatusOnline {
			return "~10 mins"
		}
		return "> 1 hour"
	case payout.MethodWire:
		return "1-3 days"
	case payout.MethodCash:
		return "2-4 hours"
	case payout.MethodMobile:
		return "30 mins"
	}
	return "Unknown"
}
