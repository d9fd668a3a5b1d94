// Package profile holds the traveler's profile and pre-funded exit fund.
package profile

import (
	"context"
	"errors"
	"time"

	"github.com/ankitlade12/SafePassage/internal/payout"
	"github.com/ankitlade12/SafePassage/internal/risk"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoActiveFund    = errors.New("no active exit fund")
)

// FundStatus is the exit fund lifecycle state.
type FundStatus string

const (
	FundActive    FundStatus = "active"
	FundTriggered FundStatus = "triggered"
	FundCompleted FundStatus = "completed"
	FundCancelled FundStatus = "cancelled"
)

// Contact is an emergency contact attached to an exit fund.
type Contact struct {
	Name            string `json:"name"`
	Relationship    string `json:"relationship"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	NotifyOnTrigger bool   `json:"notifyOnTrigger"`
}

// ExitFund is pre-positioned emergency liquidity: an amount, the
// channels it can flow through, and who to tell when it moves.
type ExitFund struct {
	UserID               string          `json:"userId"`
	Amount               float64         `json:"amount"`
	Currency             string          `json:"currency"`
	PayoutMethods        []payout.Method `json:"payoutMethods"`
	TrustedContacts      []Contact       `json:"trustedContacts"`
	FallbackDestinations []risk.Location `json:"fallbackDestinations"`
	Status               FundStatus      `json:"status"`
	CreatedAt            time.Time       `json:"createdAt"`
	TriggeredAt          *time.Time      `json:"triggeredAt,omitempty"`
	CompletedAt          *time.Time      `json:"completedAt,omitempty"`
}

// PayoutETA estimates time to funds for a method, for display.
func (f *ExitFund) PayoutETA(method payout.Method) string {
	if d, ok := payout.DetailsFor(method); ok {
		return d.ETA
	}
	return "Unknown"
}

// UserProfile is the traveler's identity, location, and preferences.
type UserProfile struct {
	UserID          string            `json:"userId"`
	Name            string            `json:"name"`
	Email           string            `json:"email"`
	Phone           string            `json:"phone"`
	CurrentLocation risk.Location     `json:"currentLocation"`
	HomeCountry     string            `json:"homeCountry"`
	PassportCountry string            `json:"passportCountry"`
	Notifications   map[string]bool   `json:"notifications,omitempty"`
	ExitFund        *ExitFund         `json:"exitFund,omitempty"`
}

// HasActiveFund reports whether the profile carries an active exit fund.
func (p *UserProfile) HasActiveFund() bool {
	return p.ExitFund != nil && p.ExitFund.Status == FundActive
}

// AvailableMethods returns the fund's payout methods, or every method
// when no fund is configured.
func (p *UserProfile) AvailableMethods() []payout.Method {
	if p.ExitFund != nil && len(p.ExitFund.PayoutMethods) > 0 {
		return p.ExitFund.PayoutMethods
	}
	return payout.AllMethods()
}

// Store holds profiles keyed by user ID.
type Store interface {
	Get(ctx context.Context, userID string) (*UserProfile, error)
	Put(ctx context.Context, p *UserProfile) error
}
