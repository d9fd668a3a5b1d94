// Package risk implements location risk assessment for travelers.
//
// A risk level is an integer 1-10 summarizing the worst known nearby
// threat. Alerts come from external feeds or manual crisis triggers and
// live in an in-memory (or Postgres) store for the session; the assessor
// itself is a pure function over a location and an alert list.
package risk

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrAlertNotFound = errors.New("alert not found")

// Type classifies a risk event.
type Type string

const (
	TypePoliticalUnrest   Type = "political_unrest"
	TypeNaturalDisaster   Type = "natural_disaster"
	TypePaymentDisruption Type = "payment_disruption"
	TypeHealthEmergency   Type = "health_emergency"
	TypeSecurityThreat    Type = "security_threat"
)

// Location is a geographic point with a human-readable place name.
type Location struct {
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// String renders the location as "City, Country".
func (l Location) String() string {
	return fmt.Sprintf("%s, %s", l.City, l.Country)
}

// Alert is a single risk event affecting an area.
type Alert struct {
	ID               string    `json:"id"`
	Location         Location  `json:"location"`
	Type             Type      `json:"type"`
	Severity         int       `json:"severity"` // 1-10
	Source           string    `json:"source"`
	Timestamp        time.Time `json:"timestamp"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	AffectedRadiusKM float64   `json:"affectedRadiusKm"`
}

// IsCritical reports whether the alert warrants immediate attention.
func (a *Alert) IsCritical() bool {
	return a.Severity >= 7
}

// SeverityLabel returns a human-readable severity band.
func (a *Alert) SeverityLabel() string {
	switch {
	case a.Severity >= 9:
		return "EXTREME"
	case a.Severity >= 7:
		return "HIGH"
	case a.Severity >= 5:
		return "MODERATE"
	default:
		return "LOW"
	}
}

// ClampSeverity forces a severity into the documented 1-10 range.
func ClampSeverity(s int) int {
	if s < 1 {
		return 1
	}
	if s > 10 {
		return 10
	}
	return s
}

// Store holds the active alert set for a session.
// Alerts are replaced wholesale on refresh, never persisted across sessions
// unless a database store is configured.
type Store interface {
	Add(ctx context.Context, alert *Alert) error
	List(ctx context.Context) ([]*Alert, error)
	Replace(ctx context.Context, alerts []*Alert) error
	Clear(ctx context.Context) error
}
