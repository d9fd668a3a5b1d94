// Package guardian implements the safety check-in system: a dead man's
// switch plus a small network of trusted contacts notified when the
// traveler stops checking in or risk turns critical.
package guardian

import (
	"errors"
	"sync"
	"time"
)

var ErrTooManyGuardians = errors.New("maximum 3 guardians allowed")

// MaxGuardians bounds the contact list.
const MaxGuardians = 3

// AlertThreshold is the risk level at which guardians get notified.
const AlertThreshold = 7

// DefaultCheckInInterval is how long the traveler has between check-ins.
const DefaultCheckInInterval = 8 * time.Hour

// warningWindow is how close to the deadline the switch turns to warning.
const warningWindow = time.Hour

// CheckInStatus is the dead man's switch state.
type CheckInStatus string

const (
	StatusActive   CheckInStatus = "active"
	StatusWarning  CheckInStatus = "warning" // less than an hour remaining
	StatusExpired  CheckInStatus = "expired"
	StatusDisabled CheckInStatus = "disabled"
)

// Guardian is a trusted contact.
type Guardian struct {
	Name       string     `json:"name"`
	Phone      string     `json:"phone"`
	Email      string     `json:"email"`
	IsActive   bool       `json:"isActive"`
	NotifiedAt *time.Time `json:"notifiedAt,omitempty"`
}

// Notification is the record of one simulated guardian alert.
type Notification struct {
	Guardian   string    `json:"guardian"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	NotifiedAt time.Time `json:"notifiedAt"`
	Message    string    `json:"message"`
}

// Switch is a timer-based check-in system. Missing a check-in expires
// the switch, which the caller treats as a trigger for auto-payout and
// guardian notification.
type Switch struct {
	mu          sync.RWMutex
	enabled     bool
	interval    time.Duration
	lastCheckIn time.Time
	autoPayout  bool
	guardians   []Guardian
	now         func() time.Time
}

// NewSwitch creates a disabled switch with the default interval.
func NewSwitch() *Switch {
	s := &Switch{
		interval:   DefaultCheckInInterval,
		autoPayout: true,
		now:        time.Now,
	}
	s.lastCheckIn = s.now()
	return s
}

// WithClock overrides the switch's time source.
func (s *Switch) WithClock(now func() time.Time) *Switch {
	s.now = now
	s.lastCheckIn = now()
	return s
}

// Enable arms the switch with the given interval. A non-positive
// interval keeps the current one.
func (s *Switch) Enable(interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = true
	if interval > 0 {
		s.interval = interval
	}
	s.lastCheckIn = s.now()
}

// Disable disarms the switch.
func (s *Switch) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = false
}

// CheckIn records a check-in and resets the timer.
func (s *Switch) CheckIn() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCheckIn = s.now()
	return s.lastCheckIn
}

// TimeRemaining returns the time until the switch triggers, floored at
// zero.
func (s *Switch) TimeRemaining() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remainingLocked()
}

func (s *Switch) remainingLocked() time.Duration {
	deadline := s.lastCheckIn.Add(s.interval)
	remaining := deadline.Sub(s.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Status returns the current switch state.
func (s *Switch) Status() CheckInStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.enabled {
		return StatusDisabled
	}
	remaining := s.remainingLocked()
	switch {
	case remaining <= 0:
		return StatusExpired
	case remaining < warningWindow:
		return StatusWarning
	default:
		return StatusActive
	}
}

// AddGuardian appends a trusted contact, capped at MaxGuardians.
func (s *Switch) AddGuardian(name, phone, email string) (Guardian, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.guardians) >= MaxGuardians {
		return Guardian{}, ErrTooManyGuardians
	}
	g := Guardian{Name: name, Phone: phone, Email: email, IsActive: true}
	s.guardians = append(s.guardians, g)
	return g, nil
}

// RemoveGuardian drops the contact at index. Out-of-range indexes are
// ignored.
func (s *Switch) RemoveGuardian(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.guardians) {
		return
	}
	s.guardians = append(s.guardians[:index], s.guardians[index+1:]...)
}

// Guardians returns a copy of the contact list.
func (s *Switch) Guardians() []Guardian {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Guardian, len(s.guardians))
	copy(out, s.guardians)
	return out
}

// ShouldAlert reports whether the risk level warrants notifying
// guardians.
func (s *Switch) ShouldAlert(riskLevel int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return riskLevel >= AlertThreshold && len(s.guardians) > 0
}

// NotifyAll simulates alerting every active guardian and stamps their
// notification time.
func (s *Switch) NotifyAll() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Notification
	now := s.now()
	for i := range s.guardians {
		g := &s.guardians[i]
		if !g.IsActive {
			continue
		}
		notified := now
		g.NotifiedAt = &notified
		out = append(out, Notification{
			Guardian:   g.Name,
			Phone:      g.Phone,
			Email:      g.Email,
			NotifiedAt: notified,
			Message:    "ALERT: Your protected contact has triggered a safety alert. Risk level is CRITICAL.",
		})
	}
	return out
}
