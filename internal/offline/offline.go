// Package offline implements shadow-banking mode: one-time redemption
// codes a traveler can present to a partner agent when every online
// rail is down.
package offline

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ankitlade12/SafePassage/internal/idgen"
)

var ErrCodeNotFound = errors.New("redemption code not found")

// DefaultValidity is how long a code stays redeemable.
const DefaultValidity = 72 * time.Hour

// Code is a one-time offline redemption code. The verification hash
// lets an agent confirm the code without network access to this system.
type Code struct {
	Code             string    `json:"code"`
	VerificationHash string    `json:"verificationHash"`
	Amount           float64   `json:"amount"`
	Currency         string    `json:"currency"`
	CreatedAt        time.Time `json:"createdAt"`
	ExpiresAt        time.Time `json:"expiresAt"`
	Redeemed         bool      `json:"redeemed"`
}

// Valid reports whether the code is unredeemed and unexpired at t.
func (c *Code) Valid(t time.Time) bool {
	return !c.Redeemed && t.Before(c.ExpiresAt)
}

// QRData is the payload encoded into the code's QR image by the client.
type QRData struct {
	Type     string  `json:"type"`
	Code     string  `json:"code"`
	Hash     string  `json:"hash"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Expires  string  `json:"expires"`
}

// PartnerAgent is a network partner that honors offline codes.
type PartnerAgent struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Locations string `json:"locations"`
}

// PartnerAgents lists the redemption partner network.
func PartnerAgents() []PartnerAgent {
	return []PartnerAgent{
		{Name: "Wise (TransferWise)", Type: "Digital Transfer", Locations: "80+ currencies, instant"},
		{Name: "Western Union", Type: "Cash Pickup", Locations: "500K+ locations globally"},
		{Name: "Binance P2P", Type: "Crypto → Local", Locations: "Available in Ukraine"},
		{Name: "PrivatBank", Type: "Local ATM Network", Locations: "Ukraine & Poland"},
	}
}

// Manager issues and tracks offline codes. The clock is injectable so
// expiry tests need no sleeping.
type Manager struct {
	mu    sync.RWMutex
	codes map[string]*Code
	now   func() time.Time
}

// NewManager creates an offline code manager.
func NewManager() *Manager {
	return &Manager{codes: make(map[string]*Code), now: time.Now}
}

// WithClock overrides the manager's time source.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Generate issues a new code in the SP-XXXX-XXXX format with a
// SHA-256-derived verification hash.
func (m *Manager) Generate(amount float64, currency string, validity time.Duration) (*Code, error) {
	if amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	if validity <= 0 {
		validity = DefaultValidity
	}

	now := m.now()
	raw := strings.ToUpper(idgen.Hex(4))
	code := fmt.Sprintf("SP-%s-%s", raw[:4], raw[4:])

	hashInput := fmt.Sprintf("%s%v%s%s", code, amount, currency, now.Format(time.RFC3339Nano))
	sum := sha256.Sum256([]byte(hashInput))
	hash := strings.ToUpper(fmt.Sprintf("%x", sum))[:16]

	c := &Code{
		Code:             code,
		VerificationHash: hash,
		Amount:           amount,
		Currency:         currency,
		CreatedAt:        now,
		ExpiresAt:        now.Add(validity),
	}

	m.mu.Lock()
	m.codes[code] = c
	m.mu.Unlock()

	cp := *c
	return &cp, nil
}

// Get returns a code by value.
func (m *Manager) Get(code string) (*Code, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.codes[code]
	if !ok {
		return nil, ErrCodeNotFound
	}
	cp := *c
	return &cp, nil
}

// Redeem marks a code as used. Redeeming an invalid or spent code
// fails.
func (m *Manager) Redeem(code string) (*Code, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.codes[code]
	if !ok {
		return nil, ErrCodeNotFound
	}
	if !c.Valid(m.now()) {
		return nil, errors.New("code expired or already redeemed")
	}
	c.Redeemed = true
	cp := *c
	return &cp, nil
}

// Active returns every currently valid code.
func (m *Manager) Active() []*Code {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := m.now()
	var out []*Code
	for _, c := range m.codes {
		if c.Valid(now) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out
}

// QRDataFor builds the QR payload for a code.
func QRDataFor(c *Code) QRData {
	return QRData{
		Type:     "SAFE_PASSAGE_OFFLINE",
		Code:     c.Code,
		Hash:     c.VerificationHash,
		Amount:   c.Amount,
		Currency: c.Currency,
		Expires:  c.ExpiresAt.Format(time.RFC3339),
	}
}
