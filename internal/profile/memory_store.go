package profile

import (
	"context"
	"sync"
	"time"

	"github.com/ankitlade12/SafePassage/internal/payout"
	"github.com/ankitlade12/SafePassage/internal/risk"
)

// MemoryStore is an in-memory profile store for demo/development mode.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*UserProfile
}

// NewMemoryStore creates a new in-memory profile store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]*UserProfile)}
}

func (m *MemoryStore) Get(ctx context.Context, userID string) (*UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	cp := *p
	if p.ExitFund != nil {
		fund := *p.ExitFund
		cp.ExitFund = &fund
	}
	return &cp, nil
}

func (m *MemoryStore) Put(ctx context.Context, p *UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *p
	if p.ExitFund != nil {
		fund := *p.ExitFund
		cp.ExitFund = &fund
	}
	m.profiles[p.UserID] = &cp
	return nil
}

// DemoProfile is a pre-seeded traveler used when the dashboard starts
// with no stored state.
func DemoProfile() *UserProfile {
	return &UserProfile{
		UserID: "demo_user",
		Name:   "Alex Rivera",
		Email:  "alex@example.com",
		Phone:  "+15550100",
		CurrentLocation: risk.Location{
			City: "Istanbul", Country: "Turkey",
			Latitude: 41.0082, Longitude: 28.9784,
		},
		HomeCountry:     "United States",
		PassportCountry: "United States",
		Notifications:   map[string]bool{"email": true, "sms": true},
		ExitFund: &ExitFund{
			UserID:   "demo_user",
			Amount:   5000,
			Currency: "USD",
			PayoutMethods: []payout.Method{
				payout.MethodCrypto,
				payout.MethodCash,
				payout.MethodMobile,
			},
			TrustedContacts: []Contact{
				{Name: "Jordan Rivera", Relationship: "sibling", Phone: "+15550101", Email: "jordan@example.com", NotifyOnTrigger: true},
			},
			FallbackDestinations: []risk.Location{
				{City: "Athens", Country: "Greece", Latitude: 37.9838, Longitude: 23.7275},
			},
			Status:    FundActive,
			CreatedAt: time.Now(),
		},
	}
}
