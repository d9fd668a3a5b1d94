package network

import (
	"strings"
	"sync"

	"github.com/ankitlade12/SafePassage/internal/risk"
)

// Channel identifies a financial rail tracked by the chaos simulator.
type Channel string

const (
	ChannelBanking Channel = "banking"
	ChannelATM     Channel = "atm"
	ChannelCrypto  Channel = "crypto"
	ChannelMobile  Channel = "mobile_money"
	ChannelCash    Channel = "cash_pickup"
)

// Effects maps each financial channel to its current status.
type Effects map[Channel]Status

// LevelInfo describes a chaos level for display.
type LevelInfo struct {
	Level       int    `json:"level"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

var chaosLevels = map[int]LevelInfo{
	0:  {0, "Peace", "All systems normal"},
	1:  {1, "Low", "Minor activity detected"},
	2:  {2, "Low", "Elevated monitoring"},
	3:  {3, "Low", "Some concerns noted"},
	4:  {4, "Low", "Regional news activity"},
	5:  {5, "Moderate", "Travel advisory active"},
	6:  {6, "Moderate", "Exercise caution advised"},
	7:  {7, "High", "Significant instability"},
	8:  {8, "High", "Capital controls possible"},
	9:  {9, "Extreme", "Evacuation recommended"},
	10: {10, "Extreme", "Immediate action required"},
}

// DefaultChaosLevel is the starting level for a fresh simulator.
const DefaultChaosLevel = 2

// ChaosSimulator maps either real alert records or a manual 0-10 chaos
// level onto per-channel network effects for the demo dashboard.
type ChaosSimulator struct {
	mu     sync.RWMutex
	level  int
	alerts []*risk.Alert
}

// NewChaosSimulator creates a chaos simulator at the default level.
func NewChaosSimulator() *ChaosSimulator {
	return &ChaosSimulator{level: DefaultChaosLevel}
}

// SetLevel sets the manual chaos level, clamped to 0-10.
func (c *ChaosSimulator) SetLevel(level int) {
	if level < 0 {
		level = 0
	}
	if level > 10 {
		level = 10
	}
	c.mu.Lock()
	c.level = level
	c.mu.Unlock()
}

// Level returns the current manual chaos level.
func (c *ChaosSimulator) Level() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.level
}

// SetAlerts installs real alert records. When present they take
// precedence over the manual level.
func (c *ChaosSimulator) SetAlerts(alerts []*risk.Alert) {
	c.mu.Lock()
	c.alerts = alerts
	c.mu.Unlock()
}

// LevelInfo returns display metadata for the current level.
func (c *ChaosSimulator) LevelInfo() LevelInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if info, ok := chaosLevels[c.level]; ok {
		return info
	}
	return chaosLevels[5]
}

// NetworkEffects derives per-channel statuses. Real alerts are analyzed
// when available; otherwise the manual chaos level picks a fixed tier.
func (c *ChaosSimulator) NetworkEffects() Effects {
	c.mu.RLock()
	alerts := c.alerts
	level := c.level
	c.mu.RUnlock()

	if len(alerts) > 0 {
		return effectsFromAlerts(alerts)
	}
	return effectsFromLevel(level)
}

func allOnline() Effects {
	return Effects{
		ChannelBanking: StatusOnline,
		ChannelATM:     StatusOnline,
		ChannelCrypto:  StatusOnline,
		ChannelMobile:  StatusOnline,
		ChannelCash:    StatusOnline,
	}
}

// effectsFromAlerts degrades channels per alert type and severity.
// Degradations accumulate with a worst-status-wins merge, so a later
// mild alert can never heal a channel a severe alert already took down.
func effectsFromAlerts(alerts []*risk.Alert) Effects {
	effects := allOnline()

	degrade := func(ch Channel, s Status) {
		effects[ch] = Worse(effects[ch], s)
	}

	for _, alert := range alerts {
		if alert == nil {
			continue
		}
		riskType := string(alert.Type)
		severity := alert.Severity
		desc := strings.ToLower(alert.Description)
		title := strings.ToLower(alert.Title)

		// Natural disasters knock out physical infrastructure.
		if strings.Contains(riskType, "natural") || strings.Contains(riskType, "disaster") ||
			strings.Contains(title, "earthquake") {
			if severity >= 7 {
				degrade(ChannelATM, StatusOffline)
				degrade(ChannelMobile, StatusRestricted)
			} else if severity >= 5 {
				degrade(ChannelATM, StatusCongested)
				degrade(ChannelMobile, StatusCongested)
			}
		}

		// Payment disruptions hit banking first.
		if strings.Contains(riskType, "payment") || strings.Contains(riskType, "disruption") {
			if severity >= 7 {
				degrade(ChannelBanking, StatusOffline)
				degrade(ChannelATM, StatusOffline)
			} else if severity >= 5 {
				degrade(ChannelBanking, StatusCongested)
			}
		}

		// Security threats and armed conflict.
		if strings.Contains(riskType, "security") || strings.Contains(desc, "conflict") ||
			strings.Contains(desc, "armed") {
			if severity >= 9 {
				degrade(ChannelBanking, StatusRestricted)
				degrade(ChannelATM, StatusOffline)
				degrade(ChannelCash, StatusOffline)
				degrade(ChannelMobile, StatusRestricted)
			} else if severity >= 7 {
				degrade(ChannelBanking, StatusCongested)
				degrade(ChannelATM, StatusRestricted)
				degrade(ChannelCash, StatusCongested)
			}
		}

		// Political unrest at high severity.
		if strings.Contains(riskType, "political") || strings.Contains(riskType, "unrest") {
			if severity >= 8 {
				degrade(ChannelBanking, StatusCongested)
				degrade(ChannelATM, StatusCongested)
				degrade(ChannelCash, StatusCongested)
			}
		}
	}

	// Crypto is derived last: it needs only internet, so it stays online
	// unless banking has collapsed entirely.
	if effects[ChannelBanking] == StatusOffline {
		effects[ChannelCrypto] = StatusCongested
	} else {
		effects[ChannelCrypto] = StatusOnline
	}

	return effects
}

// effectsFromLevel is the fixed-tier fallback used when no real alerts
// are installed.
func effectsFromLevel(level int) Effects {
	switch {
	case level <= 2:
		return allOnline()
	case level <= 5:
		return Effects{
			ChannelBanking: StatusCongested,
			ChannelATM:     StatusOnline,
			ChannelCrypto:  StatusOnline,
			ChannelMobile:  StatusOnline,
			ChannelCash:    StatusCongested,
		}
	case level <= 7:
		return Effects{
			ChannelBanking: StatusRestricted,
			ChannelATM:     StatusRestricted,
			ChannelCrypto:  StatusCongested,
			ChannelMobile:  StatusOnline,
			ChannelCash:    StatusRestricted,
		}
	default:
		return Effects{
			ChannelBanking: StatusOffline,
			ChannelATM:     StatusOffline,
			ChannelCrypto:  StatusCongested,
			ChannelMobile:  StatusRestricted,
			ChannelCash:    StatusOffline,
		}
	}
}
