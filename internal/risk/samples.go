package risk

import (
	"fmt"
	"time"

	"github.com/ankitlade12/SafePassage/internal/idgen"
)

// SampleAlerts returns a canned alert set for demo mode, used when no
// feed data is available.
func SampleAlerts() []*Alert {
	now := time.Now()
	return []*Alert{
		{
			ID:               "alert_001",
			Location:         Location{City: "Beirut", Country: "Lebanon", Latitude: 33.8886, Longitude: 35.4955},
			Type:             TypePaymentDisruption,
			Severity:         6,
			Source:           "BBC News",
			Timestamp:        now,
			Title:            "Banking Crisis in Lebanon",
			Description:      "Ongoing banking restrictions and currency controls",
			AffectedRadiusKM: 100,
		},
		{
			ID:               "alert_002",
			Location:         Location{City: "Kyiv", Country: "Ukraine", Latitude: 50.4501, Longitude: 30.5234},
			Type:             TypeSecurityThreat,
			Severity:         8,
			Source:           "U.S. State Department",
			Timestamp:        now,
			Title:            "Security Alert - Ukraine",
			Description:      "Heightened security concerns. Avoid non-essential travel.",
			AffectedRadiusKM: 200,
		},
	}
}

// NewCrisisAlert builds a simulated severity-9 political unrest alert at
// the given location. Used by the manual "trigger crisis" demo action.
func NewCrisisAlert(loc Location) *Alert {
	return &Alert{
		ID:        idgen.WithPrefix("alert_"),
		Location:  loc,
		Type:      TypePoliticalUnrest,
		Severity:  9,
		Source:    "Reuters",
		Timestamp: time.Now(),
		Title:     fmt.Sprintf("Political Unrest in %s", loc.City),
		Description: fmt.Sprintf(
			"Major protests and civil unrest reported in %s. Banks and ATMs closing. "+
				"Payment systems disrupted. Immediate action recommended for travelers.", loc.City),
		AffectedRadiusKM: 50,
	}
}
