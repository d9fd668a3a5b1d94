package feeds

import (
	"context"
	"time"

	"github.com/ankitlade12/SafePassage/internal/risk"
)

// StateDeptFetcher serves travel advisories from a static table. The
// real advisory site has no machine-readable API, so demo mode carries
// a small country-keyed advisory set.
type StateDeptFetcher struct{}

// NewStateDeptFetcher creates the simulated travel advisory source.
func NewStateDeptFetcher() *StateDeptFetcher {
	return &StateDeptFetcher{}
}

func (s *StateDeptFetcher) Fetch(ctx context.Context, loc risk.Location) FetchResult {
	result := FetchResult{Source: SourceStateDept}

	advisories := map[string]*risk.Alert{
		"Turkey": {
			ID:               "state_dept_turkey",
			Location:         risk.Location{City: "Ankara", Country: "Turkey", Latitude: 39.9334, Longitude: 32.8597},
			Type:             risk.TypeSecurityThreat,
			Severity:         6,
			Source:           SourceStateDept,
			Timestamp:        time.Now(),
			Title:            "Turkey Travel Advisory - Level 2",
			Description:      "Exercise increased caution due to terrorism and arbitrary detentions",
			AffectedRadiusKM: 500,
		},
		"Ukraine": {
			ID:               "state_dept_ukraine",
			Location:         risk.Location{City: "Kyiv", Country: "Ukraine", Latitude: 50.4501, Longitude: 30.5234},
			Type:             risk.TypeSecurityThreat,
			Severity:         9,
			Source:           SourceStateDept,
			Timestamp:        time.Now(),
			Title:            "Ukraine Travel Advisory - Level 4",
			Description:      "Do not travel due to armed conflict and civil unrest",
			AffectedRadiusKM: 1000,
		},
	}

	if alert, ok := advisories[loc.Country]; ok {
		cp := *alert
		result.Alerts = append(result.Alerts, &cp)
	}

	return result
}
