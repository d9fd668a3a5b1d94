package risk

import (
	"math"
	"strings"
)

// BaselineRiskLevel is returned when no alert matches the query location.
// A fixed constant keeps assessment deterministic for a calm region.
const BaselineRiskLevel = 2

// DefaultRadiusKM is the default "nearby" radius for alert matching.
const DefaultRadiusKM = 100.0

// officialSources are feeds whose alerts apply country-wide. Advisories
// from these sources match on jurisdiction even when their listed
// coordinates (usually a capital city) are outside the radius.
var officialSources = map[string]bool{
	"U.S. State Department": true,
	"GDELT":                 true,
}

// Assessor computes risk levels from a location and a set of alerts.
type Assessor struct {
	radiusKM float64
}

// NewAssessor creates an assessor with the given nearby radius.
// A non-positive radius falls back to DefaultRadiusKM.
func NewAssessor(radiusKM float64) *Assessor {
	if radiusKM <= 0 {
		radiusKM = DefaultRadiusKM
	}
	return &Assessor{radiusKM: radiusKM}
}

// CurrentRiskLevel returns the risk level (1-10) for a location given the
// currently known alerts. The single worst nearby condition dominates:
// the result is max(severity) over matching alerts, not an average.
// With no matching alerts the baseline is returned.
func (a *Assessor) CurrentRiskLevel(loc Location, alerts []*Alert) int {
	nearby := a.NearbyAlerts(loc, alerts)
	if len(nearby) == 0 {
		return BaselineRiskLevel
	}

	level := 0
	for _, alert := range nearby {
		if s := ClampSeverity(alert.Severity); s > level {
			level = s
		}
	}
	return level
}

// NearbyAlerts filters alerts to those affecting the location: within the
// geographic radius, or country-wide advisories from official sources.
func (a *Assessor) NearbyAlerts(loc Location, alerts []*Alert) []*Alert {
	var nearby []*Alert
	for _, alert := range alerts {
		if alert == nil {
			continue
		}
		if a.isNearby(loc, alert.Location) {
			nearby = append(nearby, alert)
			continue
		}
		if sameJurisdiction(loc, alert.Location) && officialSources[alert.Source] {
			nearby = append(nearby, alert)
		}
	}
	return nearby
}

// isNearby uses a flat-earth approximation: 1 degree ~= 111 km.
// Intentionally not great-circle distance; at the radii used here
// (100-500 km) the error is tolerable, and boundary behavior must match
// the documented formula exactly.
func (a *Assessor) isNearby(loc1, loc2 Location) bool {
	latDiff := math.Abs(loc1.Latitude - loc2.Latitude)
	lonDiff := math.Abs(loc1.Longitude - loc2.Longitude)
	distance := math.Sqrt(latDiff*latDiff+lonDiff*lonDiff) * 111
	return distance <= a.radiusKM
}

// sameJurisdiction matches country names with substring tolerance in both
// directions, and also checks the alert's city field: country-level GDELT
// records often carry the country name there.
func sameJurisdiction(loc Location, alertLoc Location) bool {
	country := strings.ToLower(loc.Country)
	if country == "" {
		return false
	}
	alertCountry := strings.ToLower(alertLoc.Country)
	alertCity := strings.ToLower(alertLoc.City)

	return (alertCountry != "" && strings.Contains(alertCountry, country)) ||
		(alertCity != "" && strings.Contains(alertCity, country)) ||
		(alertCountry != "" && strings.Contains(country, alertCountry))
}
