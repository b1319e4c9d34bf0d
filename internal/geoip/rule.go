package geoip

// RuleType discriminates the two whitelist rule variants.
type RuleType string

const (
	// RuleTypeCountry admits records whose ISO country code equals the rule's.
	RuleTypeCountry RuleType = "COUNTRY"
	// RuleTypeDistance admits records within a radius around a fixed point.
	RuleTypeDistance RuleType = "DISTANCE"
)

// Rule is a single whitelist entry. Only the fields relevant to its Type are
// consulted during evaluation; the others are ignored, never cross-validated.
type Rule struct {
	Type      RuleType `json:"type"`
	Country   string   `json:"country,omitempty"`   // COUNTRY: ISO-3166 alpha-2 code
	Latitude  float64  `json:"latitude,omitempty"`  // DISTANCE: center latitude in degrees
	Longitude float64  `json:"longitude,omitempty"` // DISTANCE: center longitude in degrees
	Distance  int64    `json:"distance,omitempty"`  // DISTANCE: radius threshold in meters
}

// CountryRule builds a COUNTRY whitelist rule for the given ISO code.
func CountryRule(code string) Rule {
	return Rule{Type: RuleTypeCountry, Country: code}
}

// DistanceRule builds a DISTANCE whitelist rule around a center point.
func DistanceRule(lat, lon float64, meters int64) Rule {
	return Rule{Type: RuleTypeDistance, Latitude: lat, Longitude: lon, Distance: meters}
}

// Matches reports whether the record satisfies this rule. A rule carrying an
// unrecognized type never matches.
func (r Rule) Matches(rec *Record) bool {
	switch r.Type {
	case RuleTypeCountry:
		return rec != nil && rec.CountryISOCode != "" && rec.CountryISOCode == r.Country
	case RuleTypeDistance:
		if !rec.HasCoordinates() {
			return false
		}
		// Strict inequality: a record sitting exactly on the threshold is out.
		return DistanceMeters(r.Latitude, r.Longitude, *rec.Latitude, *rec.Longitude) < float64(r.Distance)
	}

	return false
}
