// Package geoip implements the whitelist evaluation engine deciding whether
// a request's source address is admitted based on its resolved geolocation.
package geoip

// Record holds the geolocation attributes resolved for a source address.
// Every field is optional: lookups may return partial data, so absent strings
// stay empty and absent coordinates stay nil.
type Record struct {
	CountryISOCode string   `json:"country_iso_code,omitempty"`
	CountryName    string   `json:"country_name,omitempty"`
	RegionName     string   `json:"region_name,omitempty"`
	CityName       string   `json:"city_name,omitempty"`
	Timezone       string   `json:"timezone,omitempty"`
	Latitude       *float64 `json:"lat,omitempty"`
	Longitude      *float64 `json:"lon,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude were resolved.
func (r *Record) HasCoordinates() bool {
	return r != nil && r.Latitude != nil && r.Longitude != nil
}
