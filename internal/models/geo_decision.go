package models

import (
	"time"
)

// GeoDecision stores a rejection produced by the filtering middleware so it
// can be audited and surfaced in the UI. The geo columns mirror the verdict's
// diagnostic parameters and may be empty when the lookup had partial data.
type GeoDecision struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UUID           string    `json:"uuid" gorm:"uniqueIndex"`
	Reason         string    `json:"reason"` // UNKNOWN, INVALID
	RemoteAddress  string    `json:"remote_address" gorm:"index"`
	CountryISOCode string    `json:"country_iso_code"`
	CountryName    string    `json:"country_name"`
	RegionName     string    `json:"region_name"`
	CityName       string    `json:"city_name"`
	Timezone       string    `json:"timezone"`
	Host           string    `json:"host"`
	Path           string    `json:"path"`
	CreatedAt      time.Time `json:"created_at" gorm:"index"`
}
