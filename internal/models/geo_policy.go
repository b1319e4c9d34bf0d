package models

import (
	"time"
)

// GeoPolicy stores a whitelist policy managed through the admin API. The rule
// set is kept as the raw JSON array and compiled into the evaluation engine's
// immutable form when the policy is activated.
type GeoPolicy struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UUID           string    `json:"uuid" gorm:"uniqueIndex"`
	Name           string    `json:"name" gorm:"index"`
	Description    string    `json:"description"`
	FailOnUnknown  *bool     `json:"fail_on_unknown"`                  // nil means reject unresolvable addresses
	WhitelistRules string    `json:"whitelist_rules" gorm:"type:text"` // JSON array of COUNTRY/DISTANCE rules
	Enabled        bool      `json:"enabled"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
