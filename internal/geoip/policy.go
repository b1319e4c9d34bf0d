package geoip

import (
	"encoding/json"
	"fmt"
)

// Policy is the immutable whitelist configuration. It is built once when a
// policy is activated and shared read-only across concurrent evaluations.
type Policy struct {
	FailOnUnknown  bool
	WhitelistRules []Rule
}

// policyJSON mirrors the JSON configuration schema. failOnUnknown is decoded
// through a pointer so an omitted field keeps its default of true.
type policyJSON struct {
	FailOnUnknown  *bool  `json:"failOnUnknown"`
	WhitelistRules []Rule `json:"whitelistRules"`
}

// ParsePolicy decodes a JSON policy document.
func ParsePolicy(data []byte) (*Policy, error) {
	var doc policyJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse policy: %w", err)
	}

	policy := &Policy{FailOnUnknown: true, WhitelistRules: doc.WhitelistRules}
	if doc.FailOnUnknown != nil {
		policy.FailOnUnknown = *doc.FailOnUnknown
	}

	return policy, nil
}

// Matches reports whether the record satisfies at least one whitelist rule.
// An empty or absent rule set means no restriction is configured and every
// resolved record is admitted.
func (p *Policy) Matches(rec *Record) bool {
	if len(p.WhitelistRules) == 0 {
		return true
	}

	for _, rule := range p.WhitelistRules {
		if rule.Matches(rec) {
			return true
		}
	}

	return false
}
