package geoip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestRuleMatches(t *testing.T) {
	t.Run("country rule matches exact ISO code", func(t *testing.T) {
		rule := CountryRule("FR")
		assert.True(t, rule.Matches(&Record{CountryISOCode: "FR"}))
	})

	t.Run("country rule is case sensitive", func(t *testing.T) {
		rule := CountryRule("FR")
		assert.False(t, rule.Matches(&Record{CountryISOCode: "fr"}))
	})

	t.Run("country rule never matches absent country code", func(t *testing.T) {
		rule := CountryRule("FR")
		assert.False(t, rule.Matches(&Record{CountryName: "France"}))
		assert.False(t, rule.Matches(&Record{}))
	})

	t.Run("distance rule matches coordinates inside the radius", func(t *testing.T) {
		rule := DistanceRule(48.8566, 2.3522, 50_000)
		rec := &Record{Latitude: floatPtr(48.8566), Longitude: floatPtr(2.3522)}
		assert.True(t, rule.Matches(rec))
	})

	t.Run("distance rule rejects coordinates outside the radius", func(t *testing.T) {
		rule := DistanceRule(48.8566, 2.3522, 50_000)
		rec := &Record{Latitude: floatPtr(40.7128), Longitude: floatPtr(-74.0060)}
		assert.False(t, rule.Matches(rec))
	})

	t.Run("distance rule uses strict inequality at the threshold", func(t *testing.T) {
		// Identical coordinates give exactly zero distance, which is not < 0.
		rule := DistanceRule(48.8566, 2.3522, 0)
		rec := &Record{Latitude: floatPtr(48.8566), Longitude: floatPtr(2.3522)}
		assert.False(t, rule.Matches(rec))
	})

	t.Run("distance rule never matches partial coordinates", func(t *testing.T) {
		rule := DistanceRule(48.8566, 2.3522, 1_000_000)
		assert.False(t, rule.Matches(&Record{Latitude: floatPtr(48.8566)}))
		assert.False(t, rule.Matches(&Record{Longitude: floatPtr(2.3522)}))
		assert.False(t, rule.Matches(&Record{}))
	})

	t.Run("unrecognized rule type never matches", func(t *testing.T) {
		rule := Rule{Type: RuleType("REGION"), Country: "FR"}
		assert.False(t, rule.Matches(&Record{CountryISOCode: "FR"}))
	})
}

func TestPolicyMatches(t *testing.T) {
	rec := &Record{CountryISOCode: "DE"}

	t.Run("empty rule set admits everything", func(t *testing.T) {
		policy := &Policy{FailOnUnknown: true}
		assert.True(t, policy.Matches(rec))
		assert.True(t, policy.Matches(&Record{}))
	})

	t.Run("any matching rule admits", func(t *testing.T) {
		policy := &Policy{WhitelistRules: []Rule{CountryRule("FR"), CountryRule("DE")}}
		assert.True(t, policy.Matches(rec))
	})

	t.Run("no matching rule rejects", func(t *testing.T) {
		policy := &Policy{WhitelistRules: []Rule{CountryRule("FR"), CountryRule("BE")}}
		assert.False(t, policy.Matches(rec))
	})

	t.Run("mixed rule kinds are a union of allowances", func(t *testing.T) {
		policy := &Policy{WhitelistRules: []Rule{
			CountryRule("FR"),
			DistanceRule(52.5200, 13.4050, 100_000),
		}}
		berlin := &Record{CountryISOCode: "PL", Latitude: floatPtr(52.52), Longitude: floatPtr(13.40)}
		assert.True(t, policy.Matches(berlin))
	})
}

func TestParsePolicy(t *testing.T) {
	t.Run("decodes rules and explicit failOnUnknown", func(t *testing.T) {
		policy, err := ParsePolicy([]byte(`{
			"failOnUnknown": false,
			"whitelistRules": [
				{"type": "COUNTRY", "country": "FR"},
				{"type": "DISTANCE", "latitude": 48.8566, "longitude": 2.3522, "distance": 50000}
			]
		}`))
		require.NoError(t, err)
		assert.False(t, policy.FailOnUnknown)
		require.Len(t, policy.WhitelistRules, 2)
		assert.Equal(t, RuleTypeCountry, policy.WhitelistRules[0].Type)
		assert.Equal(t, "FR", policy.WhitelistRules[0].Country)
		assert.Equal(t, RuleTypeDistance, policy.WhitelistRules[1].Type)
		assert.Equal(t, int64(50000), policy.WhitelistRules[1].Distance)
	})

	t.Run("failOnUnknown defaults to true when omitted", func(t *testing.T) {
		policy, err := ParsePolicy([]byte(`{"whitelistRules": []}`))
		require.NoError(t, err)
		assert.True(t, policy.FailOnUnknown)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		_, err := ParsePolicy([]byte(`{"failOnUnknown":`))
		assert.Error(t, err)
	})
}
