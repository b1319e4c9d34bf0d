package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gatewise/geofence/internal/geoip"
	"github.com/gatewise/geofence/internal/models"
)

var (
	ErrPolicyNotFound    = errors.New("geo policy not found")
	ErrInvalidRuleType   = errors.New("invalid whitelist rule type")
	ErrInvalidCountry    = errors.New("invalid ISO-3166 alpha-2 country code")
	ErrInvalidDistance   = errors.New("distance threshold must be positive")
	ErrInvalidCoordinate = errors.New("coordinates out of range")
)

var countryCodeRegex = regexp.MustCompile(`^[A-Z]{2}$`)

// PolicyService manages whitelist policies and keeps the enabled one compiled
// for the filtering middleware. The compiled policy is immutable and shared
// read-only; mutations swap the pointer instead of touching the shared value.
type PolicyService struct {
	db     *gorm.DB
	active atomic.Pointer[geoip.Policy]
}

func NewPolicyService(db *gorm.DB) *PolicyService {
	return &PolicyService{db: db}
}

// Create validates and stores a policy, then recompiles the active one.
func (s *PolicyService) Create(policy *models.GeoPolicy) error {
	if err := s.validatePolicy(policy); err != nil {
		return err
	}

	policy.UUID = uuid.New().String()
	if err := s.db.Create(policy).Error; err != nil {
		return err
	}

	return s.Reload()
}

// GetByID retrieves a policy by ID.
func (s *PolicyService) GetByID(id uint) (*models.GeoPolicy, error) {
	var policy models.GeoPolicy
	if err := s.db.First(&policy, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPolicyNotFound
		}
		return nil, err
	}
	return &policy, nil
}

// List retrieves all policies sorted by updated_at desc.
func (s *PolicyService) List() ([]models.GeoPolicy, error) {
	var policies []models.GeoPolicy
	if err := s.db.Order("updated_at desc").Find(&policies).Error; err != nil {
		return nil, err
	}
	return policies, nil
}

// Update updates an existing policy with validation.
func (s *PolicyService) Update(id uint, updates *models.GeoPolicy) error {
	policy, err := s.GetByID(id)
	if err != nil {
		return err
	}

	policy.Name = updates.Name
	policy.Description = updates.Description
	policy.FailOnUnknown = updates.FailOnUnknown
	policy.WhitelistRules = updates.WhitelistRules
	policy.Enabled = updates.Enabled

	if err := s.validatePolicy(policy); err != nil {
		return err
	}

	if err := s.db.Save(policy).Error; err != nil {
		return err
	}

	return s.Reload()
}

// Delete removes a policy.
func (s *PolicyService) Delete(id uint) error {
	result := s.db.Delete(&models.GeoPolicy{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPolicyNotFound
	}

	return s.Reload()
}

// Active returns the compiled policy currently enforced by the middleware,
// or nil when no enabled policy exists (filtering disabled).
func (s *PolicyService) Active() *geoip.Policy {
	return s.active.Load()
}

// Reload recompiles the most recently updated enabled policy. Called once at
// startup and after every mutation so in-flight requests keep the policy they
// started with.
func (s *PolicyService) Reload() error {
	var policy models.GeoPolicy
	err := s.db.Where("enabled = ?", true).Order("updated_at desc").First(&policy).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.active.Store(nil)
		return nil
	}
	if err != nil {
		return err
	}

	compiled, err := s.Compile(&policy)
	if err != nil {
		return err
	}

	s.active.Store(compiled)
	return nil
}

// Compile turns a stored policy into the engine's immutable form. An unset
// failOnUnknown column compiles to true, matching the config file default.
func (s *PolicyService) Compile(policy *models.GeoPolicy) (*geoip.Policy, error) {
	compiled := &geoip.Policy{FailOnUnknown: true}
	if policy.FailOnUnknown != nil {
		compiled.FailOnUnknown = *policy.FailOnUnknown
	}
	if policy.WhitelistRules != "" {
		if err := json.Unmarshal([]byte(policy.WhitelistRules), &compiled.WhitelistRules); err != nil {
			return nil, fmt.Errorf("decode whitelist rules: %w", err)
		}
	}
	return compiled, nil
}

// Bootstrap seeds the database from a JSON policy document (the deployment
// config file) unless a policy already exists.
func (s *PolicyService) Bootstrap(name string, data []byte) error {
	var count int64
	if err := s.db.Model(&models.GeoPolicy{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return s.Reload()
	}

	parsed, err := geoip.ParsePolicy(data)
	if err != nil {
		return err
	}

	rules, err := json.Marshal(parsed.WhitelistRules)
	if err != nil {
		return err
	}

	return s.Create(&models.GeoPolicy{
		Name:           name,
		Description:    "Bootstrapped from policy file",
		FailOnUnknown:  &parsed.FailOnUnknown,
		WhitelistRules: string(rules),
		Enabled:        true,
	})
}

// validatePolicy enforces the load-time constraints the evaluation engine
// assumes: COUNTRY rules carry a country code and DISTANCE rules carry sane
// coordinates with a positive threshold.
func (s *PolicyService) validatePolicy(policy *models.GeoPolicy) error {
	if strings.TrimSpace(policy.Name) == "" {
		return errors.New("name is required")
	}

	if policy.WhitelistRules == "" {
		return nil
	}

	var rules []geoip.Rule
	if err := json.Unmarshal([]byte(policy.WhitelistRules), &rules); err != nil {
		return fmt.Errorf("invalid whitelist rules JSON: %w", err)
	}

	for _, rule := range rules {
		switch rule.Type {
		case geoip.RuleTypeCountry:
			if !countryCodeRegex.MatchString(rule.Country) {
				return fmt.Errorf("%w: %q", ErrInvalidCountry, rule.Country)
			}
		case geoip.RuleTypeDistance:
			if rule.Distance <= 0 {
				return fmt.Errorf("%w: %d", ErrInvalidDistance, rule.Distance)
			}
			if rule.Latitude < -90 || rule.Latitude > 90 || rule.Longitude < -180 || rule.Longitude > 180 {
				return fmt.Errorf("%w: %f,%f", ErrInvalidCoordinate, rule.Latitude, rule.Longitude)
			}
		default:
			return fmt.Errorf("%w: %q", ErrInvalidRuleType, rule.Type)
		}
	}

	return nil
}
