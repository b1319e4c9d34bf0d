package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/containrrr/shoutrrr"
	"gorm.io/gorm"

	"github.com/gatewise/geofence/internal/logger"
	"github.com/gatewise/geofence/internal/models"
)

// NotificationService dispatches rejection alerts to the configured shoutrrr
// providers. Alerts for the same address are suppressed during a cooldown
// window so a scanning host does not flood the channels.
type NotificationService struct {
	db       *gorm.DB
	cooldown time.Duration
	send     func(url, message string) error

	mu       sync.Mutex
	lastSent map[string]time.Time
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{
		db:       db,
		cooldown: time.Hour,
		send:     shoutrrr.Send,
		lastSent: make(map[string]time.Time),
	}
}

// ListProviders retrieves all providers.
func (s *NotificationService) ListProviders() ([]models.NotificationProvider, error) {
	var providers []models.NotificationProvider
	if err := s.db.Order("created_at desc").Find(&providers).Error; err != nil {
		return nil, err
	}
	return providers, nil
}

// CreateProvider stores a new provider.
func (s *NotificationService) CreateProvider(provider *models.NotificationProvider) error {
	return s.db.Create(provider).Error
}

// DeleteProvider removes a provider.
func (s *NotificationService) DeleteProvider(id uint) error {
	return s.db.Delete(&models.NotificationProvider{}, id).Error
}

// NotifyRejection fans a rejection alert out to every enabled provider.
func (s *NotificationService) NotifyRejection(decision *models.GeoDecision) {
	if decision == nil || !s.shouldNotify(decision.RemoteAddress) {
		return
	}

	var providers []models.NotificationProvider
	if err := s.db.Where("enabled = ?", true).Find(&providers).Error; err != nil {
		logger.Log().WithError(err).Error("failed to fetch notification providers")
		return
	}
	if len(providers) == 0 {
		return
	}

	message := fmt.Sprintf("Geofence rejected %s (%s) for %s%s",
		decision.RemoteAddress, decision.Reason, decision.Host, decision.Path)
	if decision.CountryISOCode != "" {
		message += fmt.Sprintf(" [country=%s]", decision.CountryISOCode)
	}

	for _, provider := range providers {
		if err := s.send(provider.ServiceURL, message); err != nil {
			logger.WithFields(map[string]interface{}{
				"provider": provider.Name,
			}).WithError(err).Error("failed to send rejection alert")
		}
	}
}

// shouldNotify tracks per-address cooldowns.
func (s *NotificationService) shouldNotify(remoteAddress string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if last, ok := s.lastSent[remoteAddress]; ok && now.Sub(last) < s.cooldown {
		return false
	}
	s.lastSent[remoteAddress] = now
	return true
}
