package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/gatewise/geofence/internal/geoip"
	"github.com/gatewise/geofence/internal/logger"
	"github.com/gatewise/geofence/internal/models"
)

// DecisionService records rejection verdicts for auditing and purges old rows.
type DecisionService struct {
	db *gorm.DB
}

func NewDecisionService(db *gorm.DB) *DecisionService {
	return &DecisionService{db: db}
}

// Record persists a rejection verdict together with the request it blocked.
func (s *DecisionService) Record(verdict *geoip.Verdict, host, path string) (*models.GeoDecision, error) {
	if verdict == nil || verdict.Allowed {
		return nil, fmt.Errorf("only rejections are recorded")
	}

	params := verdict.Parameters
	decision := &models.GeoDecision{
		UUID:           uuid.New().String(),
		Reason:         string(verdict.Reason),
		RemoteAddress:  params["remote_address"],
		CountryISOCode: params["country_iso_code"],
		CountryName:    params["country_name"],
		RegionName:     params["region_name"],
		CityName:       params["city_name"],
		Timezone:       params["timezone"],
		Host:           host,
		Path:           path,
	}

	if err := s.db.Create(decision).Error; err != nil {
		return nil, err
	}
	return decision, nil
}

// List retrieves the most recent decisions, newest first.
func (s *DecisionService) List(limit int) ([]models.GeoDecision, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var decisions []models.GeoDecision
	if err := s.db.Order("created_at desc").Limit(limit).Find(&decisions).Error; err != nil {
		return nil, err
	}
	return decisions, nil
}

// CountSince returns how many rejections an address accumulated since the
// given time. Used to throttle rejection alerts.
func (s *DecisionService) CountSince(remoteAddress string, since time.Time) (int64, error) {
	var count int64
	err := s.db.Model(&models.GeoDecision{}).
		Where("remote_address = ? AND created_at >= ?", remoteAddress, since).
		Count(&count).Error
	return count, err
}

// PurgeOlderThan deletes decisions older than the retention window and
// returns how many rows were removed.
func (s *DecisionService) PurgeOlderThan(days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	result := s.db.Where("created_at < ?", cutoff).Delete(&models.GeoDecision{})
	return result.RowsAffected, result.Error
}

// ScheduleRetention registers the nightly purge on the provided cron runner.
func (s *DecisionService) ScheduleRetention(runner *cron.Cron, days int) error {
	_, err := runner.AddFunc("0 3 * * *", func() {
		purged, err := s.PurgeOlderThan(days)
		if err != nil {
			logger.Log().WithError(err).Error("decision retention purge failed")
			return
		}
		if purged > 0 {
			logger.WithFields(map[string]interface{}{"purged": purged, "days": days}).Info("purged old geo decisions")
		}
	})
	return err
}
