package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/gatewise/geofence/internal/geoip"
	"github.com/gatewise/geofence/internal/metrics"
	"github.com/gatewise/geofence/internal/services"
	"github.com/gatewise/geofence/internal/util"
)

// GeoFilter enforces the active whitelist policy on every request. The
// source address is resolved once through the lookup resolver and the
// resulting verdict is applied: rejected requests get a 403 with the reason
// and diagnostic parameters, admitted requests continue down the chain. When
// no policy is enabled the filter passes everything through untouched.
func GeoFilter(
	policies *services.PolicyService,
	decisions *services.DecisionService,
	notifier *services.NotificationService,
	resolver geoip.Resolver,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		policy := policies.Active()
		if policy == nil {
			c.Next()
			return
		}

		metrics.IncGeoRequest()

		filter := geoip.NewFilter(policy, resolver)
		verdict, err := filter.Decide(c.Request.Context(), c.ClientIP())
		if err != nil {
			// The request was aborted while the lookup was pending; there is
			// no verdict to apply and nothing useful to write back.
			c.Abort()
			return
		}

		if verdict.Allowed {
			metrics.IncGeoAdmitted()
			c.Next()
			return
		}

		path := util.Truncate(util.SanitizeForLog(c.Request.URL.Path), 512)

		metrics.IncGeoRejected(string(verdict.Reason))
		GetRequestLogger(c).WithFields(map[string]interface{}{
			"source": "geofilter",
			"reason": string(verdict.Reason),
			"client": c.ClientIP(),
			"path":   path,
		}).Warn("request rejected by geo policy")

		if decisions != nil {
			if decision, err := decisions.Record(verdict, util.SanitizeForLog(c.Request.Host), path); err == nil && notifier != nil {
				notifier.NotifyRejection(decision)
			}
		}

		c.AbortWithStatusJSON(verdict.StatusCode, gin.H{
			"code":       string(verdict.Reason),
			"message":    verdict.Message,
			"parameters": verdict.Parameters,
		})
	}
}
