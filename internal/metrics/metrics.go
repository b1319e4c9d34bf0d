package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	geoRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geofence_requests_total",
		Help: "Total number of requests evaluated by the geo filter",
	})
	geoAdmittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geofence_admitted_total",
		Help: "Total number of requests admitted by the geo filter",
	})
	geoRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geofence_rejected_total",
		Help: "Total number of requests rejected by the geo filter",
	}, []string{"reason"})
	lookupFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geofence_lookup_failures_total",
		Help: "Total number of geolocation lookups that failed to resolve",
	})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(geoRequestsTotal, geoAdmittedTotal, geoRejectedTotal, lookupFailuresTotal)
}

// IncGeoRequest increments the evaluated requests counter.
func IncGeoRequest() { geoRequestsTotal.Inc() }

// IncGeoAdmitted increments the admitted requests counter.
func IncGeoAdmitted() { geoAdmittedTotal.Inc() }

// IncGeoRejected increments the rejected requests counter for a reason.
func IncGeoRejected(reason string) { geoRejectedTotal.WithLabelValues(reason).Inc() }

// IncLookupFailure increments the failed lookup counter.
func IncLookupFailure() { lookupFailuresTotal.Inc() }
