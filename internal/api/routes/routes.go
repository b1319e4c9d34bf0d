package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/gatewise/geofence/internal/api/handlers"
	"github.com/gatewise/geofence/internal/api/middleware"
	"github.com/gatewise/geofence/internal/config"
	"github.com/gatewise/geofence/internal/geoip"
	"github.com/gatewise/geofence/internal/metrics"
	"github.com/gatewise/geofence/internal/models"
	"github.com/gatewise/geofence/internal/services"
)

// Deps carries the shared services the route tree is built from. The server
// constructs these once so background jobs and handlers see the same state.
type Deps struct {
	DB        *gorm.DB
	Config    config.Config
	Policies  *services.PolicyService
	Decisions *services.DecisionService
	Auth      *services.AuthService
	Notifier  *services.NotificationService
	Resolver  geoip.Resolver
}

// Register wires up API routes and performs automatic migrations.
func Register(router *gin.Engine, deps Deps) error {
	if err := deps.DB.AutoMigrate(
		&models.GeoPolicy{},
		&models.GeoDecision{},
		&models.User{},
		&models.NotificationProvider{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// Pick up whatever policy was enabled before the last restart.
	if err := deps.Policies.Reload(); err != nil {
		return fmt.Errorf("load active policy: %w", err)
	}

	router.GET("/api/v1/health", handlers.HealthHandler)

	registry := prometheus.NewRegistry()
	metrics.Register(registry)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")

	// Every API request passes through the geo filter before anything else.
	api.Use(middleware.GeoFilter(deps.Policies, deps.Decisions, deps.Notifier, deps.Resolver))

	authHandler := handlers.NewAuthHandler(deps.Auth, deps.Config.IsProduction())
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register", authHandler.Register)

	protected := api.Group("/")
	protected.Use(middleware.Auth(deps.Auth))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)

		policyHandler := handlers.NewPolicyHandler(deps.Policies, deps.Resolver)
		protected.GET("/policies", policyHandler.List)
		protected.POST("/policies", policyHandler.Create)
		protected.GET("/policies/:id", policyHandler.Get)
		protected.PUT("/policies/:id", policyHandler.Update)
		protected.DELETE("/policies/:id", policyHandler.Delete)
		protected.POST("/policies/:id/test", policyHandler.Test)

		decisionHandler := handlers.NewDecisionHandler(deps.Decisions)
		protected.GET("/decisions", decisionHandler.List)
		protected.DELETE("/decisions", middleware.RequireRole("admin"), decisionHandler.Purge)

		providerHandler := handlers.NewNotificationProviderHandler(deps.Notifier)
		protected.GET("/notifications/providers", providerHandler.List)
		protected.POST("/notifications/providers", providerHandler.Create)
		protected.DELETE("/notifications/providers/:id", providerHandler.Delete)
	}

	return nil
}
