package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/robfig/cron/v3"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/gatewise/geofence/internal/api/routes"
	"github.com/gatewise/geofence/internal/config"
	"github.com/gatewise/geofence/internal/database"
	"github.com/gatewise/geofence/internal/geoip"
	"github.com/gatewise/geofence/internal/geoip/maxmind"
	"github.com/gatewise/geofence/internal/logger"
	"github.com/gatewise/geofence/internal/metrics"
	"github.com/gatewise/geofence/internal/models"
	"github.com/gatewise/geofence/internal/server"
	"github.com/gatewise/geofence/internal/services"
	"github.com/gatewise/geofence/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Log to both stdout and a rotated file
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		log.Fatalf("ensure log directory: %v", err)
	}
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, "geofence.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	logger.Init(!cfg.IsProduction(), io.MultiWriter(os.Stdout, rotator))

	if len(os.Args) > 1 && os.Args[1] == "reset-password" {
		resetPassword(cfg, os.Args[2:])
		return
	}

	logger.Log().Infof("starting %s %s", version.Name, version.Full())

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		logger.Log().WithError(err).Fatal("open database")
	}

	resolver := buildResolver(cfg)

	policies := services.NewPolicyService(db)
	decisions := services.NewDecisionService(db)
	deps := routes.Deps{
		DB:        db,
		Config:    cfg,
		Policies:  policies,
		Decisions: decisions,
		Auth:      services.NewAuthService(db, cfg),
		Notifier:  services.NewNotificationService(db),
		Resolver:  resolver,
	}

	srv, err := server.New(cfg, deps)
	if err != nil {
		logger.Log().WithError(err).Fatal("build server")
	}

	if cfg.PolicyFile != "" {
		data, err := os.ReadFile(cfg.PolicyFile)
		if err != nil {
			logger.Log().WithError(err).Fatal("read policy file")
		}
		if err := policies.Bootstrap(filepath.Base(cfg.PolicyFile), data); err != nil {
			logger.Log().WithError(err).Fatal("bootstrap policy")
		}
	}

	runner := cron.New()
	if err := decisions.ScheduleRetention(runner, cfg.DecisionRetention); err != nil {
		logger.Log().WithError(err).Fatal("schedule decision retention")
	}
	runner.Start()
	defer runner.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Log().Infof("listening on :%s", cfg.HTTPPort)
	if err := srv.Run(ctx); err != nil {
		logger.Log().WithError(err).Fatal("server error")
	}
	logger.Log().Info("shutdown complete")
}

// buildResolver opens the MaxMind database and wraps it with failure metrics.
// A missing database is not fatal: the server boots with a resolver that
// reports every address as unknown, so the active policy's failOnUnknown
// setting decides what happens to traffic.
func buildResolver(cfg config.Config) geoip.Resolver {
	var inner geoip.Resolver

	mm, err := maxmind.Open(cfg.GeoDatabasePath)
	if err != nil {
		logger.Log().WithError(err).WithField("path", cfg.GeoDatabasePath).
			Warn("geolocation database unavailable, all lookups will fail")
		inner = geoip.ResolverFunc(func(ctx context.Context, address string) (*geoip.Record, error) {
			return nil, geoip.ErrNotFound
		})
	} else {
		inner = mm
	}

	return geoip.ResolverFunc(func(ctx context.Context, address string) (*geoip.Record, error) {
		record, err := inner.Resolve(ctx, address)
		if err != nil && ctx.Err() == nil {
			metrics.IncLookupFailure()
		}
		return record, err
	})
}

func resetPassword(cfg config.Config, args []string) {
	if len(args) != 2 {
		log.Fatalf("Usage: %s reset-password <email> <new-password>", os.Args[0])
	}
	email, newPassword := args[0], args[1]

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		log.Fatalf("user not found: %v", err)
	}

	if err := user.SetPassword(newPassword); err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	if err := db.Save(&user).Error; err != nil {
		log.Fatalf("failed to save user: %v", err)
	}

	log.Printf("Password updated successfully for user %s", email)
}
