package main

import (
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/gatewise/geofence/internal/config"
	"github.com/gatewise/geofence/internal/database"
	"github.com/gatewise/geofence/internal/models"
)

// Seeds a local development database with an admin user and a sample
// whitelist policy. Safe to run repeatedly.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.GeoPolicy{},
		&models.GeoDecision{},
		&models.NotificationProvider{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("✓ Database migrated successfully")

	// Sample policy: whitelist France plus a 100km radius around Paris.
	// Left disabled so seeding never locks anyone out.
	failOnUnknown := true
	policy := models.GeoPolicy{
		UUID:          uuid.NewString(),
		Name:          "sample-eu-whitelist",
		Description:   "France plus 100km around Paris",
		FailOnUnknown: &failOnUnknown,
		WhitelistRules: `[` +
			`{"type":"COUNTRY","country":"FR"},` +
			`{"type":"DISTANCE","latitude":48.85341,"longitude":2.3488,"distance":100000}` +
			`]`,
		Enabled: false,
	}
	result := db.Where("name = ?", policy.Name).FirstOrCreate(&policy)
	if result.Error != nil {
		log.Printf("Failed to seed policy %s: %v", policy.Name, result.Error)
	} else if result.RowsAffected > 0 {
		fmt.Printf("✓ Created policy: %s\n", policy.Name)
	} else {
		fmt.Printf("  Policy already exists: %s\n", policy.Name)
	}

	adminEmail := os.Getenv("GEOFENCE_DEFAULT_ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@localhost"
	}
	adminPassword := os.Getenv("GEOFENCE_DEFAULT_ADMIN_PASSWORD")

	user := models.User{
		UUID:    uuid.NewString(),
		Email:   adminEmail,
		Name:    "Administrator",
		Role:    "admin",
		Enabled: true,
	}

	if adminPassword != "" {
		if err := user.SetPassword(adminPassword); err != nil {
			log.Printf("Failed to hash default admin password: %v", err)
		}
	} else {
		// Non-loginable placeholder until a password is set via reset-password
		user.PasswordHash = "$2a$10$example_hashed_password"
	}

	var existing models.User
	if err := db.Where("email = ?", user.Email).First(&existing).Error; err != nil {
		if err := db.Create(&user).Error; err != nil {
			log.Printf("Failed to seed user: %v", err)
		} else {
			fmt.Printf("✓ Created default user: %s\n", user.Email)
		}
	} else {
		fmt.Printf("  User already exists: %s\n", existing.Email)
	}

	fmt.Println("\n✓ Database seeding completed successfully!")
}
