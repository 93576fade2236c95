package config

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"amana.dev/worklog/models"
)

// SeedDefaultManager creates the bootstrap manager account so a fresh
// deployment has someone who can approve logs. Skips if any manager
// already exists.
func SeedDefaultManager() {
	var count int64
	if err := DB.Model(&models.User{}).Where("role = ?", models.RoleManager).Count(&count).Error; err != nil {
		log.Printf("Warning: manager seed check failed: %v", err)
		return
	}
	if count > 0 {
		return
	}

	password := os.Getenv("SEED_MANAGER_PASSWORD")
	if password == "" {
		password = "ChangeMe123!"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Warning: manager seed hash failed: %v", err)
		return
	}

	manager := models.User{
		Name:         "Default Manager",
		Email:        "manager@example.com",
		Phone:        "0500000000",
		PasswordHash: string(hash),
		Role:         models.RoleManager,
	}
	if err := DB.Create(&manager).Error; err != nil {
		log.Printf("Warning: manager seed failed: %v", err)
		return
	}
	log.Println("Seeded default manager account", manager.Email)
}
