package seeders

import (
	"errors"
	"fmt"

	"marketing-crm/constants"
	"marketing-crm/logger"
	"marketing-crm/models/user"
	"marketing-crm/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin creates the first system admin when no user with email exists.
func SeedAdmin(db *gorm.DB, email, password string, cost int) error {
	if email == "" || password == "" {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD are required to seed an admin")
	}
	email, err := utils.ValidateEmail(email)
	if err != nil {
		return err
	}

	logger.Info("Checking for existing admin " + email)

	var existing user.User
	err = db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		logger.Success("Admin already present. No seeding needed.")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := user.User{
		Uuid:         uuid.NewString(),
		Name:         "System Admin",
		Email:        email,
		PasswordHash: string(hash),
		Role:         constants.RoleSystemAdmin,
		Permissions:  user.StringSlice{},
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	logger.Success(fmt.Sprintf("Seeded system admin %s (id %d)", admin.Email, admin.ID))
	return nil
}
