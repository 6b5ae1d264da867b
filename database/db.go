package database

import (
	"fmt"
	"time"

	"marketing-crm/config"
	"marketing-crm/logger"
	"marketing-crm/models/account"
	"marketing-crm/models/campaign"
	"marketing-crm/models/contact"
	"marketing-crm/models/lead"
	"marketing-crm/models/log"
	"marketing-crm/models/otp"
	"marketing-crm/models/ratelimit"
	"marketing-crm/models/subdealer"
	"marketing-crm/models/user"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// InitDB opens the PostgreSQL connection and brings the schema up to date.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.IsProduction() {
		logLevel = gormlogger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	logger.Success("Successfully connected to the database")

	if err := Migrate(db); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}

	return db, nil
}

// Migrate runs AutoMigrate for every model followed by the extra indexes.
func Migrate(db *gorm.DB) error {
	if err := autoMigrate(db); err != nil {
		return err
	}
	logger.Success("All migrations completed successfully")

	if err := createIndexes(db); err != nil {
		return err
	}
	logger.Success("All indexes created successfully")
	return nil
}

func autoMigrate(db *gorm.DB) error {
	// Stage 1: identities
	stage1Models := []interface{}{
		&user.User{},
		&subdealer.Subdealer{},
	}

	// Stage 2: CRM records, contacts reference accounts
	stage2Models := []interface{}{
		&account.Account{},
		&contact.Contact{},
		&campaign.Campaign{},
		&lead.Lead{},
	}

	// Stage 3: verification and bookkeeping
	stage3Models := []interface{}{
		&otp.Challenge{},
		&ratelimit.Hit{},
		&log.Log{},
	}

	for _, stage := range [][]interface{}{stage1Models, stage2Models, stage3Models} {
		for _, model := range stage {
			if err := db.AutoMigrate(model); err != nil {
				return fmt.Errorf("failed to migrate %T: %w", model, err)
			}
		}
	}
	return nil
}

// createIndexes adds indexes that struct tags do not express.
func createIndexes(db *gorm.DB) error {
	indexes := []struct {
		name string
		sql  string
	}{
		{"leads owner/status", "CREATE INDEX IF NOT EXISTS idx_leads_owner_status ON leads(owner_id, status)"},
		{"leads created_at", "CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at)"},
		{"subdealers created_at", "CREATE INDEX IF NOT EXISTS idx_subdealers_created_at ON subdealers(created_at)"},
		{"otp challenges expires_at", "CREATE INDEX IF NOT EXISTS idx_otp_challenges_expires_at ON otp_challenges(expires_at)"},
		{"logs status_code", "CREATE INDEX IF NOT EXISTS idx_logs_status_code ON logs(status_code)"},
		{"logs created_at", "CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)"},
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.sql).Error; err != nil {
			return fmt.Errorf("failed to create %s index: %w", idx.name, err)
		}
	}
	return nil
}
