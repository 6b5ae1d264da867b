package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"marketing-crm/config"
	"marketing-crm/database"
	"marketing-crm/database/seeders"
	otpService "marketing-crm/services/otp"
	"marketing-crm/services/ratelimit"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run tools/migrate.go migrate       - Run migrations and create indexes")
		fmt.Println("  go run tools/migrate.go seed          - Create the admin from ADMIN_EMAIL / ADMIN_PASSWORD")
		fmt.Println("  go run tools/migrate.go cleanup-otps  - Delete expired OTP challenges and stale rate limit hits")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "migrate":
		fmt.Println("🚀 Running database migrations...")
		// InitDB migrates on connect.
		if _, err := database.InitDB(cfg); err != nil {
			fmt.Printf("❌ Migration failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✅ Migration completed successfully!")

	case "seed":
		db, err := database.InitDB(cfg)
		if err != nil {
			fmt.Printf("❌ Database connection failed: %v\n", err)
			os.Exit(1)
		}
		if err := seeders.SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword, cfg.BcryptCost); err != nil {
			fmt.Printf("❌ Seeding failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✅ Seeding completed successfully!")

	case "cleanup-otps":
		db, err := database.InitDB(cfg)
		if err != nil {
			fmt.Printf("❌ Database connection failed: %v\n", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		otps := otpService.NewService(db, nil, cfg.IsProduction(), cfg.BcryptCost)
		deleted, err := otps.CleanupExpired(ctx, 24*time.Hour)
		if err != nil {
			fmt.Printf("❌ OTP cleanup failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("🧹 Deleted %d expired OTP challenges\n", deleted)

		var store ratelimit.Store = ratelimit.NewGormStore(db)
		if cfg.RedisURL != "" {
			client, err := database.NewRedisClient(cfg.RedisURL)
			if err != nil {
				fmt.Printf("❌ Redis connection failed: %v\n", err)
				os.Exit(1)
			}
			defer client.Close()
			store = ratelimit.NewRedisStore(client)
		}
		hits, err := ratelimit.NewLimiter(store).Cleanup(ctx)
		if err != nil {
			fmt.Printf("❌ Rate limit cleanup failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("🧹 Deleted %d stale rate limit hits\n", hits)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Available commands: migrate, seed, cleanup-otps")
	}
}
