package ratelimit

import (
	"context"
	"fmt"
	"time"

	model "marketing-crm/models/ratelimit"

	"gorm.io/gorm"
)

// GormStore keeps one row per accepted hit in rate_limit_hits.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Take(ctx context.Context, rule Rule, key string, now time.Time) (bool, time.Time, error) {
	var allowed bool
	var oldest time.Time
	cutoff := now.Add(-rule.Window)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			// serialise concurrent checks for the same key until commit
			if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", rule.Operation+":"+key).Error; err != nil {
				return fmt.Errorf("failed to lock rate limit key: %w", err)
			}
		}

		scope := tx.Model(&model.Hit{}).
			Where("operation = ? AND limit_key = ? AND hit_at > ?", rule.Operation, key, cutoff)

		var count int64
		if err := scope.Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count hits: %w", err)
		}

		if count >= int64(rule.Limit) {
			var first model.Hit
			if err := tx.Where("operation = ? AND limit_key = ? AND hit_at > ?", rule.Operation, key, cutoff).
				Order("hit_at ASC").First(&first).Error; err != nil {
				return fmt.Errorf("failed to load oldest hit: %w", err)
			}
			oldest = first.HitAt
			return nil
		}

		hit := model.Hit{Operation: rule.Operation, Key: key, HitAt: now}
		if err := tx.Create(&hit).Error; err != nil {
			return fmt.Errorf("failed to record hit: %w", err)
		}
		allowed = true
		return nil
	})
	if err != nil {
		return false, time.Time{}, err
	}
	return allowed, oldest, nil
}

func (s *GormStore) Cleanup(ctx context.Context, before time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("hit_at <= ?", before).Delete(&model.Hit{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete stale hits: %w", res.Error)
	}
	return res.RowsAffected, nil
}
