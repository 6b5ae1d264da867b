package ratelimit

import "time"

// Hit records one accepted request against a rate-limited operation.
type Hit struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Operation string    `gorm:"type:varchar(50);not null;index:idx_rate_limit_hits_lookup,priority:1"`
	Key       string    `gorm:"column:limit_key;type:varchar(255);not null;index:idx_rate_limit_hits_lookup,priority:2"`
	HitAt     time.Time `gorm:"not null;index:idx_rate_limit_hits_lookup,priority:3"`
}

func (Hit) TableName() string {
	return "rate_limit_hits"
}
