package otp

import (
	"time"
)

const (
	CodeLength  = 6
	TTL         = 10 * time.Minute
	MaxAttempts = 5
)

// Challenge is one issued one-time code. Only the hash of the code is stored.
// A consumed or expired challenge is never reused; a new one must be issued.
type Challenge struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Phone       string     `gorm:"type:varchar(10);not null;index:idx_otp_challenges_phone_created,priority:1" json:"phone"`
	CodeHash    string     `gorm:"type:varchar(255);not null" json:"-"`
	ExpiresAt   time.Time  `gorm:"not null" json:"expires_at"`
	Attempts    int        `gorm:"not null;default:0" json:"attempts"`
	ConsumedAt  *time.Time `json:"consumed_at,omitempty"`
	SubdealerID *uint      `gorm:"index" json:"subdealer_id,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;index:idx_otp_challenges_phone_created,priority:2" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Challenge) TableName() string {
	return "otp_challenges"
}

func (c *Challenge) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

func (c *Challenge) IsConsumed() bool {
	return c.ConsumedAt != nil
}

func (c *Challenge) IsExhausted() bool {
	return c.Attempts >= MaxAttempts
}

func (c *Challenge) RemainingAttempts() int {
	if c.Attempts >= MaxAttempts {
		return 0
	}
	return MaxAttempts - c.Attempts
}
