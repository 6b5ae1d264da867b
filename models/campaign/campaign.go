package campaign

import (
	"time"

	"gorm.io/gorm"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

type Channel string

const (
	ChannelEmail  Channel = "email"
	ChannelSMS    Channel = "sms"
	ChannelSocial Channel = "social"
	ChannelEvent  Channel = "event"
	ChannelOther  Channel = "other"
)

// Campaign is a marketing push that leads can be attributed to.
type Campaign struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Channel     Channel        `gorm:"type:varchar(30);not null" json:"channel"`
	Status      Status         `gorm:"type:varchar(30);not null;default:'draft';index" json:"status"`
	Budget      float64        `gorm:"type:numeric(14,2);default:0" json:"budget"`
	StartDate   *time.Time     `json:"start_date,omitempty"`
	EndDate     *time.Time     `json:"end_date,omitempty"`
	CreatedByID *uint          `gorm:"index" json:"created_by_id,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
