package account

import (
	"time"

	"gorm.io/gorm"
)

// Account is a customer organisation.
type Account struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null;index" json:"name"`
	Industry  string         `gorm:"type:varchar(100)" json:"industry"`
	Website   string         `gorm:"type:varchar(255)" json:"website"`
	Phone     *string        `gorm:"type:varchar(10)" json:"phone,omitempty"`
	GSTNumber *string        `gorm:"column:gst_number;type:varchar(15);uniqueIndex" json:"gst_number,omitempty"`
	City      string         `gorm:"type:varchar(100)" json:"city"`
	State     string         `gorm:"type:varchar(100)" json:"state"`
	OwnerID   *uint          `gorm:"index" json:"owner_id,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
