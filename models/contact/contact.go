package contact

import (
	"time"

	"marketing-crm/models/account"

	"gorm.io/gorm"
)

// Contact is a person, optionally working for an Account.
type Contact struct {
	ID        uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName string           `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string           `gorm:"type:varchar(100)" json:"last_name"`
	Email     *string          `gorm:"type:varchar(255);index" json:"email,omitempty"`
	Phone     *string          `gorm:"type:varchar(10);index" json:"phone,omitempty"`
	Title     string           `gorm:"type:varchar(100)" json:"title"`
	AccountID *uint            `gorm:"index" json:"account_id,omitempty"`
	Account   *account.Account `gorm:"foreignKey:AccountID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"account,omitempty"`
	OwnerID   *uint            `gorm:"index" json:"owner_id,omitempty"`
	CreatedAt time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"-"`
}
