package subdealer

import (
	"time"
)

// Subdealer is created only after the owner of Phone has proven control of
// it with an OTP. Phone and GSTNumber are unique at the storage layer.
type Subdealer struct {
	ID               uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Uuid             string     `gorm:"type:varchar(36);not null;uniqueIndex" json:"uuid"`
	Phone            string     `gorm:"type:varchar(10);not null;uniqueIndex" json:"phone"`
	GSTNumber        string     `gorm:"column:gst_number;type:varchar(15);not null;uniqueIndex" json:"gst_number"`
	LegalName        string     `gorm:"type:varchar(255);not null" json:"legal_name"`
	TradeName        string     `gorm:"type:varchar(255)" json:"trade_name"`
	AddressLine1     string     `gorm:"type:varchar(255)" json:"address_line1"`
	AddressLine2     string     `gorm:"type:varchar(255)" json:"address_line2"`
	City             string     `gorm:"type:varchar(100)" json:"city"`
	District         string     `gorm:"type:varchar(100)" json:"district"`
	State            string     `gorm:"type:varchar(100);index" json:"state"`
	StateCode        string     `gorm:"type:varchar(2)" json:"state_code"`
	Pincode          string     `gorm:"type:varchar(6)" json:"pincode"`
	PANEncrypted     string     `gorm:"column:pan_encrypted;type:text" json:"-"`
	BusinessType     string     `gorm:"type:varchar(100)" json:"business_type"`
	BusinessStatus   string     `gorm:"type:varchar(50)" json:"business_status"`
	RegistrationDate string     `gorm:"type:varchar(20)" json:"registration_date"`
	Jurisdiction     string     `gorm:"type:varchar(255)" json:"jurisdiction"`
	PhoneVerified    bool       `gorm:"not null;default:false" json:"phone_verified"`
	VerifiedAt       *time.Time `json:"verified_at,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
