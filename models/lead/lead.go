package lead

import (
	"time"

	"gorm.io/gorm"
)

type Status string

const (
	StatusNew         Status = "new"
	StatusContacted   Status = "contacted"
	StatusQualified   Status = "qualified"
	StatusUnqualified Status = "unqualified"
	StatusConverted   Status = "converted"
)

type Source string

const (
	SourceWeb      Source = "web"
	SourceReferral Source = "referral"
	SourceCampaign Source = "campaign"
	SourceEvent    Source = "event"
	SourceOther    Source = "other"
)

// Lead is a prospective customer not yet converted into an account.
type Lead struct {
	ID                 uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name               string         `gorm:"type:varchar(255);not null" json:"name"`
	Email              *string        `gorm:"type:varchar(255);index" json:"email,omitempty"`
	Phone              *string        `gorm:"type:varchar(10);index" json:"phone,omitempty"`
	Company            string         `gorm:"type:varchar(255)" json:"company"`
	Source             Source         `gorm:"type:varchar(30);not null;default:'other'" json:"source"`
	Status             Status         `gorm:"type:varchar(30);not null;default:'new';index" json:"status"`
	Notes              string         `gorm:"type:text" json:"notes"`
	OwnerID            *uint          `gorm:"index" json:"owner_id,omitempty"`
	CampaignID         *uint          `gorm:"index" json:"campaign_id,omitempty"`
	ConvertedAccountID *uint          `json:"converted_account_id,omitempty"`
	ConvertedContactID *uint          `json:"converted_contact_id,omitempty"`
	ConvertedAt        *time.Time     `json:"converted_at,omitempty"`
	CreatedAt          time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func IsValidStatus(s string) bool {
	switch Status(s) {
	case StatusNew, StatusContacted, StatusQualified, StatusUnqualified, StatusConverted:
		return true
	}
	return false
}

func IsValidSource(s string) bool {
	switch Source(s) {
	case SourceWeb, SourceReferral, SourceCampaign, SourceEvent, SourceOther:
		return true
	}
	return false
}
