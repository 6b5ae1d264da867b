package crm

import "time"

/*=============================================================================
| Leads
===============================================================================*/

type LeadCreateRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Email      string `json:"email" validate:"omitempty,email,max=255"`
	Phone      string `json:"phone" validate:"omitempty,phone"`
	Company    string `json:"company" validate:"max=255"`
	Source     string `json:"source" validate:"omitempty,oneof=web referral campaign event other"`
	Notes      string `json:"notes" validate:"max=5000"`
	OwnerID    *uint  `json:"owner_id"`
	CampaignID *uint  `json:"campaign_id"`
}

// LeadUpdateRequest only changes the fields that are present.
type LeadUpdateRequest struct {
	Name       *string `json:"name" validate:"omitempty,max=255"`
	Email      *string `json:"email" validate:"omitempty,email,max=255"`
	Phone      *string `json:"phone" validate:"omitempty,phone"`
	Company    *string `json:"company" validate:"omitempty,max=255"`
	Source     *string `json:"source" validate:"omitempty,oneof=web referral campaign event other"`
	Status     *string `json:"status" validate:"omitempty,oneof=new contacted qualified unqualified"`
	Notes      *string `json:"notes" validate:"omitempty,max=5000"`
	OwnerID    *uint   `json:"owner_id"`
	CampaignID *uint   `json:"campaign_id"`
}

type LeadQualifyRequest struct {
	Remarks string `json:"remarks" validate:"required,max=500"`
}

// LeadConvertRequest links the lead to AccountID when given, otherwise a new
// account named AccountName (or the lead's company) is created.
type LeadConvertRequest struct {
	AccountID   *uint  `json:"account_id"`
	AccountName string `json:"account_name" validate:"max=255"`
}

/*=============================================================================
| Contacts
===============================================================================*/

type ContactCreateRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	Email     string `json:"email" validate:"omitempty,email,max=255"`
	Phone     string `json:"phone" validate:"omitempty,phone"`
	Title     string `json:"title" validate:"max=100"`
	AccountID *uint  `json:"account_id"`
	OwnerID   *uint  `json:"owner_id"`
}

type ContactUpdateRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	Phone     *string `json:"phone" validate:"omitempty,phone"`
	Title     *string `json:"title" validate:"omitempty,max=100"`
	AccountID *uint   `json:"account_id"`
	OwnerID   *uint   `json:"owner_id"`
}

/*=============================================================================
| Accounts
===============================================================================*/

type AccountCreateRequest struct {
	Name      string `json:"name" validate:"required,max=255"`
	Industry  string `json:"industry" validate:"max=100"`
	Website   string `json:"website" validate:"omitempty,url,max=255"`
	Phone     string `json:"phone" validate:"omitempty,phone"`
	GSTNumber string `json:"gst_number" validate:"omitempty,gst"`
	City      string `json:"city" validate:"max=100"`
	State     string `json:"state" validate:"max=100"`
	OwnerID   *uint  `json:"owner_id"`
}

type AccountUpdateRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=255"`
	Industry  *string `json:"industry" validate:"omitempty,max=100"`
	Website   *string `json:"website" validate:"omitempty,url,max=255"`
	Phone     *string `json:"phone" validate:"omitempty,phone"`
	GSTNumber *string `json:"gst_number" validate:"omitempty,gst"`
	City      *string `json:"city" validate:"omitempty,max=100"`
	State     *string `json:"state" validate:"omitempty,max=100"`
	OwnerID   *uint   `json:"owner_id"`
}

/*=============================================================================
| Campaigns
===============================================================================*/

type CampaignCreateRequest struct {
	Name        string     `json:"name" validate:"required,max=255"`
	Description string     `json:"description" validate:"max=5000"`
	Channel     string     `json:"channel" validate:"required,oneof=email sms social event other"`
	Status      string     `json:"status" validate:"omitempty,oneof=draft active paused completed"`
	Budget      float64    `json:"budget" validate:"gte=0"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type CampaignUpdateRequest struct {
	Name        *string    `json:"name" validate:"omitempty,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	Channel     *string    `json:"channel" validate:"omitempty,oneof=email sms social event other"`
	Status      *string    `json:"status" validate:"omitempty,oneof=draft active paused completed"`
	Budget      *float64   `json:"budget" validate:"omitempty,gte=0"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

/*=============================================================================
| Users
===============================================================================*/

type UserCreateRequest struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Email       string   `json:"email" validate:"required,email,max=255"`
	Password    string   `json:"password" validate:"required,min=8,max=72"`
	Phone       string   `json:"phone" validate:"omitempty,phone"`
	Role        string   `json:"role" validate:"required,oneof=system_admin marketing_manager sales_executive subdealer"`
	Permissions []string `json:"permissions"`
}

type UserUpdateRequest struct {
	Name        *string   `json:"name" validate:"omitempty,max=255"`
	Password    *string   `json:"password" validate:"omitempty,min=8,max=72"`
	Role        *string   `json:"role" validate:"omitempty,oneof=system_admin marketing_manager sales_executive subdealer"`
	IsActive    *bool     `json:"is_active"`
	Permissions *[]string `json:"permissions"`
}
