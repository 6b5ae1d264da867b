package dashboard

import (
	"context"
	"fmt"
	"time"

	"marketing-crm/constants"
	accountModel "marketing-crm/models/account"
	campaignModel "marketing-crm/models/campaign"
	contactModel "marketing-crm/models/contact"
	leadModel "marketing-crm/models/lead"
	subdealerModel "marketing-crm/models/subdealer"
	"marketing-crm/services/auth"
	"marketing-crm/utils"

	"gorm.io/gorm"
)

const (
	ScopeAll = "all"
	ScopeOwn = "own"
)

// Totals counts records per resource.
type Totals struct {
	Leads      int64 `json:"leads"`
	Contacts   int64 `json:"contacts"`
	Accounts   int64 `json:"accounts"`
	Campaigns  int64 `json:"campaigns"`
	Subdealers int64 `json:"subdealers,omitempty"`
}

// Summary is the dashboard payload. Subdealer figures are only filled in
// for the "all" scope.
type Summary struct {
	Role                 string           `json:"role"`
	Scope                string           `json:"scope"`
	WeekStart            time.Time        `json:"week_start"`
	MonthStart           time.Time        `json:"month_start"`
	Totals               Totals           `json:"totals"`
	LeadsByStatus        map[string]int64 `json:"leads_by_status"`
	LeadsThisWeek        int64            `json:"leads_this_week"`
	LeadsThisMonth       int64            `json:"leads_this_month"`
	ConversionsThisMonth int64            `json:"conversions_this_month"`
	ActiveCampaigns      int64            `json:"active_campaigns"`
	SubdealersThisMonth  int64            `json:"subdealers_this_month,omitempty"`
}

type countQuery struct {
	name  string
	query *gorm.DB
	dest  *int64
}

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ScopeFor returns which records a role's dashboard covers.
func ScopeFor(p *auth.Principal) string {
	switch p.Role {
	case constants.RoleSystemAdmin, constants.RoleMarketingManager:
		return ScopeAll
	default:
		return ScopeOwn
	}
}

// Summary builds the dashboard for p.
func (s *Service) Summary(ctx context.Context, p *auth.Principal) (*Summary, error) {
	now := s.now().UTC()
	week := utils.CurrentWeek(now)
	month := utils.CurrentMonth(now)
	scope := ScopeFor(p)

	owned := func(db *gorm.DB) *gorm.DB {
		if scope == ScopeAll {
			return db
		}
		return db.Where("owner_id = ?", p.UserID)
	}
	db := s.db.WithContext(ctx)

	summary := &Summary{
		Role:          p.Role,
		Scope:         scope,
		WeekStart:     week.Start,
		MonthStart:    month.Start,
		LeadsByStatus: map[string]int64{},
	}

	counts := []countQuery{
		{"leads", db.Model(&leadModel.Lead{}).Scopes(owned), &summary.Totals.Leads},
		{"contacts", db.Model(&contactModel.Contact{}).Scopes(owned), &summary.Totals.Contacts},
		{"accounts", db.Model(&accountModel.Account{}).Scopes(owned), &summary.Totals.Accounts},
		{"campaigns", db.Model(&campaignModel.Campaign{}), &summary.Totals.Campaigns},
		{"active campaigns", db.Model(&campaignModel.Campaign{}).Where("status = ?", campaignModel.StatusActive), &summary.ActiveCampaigns},
		{"leads this week", db.Model(&leadModel.Lead{}).Scopes(owned).
			Where("created_at >= ? AND created_at < ?", week.Start, week.End), &summary.LeadsThisWeek},
		{"leads this month", db.Model(&leadModel.Lead{}).Scopes(owned).
			Where("created_at >= ? AND created_at < ?", month.Start, month.End), &summary.LeadsThisMonth},
		{"conversions this month", db.Model(&leadModel.Lead{}).Scopes(owned).
			Where("converted_at >= ? AND converted_at < ?", month.Start, month.End), &summary.ConversionsThisMonth},
	}
	if scope == ScopeAll {
		counts = append(counts,
			countQuery{"subdealers", db.Model(&subdealerModel.Subdealer{}), &summary.Totals.Subdealers},
			countQuery{"subdealers this month", db.Model(&subdealerModel.Subdealer{}).
				Where("created_at >= ? AND created_at < ?", month.Start, month.End), &summary.SubdealersThisMonth},
		)
	}

	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.name, err)
		}
	}

	var byStatus []struct {
		Status string
		Count  int64
	}
	if err := db.Model(&leadModel.Lead{}).Scopes(owned).
		Select("status, COUNT(*) AS count").Group("status").Scan(&byStatus).Error; err != nil {
		return nil, fmt.Errorf("failed to group leads by status: %w", err)
	}
	for _, row := range byStatus {
		summary.LeadsByStatus[row.Status] = row.Count
	}

	return summary, nil
}
