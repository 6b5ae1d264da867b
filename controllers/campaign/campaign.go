package campaign

import (
	"fmt"
	"strings"
	"time"

	campaignModel "marketing-crm/models/campaign"
	leadModel "marketing-crm/models/lead"
	"marketing-crm/services"
	"marketing-crm/types"
	crmTypes "marketing-crm/types/crm"
	"marketing-crm/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CampaignController struct {
	DB    *gorm.DB
	Perms *services.PermissionService
}

func NewCampaignController(db *gorm.DB, perms *services.PermissionService) *CampaignController {
	return &CampaignController{DB: db, Perms: perms}
}

// campaignWithStats is a campaign plus the number of leads attributed to it.
type campaignWithStats struct {
	campaignModel.Campaign
	LeadCount int64 `json:"lead_count"`
}

func (cc *CampaignController) Index(c *fiber.Ctx) error {
	page, limit, offset := utils.ParsePagination(c)

	query := cc.DB.WithContext(c.UserContext()).Model(&campaignModel.Campaign{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if channel := c.Query("channel"); channel != "" {
		query = query.Where("channel = ?", channel)
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.SendError(c, fmt.Errorf("failed to count campaigns: %w", err))
	}

	campaigns := []campaignModel.Campaign{}
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&campaigns).Error; err != nil {
		return utils.SendError(c, fmt.Errorf("failed to list campaigns: %w", err))
	}

	return utils.SendSuccess(c, fiber.StatusOK, "Campaigns fetched successfully", types.ListResponse{
		Items:      campaigns,
		Pagination: types.Pagination{Page: page, Limit: limit, Total: total},
	})
}

// Show returns a campaign with its lead count
func (cc *CampaignController) Show(c *fiber.Ctx) error {
	campaign, err := cc.find(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	var leadCount int64
	if err := cc.DB.WithContext(c.UserContext()).Model(&leadModel.Lead{}).Where("campaign_id = ?", campaign.ID).Count(&leadCount).Error; err != nil {
		return utils.SendError(c, fmt.Errorf("failed to count campaign leads: %w", err))
	}

	return utils.SendSuccess(c, fiber.StatusOK, "Campaign fetched successfully", campaignWithStats{
		Campaign:  *campaign,
		LeadCount: leadCount,
	})
}

func (cc *CampaignController) Store(c *fiber.Ctx) error {
	var req crmTypes.CampaignCreateRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}
	if strings.TrimSpace(req.Name) == "" {
		return utils.SendError(c, types.NewError(types.KindInvalidFormat, "Name is required"))
	}
	if err := checkDateRange(req.StartDate, req.EndDate); err != nil {
		return utils.SendError(c, err)
	}

	status := campaignModel.StatusDraft
	if req.Status != "" {
		status = campaignModel.Status(req.Status)
	}

	userID, _ := cc.Perms.GetUserID(c)
	campaign := campaignModel.Campaign{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Channel:     campaignModel.Channel(req.Channel),
		Status:      status,
		Budget:      req.Budget,
		StartDate:   utcPtr(req.StartDate),
		EndDate:     utcPtr(req.EndDate),
		CreatedByID: &userID,
	}
	if err := cc.DB.WithContext(c.UserContext()).Create(&campaign).Error; err != nil {
		return utils.SendError(c, utils.TranslateDBError(err, "Campaign"))
	}
	return utils.SendSuccess(c, fiber.StatusCreated, "Campaign created successfully", campaign)
}

func (cc *CampaignController) Update(c *fiber.Ctx) error {
	campaign, err := cc.find(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	var req crmTypes.CampaignUpdateRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	start, end := campaign.StartDate, campaign.EndDate
	if req.StartDate != nil {
		start = req.StartDate
	}
	if req.EndDate != nil {
		end = req.EndDate
	}
	if err := checkDateRange(start, end); err != nil {
		return utils.SendError(c, err)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return utils.SendError(c, types.NewError(types.KindInvalidFormat, "Name must not be empty"))
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Channel != nil && *req.Channel != "" {
		updates["channel"] = *req.Channel
	}
	if req.Status != nil && *req.Status != "" {
		updates["status"] = *req.Status
	}
	if req.Budget != nil {
		updates["budget"] = *req.Budget
	}
	if req.StartDate != nil {
		updates["start_date"] = req.StartDate.UTC()
	}
	if req.EndDate != nil {
		updates["end_date"] = req.EndDate.UTC()
	}

	if len(updates) > 0 {
		if err := cc.DB.WithContext(c.UserContext()).Model(campaign).Updates(updates).Error; err != nil {
			return utils.SendError(c, utils.TranslateDBError(err, "Campaign"))
		}
	}
	if err := cc.DB.WithContext(c.UserContext()).First(campaign, campaign.ID).Error; err != nil {
		return utils.SendError(c, utils.TranslateDBError(err, "Campaign"))
	}
	return utils.SendSuccess(c, fiber.StatusOK, "Campaign updated successfully", campaign)
}

// Destroy soft deletes a campaign and detaches its leads
func (cc *CampaignController) Destroy(c *fiber.Ctx) error {
	campaign, err := cc.find(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	err = cc.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&leadModel.Lead{}).Where("campaign_id = ?", campaign.ID).Update("campaign_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(campaign).Error
	})
	if err != nil {
		return utils.SendError(c, fmt.Errorf("failed to delete campaign: %w", err))
	}
	return utils.SendSuccess(c, fiber.StatusOK, "Campaign deleted successfully", nil)
}

func (cc *CampaignController) find(c *fiber.Ctx) (*campaignModel.Campaign, error) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return nil, err
	}
	var campaign campaignModel.Campaign
	if err := cc.DB.WithContext(c.UserContext()).First(&campaign, id).Error; err != nil {
		return nil, utils.TranslateDBError(err, "Campaign")
	}
	return &campaign, nil
}

func checkDateRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return types.NewError(types.KindInvalidFormat, "end_date must not be before start_date")
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
