package lead

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"marketing-crm/logger"
	"marketing-crm/metrics"
	accountModel "marketing-crm/models/account"
	campaignModel "marketing-crm/models/campaign"
	contactModel "marketing-crm/models/contact"
	leadModel "marketing-crm/models/lead"
	"marketing-crm/services"
	"marketing-crm/types"
	crmTypes "marketing-crm/types/crm"
	"marketing-crm/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// LeadController handles lead-related HTTP requests
type LeadController struct {
	DB    *gorm.DB
	Perms *services.PermissionService
}

// NewLeadController creates a new lead controller
func NewLeadController(db *gorm.DB, perms *services.PermissionService) *LeadController {
	return &LeadController{DB: db, Perms: perms}
}

// Index lists leads visible to the user, filtered by status, source, owner and a search term.
func (lc *LeadController) Index(c *fiber.Ctx) error {
	page, limit, offset := utils.ParsePagination(c)

	query := lc.DB.WithContext(c.UserContext()).Model(&leadModel.Lead{}).Scopes(lc.Perms.OwnerScope(c))

	if status := c.Query("status"); status != "" {
		if !leadModel.IsValidStatus(status) {
			return utils.SendError(c, types.NewError(types.KindInvalidFormat, "Unknown lead status: "+status))
		}
		query = query.Where("status = ?", status)
	}
	if source := c.Query("source"); source != "" {
		if !leadModel.IsValidSource(source) {
			return utils.SendError(c, types.NewError(types.KindInvalidFormat, "Unknown lead source: "+source))
		}
		query = query.Where("source = ?", source)
	}
	if owner := c.Query("owner_id"); owner != "" {
		ownerID, err := strconv.ParseUint(owner, 10, 64)
		if err != nil {
			return utils.SendError(c, types.NewError(types.KindInvalidFormat, "Invalid owner_id"))
		}
		query = query.Where("owner_id = ?", ownerID)
	}
	if campaign := c.Query("campaign_id"); campaign != "" {
		campaignID, err := strconv.ParseUint(campaign, 10, 64)
		if err != nil {
			return utils.SendError(c, types.NewError(types.KindInvalidFormat, "Invalid campaign_id"))
		}
		query = query.Where("campaign_id = ?", campaignID)
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(company) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.SendError(c, fmt.Errorf("failed to count leads: %w", err))
	}

	leads := []leadModel.Lead{}
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&leads).Error; err != nil {
		return utils.SendError(c, fmt.Errorf("failed to list leads: %w", err))
	}

	return utils.SendSuccess(c, fiber.StatusOK, "Leads fetched successfully", types.ListResponse{
		Items:      leads,
		Pagination: types.Pagination{Page: page, Limit: limit, Total: total},
	})
}

// Show returns a single lead
func (lc *LeadController) Show(c *fiber.Ctx) error {
	lead, err := lc.find(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, fiber.StatusOK, "Lead fetched successfully", lead)
}

// Store creates a new lead. Users who only see their own records always own
// the leads they create.
func (lc *LeadController) Store(c *fiber.Ctx) error {
	var req crmTypes.LeadCreateRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}
	if strings.TrimSpace(req.Name) == "" {
		return utils.SendError(c, types.NewError(types.KindInvalidFormat, "Name is required"))
	}
	if err := lc.checkCampaign(c, req.CampaignID); err != nil {
		return utils.SendError(c, err)
	}

	userID, _ := lc.Perms.GetUserID(c)
	ownerID := &userID
	if req.OwnerID != nil && lc.Perms.SeesAllRecords(c) {
		ownerID = req.OwnerID
	}

	source := leadModel.SourceOther
	if req.Source != "" {
		source = leadModel.Source(req.Source)
	}

	lead := leadModel.Lead{
		Name:       strings.TrimSpace(req.Name),
		Email:      utils.NullableEmail(req.Email),
		Phone:      utils.NullableString(req.Phone),
		Company:    strings.TrimSpace(req.Company),
		Source:     source,
		Status:     leadModel.StatusNew,
		Notes:      req.Notes,
		OwnerID:    ownerID,
		CampaignID: req.CampaignID,
	}
	if err := lc.DB.WithContext(c.UserContext()).Create(&lead).Error; err != nil {
		return utils.SendError(c, utils.TranslateDBError(err, "Lead"))
	}

	metrics.LeadsCreatedTotal.Inc()
	logger.Success(fmt.Sprintf("Lead created successfully with ID: %d", lead.ID))
	return utils.SendSuccess(c, fiber.StatusCreated, "Lead created successfully", lead)
}

// Update changes the fields present in the request
func (lc *LeadController) Update(c *fiber.Ctx) error {
	lead, err := lc.find(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	if lead.Status == leadModel.StatusConverted {
		return utils.SendError(c, types.NewError(types.KindConflict, "Converted leads cannot be edited"))
	}

	var req crmTypes.LeadUpdateRequest
	if err := utils.ParseBody(c, &req); err != nil {
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
	if req.Email != nil {
		updates["email"] = utils.NullableEmail(*req.Email)
	}
	if req.Phone != nil {
		updates["phone"] = utils.NullableString(*req.Phone)
	}
	if req.Company != nil {
		updates["company"] = strings.TrimSpace(*req.Company)
	}
	if req.Source != nil && *req.Source != "" {
		updates["source"] = *req.Source
	}
	if req.Status != nil && *req.Status != "" {
		updates["status"] = *req.Status
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.CampaignID != nil {
		if err := lc.checkCampaign(c, req.CampaignID); err != nil {
			return utils.SendError(c, err)
		}
		updates["campaign_id"] = *req.CampaignID
	}
	if req.OwnerID != nil {
		if !lc.Perms.SeesAllRecords(c) {
			return utils.SendError(c, types.NewError(types.KindForbidden, "Only managers can reassign leads"))
		}
		updates["owner_id"] = *req.OwnerID
	}

	if len(updates) > 0 {
		if err := lc.DB.WithContext(c.UserContext()).Model(lead).Updates(updates).Error; err != nil {
			return utils.SendError(c, utils.TranslateDBError(err, "Lead"))
		}
	}

	if err := lc.DB.WithContext(c.UserContext()).First(lead, lead.ID).Error; err != nil {
		return utils.SendError(c, utils.TranslateDBError(err, "Lead"))
	}
	return utils.SendSuccess(c, fiber.StatusOK, "Lead updated successfully", lead)
}

// Destroy soft deletes a lead
func (lc *LeadController) Destroy(c *fiber.Ctx) error {
	lead, err := lc.find(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	if err := lc.DB.WithContext(c.UserContext()).Delete(lead).Error; err != nil {
		return utils.SendError(c, fmt.Errorf("failed to delete lead: %w", err))
	}
	logger.Info(fmt.Sprintf("Lead %d deleted", lead.ID))
	return utils.SendSuccess(c, fiber.StatusOK, "Lead deleted successfully", nil)
}

// Qualify marks a lead as qualified. Remarks are validated but not stored.
func (lc *LeadController) Qualify(c *fiber.Ctx) error {
	lead, err := lc.find(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	var req crmTypes.LeadQualifyRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, types.WrapError(types.KindInvalidFormat, "Invalid request body", err))
	}
	req.Remarks = strings.TrimSpace(req.Remarks)
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.SendError(c, err)
	}

	if lead.Status == leadModel.StatusConverted {
		return utils.SendError(c, types.NewError(types.KindConflict, "Lead is already converted"))
	}

	if err := lc.DB.WithContext(c.UserContext()).Model(lead).Update("status", leadModel.StatusQualified).Error; err != nil {
		return utils.SendError(c, fmt.Errorf("failed to qualify lead: %w", err))
	}
	lead.Status = leadModel.StatusQualified
	return utils.SendSuccess(c, fiber.StatusOK, "Lead qualified successfully", lead)
}

// Convert turns a lead into an account and a contact in one transaction.
func (lc *LeadController) Convert(c *fiber.Ctx) error {
	lead, err := lc.find(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	var req crmTypes.LeadConvertRequest
	if len(c.Body()) > 0 {
		if err := utils.ParseBody(c, &req); err != nil {
			return utils.SendError(c, err)
		}
	}

	if lead.Status == leadModel.StatusConverted {
		return utils.SendError(c, types.NewError(types.KindConflict, "Lead is already converted"))
	}

	var account accountModel.Account
	var contact contactModel.Contact
	convertedAt := time.Now().UTC()

	err = lc.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if req.AccountID != nil {
			if err := tx.First(&account, *req.AccountID).Error; err != nil {
				return utils.TranslateDBError(err, "Account")
			}
		} else {
			account = accountModel.Account{
				Name:    accountName(req.AccountName, lead),
				Phone:   lead.Phone,
				OwnerID: lead.OwnerID,
			}
			if err := tx.Create(&account).Error; err != nil {
				return utils.TranslateDBError(err, "Account")
			}
		}

		firstName, lastName := splitName(lead.Name)
		contact = contactModel.Contact{
			FirstName: firstName,
			LastName:  lastName,
			Email:     lead.Email,
			Phone:     lead.Phone,
			AccountID: &account.ID,
			OwnerID:   lead.OwnerID,
		}
		if err := tx.Create(&contact).Error; err != nil {
			return utils.TranslateDBError(err, "Contact")
		}

		result := tx.Model(&leadModel.Lead{}).
			Where("id = ? AND status <> ?", lead.ID, leadModel.StatusConverted).
			Updates(map[string]interface{}{
				"status":               leadModel.StatusConverted,
				"converted_account_id": account.ID,
				"converted_contact_id": contact.ID,
				"converted_at":         convertedAt,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to mark lead converted: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return types.NewError(types.KindConflict, "Lead is already converted")
		}
		return nil
	})
	if err != nil {
		return utils.SendError(c, err)
	}

	lead.Status = leadModel.StatusConverted
	lead.ConvertedAccountID = &account.ID
	lead.ConvertedContactID = &contact.ID
	lead.ConvertedAt = &convertedAt

	metrics.LeadsConvertedTotal.Inc()
	logger.Success(fmt.Sprintf("Lead %d converted to account %d", lead.ID, account.ID))
	return utils.SendSuccess(c, fiber.StatusOK, "Lead converted successfully", fiber.Map{
		"lead":    lead,
		"account": account,
		"contact": contact,
	})
}

func (lc *LeadController) find(c *fiber.Ctx) (*leadModel.Lead, error) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return nil, err
	}
	var lead leadModel.Lead
	err = lc.DB.WithContext(c.UserContext()).Scopes(lc.Perms.OwnerScope(c)).First(&lead, id).Error
	if err != nil {
		return nil, utils.TranslateDBError(err, "Lead")
	}
	return &lead, nil
}

func (lc *LeadController) checkCampaign(c *fiber.Ctx, campaignID *uint) error {
	if campaignID == nil {
		return nil
	}
	var campaign campaignModel.Campaign
	err := lc.DB.WithContext(c.UserContext()).Select("id").First(&campaign, *campaignID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.NewError(types.KindInvalidFormat, "Campaign does not exist")
	}
	return err
}

func accountName(requested string, lead *leadModel.Lead) string {
	if name := strings.TrimSpace(requested); name != "" {
		return name
	}
	if lead.Company != "" {
		return lead.Company
	}
	return lead.Name
}

func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return name, ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
