package contact

import (
	"errors"
	"fmt"
	"strings"

	accountModel "marketing-crm/models/account"
	contactModel "marketing-crm/models/contact"
	"marketing-crm/services"
	"marketing-crm/types"
	crmTypes "marketing-crm/types/crm"
	"marketing-crm/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ContactController struct {
	DB    *gorm.DB
	Perms *services.PermissionService
}

func NewContactController(db *gorm.DB, perms *services.PermissionService) *ContactController {
	return &ContactController{DB: db, Perms: perms}
}

// Index lists contacts, optionally filtered by account and a search term
func (cc *ContactController) Index(c *fiber.Ctx) error {
	page, limit, offset := utils.ParsePagination(c)

	query := cc.DB.WithContext(c.UserContext()).Model(&contactModel.Contact{}).Scopes(cc.Perms.OwnerScope(c))
	if accountID := c.QueryInt("account_id"); accountID > 0 {
		query = query.Where("account_id = ?", accountID)
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.SendError(c, fmt.Errorf("failed to count contacts: %w", err))
	}

	contacts := []contactModel.Contact{}
	if err := query.Preload("Account").Order("id DESC").Limit(limit).Offset(offset).Find(&contacts).Error; err != nil {
		return utils.SendError(c, fmt.Errorf("failed to list contacts: %w", err))
	}

	return utils.SendSuccess(c, fiber.StatusOK, "Contacts fetched successfully", types.ListResponse{
		Items:      contacts,
		Pagination: types.Pagination{Page: page, Limit: limit, Total: total},
	})
}

func (cc *ContactController) Show(c *fiber.Ctx) error {
	contact, err := cc.find(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, fiber.StatusOK, "Contact fetched successfully", contact)
}

func (cc *ContactController) Store(c *fiber.Ctx) error {
	var req crmTypes.ContactCreateRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}
	if strings.TrimSpace(req.FirstName) == "" {
		return utils.SendError(c, types.NewError(types.KindInvalidFormat, "FirstName is required"))
	}
	if err := cc.checkAccount(c, req.AccountID); err != nil {
		return utils.SendError(c, err)
	}

	userID, _ := cc.Perms.GetUserID(c)
	ownerID := &userID
	if req.OwnerID != nil && cc.Perms.SeesAllRecords(c) {
		ownerID = req.OwnerID
	}

	contact := contactModel.Contact{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     utils.NullableEmail(req.Email),
		Phone:     utils.NullableString(req.Phone),
		Title:     strings.TrimSpace(req.Title),
		AccountID: req.AccountID,
		OwnerID:   ownerID,
	}
	if err := cc.DB.WithContext(c.UserContext()).Create(&contact).Error; err != nil {
		return utils.SendError(c, utils.TranslateDBError(err, "Contact"))
	}
	return utils.SendSuccess(c, fiber.StatusCreated, "Contact created successfully", contact)
}

func (cc *ContactController) Update(c *fiber.Ctx) error {
	contact, err := cc.find(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	var req crmTypes.ContactUpdateRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		firstName := strings.TrimSpace(*req.FirstName)
		if firstName == "" {
			return utils.SendError(c, types.NewError(types.KindInvalidFormat, "FirstName must not be empty"))
		}
		updates["first_name"] = firstName
	}
	if req.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		updates["email"] = utils.NullableEmail(*req.Email)
	}
	if req.Phone != nil {
		updates["phone"] = utils.NullableString(*req.Phone)
	}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.AccountID != nil {
		if err := cc.checkAccount(c, req.AccountID); err != nil {
			return utils.SendError(c, err)
		}
		updates["account_id"] = *req.AccountID
	}
	if req.OwnerID != nil {
		if !cc.Perms.SeesAllRecords(c) {
			return utils.SendError(c, types.NewError(types.KindForbidden, "Only managers can reassign contacts"))
		}
		updates["owner_id"] = *req.OwnerID
	}

	if len(updates) > 0 {
		if err := cc.DB.WithContext(c.UserContext()).Model(contact).Updates(updates).Error; err != nil {
			return utils.SendError(c, utils.TranslateDBError(err, "Contact"))
		}
	}
	if err := cc.DB.WithContext(c.UserContext()).Preload("Account").First(contact, contact.ID).Error; err != nil {
		return utils.SendError(c, utils.TranslateDBError(err, "Contact"))
	}
	return utils.SendSuccess(c, fiber.StatusOK, "Contact updated successfully", contact)
}

func (cc *ContactController) Destroy(c *fiber.Ctx) error {
	contact, err := cc.find(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	if err := cc.DB.WithContext(c.UserContext()).Delete(contact).Error; err != nil {
		return utils.SendError(c, fmt.Errorf("failed to delete contact: %w", err))
	}
	return utils.SendSuccess(c, fiber.StatusOK, "Contact deleted successfully", nil)
}

func (cc *ContactController) find(c *fiber.Ctx) (*contactModel.Contact, error) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return nil, err
	}
	var contact contactModel.Contact
	err = cc.DB.WithContext(c.UserContext()).Scopes(cc.Perms.OwnerScope(c)).Preload("Account").First(&contact, id).Error
	if err != nil {
		return nil, utils.TranslateDBError(err, "Contact")
	}
	return &contact, nil
}

func (cc *ContactController) checkAccount(c *fiber.Ctx, accountID *uint) error {
	if accountID == nil {
		return nil
	}
	var account accountModel.Account
	err := cc.DB.WithContext(c.UserContext()).Select("id").First(&account, *accountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.NewError(types.KindInvalidFormat, "Account does not exist")
	}
	return err
}
