package account

import (
	"fmt"
	"strings"

	accountModel "marketing-crm/models/account"
	"marketing-crm/services"
	"marketing-crm/types"
	crmTypes "marketing-crm/types/crm"
	"marketing-crm/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AccountController struct {
	DB    *gorm.DB
	Perms *services.PermissionService
}

func NewAccountController(db *gorm.DB, perms *services.PermissionService) *AccountController {
	return &AccountController{DB: db, Perms: perms}
}

// Index lists accounts. Accounts are shared, so no owner scope is applied.
func (ac *AccountController) Index(c *fiber.Ctx) error {
	page, limit, offset := utils.ParsePagination(c)

	query := ac.DB.WithContext(c.UserContext()).Model(&accountModel.Account{})
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(city) LIKE ?", like, like)
	}
	if state := strings.TrimSpace(c.Query("state")); state != "" {
		query = query.Where("state = ?", state)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.SendError(c, fmt.Errorf("failed to count accounts: %w", err))
	}

	accounts := []accountModel.Account{}
	if err := query.Order("name ASC, id ASC").Limit(limit).Offset(offset).Find(&accounts).Error; err != nil {
		return utils.SendError(c, fmt.Errorf("failed to list accounts: %w", err))
	}

	return utils.SendSuccess(c, fiber.StatusOK, "Accounts fetched successfully", types.ListResponse{
		Items:      accounts,
		Pagination: types.Pagination{Page: page, Limit: limit, Total: total},
	})
}

func (ac *AccountController) Show(c *fiber.Ctx) error {
	account, err := ac.find(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, fiber.StatusOK, "Account fetched successfully", account)
}

func (ac *AccountController) Store(c *fiber.Ctx) error {
	var req crmTypes.AccountCreateRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}
	if strings.TrimSpace(req.Name) == "" {
		return utils.SendError(c, types.NewError(types.KindInvalidFormat, "Name is required"))
	}

	gst, err := normalizeGST(req.GSTNumber)
	if err != nil {
		return utils.SendError(c, err)
	}

	userID, _ := ac.Perms.GetUserID(c)
	ownerID := &userID
	if req.OwnerID != nil && ac.Perms.SeesAllRecords(c) {
		ownerID = req.OwnerID
	}

	account := accountModel.Account{
		Name:      strings.TrimSpace(req.Name),
		Industry:  strings.TrimSpace(req.Industry),
		Website:   strings.TrimSpace(req.Website),
		Phone:     utils.NullableString(req.Phone),
		GSTNumber: gst,
		City:      strings.TrimSpace(req.City),
		State:     strings.TrimSpace(req.State),
		OwnerID:   ownerID,
	}
	if err := ac.DB.WithContext(c.UserContext()).Create(&account).Error; err != nil {
		return utils.SendError(c, utils.TranslateDBError(err, "Account with this GST number"))
	}
	return utils.SendSuccess(c, fiber.StatusCreated, "Account created successfully", account)
}

func (ac *AccountController) Update(c *fiber.Ctx) error {
	account, err := ac.find(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	if !ac.Perms.CanModify(c, account.OwnerID) {
		return utils.SendError(c, types.NewError(types.KindForbidden, "Only the owner or a manager can edit this account"))
	}

	var req crmTypes.AccountUpdateRequest
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
	if req.Industry != nil {
		updates["industry"] = strings.TrimSpace(*req.Industry)
	}
	if req.Website != nil {
		updates["website"] = strings.TrimSpace(*req.Website)
	}
	if req.Phone != nil {
		updates["phone"] = utils.NullableString(*req.Phone)
	}
	if req.GSTNumber != nil {
		gst, err := normalizeGST(*req.GSTNumber)
		if err != nil {
			return utils.SendError(c, err)
		}
		updates["gst_number"] = gst
	}
	if req.City != nil {
		updates["city"] = strings.TrimSpace(*req.City)
	}
	if req.State != nil {
		updates["state"] = strings.TrimSpace(*req.State)
	}
	if req.OwnerID != nil {
		if !ac.Perms.SeesAllRecords(c) {
			return utils.SendError(c, types.NewError(types.KindForbidden, "Only managers can reassign accounts"))
		}
		updates["owner_id"] = *req.OwnerID
	}

	if len(updates) > 0 {
		if err := ac.DB.WithContext(c.UserContext()).Model(account).Updates(updates).Error; err != nil {
			return utils.SendError(c, utils.TranslateDBError(err, "Account with this GST number"))
		}
	}
	if err := ac.DB.WithContext(c.UserContext()).First(account, account.ID).Error; err != nil {
		return utils.SendError(c, utils.TranslateDBError(err, "Account"))
	}
	return utils.SendSuccess(c, fiber.StatusOK, "Account updated successfully", account)
}

func (ac *AccountController) Destroy(c *fiber.Ctx) error {
	account, err := ac.find(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	if !ac.Perms.CanModify(c, account.OwnerID) {
		return utils.SendError(c, types.NewError(types.KindForbidden, "Only the owner or a manager can delete this account"))
	}
	if err := ac.DB.WithContext(c.UserContext()).Delete(account).Error; err != nil {
		return utils.SendError(c, fmt.Errorf("failed to delete account: %w", err))
	}
	return utils.SendSuccess(c, fiber.StatusOK, "Account deleted successfully", nil)
}

func (ac *AccountController) find(c *fiber.Ctx) (*accountModel.Account, error) {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return nil, err
	}
	var account accountModel.Account
	if err := ac.DB.WithContext(c.UserContext()).First(&account, id).Error; err != nil {
		return nil, utils.TranslateDBError(err, "Account")
	}
	return &account, nil
}

func normalizeGST(input string) (*string, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	gst, err := utils.ValidateGST(input)
	if err != nil {
		return nil, err
	}
	return &gst, nil
}
