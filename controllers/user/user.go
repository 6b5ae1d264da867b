package user

import (
	"fmt"
	"strings"

	"marketing-crm/constants"
	"marketing-crm/logger"
	"marketing-crm/middleware"
	userModel "marketing-crm/models/user"
	"marketing-crm/services/auth"
	"marketing-crm/types"
	crmTypes "marketing-crm/types/crm"
	"marketing-crm/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserController struct {
	DB   *gorm.DB
	Auth *auth.Service
}

func NewUserController(db *gorm.DB, authService *auth.Service) *UserController {
	return &UserController{DB: db, Auth: authService}
}

// Index lists users, optionally filtered by role
func (uc *UserController) Index(c *fiber.Ctx) error {
	page, limit, offset := utils.ParsePagination(c)

	query := uc.DB.WithContext(c.UserContext()).Model(&userModel.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.SendError(c, fmt.Errorf("failed to count users: %w", err))
	}

	users := []userModel.User{}
	if err := query.Order("id ASC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return utils.SendError(c, fmt.Errorf("failed to list users: %w", err))
	}

	return utils.SendSuccess(c, fiber.StatusOK, "Users fetched successfully", types.ListResponse{
		Items:      users,
		Pagination: types.Pagination{Page: page, Limit: limit, Total: total},
	})
}

// Store creates a staff user with a bcrypt hashed password
func (uc *UserController) Store(c *fiber.Ctx) error {
	var req crmTypes.UserCreateRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}
	if err := checkPermissions(req.Permissions); err != nil {
		return utils.SendError(c, err)
	}

	email, err := utils.ValidateEmail(req.Email)
	if err != nil {
		return utils.SendError(c, err)
	}
	hash, err := uc.Auth.HashPassword(req.Password)
	if err != nil {
		return utils.SendError(c, err)
	}

	user := userModel.User{
		Uuid:         uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Phone:        utils.NullableString(req.Phone),
		PasswordHash: hash,
		Role:         req.Role,
		Permissions:  userModel.StringSlice(req.Permissions),
		IsActive:     true,
	}
	if err := uc.DB.WithContext(c.UserContext()).Create(&user).Error; err != nil {
		return utils.SendError(c, utils.TranslateDBError(err, "User with this email or phone"))
	}

	logger.Success(fmt.Sprintf("User %s created with role %s", user.Email, user.Role))
	return utils.SendSuccess(c, fiber.StatusCreated, "User created successfully", user)
}

// Update changes role, permissions, password or the active flag
func (uc *UserController) Update(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	var user userModel.User
	if err := uc.DB.WithContext(c.UserContext()).First(&user, id).Error; err != nil {
		return utils.SendError(c, utils.TranslateDBError(err, "User"))
	}

	var req crmTypes.UserUpdateRequest
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
	if req.Role != nil && *req.Role != "" {
		updates["role"] = *req.Role
	}
	if req.Permissions != nil {
		if err := checkPermissions(*req.Permissions); err != nil {
			return utils.SendError(c, err)
		}
		updates["permissions"] = userModel.StringSlice(*req.Permissions)
	}
	if req.IsActive != nil {
		if principal := middleware.CurrentPrincipal(c); principal != nil && principal.UserID == user.ID && !*req.IsActive {
			return utils.SendError(c, types.NewError(types.KindConflict, "You cannot deactivate your own account"))
		}
		updates["is_active"] = *req.IsActive
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := uc.Auth.HashPassword(*req.Password)
		if err != nil {
			return utils.SendError(c, err)
		}
		updates["password_hash"] = hash
	}

	if len(updates) > 0 {
		if err := uc.DB.WithContext(c.UserContext()).Model(&user).Updates(updates).Error; err != nil {
			return utils.SendError(c, utils.TranslateDBError(err, "User"))
		}
	}
	if err := uc.DB.WithContext(c.UserContext()).First(&user, user.ID).Error; err != nil {
		return utils.SendError(c, utils.TranslateDBError(err, "User"))
	}

	logger.Info(fmt.Sprintf("User %d updated", user.ID))
	return utils.SendSuccess(c, fiber.StatusOK, "User updated successfully", user)
}

func checkPermissions(perms []string) error {
	for _, p := range perms {
		if !constants.IsValidPermission(p) {
			return types.NewError(types.KindInvalidFormat, "Unknown permission: "+p)
		}
	}
	return nil
}
