package services

import (
	"marketing-crm/constants"
	"marketing-crm/middleware"
	"marketing-crm/services/auth"
	"marketing-crm/types"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PermissionService answers permission and ownership questions about the
// principal of the current request.
type PermissionService struct{}

func NewPermissionService() *PermissionService {
	return &PermissionService{}
}

// CheckPermission checks if the current user has a specific permission
func (ps *PermissionService) CheckPermission(c *fiber.Ctx, permission string) bool {
	principal := middleware.CurrentPrincipal(c)
	return principal != nil && principal.Has(permission)
}

// CheckAnyPermission checks if the current user has any of the specified permissions
func (ps *PermissionService) CheckAnyPermission(c *fiber.Ctx, permissions ...string) bool {
	for _, permission := range permissions {
		if ps.CheckPermission(c, permission) {
			return true
		}
	}
	return false
}

// RequirePermission returns a Forbidden error if the user lacks permission.
func (ps *PermissionService) RequirePermission(c *fiber.Ctx, permission string) error {
	return auth.Authorize(middleware.CurrentPrincipal(c), permission)
}

// GetPrincipal returns the authenticated principal.
func (ps *PermissionService) GetPrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal := middleware.CurrentPrincipal(c)
	if principal == nil {
		return nil, types.NewError(types.KindUnauthorized, "Authentication required")
	}
	return principal, nil
}

// GetUserID returns the numeric id of the authenticated user.
func (ps *PermissionService) GetUserID(c *fiber.Ctx) (uint, bool) {
	principal := middleware.CurrentPrincipal(c)
	if principal == nil {
		return 0, false
	}
	return principal.UserID, true
}

// SeesAllRecords reports whether the user may read and change records owned
// by other users. Sales executives and subdealers only work on their own.
func (ps *PermissionService) SeesAllRecords(c *fiber.Ctx) bool {
	principal := middleware.CurrentPrincipal(c)
	if principal == nil {
		return false
	}
	return principal.Role == constants.RoleSystemAdmin || principal.Role == constants.RoleMarketingManager
}

// OwnerScope restricts a query to rows owned by the current user unless
// SeesAllRecords holds.
func (ps *PermissionService) OwnerScope(c *fiber.Ctx) func(*gorm.DB) *gorm.DB {
	seesAll := ps.SeesAllRecords(c)
	userID, _ := ps.GetUserID(c)
	return func(db *gorm.DB) *gorm.DB {
		if seesAll {
			return db
		}
		return db.Where("owner_id = ?", userID)
	}
}

// CanModify reports whether the current user may change a record owned by ownerID.
func (ps *PermissionService) CanModify(c *fiber.Ctx, ownerID *uint) bool {
	if ps.SeesAllRecords(c) {
		return true
	}
	userID, ok := ps.GetUserID(c)
	return ok && ownerID != nil && *ownerID == userID
}
