package auth

import (
	"marketing-crm/middleware"
	"marketing-crm/resource"
	"marketing-crm/services/auth"
	"marketing-crm/types"
	authTypes "marketing-crm/types/auth"
	"marketing-crm/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	service    *auth.Service
	production bool
}

func NewAuthController(service *auth.Service, production bool) *AuthController {
	return &AuthController{service: service, production: production}
}

// setSecureCookie sets the session cookie; Secure only in production (HTTPS).
func (h *AuthController) setSecureCookie(c *fiber.Ctx, name, value string, maxAge int) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		HTTPOnly: true,
		Secure:   h.production,
		SameSite: "Strict",
		MaxAge:   maxAge,
		Path:     "/",
	})
}

// Login checks credentials and returns a bearer token, also set as the access cookie.
func (h *AuthController) Login(c *fiber.Ctx) error {
	var req authTypes.LoginRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return utils.SendError(c, err)
	}

	h.setSecureCookie(c, "access", result.Token, int(auth.TokenTTL.Seconds()))
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Success: true,
		Message: "Login successful",
		Status:  fiber.StatusOK,
		Token:   result.Token,
		User:    result.User,
		Data:    fiber.Map{"expires_at": result.ExpiresAt},
	})
}

// Me returns the signed-in user and the CRM modules the user can open.
func (h *AuthController) Me(c *fiber.Ctx) error {
	principal := middleware.CurrentPrincipal(c)
	if principal == nil {
		return utils.SendError(c, types.NewError(types.KindUnauthorized, "Authentication required"))
	}

	u, err := h.service.CurrentUser(c.UserContext(), principal)
	if err != nil {
		return utils.SendError(c, err)
	}

	current := auth.PrincipalFromUser(u)
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Success: true,
		Message: "User fetched successfully",
		Status:  fiber.StatusOK,
		User:    auth.ToUserResponse(u),
		Data:    fiber.Map{"modules": resource.ModulesFor(current.Has)},
	})
}

// LogOut clears the access cookie. Issued tokens stay valid until they expire.
func (h *AuthController) LogOut(c *fiber.Ctx) error {
	h.setSecureCookie(c, "access", "", -1)
	return utils.SendSuccess(c, fiber.StatusOK, "Logged out successfully", nil)
}
