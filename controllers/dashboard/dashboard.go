package dashboard

import (
	"marketing-crm/middleware"
	"marketing-crm/services/dashboard"
	"marketing-crm/types"
	"marketing-crm/utils"

	"github.com/gofiber/fiber/v2"
)

type DashboardController struct {
	service *dashboard.Service
}

func NewDashboardController(service *dashboard.Service) *DashboardController {
	return &DashboardController{service: service}
}

// Show returns the dashboard of the signed-in user's role
func (dc *DashboardController) Show(c *fiber.Ctx) error {
	principal := middleware.CurrentPrincipal(c)
	if principal == nil {
		return utils.SendError(c, types.NewError(types.KindUnauthorized, "Authentication required"))
	}

	summary, err := dc.service.Summary(c.UserContext(), principal)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, fiber.StatusOK, "Dashboard fetched successfully", summary)
}
