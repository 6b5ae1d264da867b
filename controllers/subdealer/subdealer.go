package subdealer

import (
	"fmt"
	"strings"

	subdealerModel "marketing-crm/models/subdealer"
	otpService "marketing-crm/services/otp"
	"marketing-crm/services/registration"
	"marketing-crm/types"
	subdealerTypes "marketing-crm/types/subdealer"
	"marketing-crm/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SubdealerController serves the public registration flow and the admin views.
type SubdealerController struct {
	db           *gorm.DB
	registration *registration.Service
	otp          *otpService.Service
}

func NewSubdealerController(db *gorm.DB, registrationSvc *registration.Service, otp *otpService.Service) *SubdealerController {
	return &SubdealerController{db: db, registration: registrationSvc, otp: otp}
}

// parseLenient decodes the body but leaves validation to the registration
// service, which must rate limit before it rejects a malformed payload.
func parseLenient(c *fiber.Ctx, req interface{}) {
	if len(c.Body()) == 0 {
		return
	}
	_ = c.BodyParser(req)
}

// FetchGST looks up a GST number in the registry
func (sc *SubdealerController) FetchGST(c *fiber.Ctx) error {
	var req subdealerTypes.FetchGSTRequest
	parseLenient(c, &req)

	details, err := sc.registration.FetchGST(c.UserContext(), req, utils.ClientIP(c))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, fiber.StatusOK, "GST details fetched successfully", details)
}

// GenerateOTP sends a verification code to the phone number
func (sc *SubdealerController) GenerateOTP(c *fiber.Ctx) error {
	var req subdealerTypes.GenerateOTPRequest
	parseLenient(c, &req)

	if err := sc.registration.GenerateOTP(c.UserContext(), req, utils.ClientIP(c)); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, fiber.StatusOK, "OTP sent successfully", nil)
}

// VerifyOTP checks the code and registers the subdealer
func (sc *SubdealerController) VerifyOTP(c *fiber.Ctx) error {
	var req subdealerTypes.VerifyOTPRequest
	parseLenient(c, &req)

	result, err := sc.registration.VerifyOTP(c.UserContext(), req, utils.ClientIP(c))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, fiber.StatusCreated, "Subdealer registered successfully", result)
}

// OTPStatus reports the state of the latest challenge for a phone
func (sc *SubdealerController) OTPStatus(c *fiber.Ctx) error {
	phone, err := utils.ValidatePhone(c.Params("phone"))
	if err != nil {
		return utils.SendError(c, err)
	}
	status, err := sc.otp.Status(c.UserContext(), phone)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, fiber.StatusOK, "OTP status fetched successfully", status)
}

// Index lists registered subdealers
func (sc *SubdealerController) Index(c *fiber.Ctx) error {
	page, limit, offset := utils.ParsePagination(c)

	query := sc.db.WithContext(c.UserContext()).Model(&subdealerModel.Subdealer{})
	if state := strings.TrimSpace(c.Query("state")); state != "" {
		query = query.Where("state = ?", state)
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(legal_name) LIKE ? OR LOWER(trade_name) LIKE ? OR phone LIKE ? OR LOWER(gst_number) LIKE ?", like, like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.SendError(c, fmt.Errorf("failed to count subdealers: %w", err))
	}

	subdealers := []subdealerModel.Subdealer{}
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&subdealers).Error; err != nil {
		return utils.SendError(c, fmt.Errorf("failed to list subdealers: %w", err))
	}

	return utils.SendSuccess(c, fiber.StatusOK, "Subdealers fetched successfully", types.ListResponse{
		Items:      subdealers,
		Pagination: types.Pagination{Page: page, Limit: limit, Total: total},
	})
}

// Show returns a subdealer with its decrypted PAN
func (sc *SubdealerController) Show(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	var record subdealerModel.Subdealer
	if err := sc.db.WithContext(c.UserContext()).First(&record, id).Error; err != nil {
		return utils.SendError(c, utils.TranslateDBError(err, "Subdealer"))
	}

	pan, err := sc.registration.PAN(&record)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, fiber.StatusOK, "Subdealer fetched successfully", fiber.Map{
		"subdealer": record,
		"pan":       pan,
	})
}
