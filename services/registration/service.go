package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marketing-crm/logger"
	"marketing-crm/metrics"
	otpModel "marketing-crm/models/otp"
	"marketing-crm/models/subdealer"
	gstService "marketing-crm/services/gst"
	otpService "marketing-crm/services/otp"
	"marketing-crm/services/ratelimit"
	"marketing-crm/types"
	subdealerTypes "marketing-crm/types/subdealer"
	"marketing-crm/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service sequences the subdealer registration steps. Each call is one step;
// any failure ends the call and the client restarts from that step.
type Service struct {
	db        *gorm.DB
	limiter   *ratelimit.Limiter
	gst       *gstService.Service
	otp       *otpService.Service
	encryptor *utils.Encryptor
	now       func() time.Time
}

func NewService(db *gorm.DB, limiter *ratelimit.Limiter, gst *gstService.Service, otp *otpService.Service, encryptor *utils.Encryptor) *Service {
	return &Service{
		db:        db,
		limiter:   limiter,
		gst:       gst,
		otp:       otp,
		encryptor: encryptor,
		now:       time.Now,
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// FetchGST returns registry details for a GST number.
func (s *Service) FetchGST(ctx context.Context, req subdealerTypes.FetchGSTRequest, clientIP string) (*subdealerTypes.GstDetails, error) {
	rawGST := strings.ToUpper(strings.TrimSpace(req.GSTNumber))
	if err := s.limiter.Allow(ctx, ratelimit.GSTFetch, ratelimit.Key(rawGST, clientIP)); err != nil {
		return nil, err
	}

	gst, err := utils.ValidateGST(req.GSTNumber)
	if err != nil {
		return nil, err
	}

	return s.gst.FetchDetails(ctx, gst)
}

// GenerateOTP issues a code for a phone that is not registered yet.
func (s *Service) GenerateOTP(ctx context.Context, req subdealerTypes.GenerateOTPRequest, clientIP string) error {
	if err := s.limiter.Allow(ctx, ratelimit.OTPGenerate, ratelimit.Key(strings.TrimSpace(req.Phone), clientIP)); err != nil {
		return err
	}

	phone, err := utils.ValidatePhone(req.Phone)
	if err != nil {
		return err
	}

	exists, err := s.exists(s.db.WithContext(ctx), "phone = ?", phone)
	if err != nil {
		return err
	}
	if exists {
		return types.NewError(types.KindDuplicateRegistration, "A subdealer with this phone number is already registered")
	}

	_, err = s.otp.Issue(ctx, phone)
	return err
}

// VerifyOTP checks the code and, on success, creates the subdealer.
func (s *Service) VerifyOTP(ctx context.Context, req subdealerTypes.VerifyOTPRequest, clientIP string) (*subdealerTypes.RegistrationResult, error) {
	if err := s.limiter.Allow(ctx, ratelimit.OTPVerify, ratelimit.Key(strings.TrimSpace(req.Phone), clientIP)); err != nil {
		return nil, err
	}

	phone, err := utils.ValidatePhone(req.Phone)
	if err != nil {
		return nil, err
	}
	gst, err := utils.ValidateGST(req.GSTDetails.GSTNumber)
	if err != nil {
		return nil, err
	}
	code := strings.TrimSpace(req.OTP)
	if len(code) != otpModel.CodeLength {
		return nil, types.NewError(types.KindInvalidFormat, "OTP must be 6 digits")
	}
	if strings.TrimSpace(req.GSTDetails.LegalName) == "" {
		return nil, types.NewError(types.KindInvalidFormat, "Legal name is required")
	}

	challenge, err := s.otp.Verify(ctx, phone, code)
	if err != nil {
		return nil, err
	}

	record, err := s.buildRecord(phone, gst, req.GSTDetails)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.exists(tx, "phone = ? OR gst_number = ?", phone, gst)
		if err != nil {
			return err
		}
		if exists {
			return types.NewError(types.KindDuplicateRegistration, "A subdealer with this phone or GST number is already registered")
		}

		if err := tx.Create(record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return types.WrapError(types.KindDuplicateRegistration, "A subdealer with this phone or GST number is already registered", err)
			}
			return fmt.Errorf("failed to create subdealer: %w", err)
		}

		return s.otp.LinkSubdealer(tx, challenge.ID, record.ID)
	})
	if err != nil {
		return nil, err
	}

	metrics.SubdealersRegisteredTotal.Inc()
	logger.Success(fmt.Sprintf("Subdealer %d registered for GST %s", record.ID, record.GSTNumber))

	return &subdealerTypes.RegistrationResult{
		ID:        record.ID,
		Phone:     record.Phone,
		GSTNumber: record.GSTNumber,
		LegalName: record.LegalName,
	}, nil
}

func (s *Service) buildRecord(phone, gst string, d subdealerTypes.GstDetails) (*subdealer.Subdealer, error) {
	pan, err := s.encryptor.Encrypt(utils.PANFromGST(gst))
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt PAN: %w", err)
	}

	verifiedAt := s.now().UTC()
	return &subdealer.Subdealer{
		Uuid:             uuid.NewString(),
		Phone:            phone,
		GSTNumber:        gst,
		LegalName:        strings.TrimSpace(d.LegalName),
		TradeName:        strings.TrimSpace(d.TradeName),
		AddressLine1:     d.AddressLine1,
		AddressLine2:     d.AddressLine2,
		City:             d.City,
		District:         d.District,
		State:            d.State,
		StateCode:        gst[:2],
		Pincode:          d.Pincode,
		PANEncrypted:     pan,
		BusinessType:     d.BusinessType,
		BusinessStatus:   d.Status,
		RegistrationDate: d.RegistrationDate,
		Jurisdiction:     d.Jurisdiction,
		PhoneVerified:    true,
		VerifiedAt:       &verifiedAt,
	}, nil
}

func (s *Service) exists(db *gorm.DB, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := db.Model(&subdealer.Subdealer{}).Where(query, args...).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check existing subdealer: %w", err)
	}
	return count > 0, nil
}

// PAN decrypts the stored PAN of a subdealer.
func (s *Service) PAN(record *subdealer.Subdealer) (string, error) {
	return s.encryptor.Decrypt(record.PANEncrypted)
}
