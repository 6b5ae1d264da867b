package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"marketing-crm/logger"
	"marketing-crm/metrics"
	"marketing-crm/models/otp"
	"marketing-crm/types"
	"marketing-crm/types/subdealer"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Challenge states reported by Status.
const (
	StateNone      = "NONE"
	StateIssued    = "ISSUED"
	StateVerified  = "VERIFIED"
	StateExpired   = "EXPIRED"
	StateExhausted = "EXHAUSTED"
)

// Sender delivers a code to a phone.
type Sender interface {
	SendOTP(ctx context.Context, phone, code string) error
}

// Service issues and verifies one-time codes stored as hashed rows.
type Service struct {
	db         *gorm.DB
	sender     Sender
	production bool
	hashCost   int
	now        func() time.Time
}

// NewService takes a nil sender when no SMS provider is configured.
func NewService(db *gorm.DB, sender Sender, production bool, hashCost int) *Service {
	return &Service{
		db:         db,
		sender:     sender,
		production: production,
		hashCost:   hashCost,
		now:        time.Now,
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// GenerateCode returns a uniformly random 6 digit code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Issue stores a new challenge for phone and delivers its code. Earlier
// challenges are left untouched; verification only ever looks at the latest.
func (s *Service) Issue(ctx context.Context, phone string) (*otp.Challenge, error) {
	code, err := GenerateCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash OTP: %w", err)
	}

	now := s.now().UTC()
	challenge := &otp.Challenge{
		Phone:     phone,
		CodeHash:  string(hash),
		ExpiresAt: now.Add(otp.TTL),
		CreatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(challenge).Error; err != nil {
		return nil, fmt.Errorf("failed to create OTP challenge: %w", err)
	}

	if err := s.deliver(ctx, phone, code); err != nil {
		if s.production {
			metrics.OTPIssuedTotal.WithLabelValues("failed").Inc()
			if delErr := s.db.WithContext(ctx).Delete(challenge).Error; delErr != nil {
				logger.Error("Failed to remove undelivered OTP challenge", delErr)
			}
			return nil, types.WrapError(types.KindUpstreamUnavailable, "Unable to send OTP. Please try again later", err)
		}

		metrics.OTPIssuedTotal.WithLabelValues("logged").Inc()
		logger.Warning(fmt.Sprintf("OTP delivery unavailable (%v). OTP for %s: %s", err, phone, code))
		return challenge, nil
	}

	metrics.OTPIssuedTotal.WithLabelValues("sent").Inc()
	logger.Info("OTP sent via SMS to " + maskPhone(phone))
	return challenge, nil
}

var errNoSender = errors.New("no SMS provider configured")

func (s *Service) deliver(ctx context.Context, phone, code string) error {
	if s.sender == nil {
		return errNoSender
	}
	return s.sender.SendOTP(ctx, phone, code)
}

// Verify checks code against the latest challenge for phone and consumes it
// on a match.
func (s *Service) Verify(ctx context.Context, phone, code string) (*otp.Challenge, error) {
	db := s.db.WithContext(ctx)

	challenge, err := s.latest(db, phone)
	if err != nil {
		return nil, err
	}
	if challenge == nil || challenge.IsConsumed() {
		metrics.OTPVerificationsTotal.WithLabelValues("invalid").Inc()
		return nil, types.NewError(types.KindInvalid, "No active OTP for this phone. Please request a new one")
	}

	now := s.now().UTC()
	if challenge.IsExpired(now) {
		metrics.OTPVerificationsTotal.WithLabelValues("expired").Inc()
		return nil, types.NewError(types.KindExpired, "OTP has expired. Please request a new one")
	}

	// count the attempt before comparing so the cap holds under concurrency
	reserved := db.Model(&otp.Challenge{}).
		Where("id = ? AND attempts < ? AND consumed_at IS NULL", challenge.ID, otp.MaxAttempts).
		UpdateColumn("attempts", gorm.Expr("attempts + 1"))
	if reserved.Error != nil {
		return nil, fmt.Errorf("failed to record OTP attempt: %w", reserved.Error)
	}
	if reserved.RowsAffected == 0 {
		var current otp.Challenge
		if err := db.First(&current, challenge.ID).Error; err != nil {
			return nil, fmt.Errorf("failed to reload OTP challenge: %w", err)
		}
		if current.IsConsumed() {
			metrics.OTPVerificationsTotal.WithLabelValues("invalid").Inc()
			return nil, types.NewError(types.KindInvalid, "OTP has already been used. Please request a new one")
		}
		metrics.OTPVerificationsTotal.WithLabelValues("exhausted").Inc()
		return nil, types.NewError(types.KindAttemptsExhausted, "Maximum verification attempts exceeded. Please request a new OTP")
	}
	challenge.Attempts++

	if bcrypt.CompareHashAndPassword([]byte(challenge.CodeHash), []byte(code)) != nil {
		metrics.OTPVerificationsTotal.WithLabelValues("invalid").Inc()
		return nil, types.NewError(types.KindInvalid, fmt.Sprintf("Invalid OTP. %d attempt(s) remaining", challenge.RemainingAttempts()))
	}

	res := db.Model(&otp.Challenge{}).
		Where("id = ? AND consumed_at IS NULL", challenge.ID).
		UpdateColumn("consumed_at", now)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to consume OTP: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// another request consumed it first
		metrics.OTPVerificationsTotal.WithLabelValues("invalid").Inc()
		return nil, types.NewError(types.KindInvalid, "OTP has already been used. Please request a new one")
	}

	challenge.ConsumedAt = &now
	metrics.OTPVerificationsTotal.WithLabelValues("verified").Inc()
	return challenge, nil
}

// LinkSubdealer records which registration a consumed challenge produced.
func (s *Service) LinkSubdealer(tx *gorm.DB, challengeID, subdealerID uint) error {
	if err := tx.Model(&otp.Challenge{}).Where("id = ?", challengeID).
		UpdateColumn("subdealer_id", subdealerID).Error; err != nil {
		return fmt.Errorf("failed to link OTP challenge: %w", err)
	}
	return nil
}

// Status reports the state of the latest challenge for phone.
func (s *Service) Status(ctx context.Context, phone string) (*subdealer.OTPStatus, error) {
	challenge, err := s.latest(s.db.WithContext(ctx), phone)
	if err != nil {
		return nil, err
	}

	status := &subdealer.OTPStatus{Phone: phone, State: StateNone}
	if challenge == nil {
		return status, nil
	}

	status.ExpiresAt = challenge.ExpiresAt.Format(time.RFC3339)
	status.RemainingAttempts = challenge.RemainingAttempts()
	switch {
	case challenge.IsConsumed():
		status.State = StateVerified
		status.RemainingAttempts = 0
	case challenge.IsExpired(s.now().UTC()):
		status.State = StateExpired
	case challenge.IsExhausted():
		status.State = StateExhausted
	default:
		status.State = StateIssued
	}
	return status, nil
}

// CleanupExpired deletes unlinked challenges that expired more than
// olderThan ago.
func (s *Service) CleanupExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.now().UTC().Add(-olderThan)
	res := s.db.WithContext(ctx).
		Where("expires_at < ? AND subdealer_id IS NULL", cutoff).
		Delete(&otp.Challenge{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete expired OTP challenges: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *Service) latest(db *gorm.DB, phone string) (*otp.Challenge, error) {
	var challenge otp.Challenge
	err := db.Where("phone = ?", phone).Order("created_at DESC, id DESC").First(&challenge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load OTP challenge: %w", err)
	}
	return &challenge, nil
}

func maskPhone(phone string) string {
	if len(phone) < 4 {
		return phone
	}
	return "******" + phone[len(phone)-4:]
}
