package registration

import (
	"context"
	"strings"
	"testing"
	"time"

	"marketing-crm/models/otp"
	ratelimitModel "marketing-crm/models/ratelimit"
	"marketing-crm/models/subdealer"
	gstService "marketing-crm/services/gst"
	otpService "marketing-crm/services/otp"
	"marketing-crm/services/ratelimit"
	"marketing-crm/testutil"
	"marketing-crm/types"
	subdealerTypes "marketing-crm/types/subdealer"
	"marketing-crm/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	testPhone = "9876543210"
	testGST   = "27AABCU9603R1ZM"
	clientIP  = "10.0.0.1"
)

type recordingSender struct {
	codes map[string]string
}

func (r *recordingSender) SendOTP(ctx context.Context, phone, code string) error {
	r.codes[phone] = code
	return nil
}

type fixture struct {
	svc    *Service
	db     *gorm.DB
	sender *recordingSender
	clock  *testutil.Clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	clock := testutil.NewClock(time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC))
	sender := &recordingSender{codes: map[string]string{}}

	encryptor, err := utils.NewEncryptor("test-key")
	require.NoError(t, err)

	limiter := ratelimit.NewLimiter(ratelimit.NewGormStore(db)).WithClock(clock.Now)
	otpSvc := otpService.NewService(db, sender, false, bcrypt.MinCost).WithClock(clock.Now)
	svc := NewService(db, limiter, gstService.NewService(nil, false), otpSvc, encryptor).WithClock(clock.Now)

	return &fixture{svc: svc, db: db, sender: sender, clock: clock}
}

func (f *fixture) register(t *testing.T, phone, gst string) (*subdealerTypes.RegistrationResult, error) {
	t.Helper()
	ctx := context.Background()

	details, err := f.svc.FetchGST(ctx, subdealerTypes.FetchGSTRequest{GSTNumber: gst}, clientIP)
	require.NoError(t, err)

	if err := f.svc.GenerateOTP(ctx, subdealerTypes.GenerateOTPRequest{Phone: phone}, clientIP); err != nil {
		return nil, err
	}

	return f.svc.VerifyOTP(ctx, subdealerTypes.VerifyOTPRequest{
		Phone:      phone,
		OTP:        f.sender.codes[phone],
		GSTDetails: *details,
	}, clientIP)
}

func TestRegistrationHappyPath(t *testing.T) {
	f := newFixture(t)

	details, err := f.svc.FetchGST(context.Background(), subdealerTypes.FetchGSTRequest{GSTNumber: "27aabcu9603r1zm"}, clientIP)
	require.NoError(t, err)
	assert.Equal(t, testGST, details.GSTNumber)
	assert.Contains(t, details.LegalName, "AABCU9603R")

	result, err := f.register(t, testPhone, testGST)
	require.NoError(t, err)

	assert.Equal(t, testPhone, result.Phone)
	assert.Equal(t, testGST, result.GSTNumber)
	assert.Equal(t, details.LegalName, result.LegalName)

	var stored subdealer.Subdealer
	require.NoError(t, f.db.First(&stored, result.ID).Error)
	assert.True(t, stored.PhoneVerified)
	require.NotNil(t, stored.VerifiedAt)
	assert.True(t, stored.VerifiedAt.Equal(f.clock.Now()))
	assert.NotEqual(t, "AABCU9603R", stored.PANEncrypted)

	pan, err := f.svc.PAN(&stored)
	require.NoError(t, err)
	assert.Equal(t, "AABCU9603R", pan)

	var challenge otp.Challenge
	require.NoError(t, f.db.Where("phone = ?", testPhone).First(&challenge).Error)
	require.NotNil(t, challenge.SubdealerID)
	assert.Equal(t, result.ID, *challenge.SubdealerID)
	assert.NotNil(t, challenge.ConsumedAt)
}

func TestRegistrationRejectsInvalidFormat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.FetchGST(ctx, subdealerTypes.FetchGSTRequest{GSTNumber: "27AABCU9603R1Z"}, clientIP)
	assert.ErrorIs(t, err, types.ErrInvalidFormat)

	err = f.svc.GenerateOTP(ctx, subdealerTypes.GenerateOTPRequest{Phone: "5876543210"}, clientIP)
	assert.ErrorIs(t, err, types.ErrInvalidFormat)

	_, err = f.svc.VerifyOTP(ctx, subdealerTypes.VerifyOTPRequest{
		Phone:      testPhone,
		OTP:        "123456",
		GSTDetails: subdealerTypes.GstDetails{GSTNumber: "bad", LegalName: "x"},
	}, clientIP)
	assert.ErrorIs(t, err, types.ErrInvalidFormat)
}

func TestRegistrationDuplicatePhone(t *testing.T) {
	f := newFixture(t)

	_, err := f.register(t, testPhone, testGST)
	require.NoError(t, err)

	err = f.svc.GenerateOTP(context.Background(), subdealerTypes.GenerateOTPRequest{Phone: testPhone}, clientIP)
	assert.ErrorIs(t, err, types.ErrDuplicateRegistration)
}

func TestRegistrationDuplicateGSTAfterOTP(t *testing.T) {
	f := newFixture(t)

	_, err := f.register(t, testPhone, testGST)
	require.NoError(t, err)

	// OTP step succeeds for the new phone, creation still fails
	_, err = f.register(t, "9123456789", testGST)
	assert.ErrorIs(t, err, types.ErrDuplicateRegistration)

	var count int64
	f.db.Model(&subdealer.Subdealer{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestStorageEnforcesUniqueness(t *testing.T) {
	f := newFixture(t)

	first := subdealer.Subdealer{Uuid: "a", Phone: testPhone, GSTNumber: testGST, LegalName: "A"}
	require.NoError(t, f.db.Create(&first).Error)

	samePhone := subdealer.Subdealer{Uuid: "b", Phone: testPhone, GSTNumber: "29ABCDE1234F1Z5", LegalName: "B"}
	assert.ErrorIs(t, f.db.Create(&samePhone).Error, gorm.ErrDuplicatedKey)

	sameGST := subdealer.Subdealer{Uuid: "c", Phone: "9123456789", GSTNumber: testGST, LegalName: "C"}
	assert.ErrorIs(t, f.db.Create(&sameGST).Error, gorm.ErrDuplicatedKey)
}

func TestRegistrationDuplicateAtInsert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	details, err := f.svc.FetchGST(ctx, subdealerTypes.FetchGSTRequest{GSTNumber: testGST}, clientIP)
	require.NoError(t, err)
	require.NoError(t, f.svc.GenerateOTP(ctx, subdealerTypes.GenerateOTPRequest{Phone: testPhone}, clientIP))

	// a competing registration for the same GST lands between the
	// existence check and the insert
	var rivalErr error
	raced := false
	err = f.db.Callback().Create().Before("gorm:create").Register("test:competing_subdealer", func(tx *gorm.DB) {
		if raced || tx.Statement.Table != "subdealers" {
			return
		}
		raced = true
		rival := subdealer.Subdealer{Uuid: "rival", Phone: "9123456789", GSTNumber: testGST, LegalName: "Rival"}
		rivalErr = tx.Session(&gorm.Session{NewDB: true}).Create(&rival).Error
	})
	require.NoError(t, err)

	_, err = f.svc.VerifyOTP(ctx, subdealerTypes.VerifyOTPRequest{
		Phone:      testPhone,
		OTP:        f.sender.codes[testPhone],
		GSTDetails: *details,
	}, clientIP)
	require.True(t, raced)
	require.NoError(t, rivalErr)
	assert.ErrorIs(t, err, types.ErrDuplicateRegistration)

	var linked int64
	require.NoError(t, f.db.Model(&otp.Challenge{}).Where("subdealer_id IS NOT NULL").Count(&linked).Error)
	assert.Zero(t, linked)

	var stored int64
	require.NoError(t, f.db.Model(&subdealer.Subdealer{}).Where("phone = ?", testPhone).Count(&stored).Error)
	assert.Zero(t, stored)
}

func TestOversizedIdentifiersAreRejectedAsInvalidFormat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	huge := strings.Repeat("9", 300)

	_, err := f.svc.FetchGST(ctx, subdealerTypes.FetchGSTRequest{GSTNumber: huge}, clientIP)
	assert.ErrorIs(t, err, types.ErrInvalidFormat)

	err = f.svc.GenerateOTP(ctx, subdealerTypes.GenerateOTPRequest{Phone: huge}, clientIP)
	assert.ErrorIs(t, err, types.ErrInvalidFormat)

	_, err = f.svc.VerifyOTP(ctx, subdealerTypes.VerifyOTPRequest{
		Phone:      huge,
		OTP:        "123456",
		GSTDetails: subdealerTypes.GstDetails{GSTNumber: testGST, LegalName: "x"},
	}, clientIP)
	assert.ErrorIs(t, err, types.ErrInvalidFormat)

	var hits []ratelimitModel.Hit
	require.NoError(t, f.db.Find(&hits).Error)
	require.Len(t, hits, 3)
	for _, hit := range hits {
		assert.LessOrEqual(t, len(hit.Key), 255, hit.Operation)
		assert.NotContains(t, hit.Key, huge)
	}
}

func TestGenerateOTPRateLimitIgnoresPayload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, f.svc.GenerateOTP(ctx, subdealerTypes.GenerateOTPRequest{Phone: testPhone}, clientIP))
	}

	err := f.svc.GenerateOTP(ctx, subdealerTypes.GenerateOTPRequest{Phone: testPhone}, clientIP)
	require.ErrorIs(t, err, types.ErrRateLimited)
	assert.Greater(t, types.AsAppError(err).RetryAfter, time.Duration(0))

	f.clock.Advance(16 * time.Minute)
	assert.NoError(t, f.svc.GenerateOTP(ctx, subdealerTypes.GenerateOTPRequest{Phone: testPhone}, clientIP))
}

func TestVerifyOTPRateLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := subdealerTypes.VerifyOTPRequest{
		Phone:      testPhone,
		OTP:        "12345", // malformed on purpose
		GSTDetails: subdealerTypes.GstDetails{GSTNumber: testGST, LegalName: "x"},
	}

	for i := 0; i < 10; i++ {
		_, err := f.svc.VerifyOTP(ctx, req, clientIP)
		require.ErrorIs(t, err, types.ErrInvalidFormat)
	}

	_, err := f.svc.VerifyOTP(ctx, req, clientIP)
	assert.ErrorIs(t, err, types.ErrRateLimited)
}

func TestFetchGSTRateLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		_, err := f.svc.FetchGST(ctx, subdealerTypes.FetchGSTRequest{GSTNumber: testGST}, clientIP)
		require.NoError(t, err)
	}

	_, err := f.svc.FetchGST(ctx, subdealerTypes.FetchGSTRequest{GSTNumber: testGST}, clientIP)
	assert.ErrorIs(t, err, types.ErrRateLimited)

	_, err = f.svc.FetchGST(ctx, subdealerTypes.FetchGSTRequest{GSTNumber: "29ABCDE1234F1Z5"}, clientIP)
	assert.NoError(t, err)
}

func TestVerifyWrongCodeCreatesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.GenerateOTP(ctx, subdealerTypes.GenerateOTPRequest{Phone: testPhone}, clientIP))
	wrong := "000000"
	if f.sender.codes[testPhone] == wrong {
		wrong = "111111"
	}

	_, err := f.svc.VerifyOTP(ctx, subdealerTypes.VerifyOTPRequest{
		Phone:      testPhone,
		OTP:        wrong,
		GSTDetails: *gstService.MockDetails(testGST),
	}, clientIP)
	assert.ErrorIs(t, err, types.ErrInvalid)

	var count int64
	f.db.Model(&subdealer.Subdealer{}).Count(&count)
	assert.Zero(t, count)
}
