package otp

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"marketing-crm/models/otp"
	"marketing-crm/testutil"
	"marketing-crm/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const phone = "9876543210"

type recordingSender struct {
	codes []string
	err   error
}

func (r *recordingSender) SendOTP(ctx context.Context, phone, code string) error {
	if r.err != nil {
		return r.err
	}
	r.codes = append(r.codes, code)
	return nil
}

func (r *recordingSender) last() string {
	return r.codes[len(r.codes)-1]
}

func newService(t *testing.T, sender Sender, production bool) (*Service, *testutil.Clock, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	clock := testutil.NewClock(time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC))
	svc := NewService(db, sender, production, bcrypt.MinCost).WithClock(clock.Now)
	return svc, clock, db
}

func wrongCode(code string) string {
	if code == "000000" {
		return "111111"
	}
	return "000000"
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		assert.Len(t, code, otp.CodeLength)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
	}
}

func TestIssueStoresHashedChallenge(t *testing.T) {
	sender := &recordingSender{}
	svc, clock, db := newService(t, sender, false)

	challenge, err := svc.Issue(context.Background(), phone)
	require.NoError(t, err)
	require.Len(t, sender.codes, 1)

	var stored otp.Challenge
	require.NoError(t, db.First(&stored, challenge.ID).Error)
	assert.Equal(t, phone, stored.Phone)
	assert.NotEqual(t, sender.last(), stored.CodeHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.CodeHash), []byte(sender.last())))
	assert.Equal(t, 0, stored.Attempts)
	assert.Nil(t, stored.ConsumedAt)
	assert.True(t, stored.ExpiresAt.Equal(clock.Now().Add(10*time.Minute)))
}

func TestIssueWithoutSender(t *testing.T) {
	t.Run("development logs the code and succeeds", func(t *testing.T) {
		svc, _, db := newService(t, nil, false)

		_, err := svc.Issue(context.Background(), phone)
		require.NoError(t, err)

		var count int64
		db.Model(&otp.Challenge{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("development tolerates delivery failure", func(t *testing.T) {
		svc, _, _ := newService(t, &recordingSender{err: errors.New("twilio down")}, false)

		_, err := svc.Issue(context.Background(), phone)
		assert.NoError(t, err)
	})

	t.Run("production reports delivery failure", func(t *testing.T) {
		svc, _, db := newService(t, &recordingSender{err: errors.New("twilio down")}, true)

		_, err := svc.Issue(context.Background(), phone)
		assert.ErrorIs(t, err, types.ErrUpstreamUnavailable)

		var count int64
		db.Model(&otp.Challenge{}).Count(&count)
		assert.Equal(t, int64(0), count)
	})
}

func TestVerifySuccessIsOneWay(t *testing.T) {
	sender := &recordingSender{}
	svc, _, _ := newService(t, sender, false)
	ctx := context.Background()

	_, err := svc.Issue(ctx, phone)
	require.NoError(t, err)
	code := sender.last()

	challenge, err := svc.Verify(ctx, phone, code)
	require.NoError(t, err)
	assert.NotNil(t, challenge.ConsumedAt)

	_, err = svc.Verify(ctx, phone, code)
	assert.ErrorIs(t, err, types.ErrInvalid)
}

func TestVerifyOnlyLatestChallengeIsActionable(t *testing.T) {
	sender := &recordingSender{}
	svc, clock, _ := newService(t, sender, false)
	ctx := context.Background()

	_, err := svc.Issue(ctx, phone)
	require.NoError(t, err)
	first := sender.last()

	clock.Advance(time.Second)
	_, err = svc.Issue(ctx, phone)
	require.NoError(t, err)
	second := sender.last()

	if first != second {
		_, err = svc.Verify(ctx, phone, first)
		assert.ErrorIs(t, err, types.ErrInvalid)
	}

	_, err = svc.Verify(ctx, phone, second)
	assert.NoError(t, err)
}

func TestVerifyExpired(t *testing.T) {
	sender := &recordingSender{}
	svc, clock, _ := newService(t, sender, false)
	ctx := context.Background()

	_, err := svc.Issue(ctx, phone)
	require.NoError(t, err)

	clock.Advance(10 * time.Minute)
	_, err = svc.Verify(ctx, phone, sender.last())
	assert.ErrorIs(t, err, types.ErrExpired)
}

func TestVerifyAttemptsExhausted(t *testing.T) {
	sender := &recordingSender{}
	svc, _, db := newService(t, sender, false)
	ctx := context.Background()

	challenge, err := svc.Issue(ctx, phone)
	require.NoError(t, err)
	code := sender.last()

	for i := 1; i <= otp.MaxAttempts; i++ {
		_, err := svc.Verify(ctx, phone, wrongCode(code))
		require.ErrorIs(t, err, types.ErrInvalid, "attempt %d", i)
	}

	// the correct code no longer helps
	_, err = svc.Verify(ctx, phone, code)
	assert.ErrorIs(t, err, types.ErrAttemptsExhausted)

	var stored otp.Challenge
	require.NoError(t, db.First(&stored, challenge.ID).Error)
	assert.Equal(t, otp.MaxAttempts, stored.Attempts)
	assert.Nil(t, stored.ConsumedAt)
}

func TestVerifyConcurrentGuessesRespectAttemptCap(t *testing.T) {
	sender := &recordingSender{}
	svc, _, db := newService(t, sender, false)
	ctx := context.Background()

	challenge, err := svc.Issue(ctx, phone)
	require.NoError(t, err)
	guess := wrongCode(sender.last())

	const workers = 10
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		invalid  int
		rejected int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Verify(ctx, phone, guess)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, types.ErrInvalid):
				invalid++
			case errors.Is(err, types.ErrAttemptsExhausted):
				rejected++
			default:
				t.Errorf("unexpected verify result: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, otp.MaxAttempts, invalid)
	assert.Equal(t, workers-otp.MaxAttempts, rejected)

	var stored otp.Challenge
	require.NoError(t, db.First(&stored, challenge.ID).Error)
	assert.Equal(t, otp.MaxAttempts, stored.Attempts)
}

func TestVerifyWithoutChallenge(t *testing.T) {
	svc, _, _ := newService(t, &recordingSender{}, false)

	_, err := svc.Verify(context.Background(), phone, "123456")
	assert.ErrorIs(t, err, types.ErrInvalid)
}

func TestStatus(t *testing.T) {
	sender := &recordingSender{}
	svc, clock, _ := newService(t, sender, false)
	ctx := context.Background()

	status, err := svc.Status(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, StateNone, status.State)

	_, err = svc.Issue(ctx, phone)
	require.NoError(t, err)
	_, _ = svc.Verify(ctx, phone, wrongCode(sender.last()))

	status, err = svc.Status(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, StateIssued, status.State)
	assert.Equal(t, otp.MaxAttempts-1, status.RemainingAttempts)

	clock.Advance(11 * time.Minute)
	status, err = svc.Status(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, StateExpired, status.State)
}

func TestCleanupExpired(t *testing.T) {
	sender := &recordingSender{}
	svc, clock, db := newService(t, sender, false)
	ctx := context.Background()

	_, err := svc.Issue(ctx, phone)
	require.NoError(t, err)
	linked, err := svc.Issue(ctx, "9123456789")
	require.NoError(t, err)
	require.NoError(t, svc.LinkSubdealer(db, linked.ID, 42))

	clock.Advance(48 * time.Hour)
	_, err = svc.Issue(ctx, "9000000000")
	require.NoError(t, err)

	removed, err := svc.CleanupExpired(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	var remaining int64
	db.Model(&otp.Challenge{}).Count(&remaining)
	assert.Equal(t, int64(2), remaining)
}
