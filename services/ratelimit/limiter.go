package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"marketing-crm/metrics"
	"marketing-crm/types"
)

// Rule is a sliding-window limit for one operation.
type Rule struct {
	Operation string
	Label     string
	Limit     int
	Window    time.Duration
}

var (
	GSTFetch    = Rule{Operation: "gst_fetch", Label: "GST lookup", Limit: 20, Window: 15 * time.Minute}
	OTPGenerate = Rule{Operation: "otp_generate", Label: "OTP", Limit: 5, Window: 15 * time.Minute}
	OTPVerify   = Rule{Operation: "otp_verify", Label: "OTP verification", Limit: 10, Window: 10 * time.Minute}
)

// Store keeps hits in storage shared by every server process.
type Store interface {
	// Take records a hit at now unless Limit hits already exist in
	// (now-Window, now]. When it refuses, oldest is the earliest hit still
	// inside the window.
	Take(ctx context.Context, rule Rule, key string, now time.Time) (allowed bool, oldest time.Time, err error)
	// Cleanup removes hits older than before.
	Cleanup(ctx context.Context, before time.Time) (int64, error)
}

type Limiter struct {
	store Store
	now   func() time.Time
}

func NewLimiter(store Store) *Limiter {
	return &Limiter{store: store, now: time.Now}
}

// WithClock replaces the time source.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Allow counts a request for key against rule. Rejected requests are not
// recorded, so a client that backs off regains capacity as old hits age out.
func (l *Limiter) Allow(ctx context.Context, rule Rule, key string) error {
	now := l.now().UTC()

	allowed, oldest, err := l.store.Take(ctx, rule, key, now)
	if err != nil {
		return fmt.Errorf("rate limit check for %s: %w", rule.Operation, err)
	}
	if allowed {
		return nil
	}

	metrics.RateLimitRejectionsTotal.WithLabelValues(rule.Operation).Inc()

	retryAfter := oldest.Add(rule.Window).Sub(now)
	if retryAfter < 0 {
		retryAfter = 0
	}
	appErr := types.RateLimitedError("", retryAfter)
	appErr.Message = fmt.Sprintf("Too many %s requests. Please try again in %d seconds", rule.Label, appErr.RetryAfterSeconds())
	return appErr
}

// Cleanup drops hits that can no longer count against any rule.
func (l *Limiter) Cleanup(ctx context.Context) (int64, error) {
	longest := GSTFetch.Window
	for _, r := range []Rule{OTPGenerate, OTPVerify} {
		if r.Window > longest {
			longest = r.Window
		}
	}
	return l.store.Cleanup(ctx, l.now().UTC().Add(-longest))
}

// maxPlainKey is the longest key stored as given. Longer keys are hashed so
// unvalidated input always fits the limit_key column.
const maxPlainKey = 64

// Key picks the identifier a request is limited by, falling back to the
// client address when the payload carries none.
func Key(identifier, clientIP string) string {
	key := identifier
	if key == "" {
		key = "ip:" + clientIP
	}
	if len(key) > maxPlainKey {
		sum := sha256.Sum256([]byte(key))
		return "sha256:" + hex.EncodeToString(sum[:])
	}
	return key
}
