package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrTooManyAttempts is returned once an email reached the failed login limit.
	ErrTooManyAttempts = errors.New("too many failed login attempts")
	// ErrThrottleUnavailable wraps Redis failures. Callers may choose to fail open.
	ErrThrottleUnavailable = errors.New("login throttle unavailable")
)

// LoginThrottle counts failed logins per email in a fixed Redis window.
// A nil *LoginThrottle allows everything.
type LoginThrottle struct {
	redis       *redis.Client
	maxAttempts int64
	window      time.Duration
}

// NewLoginThrottle returns nil when no client is configured.
func NewLoginThrottle(client *redis.Client, maxAttempts int, window time.Duration) *LoginThrottle {
	if client == nil {
		return nil
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginThrottle{redis: client, maxAttempts: int64(maxAttempts), window: window}
}

// Check fails with ErrTooManyAttempts when the email is locked out.
func (t *LoginThrottle) Check(ctx context.Context, email string) error {
	if t == nil {
		return nil
	}
	count, err := t.redis.Get(ctx, throttleKey(email)).Int64()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrThrottleUnavailable, err)
	}
	if count >= t.maxAttempts {
		return ErrTooManyAttempts
	}
	return nil
}

// RecordFailure increments the counter; the window starts at the first failure.
func (t *LoginThrottle) RecordFailure(ctx context.Context, email string) error {
	if t == nil {
		return nil
	}
	key := throttleKey(email)
	count, err := t.redis.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrThrottleUnavailable, err)
	}
	if count == 1 {
		if err := t.redis.Expire(ctx, key, t.window).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrThrottleUnavailable, err)
		}
	}
	return nil
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email string) error {
	if t == nil {
		return nil
	}
	if err := t.redis.Del(ctx, throttleKey(email)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrThrottleUnavailable, err)
	}
	return nil
}

func throttleKey(email string) string {
	return "login_fail:" + strings.ToLower(strings.TrimSpace(email))
}
