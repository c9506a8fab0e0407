package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/petcare/clinic-api/internal/core/ports"
)

const defaultThrottlePrefix = "login_failures"

// ThrottleConfig bounds failed logins per email inside a fixed window.
type ThrottleConfig struct {
	KeyPrefix   string
	MaxAttempts int
	Window      time.Duration
}

// LoginThrottle counts failed logins in Redis. The window starts at the first
// failure and the counter disappears with the key.
type LoginThrottle struct {
	client *redis.Client
	cfg    ThrottleConfig
}

func NewLoginThrottle(client *redis.Client, cfg ThrottleConfig) *LoginThrottle {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = defaultThrottlePrefix
	}
	return &LoginThrottle{client: client, cfg: cfg}
}

// Blocked reports whether email reached MaxAttempts in the current window.
// A non-positive MaxAttempts disables the throttle.
func (t *LoginThrottle) Blocked(ctx context.Context, email string) (bool, error) {
	if t.cfg.MaxAttempts <= 0 {
		return false, nil
	}
	n, err := t.client.Get(ctx, t.key(email)).Int()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get login failures: %w", err)
	}
	return n >= t.cfg.MaxAttempts, nil
}

func (t *LoginThrottle) RecordFailure(ctx context.Context, email string) error {
	key := t.key(email)
	n, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis incr login failures: %w", err)
	}
	if n == 1 && t.cfg.Window > 0 {
		if err := t.client.Expire(ctx, key, t.cfg.Window).Err(); err != nil {
			return fmt.Errorf("redis expire login failures: %w", err)
		}
	}
	return nil
}

func (t *LoginThrottle) Reset(ctx context.Context, email string) error {
	if err := t.client.Del(ctx, t.key(email)).Err(); err != nil {
		return fmt.Errorf("redis del login failures: %w", err)
	}
	return nil
}

func (t *LoginThrottle) key(email string) string {
	return fmt.Sprintf("%s:%s", t.cfg.KeyPrefix, strings.ToLower(strings.TrimSpace(email)))
}

var _ ports.LoginThrottle = (*LoginThrottle)(nil)
