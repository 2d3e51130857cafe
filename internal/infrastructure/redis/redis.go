// Package redis holds the volatile coordination state of the identity
// service: the OTP reissue cooldown and the single-use record for password
// reset links. Both rely on SET NX semantics so the check and the claim are
// one round trip.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/AbrarZaved/EduTutor/internal/config"
	"github.com/AbrarZaved/EduTutor/internal/domain/models"
	"github.com/AbrarZaved/EduTutor/internal/domain/repository"
)

// NewClient connects to Redis and verifies the connection with a ping.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

type otpThrottle struct {
	client *goredis.Client
}

// NewOTPThrottle creates the Redis-backed OTP issuance throttle.
func NewOTPThrottle(client *goredis.Client) repository.OTPThrottleRepository {
	return &otpThrottle{client: client}
}

func (t *otpThrottle) AcquireCooldown(ctx context.Context, userID uuid.UUID, purpose models.OTPPurpose, window time.Duration) (bool, error) {
	key := fmt.Sprintf("otp_cooldown:%s:%s", userID, purpose)
	ok, err := t.client.SetNX(ctx, key, 1, window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire otp cooldown: %w", err)
	}
	return ok, nil
}

type resetLinkDenylist struct {
	client *goredis.Client
}

// NewResetLinkDenylist creates the Redis-backed single-use record for
// password reset links.
func NewResetLinkDenylist(client *goredis.Client) repository.ResetLinkDenylist {
	return &resetLinkDenylist{client: client}
}

func (d *resetLinkDenylist) MarkUsed(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("reset_link_used:%s", jti)
	ok, err := d.client.SetNX(ctx, key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record reset link use: %w", err)
	}
	return ok, nil
}
