package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrTooManyAttempts = errors.New("too many attempts")

// RateLimiter tracks login attempts in Redis so the limit holds across
// instances.
type RateLimiter struct {
	redis *redis.Client
}

func NewRateLimiter(redis *redis.Client) *RateLimiter {
	return &RateLimiter{redis: redis}
}

func (r *RateLimiter) CheckLogin(ctx context.Context, email string) error {
	key := fmt.Sprintf("login_attempts:%s", email)

	count, err := r.redis.Incr(ctx, key).Result()
	if err != nil {
		return err
	}

	if count == 1 {
		r.redis.Expire(ctx, key, 15*time.Minute)
	}

	if count > 5 {
		return ErrTooManyAttempts
	}

	return nil
}

func (r *RateLimiter) ResetLogin(ctx context.Context, email string) error {
	return r.redis.Del(ctx, fmt.Sprintf("login_attempts:%s", email)).Err()
}
