package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// SignupCooldown throttles confirmation-code mails per email address.
type SignupCooldown struct {
	client *redis.Client
}

// NewRedisClient connects to Redis at url and verifies the connection.
func NewRedisClient(ctx context.Context, url, password string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	// Verify connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

// NewSignupCooldown wraps client. A nil client disables the cooldown.
func NewSignupCooldown(client *redis.Client) *SignupCooldown {
	return &SignupCooldown{client: client}
}

// Acquire reports whether a code may be mailed to email now, and if so blocks
// further mails to it for ttl.
func (s *SignupCooldown) Acquire(ctx context.Context, email string, ttl time.Duration) (bool, error) {
	if s == nil || s.client == nil {
		// No-op when Redis is not configured
		return true, nil
	}
	ok, err := s.client.SetNX(ctx, cooldownKey(email), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("signup cooldown: %w", err)
	}
	return ok, nil
}

// Release drops the hold on email so the next signup may mail a code right away.
func (s *SignupCooldown) Release(ctx context.Context, email string) error {
	if s == nil || s.client == nil {
		return nil
	}
	if err := s.client.Del(ctx, cooldownKey(email)).Err(); err != nil {
		return fmt.Errorf("signup cooldown release: %w", err)
	}
	return nil
}

func cooldownKey(email string) string {
	return "signup:cooldown:" + strings.ToLower(strings.TrimSpace(email))
}
