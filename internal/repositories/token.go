package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/gw-library/internal/logger"
)

// TokenRevocationRepository keeps revoked token ids in Redis until the
// token would have expired anyway.
type TokenRevocationRepository struct {
	client *redis.Client
}

func NewTokenRevocationRepository(client *redis.Client) *TokenRevocationRepository {
	return &TokenRevocationRepository{client: client}
}

func revokedKey(tokenID string) string {
	return fmt.Sprintf("revoked_token:%s", tokenID)
}

// Revoke records tokenID for ttl. A non-positive ttl is a no-op.
func (r *TokenRevocationRepository) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	key := revokedKey(tokenID)
	err := r.client.Set(ctx, key, "1", ttl).Err()

	logger.Log.Debugw("redis set",
		"key", key,
		"ttl", ttl,
		"error", err,
	)
	return err
}

// IsRevoked reports whether tokenID was revoked.
func (r *TokenRevocationRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	key := revokedKey(tokenID)
	n, err := r.client.Exists(ctx, key).Result()

	logger.Log.Debugw("redis exists",
		"key", key,
		"result", n,
		"error", err,
	)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
