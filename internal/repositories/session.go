package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sbilibin2017/todoapp/internal/logger"
)

// SessionRepository tracks revoked session tokens in Redis.
// Revoked entries expire together with the token they correspond to,
// so the set never grows beyond the set of live sessions.
type SessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client}
}

func sessionKey(tokenID uuid.UUID) string {
	return fmt.Sprintf("revoked_session:%s", tokenID)
}

// Revoke marks a session token as revoked for the remainder of its lifetime.
// Revoking an already-expired token is a no-op.
func (r *SessionRepository) Revoke(ctx context.Context, tokenID uuid.UUID, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	key := sessionKey(tokenID)
	err := r.client.Set(ctx, key, "1", ttl).Err()

	logger.Log.Infow("session revoked",
		"key", key,
		"ttl", ttl,
		"error", err,
	)

	return err
}

// IsRevoked reports whether the session token has been revoked.
func (r *SessionRepository) IsRevoked(ctx context.Context, tokenID uuid.UUID) (bool, error) {
	key := sessionKey(tokenID)
	_, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		logger.Log.Errorw("revocation lookup failed", "key", key, "error", err)
		return false, err
	}
	return true, nil
}
