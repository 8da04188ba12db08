package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"socialhub/internal/cache"
)

const revokedUserKeyPrefix = "revoked_user:"

// RevocationStore records users whose outstanding tokens must be rejected.
type RevocationStore interface {
	RevokeUser(ctx context.Context, userID uuid.UUID, ttl time.Duration) error
	IsUserRevoked(ctx context.Context, userID uuid.UUID) (bool, error)
}

// RedisRevocationStore keeps revocation markers in Redis.
type RedisRevocationStore struct {
	cache *cache.Client
}

// Ensure RedisRevocationStore implements RevocationStore
var _ RevocationStore = (*RedisRevocationStore)(nil)

// NewRevocationStore creates a revocation store on top of the cache.
func NewRevocationStore(cache *cache.Client) *RedisRevocationStore {
	return &RedisRevocationStore{cache: cache}
}

// RevokeUser marks every token of the user as revoked until ttl passes.
func (s *RedisRevocationStore) RevokeUser(ctx context.Context, userID uuid.UUID, ttl time.Duration) error {
	return s.cache.Set(ctx, revokedUserKeyPrefix+userID.String(), []byte("1"), ttl)
}

// IsUserRevoked checks for a revocation marker. An unreachable Redis reads
// as not revoked.
func (s *RedisRevocationStore) IsUserRevoked(ctx context.Context, userID uuid.UUID) (bool, error) {
	data, err := s.cache.Get(ctx, revokedUserKeyPrefix+userID.String())
	if err != nil {
		return false, nil
	}
	return data != nil, nil
}
