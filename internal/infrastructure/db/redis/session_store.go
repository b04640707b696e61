package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/creative-cluster/studio-api/internal/core/domain"
)

// SessionStore records redeemable refresh tokens in Redis.
//
//	auth:refresh:<token_id>     -> user id, expires with the refresh token
//	auth:user_refresh:<user_id> -> set of token ids, used by RevokeAll
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Register marks tokenID as redeemable by userID for ttl.
func (s *SessionStore) Register(ctx context.Context, userID, tokenID string, ttl time.Duration) error {
	userKey := s.userKey(userID)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.tokenKey(tokenID), userID, ttl)
		pipe.SAdd(ctx, userKey, tokenID)
		pipe.Expire(ctx, userKey, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("register session: %w", err)
	}
	return nil
}

// Consume deletes the session and returns its owner in one round trip, so two
// concurrent refreshes with the same token cannot both succeed.
func (s *SessionStore) Consume(ctx context.Context, tokenID string) (string, error) {
	userID, err := s.client.GetDel(ctx, s.tokenKey(tokenID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrSessionNotFound
		}
		return "", fmt.Errorf("consume session: %w", err)
	}
	if err := s.client.SRem(ctx, s.userKey(userID), tokenID).Err(); err != nil {
		return "", fmt.Errorf("consume session: %w", err)
	}
	return userID, nil
}

// Revoke drops a single session. Unknown ids are not an error.
func (s *SessionStore) Revoke(ctx context.Context, tokenID string) error {
	userID, err := s.client.GetDel(ctx, s.tokenKey(tokenID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("revoke session: %w", err)
	}
	return s.client.SRem(ctx, s.userKey(userID), tokenID).Err()
}

// RevokeAll drops every session owned by userID.
func (s *SessionStore) RevokeAll(ctx context.Context, userID string) error {
	userKey := s.userKey(userID)
	tokenIDs, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return fmt.Errorf("revoke all sessions: %w", err)
	}

	keys := make([]string, 0, len(tokenIDs)+1)
	for _, id := range tokenIDs {
		keys = append(keys, s.tokenKey(id))
	}
	keys = append(keys, userKey)

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("revoke all sessions: %w", err)
	}
	return nil
}

func (s *SessionStore) tokenKey(tokenID string) string {
	return "auth:refresh:" + tokenID
}

func (s *SessionStore) userKey(userID string) string {
	return "auth:user_refresh:" + userID
}
