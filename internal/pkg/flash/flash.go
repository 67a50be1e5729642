// Package flash keeps one-shot status messages between requests, the way a
// form app shows "Employee was created successfully!" after a redirect.
package flash

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Store keeps flash messages in Redis keyed by user.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func key(userID int, kind string) string {
	return fmt.Sprintf("flash:%d:%s", userID, kind)
}

// Put stores msg under kind ("success") for the user.
func (s *Store) Put(ctx context.Context, userID int, kind, msg string) error {
	if err := s.rdb.Set(ctx, key(userID, kind), msg, s.ttl).Err(); err != nil {
		return errors.Wrap(err, "storing flash message")
	}
	return nil
}

// Pop returns and removes the message stored under kind. An absent message
// yields an empty string.
func (s *Store) Pop(ctx context.Context, userID int, kind string) (string, error) {
	msg, err := s.rdb.GetDel(ctx, key(userID, kind)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "reading flash message")
	}
	return msg, nil
}
