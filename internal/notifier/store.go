package notifier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// NotifiedStore tracks which matches have already been alerted. MarkNotified
// must be atomic check-and-set: it returns true only for the first caller,
// which is what guarantees at-most-once delivery per match.
type NotifiedStore interface {
	MarkNotified(ctx context.Context, matchID uuid.UUID) (bool, error)
	Reset(ctx context.Context) error
}

// MemoryStore is the default in-process notified store. Dedup state lives
// for the process session and is lost on restart.
type MemoryStore struct {
	mu       sync.Mutex
	notified map[uuid.UUID]struct{}
}

// NewMemoryStore creates an empty in-memory notified store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{notified: make(map[uuid.UUID]struct{})}
}

// MarkNotified records the match as alerted. Returns false if it was
// already recorded.
func (s *MemoryStore) MarkNotified(_ context.Context, matchID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.notified[matchID]; seen {
		return false, nil
	}
	s.notified[matchID] = struct{}{}
	return true, nil
}

// Reset clears all dedup state.
func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notified = make(map[uuid.UUID]struct{})
	return nil
}

// RedisStore is a Redis-backed notified store for deployments that restart
// often or run more than one instance. Keys expire after ttl so old matches
// don't accumulate.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisStore creates a notified store on an existing Redis client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client:    client,
		keyPrefix: "notified:",
		ttl:       ttl,
	}
}

// MarkNotified uses SETNX so concurrent watchers agree on a single winner.
func (s *RedisStore) MarkNotified(ctx context.Context, matchID uuid.UUID) (bool, error) {
	key := s.keyPrefix + matchID.String()
	set, err := s.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("marking match notified: %w", err)
	}
	return set, nil
}

// Reset removes all notified keys under the store's prefix.
func (s *RedisStore) Reset(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("clearing notified keys: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scanning notified keys: %w", err)
	}
	return nil
}
