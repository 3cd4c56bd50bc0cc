package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Store registers live session ids. A token whose id is not in the store
// is treated as logged out.
type Store interface {
	Save(ctx context.Context, sessionID string, userID int64, ttl time.Duration) error
	// Lookup returns the user id a session was issued to. ok is false when
	// the session is unknown or expired.
	Lookup(ctx context.Context, sessionID string) (userID int64, ok bool, err error)
	Delete(ctx context.Context, sessionID string) error
}

const keyPrefix = "session:"

// RedisStore keeps sessions as string keys with a TTL
type RedisStore struct {
	client goredis.Cmdable
}

// NewRedisStore creates a RedisStore
func NewRedisStore(client goredis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, userID int64, ttl time.Duration) error {
	if err := s.client.Set(ctx, keyPrefix+sessionID, userID, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Lookup(ctx context.Context, sessionID string) (int64, bool, error) {
	val, err := s.client.Get(ctx, keyPrefix+sessionID).Result()
	if errors.Is(err, goredis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup session: %w", err)
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt session value: %w", err)
	}
	return userID, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

type memoryEntry struct {
	userID    int64
	expiresAt time.Time
}

// MemoryStore is a process-local Store for development and tests
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, userID int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = memoryEntry{userID: userID, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Lookup(_ context.Context, sessionID string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sessionID]
	if !ok {
		return 0, false, nil
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.sessions, sessionID)
		return 0, false, nil
	}
	return e.userID, true, nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

var (
	_ Store = (*RedisStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
