package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"pharmalink/internal/infrastructure/cache"

	"github.com/google/uuid"
)

// MemoryTokenStore is a cache.TokenStore kept in a map. TTLs are ignored.
type MemoryTokenStore struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{keys: map[string]struct{}{}}
}

func tokenKey(kind cache.TokenKind, userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", kind, userID, tokenID)
}

func (s *MemoryTokenStore) Save(_ context.Context, kind cache.TokenKind, userID uuid.UUID, tokenID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[tokenKey(kind, userID, tokenID)] = struct{}{}
	return nil
}

func (s *MemoryTokenStore) Exists(_ context.Context, kind cache.TokenKind, userID uuid.UUID, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keys[tokenKey(kind, userID, tokenID)]
	return ok, nil
}

func (s *MemoryTokenStore) Delete(_ context.Context, kind cache.TokenKind, userID uuid.UUID, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, tokenKey(kind, userID, tokenID))
	return nil
}

func (s *MemoryTokenStore) DeleteAll(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, kind := range []cache.TokenKind{cache.AccessTokenKind, cache.RefreshTokenKind} {
		prefix := fmt.Sprintf("%s:%s:", kind, userID)
		for k := range s.keys {
			if strings.HasPrefix(k, prefix) {
				delete(s.keys, k)
			}
		}
	}
	return nil
}

// Len returns the number of stored tokens.
func (s *MemoryTokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}
