package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/alexdmiller/sonic-circuit/pkg/domain"
)

// Store implements ports.PatchStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]string
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]string),
	}
}

// Save stores the token under id.
func (s *Store) Save(ctx context.Context, id string, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = token
	return nil
}

// Load retrieves the token stored under id.
func (s *Store) Load(ctx context.Context, id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.data[id]
	if !ok {
		return "", domain.ErrPatchNotFound
	}
	return token, nil
}

// Delete removes the patch.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the stored ids in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}
