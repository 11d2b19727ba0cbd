package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"citeguard/internal/verification/models"
	"citeguard/pkg/platform/sentinel"
)

// InMemoryStore keeps verifications in a map. Records are stored as copies so
// callers cannot mutate them after Save.
type InMemoryStore struct {
	mu            sync.RWMutex
	verifications map[uuid.UUID]*models.Verification
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{verifications: make(map[uuid.UUID]*models.Verification)}
}

func (s *InMemoryStore) Save(_ context.Context, v *models.Verification) error {
	cp, err := deepCopy(v)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.verifications[v.ID]; exists {
		return sentinel.ErrConflict
	}
	s.verifications[v.ID] = cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Verification, error) {
	s.mu.RLock()
	v, ok := s.verifications[id]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return deepCopy(v)
}

// Len returns the number of stored verifications.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.verifications)
}

func deepCopy(v *models.Verification) (*models.Verification, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("copy verification: %w", err)
	}
	var out models.Verification
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("copy verification: %w", err)
	}
	return &out, nil
}
