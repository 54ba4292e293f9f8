package secretstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/credstore/internal/common"
)

// MemoryStore keeps secret material in process memory. It is meant for tests
// and the demo CLI's default configuration; nothing survives a restart.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Save(_ context.Context, id string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[id]; ok {
		return fmt.Errorf("%w: %s", common.ErrConflict, id)
	}

	cp := make([]byte, len(data))
	copy(cp, data)
	s.data[id] = cp
	return nil
}

func (s *MemoryStore) Load(_ context.Context, id string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.data[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrNotFound, id)
	}

	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[id]; !ok {
		return fmt.Errorf("%w: %s", common.ErrNotFound, id)
	}
	delete(s.data, id)
	return nil
}
