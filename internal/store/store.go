package store

import (
	"context"
	"errors"
	"sync"
)

var ErrStorage = errors.New("storage failure")

// Store reads and writes the whole tournament document. Load always returns a private copy,
// so a caller that fails halfway through a change can simply drop it.
type Store interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, state *State) error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*FileStore)(nil)
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*RedisStore)(nil)
)

// MemoryStore keeps the encoded document in memory. Used in tests and for throwaway runs.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return decodeState(s.data)
}

func (s *MemoryStore) Save(ctx context.Context, state *State) error {
	data, err := encodeState(state)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}
