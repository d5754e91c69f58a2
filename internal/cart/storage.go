package cart

import (
	"context"
	"sync"
)

// Storage persists a single cart's state under one key.
type Storage interface {
	// Load returns the saved state and whether any state was found.
	// Undecodable data is reported with an error wrapping ErrCorruptState.
	Load(ctx context.Context) (State, bool, error)
	Save(ctx context.Context, state State) error
}

// StorageFactory opens the storage for a fully qualified cart key.
type StorageFactory func(key string) (Storage, error)

// MemoryBackend keeps encoded cart states in process memory.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: map[string][]byte{}}
}

// Storage returns the cart storage bound to key.
func (m *MemoryBackend) Storage(key string) Storage {
	return &memoryStorage{backend: m, key: key}
}

// Factory adapts the backend to a StorageFactory.
func (m *MemoryBackend) Factory() StorageFactory {
	return func(key string) (Storage, error) {
		return m.Storage(key), nil
	}
}

// Raw returns the encoded payload stored at key.
func (m *MemoryBackend) Raw(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.data[key]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, true
}

// Put stores an encoded payload at key as-is.
func (m *MemoryBackend) Put(key string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(raw))
	copy(buf, raw)
	m.data[key] = buf
}

// Ping always succeeds.
func (m *MemoryBackend) Ping(context.Context) error {
	return nil
}

type memoryStorage struct {
	backend *MemoryBackend
	key     string
}

func (s *memoryStorage) Load(ctx context.Context) (State, bool, error) {
	raw, ok := s.backend.Raw(s.key)
	if !ok {
		return State{}, false, nil
	}
	state, err := DecodeState(raw)
	if err != nil {
		return State{}, true, err
	}
	return state, true, nil
}

func (s *memoryStorage) Save(ctx context.Context, state State) error {
	raw, err := EncodeState(state)
	if err != nil {
		return err
	}
	s.backend.Put(s.key, raw)
	return nil
}
