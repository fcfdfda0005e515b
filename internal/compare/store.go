package compare

import (
	"context"
	"sync"
)

// Store persists the encoded compare list of one owner (a browser session).
// Load returns nil data when nothing has been stored yet.
type Store interface {
	Load(ctx context.Context, owner string) ([]byte, error)
	Save(ctx context.Context, owner string, data []byte) error
}

// Carrier holds the encoded list inside per-request session state.
type Carrier interface {
	CompareData() []byte
	SetCompareData([]byte)
}

// SessionStore keeps the list inside the caller's session, found through From.
// The owner argument is ignored; the session already belongs to one browser.
type SessionStore struct {
	From func(ctx context.Context) Carrier
}

func (s SessionStore) Load(ctx context.Context, _ string) ([]byte, error) {
	c := s.carrier(ctx)
	if c == nil {
		return nil, ErrNoSession
	}
	return c.CompareData(), nil
}

func (s SessionStore) Save(ctx context.Context, _ string, data []byte) error {
	c := s.carrier(ctx)
	if c == nil {
		return ErrNoSession
	}
	c.SetCompareData(data)
	return nil
}

func (s SessionStore) carrier(ctx context.Context) Carrier {
	if s.From == nil {
		return nil
	}
	return s.From(ctx)
}

// MemoryStore keeps lists in process memory.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}}
}

func (m *MemoryStore) Load(_ context.Context, owner string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[owner]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (m *MemoryStore) Save(_ context.Context, owner string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := make([]byte, len(data))
	copy(b, data)
	m.data[owner] = b
	return nil
}
