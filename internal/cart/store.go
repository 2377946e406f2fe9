package cart

import "sync"

// Store owns the current cart snapshot of one POS session. Reads never see a
// half-applied mutation.
type Store struct {
	mu      sync.RWMutex
	current Cart
}

func NewStore() *Store {
	return &Store{current: New()}
}

// Dispatch applies fn to the current snapshot and keeps the result.
func (s *Store) Dispatch(fn func(Cart) Cart) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = fn(s.current)
	return s.current
}

func (s *Store) Snapshot() Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Store) Reset() {
	s.Dispatch(Cart.Clear)
}
