package application

import (
	"sync"
	"time"
)

// Snapshot holds the last known good value of a polled resource.
type Snapshot[T any] struct {
	mu        sync.RWMutex
	value     T
	ok        bool
	updatedAt time.Time
}

func (s *Snapshot[T]) Get() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.ok
}

func (s *Snapshot[T]) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

func (s *Snapshot[T]) Set(value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
	s.ok = true
	s.updatedAt = time.Now()
}

func (s *Snapshot[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	s.value = zero
	s.ok = false
	s.updatedAt = time.Time{}
}
