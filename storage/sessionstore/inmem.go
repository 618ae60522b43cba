package sessionstore

import (
	"sync"

	"github.com/pcasconnect/campus/core/session"
)

// InMem is a map-backed store for tests and throwaway environments. It honors
// the same all-or-nothing SetAll contract as the SQLite store.
type InMem struct {
	mu     sync.RWMutex
	values map[string]string

	// FailWrites makes SetAll fail without touching state, for exercising
	// persistence-failure paths.
	FailWrites error
}

func NewInMem() *InMem {
	return &InMem{values: make(map[string]string)}
}

func (s *InMem) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	if !ok {
		return "", session.ErrKeyNotFound
	}
	return value, nil
}

func (s *InMem) SetAll(values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	for key, value := range values {
		s.values[key] = value
	}
	return nil
}

func (s *InMem) Clear(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

// Len reports the number of stored keys.
func (s *InMem) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
