package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/swissbill/backend/internal/domain/document"
)

// InMemorySequence keeps per-key counters in a map.
// This is suitable for single-instance deployments and testing
type InMemorySequence struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewInMemorySequence creates an empty in-memory sequence
func NewInMemorySequence() *InMemorySequence {
	return &InMemorySequence{counters: make(map[string]int64)}
}

// Next implements document.Sequence
func (s *InMemorySequence) Next(ctx context.Context, key string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[key]++
	return s.counters[key], nil
}

// InMemoryNumberRegistry remembers reserved numbers for the process lifetime
type InMemoryNumberRegistry struct {
	mu       sync.Mutex
	reserved map[string]struct{}
}

// NewInMemoryNumberRegistry creates an empty registry
func NewInMemoryNumberRegistry() *InMemoryNumberRegistry {
	return &InMemoryNumberRegistry{reserved: make(map[string]struct{})}
}

// Reserve implements document.NumberRegistry
func (r *InMemoryNumberRegistry) Reserve(ctx context.Context, account, number string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := registryKey("", account, number)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.reserved[key]; taken {
		return fmt.Errorf("%w: %s", document.ErrDuplicateDocumentNumber, number)
	}
	r.reserved[key] = struct{}{}
	return nil
}

// Size returns the number of reservations (for testing/monitoring)
func (r *InMemoryNumberRegistry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reserved)
}

var (
	_ document.Sequence       = (*InMemorySequence)(nil)
	_ document.NumberRegistry = (*InMemoryNumberRegistry)(nil)
)
