package storage

import (
	"context"
	"sync"
	"time"

	"github.com/swissbill/backend/internal/infrastructure/printing"
)

// MemoryArchive keeps archived PDFs in memory.
// Use this for development and tests until a real backend is configured.
type MemoryArchive struct {
	// BaseURL prefixes the URLs handed back from Store.
	// Defaults to "memory://documents" if not set
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
	now     func() time.Time
}

// NewMemoryArchive creates a new MemoryArchive
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{
		BaseURL: "memory://documents",
		objects: make(map[string][]byte),
		now:     time.Now,
	}
}

// Ensure MemoryArchive implements printing.Archive
var _ printing.Archive = (*MemoryArchive)(nil)

// Store implements printing.Archive
func (s *MemoryArchive) Store(ctx context.Context, req *printing.StoreRequest) (*printing.StoreResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, printing.NewRenderError(printing.ErrCodeStorageFailed, "operation cancelled", err)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := printing.ArchiveKey(req, s.now())
	data := make([]byte, len(req.PDFData))
	copy(data, req.PDFData)

	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()

	return &printing.StoreResult{
		Path: key,
		URL:  s.BaseURL + "/" + key,
		Size: int64(len(data)),
	}, nil
}

// Get returns a stored object
func (s *MemoryArchive) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	return data, ok
}

// Len returns the number of stored objects
func (s *MemoryArchive) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
