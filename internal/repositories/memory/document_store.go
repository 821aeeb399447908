package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/cash_flow_app/internal/apperrors"
	portsrepo "github.com/SscSPs/cash_flow_app/internal/core/ports/repositories"
)

// DocumentStore keeps documents in memory and is safe for concurrent use.
// Data is lost on restart; it backs tests and throwaway sessions.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewDocumentStore creates an empty in-memory store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string][]byte)}
}

var _ portsrepo.DocumentStore = (*DocumentStore)(nil)

// Load returns a copy of the named document.
func (s *DocumentStore) Load(ctx context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.docs[name]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", name, apperrors.ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

// Save stores a copy of data under name.
func (s *DocumentStore) Save(ctx context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[name] = append([]byte(nil), data...)
	return nil
}
