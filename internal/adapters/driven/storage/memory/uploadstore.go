package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/core/ports/driven"
)

// Ensure UploadStore implements the interface.
var _ driven.UploadStore = (*UploadStore)(nil)

// UploadStore is an in-memory implementation of driven.UploadStore.
type UploadStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.UploadSession
}

// NewUploadStore creates a new in-memory upload store.
func NewUploadStore() *UploadStore {
	return &UploadStore{
		sessions: make(map[string]domain.UploadSession),
	}
}

// Save stores or updates a session.
func (s *UploadStore) Save(_ context.Context, session *domain.UploadSession) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

// Get retrieves a session by ID.
func (s *UploadStore) Get(_ context.Context, id string) (*domain.UploadSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &session, nil
}

// List returns the most recent sessions first.
func (s *UploadStore) List(_ context.Context, limit int) ([]domain.UploadSession, error) {
	s.mu.RLock()
	result := make([]domain.UploadSession, 0, len(s.sessions))
	for _, session := range s.sessions {
		result = append(result, session)
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].StartedAt.After(result[j].StartedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// FindByFingerprint returns sessions that recorded the fingerprint.
func (s *UploadStore) FindByFingerprint(_ context.Context, fp domain.Fingerprint) ([]domain.UploadSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.UploadSession
	for _, session := range s.sessions {
		if session.Fingerprint == fp {
			result = append(result, session)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartedAt.After(result[j].StartedAt)
	})
	return result, nil
}
