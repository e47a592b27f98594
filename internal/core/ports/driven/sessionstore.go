package driven

import (
	"context"

	"github.com/custodia-labs/docproof/internal/core/domain"
)

// SessionKeyAccount is the key the connected account is persisted under.
const SessionKeyAccount = "userAddress"

// SessionStore persists small client values across runs.
type SessionStore interface {
	// Get returns the value for key.
	// Returns domain.ErrNotFound if the key is not set.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// UploadStore keeps a local log of submission attempts.
type UploadStore interface {
	// Save stores or updates an upload session.
	Save(ctx context.Context, session *domain.UploadSession) error

	// Get retrieves a session by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.UploadSession, error)

	// List returns the most recent sessions first, at most limit entries.
	// A limit of zero returns every session.
	List(ctx context.Context, limit int) ([]domain.UploadSession, error)

	// FindByFingerprint returns sessions that recorded the fingerprint.
	FindByFingerprint(ctx context.Context, fp domain.Fingerprint) ([]domain.UploadSession, error)
}
