package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aliskhannn/arabingo/internal/domain/entities"
	"github.com/aliskhannn/arabingo/internal/storage"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrCorruptRecord   = errors.New("corrupt record")
)

// SessionRepository stores the single active learner profile under the
// fixed session key.
type SessionRepository struct {
	store storage.Store
}

// NewSessionRepository creates a new SessionRepository over the store.
func NewSessionRepository(store storage.Store) *SessionRepository {
	return &SessionRepository{store: store}
}

// Get decodes the session record. A missing record yields ErrSessionNotFound,
// an undecodable one ErrCorruptRecord.
func (r *SessionRepository) Get(ctx context.Context) (*entities.LearnerProfile, error) {
	data, err := r.store.Get(ctx, storage.SessionKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var profile entities.LearnerProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("%w: session: %v", ErrCorruptRecord, err)
	}
	if profile.UID == "" {
		return nil, fmt.Errorf("%w: session has no uid", ErrCorruptRecord)
	}

	profile.Normalize()
	return &profile, nil
}

// Save overwrites the session record.
func (r *SessionRepository) Save(ctx context.Context, profile *entities.LearnerProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := r.store.Put(ctx, storage.SessionKey, data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	return nil
}

// Delete removes the session record.
func (r *SessionRepository) Delete(ctx context.Context) error {
	if err := r.store.Delete(ctx, storage.SessionKey); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
