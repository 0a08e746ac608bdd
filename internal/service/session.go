package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/arabingo/internal/domain/entities"
	"github.com/aliskhannn/arabingo/internal/repository"
)

const (
	guestPrefix      = "guest_"
	userPrefix       = "user_"
	guestDisplayName = "Explorer"
)

var ErrInvalidEmail = errors.New("invalid email")

// SessionManager creates, resolves and clears the single local session.
// Authentication is local only: an email is matched against the stored
// session, never checked with a server.
type SessionManager struct {
	repo     SessionRepository
	progress *ProgressStore
	logger   *zap.Logger
}

// NewSessionManager creates a new SessionManager.
func NewSessionManager(repo SessionRepository, progress *ProgressStore, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		repo:     repo,
		progress: progress,
		logger:   logger,
	}
}

// CreateGuest starts an anonymous session and makes it active.
func (m *SessionManager) CreateGuest(ctx context.Context) (*entities.LearnerProfile, error) {
	p := entities.NewLearnerProfile(guestPrefix+uuid.NewString(), guestDisplayName)
	p.IsAnonymous = true

	if err := m.activate(ctx, p); err != nil {
		return nil, err
	}

	m.logger.Info("guest session created", zap.String("uid", p.UID))
	return p, nil
}

// RegisterWithEmail starts a named session. The display name defaults to
// the local part of the email.
func (m *SessionManager) RegisterWithEmail(ctx context.Context, email string) (*entities.LearnerProfile, error) {
	email = strings.TrimSpace(email)
	local, _, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return nil, ErrInvalidEmail
	}

	p := entities.NewLearnerProfile(userPrefix+uuid.NewString(), local)
	p.Email = email

	if err := m.activate(ctx, p); err != nil {
		return nil, err
	}

	m.logger.Info("session registered", zap.String("uid", p.UID))
	return p, nil
}

// Resolve returns the stored session if its email matches and makes it
// active. Any mismatch is reported as repository.ErrSessionNotFound.
func (m *SessionManager) Resolve(ctx context.Context, email string) (*entities.LearnerProfile, error) {
	p, err := m.Current(ctx)
	if err != nil {
		return nil, err
	}

	email = strings.TrimSpace(email)
	if email == "" || p.Email != email {
		return nil, repository.ErrSessionNotFound
	}

	return m.progress.Resume(ctx, p), nil
}

// Current reads the stored session. A corrupt record is treated as absent.
func (m *SessionManager) Current(ctx context.Context) (*entities.LearnerProfile, error) {
	p, err := m.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrCorruptRecord) {
			m.logger.Warn("session record is corrupt, treating as absent", zap.Error(err))
			return nil, repository.ErrSessionNotFound
		}
		return nil, err
	}
	return p, nil
}

// EnsureSession activates the stored session or, if there is none, a new
// guest session.
func (m *SessionManager) EnsureSession(ctx context.Context) (*entities.LearnerProfile, error) {
	p, err := m.Current(ctx)
	switch {
	case err == nil:
		return m.progress.Resume(ctx, p), nil
	case errors.Is(err, repository.ErrSessionNotFound):
		return m.CreateGuest(ctx)
	default:
		return nil, err
	}
}

// Clear removes the stored session and deactivates it. Pending sync
// actions are not touched.
func (m *SessionManager) Clear(ctx context.Context) error {
	if err := m.repo.Delete(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	m.progress.Reset()

	m.logger.Info("session cleared")
	return nil
}

func (m *SessionManager) activate(ctx context.Context, p *entities.LearnerProfile) error {
	err := m.progress.Replace(ctx, p)
	if err != nil && !errors.Is(err, ErrPersistFailed) {
		return err
	}
	return nil
}
