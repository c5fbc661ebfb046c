// Package session holds the authenticated operator's bearer token and
// profile. The store is the in-memory authority; it hydrates once from the
// repository at startup and writes through on login/logout so a process
// restart restores authentication without a new login.
package session

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"sales-console/internal/domain"
	"sales-console/internal/repository"
)

// Store is the process-wide session state. Safe for concurrent use; it is
// only ever written by login/logout and the profile refresh.
type Store struct {
	repo   repository.SessionRepository
	logger *logrus.Logger

	mu    sync.RWMutex
	token string
	user  *domain.User
}

func NewStore(repo repository.SessionRepository, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.New()
	}
	return &Store{
		repo:   repo,
		logger: logger,
	}
}

// Hydrate loads the stored token, once, at initialization. The user profile
// is not persisted; it is re-fetched from the backend on demand.
func (s *Store) Hydrate(ctx context.Context) error {
	token, err := s.repo.LoadToken(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if token != "" {
		s.logger.Info("session restored from storage")
	}
	return nil
}

// Login stores the token and user and persists the token.
func (s *Store) Login(ctx context.Context, token string, user domain.User) error {
	if err := s.repo.SaveToken(ctx, token); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	u := user
	s.user = &u
	s.mu.Unlock()
	return nil
}

// Logout clears both memory and durable storage. The in-memory session is
// dropped even if the durable clear fails; the error is reported so the
// caller can log it.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	return s.repo.ClearToken(ctx)
}

// IsAuthenticated reports whether a token is held. It says nothing about the
// token's validity; an expired token is only discovered when a backend call
// is rejected.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token returns the stored bearer token, "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current profile, nil when not yet fetched.
func (s *Store) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// SetUser replaces the cached profile after a fetch or update.
func (s *Store) SetUser(user domain.User) {
	s.mu.Lock()
	u := user
	s.user = &u
	s.mu.Unlock()
}
