// Package session manages the persisted browser sessions established by form
// and social login. API clients never touch it; they carry bearer tokens.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pdh8788/club/domain"
	"github.com/pdh8788/club/member"
)

// CookieName is the session cookie written on form and social login.
const CookieName = "CLUBSESSION"

// Validity is the browser session lifetime.
const Validity = 24 * time.Hour

var ErrInvalidSession = errors.New("session: expired or invalid session")

// Manager creates and validates sessions against storage.
type Manager struct {
	repo domain.SessionStorage
}

func NewManager(repo domain.SessionStorage) *Manager {
	return &Manager{repo: repo}
}

// Create persists a fresh session for the member and returns it.
func (m *Manager) Create(ctx context.Context, email string) (*member.Session, error) {
	now := time.Now()
	s := &member.Session{
		ID:        uuid.New().String(),
		Email:     email,
		IssuedAt:  now,
		ExpiresAt: now.Add(Validity),
		Active:    true,
	}
	if err := m.repo.CreateSession(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate returns the session for the ID if it is active and unexpired.
func (m *Manager) Validate(ctx context.Context, id string) (*member.Session, error) {
	s, err := m.repo.GetSession(ctx, id)
	if err != nil {
		return nil, ErrInvalidSession
	}
	if !s.Active || s.ExpiresAt.Before(time.Now()) {
		return nil, ErrInvalidSession
	}
	return s, nil
}

// Delete removes the session. Deleting an unknown ID is not an error.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.repo.DeleteSession(ctx, id)
}
