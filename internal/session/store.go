// Package session keeps the signed-in identity and its bearer credential
// in durable browser-side storage and hands it to every upstream call.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/pkg/jwthelper"
)

var ErrNoSession = errors.New("no session")

// Persister is the durable storage behind a Store.
type Persister interface {
	Load(ctx context.Context) (domain.Session, error)
	Save(ctx context.Context, s domain.Session) error
	Clear(ctx context.Context) error
}

// Revoker is implemented by persisters that can drop every stored session
// carrying a credential, not only the one bound to this browser.
type Revoker interface {
	Revoke(ctx context.Context, credential string) error
}

// Authenticator exchanges credentials with the tender backend.
type Authenticator interface {
	Login(ctx context.Context, identifier, secret string) (domain.Session, error)
	Logout(ctx context.Context, credential string) error
}

type Store struct {
	persister Persister
	auth      Authenticator
	now       func() time.Time

	mu      sync.RWMutex
	current *domain.Session
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore restores whatever session the persister holds. A missing or
// unreadable session leaves the store signed out.
func NewStore(ctx context.Context, persister Persister, auth Authenticator, opts ...Option) *Store {
	s := &Store{
		persister: persister,
		auth:      auth,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	loaded, err := persister.Load(ctx)
	switch {
	case err == nil:
		s.current = &loaded
	case !errors.Is(err, ErrNoSession):
		zap.L().Warn("discarding unreadable session", zap.Error(err))
		if err = persister.Clear(ctx); err != nil {
			zap.L().Warn("failed to clear unreadable session", zap.Error(err))
		}
	}

	return s
}

// Current returns the session, dropping it first if its credential expired.
func (s *Store) Current() (domain.Session, bool) {
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()

	if current == nil {
		return domain.Session{}, false
	}
	if current.Expired(s.now()) {
		s.clear(context.Background())
		return domain.Session{}, false
	}

	return *current, true
}

// Login signs in against the backend and persists the resulting session.
func (s *Store) Login(ctx context.Context, identifier, secret string) (domain.Session, error) {
	session, err := s.auth.Login(ctx, identifier, secret)
	if err != nil {
		return domain.Session{}, fmt.Errorf("s.auth.Login -> %w", err)
	}

	if session.ExpiresAt.IsZero() {
		if exp, err := jwthelper.ExpiresAt(session.Credential); err == nil {
			session.ExpiresAt = exp
		}
	}

	if err = s.persister.Save(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("s.persister.Save -> %w", err)
	}

	s.mu.Lock()
	s.current = &session
	s.mu.Unlock()

	zap.L().Info("user signed in", zap.String("user_id", session.UserID()), zap.String("role", string(session.Role())))

	return session, nil
}

// Logout tells the backend to drop the credential and always clears local
// state, whatever the backend answered.
func (s *Store) Logout(ctx context.Context) {
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()

	if current != nil && s.auth != nil {
		if err := s.auth.Logout(ctx, current.Credential); err != nil {
			zap.L().Warn("backend logout failed", zap.String("user_id", current.UserID()), zap.Error(err))
		}
	}

	s.clear(ctx)
}

// Invalidate drops a session whose credential the backend rejected. The
// backend is not called.
func (s *Store) Invalidate(ctx context.Context) {
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()

	if current == nil {
		return
	}

	if r, ok := s.persister.(Revoker); ok {
		if err := r.Revoke(ctx, current.Credential); err != nil {
			zap.L().Warn("failed to revoke rejected credential", zap.String("user_id", current.UserID()), zap.Error(err))
		}
	}
	s.clear(ctx)

	zap.L().Info("session dropped after the backend rejected its credential", zap.String("user_id", current.UserID()))
}

func (s *Store) clear(ctx context.Context) {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.persister.Clear(ctx); err != nil {
		zap.L().Warn("failed to clear session", zap.Error(err))
	}
}
