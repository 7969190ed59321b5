package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
)

// ErrRecordNotFound is returned by a Repository for unknown session ids.
var ErrRecordNotFound = errors.New("session record not found")

// Repository stores server-side session records.
type Repository interface {
	Create(ctx context.Context, s domain.Session) (string, error)
	FindByID(ctx context.Context, id string) (domain.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByCredential(ctx context.Context, credential string) (int64, error)
}

// DatabaseFactory keeps only an opaque session id in the cookie and the
// credential itself in the database.
func DatabaseFactory(store *sessions.CookieStore, repo Repository) PersisterFactory {
	return func(w http.ResponseWriter, r *http.Request) Persister {
		return &DatabasePersister{store: store, repo: repo, w: w, r: r}
	}
}

type DatabasePersister struct {
	store *sessions.CookieStore
	repo  Repository
	w     http.ResponseWriter
	r     *http.Request
}

func (p *DatabasePersister) sessionID() (string, error) {
	sess, err := p.store.Get(p.r, CookieName)
	if err != nil {
		return "", fmt.Errorf("p.store.Get -> %w", err)
	}

	id, _ := sess.Values[keySession].(string)
	if id == "" {
		return "", ErrNoSession
	}

	return id, nil
}

func (p *DatabasePersister) Load(ctx context.Context) (domain.Session, error) {
	id, err := p.sessionID()
	if err != nil {
		return domain.Session{}, err
	}

	s, err := p.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return domain.Session{}, ErrNoSession
		}
		return domain.Session{}, fmt.Errorf("p.repo.FindByID -> %w", err)
	}

	return s, nil
}

func (p *DatabasePersister) Save(ctx context.Context, s domain.Session) error {
	if old, err := p.sessionID(); err == nil {
		if err = p.repo.Delete(ctx, old); err != nil && !errors.Is(err, ErrRecordNotFound) {
			return fmt.Errorf("p.repo.Delete -> %w", err)
		}
	}

	id, err := p.repo.Create(ctx, s)
	if err != nil {
		return fmt.Errorf("p.repo.Create -> %w", err)
	}

	sess, _ := p.store.Get(p.r, CookieName)
	sess.Options = storeOptions(p.store)
	sess.Values = map[interface{}]interface{}{keySession: id}
	if err = sess.Save(p.r, p.w); err != nil {
		return fmt.Errorf("sess.Save -> %w", err)
	}

	return nil
}

func (p *DatabasePersister) Clear(ctx context.Context) error {
	if id, err := p.sessionID(); err == nil {
		if err = p.repo.Delete(ctx, id); err != nil && !errors.Is(err, ErrRecordNotFound) {
			return fmt.Errorf("p.repo.Delete -> %w", err)
		}
	}

	return expireCookie(p.store, p.w, p.r)
}

// Revoke removes every record holding credential, so other browsers signed in
// with the same token are dropped too.
func (p *DatabasePersister) Revoke(ctx context.Context, credential string) error {
	if _, err := p.repo.DeleteByCredential(ctx, credential); err != nil {
		return fmt.Errorf("p.repo.DeleteByCredential -> %w", err)
	}

	return nil
}
