package session

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"golang.org/x/crypto/hkdf"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/config"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
)

// CookieName and the value keys are fixed so sessions survive restarts and
// deploys as long as the secret is unchanged.
const (
	CookieName  = "tender_session"
	keyToken    = "token"
	keyUser     = "user"
	keyExpires  = "expires_at"
	keySession  = "sid"
	hashKeyInfo = "tender-dashboard cookie hash"
	encKeyInfo  = "tender-dashboard cookie encryption"
)

// NewCookieStore builds the gorilla cookie store. The signing and
// encryption keys are both derived from the configured secret.
func NewCookieStore(conf *config.SessionConfig) (*sessions.CookieStore, error) {
	hashKey, err := deriveKey(conf.Secret, hashKeyInfo, 64)
	if err != nil {
		return nil, err
	}
	encKey, err := deriveKey(conf.Secret, encKeyInfo, 32)
	if err != nil {
		return nil, err
	}

	store := sessions.NewCookieStore(hashKey, encKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(conf.MaxAge / time.Second),
		HttpOnly: true,
		Secure:   conf.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(store.Options.MaxAge)

	return store, nil
}

func deriveKey(secret, info string, size int) ([]byte, error) {
	key := make([]byte, size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("hkdf %s -> %w", info, err)
	}

	return key, nil
}

// PersisterFactory builds the Persister for one browser request.
type PersisterFactory func(w http.ResponseWriter, r *http.Request) Persister

// CookieFactory keeps the whole session inside the encrypted cookie.
func CookieFactory(store *sessions.CookieStore) PersisterFactory {
	return func(w http.ResponseWriter, r *http.Request) Persister {
		return &CookiePersister{store: store, w: w, r: r}
	}
}

type CookiePersister struct {
	store *sessions.CookieStore
	w     http.ResponseWriter
	r     *http.Request
}

func (p *CookiePersister) Load(context.Context) (domain.Session, error) {
	sess, err := p.store.Get(p.r, CookieName)
	if err != nil {
		return domain.Session{}, fmt.Errorf("p.store.Get -> %w", err)
	}

	token, _ := sess.Values[keyToken].(string)
	rawUser, _ := sess.Values[keyUser].(string)
	if token == "" || rawUser == "" {
		return domain.Session{}, ErrNoSession
	}

	var user domain.User
	if err = json.Unmarshal([]byte(rawUser), &user); err != nil {
		return domain.Session{}, fmt.Errorf("json.Unmarshal user -> %w", err)
	}

	s := domain.Session{Credential: token, User: user}
	if exp, ok := sess.Values[keyExpires].(int64); ok && exp > 0 {
		s.ExpiresAt = time.Unix(exp, 0)
	}

	return s, nil
}

func (p *CookiePersister) Save(_ context.Context, s domain.Session) error {
	sess, _ := p.store.Get(p.r, CookieName)

	rawUser, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("json.Marshal user -> %w", err)
	}

	sess.Options = storeOptions(p.store)
	sess.Values[keyToken] = s.Credential
	sess.Values[keyUser] = string(rawUser)
	if !s.ExpiresAt.IsZero() {
		sess.Values[keyExpires] = s.ExpiresAt.Unix()
	}

	if err = sess.Save(p.r, p.w); err != nil {
		return fmt.Errorf("sess.Save -> %w", err)
	}

	return nil
}

func (p *CookiePersister) Clear(context.Context) error {
	return expireCookie(p.store, p.w, p.r)
}

func expireCookie(store *sessions.CookieStore, w http.ResponseWriter, r *http.Request) error {
	sess, _ := store.Get(r, CookieName)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1

	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("sess.Save -> %w", err)
	}

	return nil
}

// storeOptions returns a copy of the store defaults, undoing an earlier
// expiry of the same request's cookie.
func storeOptions(store *sessions.CookieStore) *sessions.Options {
	opts := *store.Options
	return &opts
}
