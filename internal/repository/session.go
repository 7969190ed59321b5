package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/repository/dao"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/session"
)

const maxIDAttempts = 3

type SessionDAO interface {
	Insert(ctx context.Context, s dao.Session) (dao.Session, error)
	FindByID(ctx context.Context, id string) (dao.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	DeleteByCredentialHash(ctx context.Context, hash string) (int64, error)
}

// SessionRepository stores dashboard sessions server side. It satisfies
// session.Repository.
type SessionRepository struct {
	dao   SessionDAO
	newID func() string
}

func NewSessionRepository(dao SessionDAO) *SessionRepository {
	return &SessionRepository{
		dao:   dao,
		newID: uuid.NewString,
	}
}

func (r *SessionRepository) Create(ctx context.Context, s domain.Session) (string, error) {
	record, err := r.domainToDAO(s)
	if err != nil {
		return "", err
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		record.ID = r.newID()

		created, err := r.dao.Insert(ctx, record)
		if errors.Is(err, dao.ErrSessionIDExists) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("r.dao.Insert -> %w", err)
		}

		return created.ID, nil
	}

	return "", fmt.Errorf("r.dao.Insert -> %w", dao.ErrSessionIDExists)
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (domain.Session, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrSessionNotFound) {
			return domain.Session{}, session.ErrRecordNotFound
		}

		return domain.Session{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found)
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		if errors.Is(err, dao.ErrSessionNotFound) {
			return session.ErrRecordNotFound
		}

		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	n, err := r.dao.DeleteExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("r.dao.DeleteExpired -> %w", err)
	}

	return n, nil
}

// DeleteByCredential removes every session holding credential. Records are
// matched on the credential hash column.
func (r *SessionRepository) DeleteByCredential(ctx context.Context, credential string) (int64, error) {
	n, err := r.dao.DeleteByCredentialHash(ctx, hashCredential(credential))
	if err != nil {
		return 0, fmt.Errorf("r.dao.DeleteByCredentialHash -> %w", err)
	}

	return n, nil
}

func hashCredential(credential string) string {
	sum := sha256.Sum256([]byte(credential))
	return hex.EncodeToString(sum[:])
}

func (r *SessionRepository) domainToDAO(s domain.Session) (dao.Session, error) {
	identity, err := json.Marshal(s.User)
	if err != nil {
		return dao.Session{}, fmt.Errorf("json.Marshal identity -> %w", err)
	}

	record := dao.Session{
		UserID:         s.UserID(),
		Role:           string(s.Role()),
		Identity:       string(identity),
		Credential:     s.Credential,
		CredentialHash: hashCredential(s.Credential),
	}
	if !s.ExpiresAt.IsZero() {
		exp := s.ExpiresAt.UTC()
		record.ExpiresAt = &exp
	}

	return record, nil
}

func (r *SessionRepository) daoToDomain(record dao.Session) (domain.Session, error) {
	var user domain.User
	if err := json.Unmarshal([]byte(record.Identity), &user); err != nil {
		return domain.Session{}, fmt.Errorf("json.Unmarshal identity -> %w", err)
	}

	s := domain.Session{Credential: record.Credential, User: user}
	if record.ExpiresAt != nil {
		s.ExpiresAt = *record.ExpiresAt
	}

	return s, nil
}
