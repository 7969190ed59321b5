package dao

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrSessionIDExists = errors.New("session id already exists")
	ErrSessionNotFound = errors.New("session not found")
)

type Session struct {
	ID             string     `gorm:"primaryKey;size:36"`
	UserID         string     `gorm:"index;not null;size:64"`
	Role           string     `gorm:"not null;size:32"`
	Identity       string     `gorm:"type:text;not null"`
	Credential     string     `gorm:"type:text;not null"`
	CredentialHash string     `gorm:"index;not null;size:64"`
	ExpiresAt      *time.Time `gorm:"index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Session) TableName() string {
	return "dashboard_sessions"
}

type SessionDAO struct {
	db *gorm.DB
}

func NewSessionDAO(db *gorm.DB) *SessionDAO {
	return &SessionDAO{
		db: db,
	}
}

func (d *SessionDAO) Insert(ctx context.Context, s Session) (Session, error) {
	result := d.db.WithContext(ctx).Create(&s)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) ||
			(errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation) {
			return Session{}, ErrSessionIDExists
		}

		return Session{}, result.Error
	}

	return s, nil
}

func (d *SessionDAO) FindByID(ctx context.Context, id string) (Session, error) {
	var s Session
	result := d.db.WithContext(ctx).Where("id = ?", id).First(&s)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Session{}, ErrSessionNotFound
		}

		return Session{}, result.Error
	}

	return s, nil
}

func (d *SessionDAO) Delete(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Where("id = ?", id).Delete(&Session{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// DeleteExpired removes sessions whose credential expired before now and
// returns how many were removed.
func (d *SessionDAO) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := d.db.WithContext(ctx).Where("expires_at IS NOT NULL AND expires_at < ?", now).Delete(&Session{})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

func (d *SessionDAO) DeleteByCredentialHash(ctx context.Context, hash string) (int64, error) {
	result := d.db.WithContext(ctx).Where("credential_hash = ?", hash).Delete(&Session{})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
