package session

import (
	"context"
	"sync"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
)

// Memory is a process-local Persister, used by tests and tooling.
type Memory struct {
	mu      sync.Mutex
	session *domain.Session
}

func NewMemory(initial *domain.Session) *Memory {
	return &Memory{session: initial}
}

func (m *Memory) Load(context.Context) (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return domain.Session{}, ErrNoSession
	}

	return *m.session, nil
}

func (m *Memory) Save(_ context.Context, s domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = &s

	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = nil

	return nil
}
