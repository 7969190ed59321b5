package flow

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/policy"
)

var ErrConfirmationNotFound = errors.New("confirmation not found or expired")

// Target identifies what a destructive action removes.
type Target struct {
	Kind     policy.Kind `json:"kind"`
	ID       string      `json:"id"`
	ParentID string      `json:"parent_id,omitempty"`
}

// Pending is a destructive action waiting for the user's answer.
type Pending struct {
	ID        string    `json:"confirmation_id"`
	Owner     string    `json:"-"`
	Target    Target    `json:"target"`
	Prompt    string    `json:"prompt"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Gate holds pending confirmations. Nothing is executed here: Confirm hands
// the target back to the caller, Cancel just forgets it.
type Gate struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	pending map[string]Pending
}

func NewGate(ttl time.Duration, now func() time.Time) *Gate {
	if now == nil {
		now = time.Now
	}

	return &Gate{
		ttl:     ttl,
		now:     now,
		pending: make(map[string]Pending),
	}
}

func (g *Gate) Request(owner string, target Target, prompt string) Pending {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.purge()

	p := Pending{
		ID:        uuid.NewString(),
		Owner:     owner,
		Target:    target,
		Prompt:    prompt,
		ExpiresAt: g.now().Add(g.ttl),
	}
	g.pending[p.ID] = p

	return p
}

// Confirm removes and returns the pending action. It can only be confirmed
// once, and only by the user who requested it.
func (g *Gate) Confirm(owner, id string) (Pending, error) {
	return g.take(owner, id)
}

// Cancel drops the pending action.
func (g *Gate) Cancel(owner, id string) error {
	_, err := g.take(owner, id)
	return err
}

func (g *Gate) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.pending)
}

func (g *Gate) take(owner, id string) (Pending, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.pending[id]
	if !ok || p.Owner != owner {
		return Pending{}, ErrConfirmationNotFound
	}
	delete(g.pending, id)

	if !g.now().Before(p.ExpiresAt) {
		return Pending{}, ErrConfirmationNotFound
	}

	return p, nil
}

func (g *Gate) purge() {
	now := g.now()
	for id, p := range g.pending {
		if !now.Before(p.ExpiresAt) {
			delete(g.pending, id)
		}
	}
}
