package flow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/policy"
)

func TestGateConfirmOnce(t *testing.T) {
	g := NewGate(time.Minute, nil)
	target := Target{Kind: policy.KindEvent, ID: "e1"}

	p := g.Request("u1", target, "Delete Tender A?")
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, 1, g.Len())

	_, err := g.Confirm("u2", p.ID)
	require.ErrorIs(t, err, ErrConfirmationNotFound)

	got, err := g.Confirm("u1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, target, got.Target)

	_, err = g.Confirm("u1", p.ID)
	require.ErrorIs(t, err, ErrConfirmationNotFound)
}

func TestGateCancelForgetsTheAction(t *testing.T) {
	g := NewGate(time.Minute, nil)
	p := g.Request("u1", Target{Kind: policy.KindUser, ID: "u9"}, "Delete Budi?")

	require.NoError(t, g.Cancel("u1", p.ID))
	assert.Zero(t, g.Len())

	_, err := g.Confirm("u1", p.ID)
	require.ErrorIs(t, err, ErrConfirmationNotFound)
}

func TestGateExpiry(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	g := NewGate(time.Minute, func() time.Time { return now })

	stale := g.Request("u1", Target{Kind: policy.KindMilestone, ID: "m1"}, "Delete Survey?")
	now = now.Add(2 * time.Minute)

	_, err := g.Confirm("u1", stale.ID)
	require.ErrorIs(t, err, ErrConfirmationNotFound)

	g.Request("u1", Target{Kind: policy.KindMilestone, ID: "m2"}, "Delete Design?")
	g.Request("u1", Target{Kind: policy.KindMilestone, ID: "m3"}, "Delete Build?")
	now = now.Add(2 * time.Minute)
	g.Request("u1", Target{Kind: policy.KindMilestone, ID: "m4"}, "Delete Handover?")
	assert.Equal(t, 1, g.Len())
}
