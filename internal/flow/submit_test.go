package flow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitterRefusesDuplicateSubmission(t *testing.T) {
	s := NewSubmitter()
	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan error)

	go func() {
		done <- s.Submit("u1:event-form", func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	assert.Equal(t, StateSubmitting, s.State("u1:event-form"))
	assert.ErrorIs(t, s.Submit("u1:event-form", func() error {
		t.Fatal("duplicate submission ran")
		return nil
	}), ErrSubmitInProgress)

	// Other forms are unaffected.
	assert.NoError(t, s.Submit("u2:event-form", func() error { return nil }))

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateIdle, s.State("u1:event-form"))
}

func TestSubmitterFailureReturnsToIdle(t *testing.T) {
	s := NewSubmitter()
	rejected := errors.New("Nama tender sudah digunakan")

	err := s.Submit("u1:event-form", func() error { return rejected })
	assert.Equal(t, rejected, err)
	assert.Equal(t, StateIdle, s.State("u1:event-form"))

	assert.NoError(t, s.Submit("u1:event-form", func() error { return nil }))
}
