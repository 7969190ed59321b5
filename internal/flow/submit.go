package flow

import (
	"errors"
	"sync"
)

var ErrSubmitInProgress = errors.New("a submission for this form is already in progress")

type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
)

// Submitter serialises submissions per form key. While a key is Submitting
// further submissions are refused; when the call returns, success or
// failure, the key is Idle again.
type Submitter struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewSubmitter() *Submitter {
	return &Submitter{inFlight: make(map[string]struct{})}
}

func (s *Submitter) State(key string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.inFlight[key]; ok {
		return StateSubmitting
	}

	return StateIdle
}

// Submit runs fn unless key is already submitting. fn's error is returned
// untouched so its message reaches the user verbatim.
func (s *Submitter) Submit(key string, fn func() error) error {
	s.mu.Lock()
	if _, ok := s.inFlight[key]; ok {
		s.mu.Unlock()
		return ErrSubmitInProgress
	}
	s.inFlight[key] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, key)
		s.mu.Unlock()
	}()

	return fn()
}
