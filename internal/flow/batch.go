// Package flow holds the small state machines behind dashboard pages:
// all-or-nothing page loads, one submission per form at a time, and
// two-step confirmation of destructive actions.
package flow

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ErrAbandoned means the caller went away before the batch settled. Whatever
// the fetchers produced must not be rendered.
var ErrAbandoned = errors.New("page load abandoned")

// Fetch loads one resource of a page into a variable owned by the caller.
type Fetch func(ctx context.Context) error

// Batch runs fetches concurrently and waits for all of them. The first
// failure cancels the rest and fails the whole batch.
func Batch(ctx context.Context, fetches ...Fetch) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, fetch := range fetches {
		fetch := fetch
		g.Go(func() error {
			return fetch(gctx)
		})
	}

	err := g.Wait()
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %w", ErrAbandoned, ctx.Err())
	}

	return err
}
