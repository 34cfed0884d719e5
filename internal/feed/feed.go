// Package feed fans actions from multiple producers into one shared engine.
// Correctness does not depend on how clients are partitioned across
// producers: the engine's lock serializes all mutation.
package feed

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/terminal-bench/payengine/internal/engine"
)

// RejectFunc is called for every action the engine turns away. It may be
// invoked from multiple goroutines and must be safe for concurrent use.
type RejectFunc func(action engine.Action, err error)

// Run consumes every source until it is closed, applying each action to the
// engine. Rejections are reported through onReject (which may be nil) and do
// not stop the feed; Run returns early only when ctx is cancelled.
func Run(ctx context.Context, eng engine.Engine, sources []<-chan engine.Action, onReject RejectFunc) error {
	group, ctx := errgroup.WithContext(ctx)

	for _, source := range sources {
		source := source
		group.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case action, ok := <-source:
					if !ok {
						return nil
					}
					if err := eng.Apply(action); err != nil && onReject != nil {
						onReject(action, err)
					}
				}
			}
		})
	}

	return group.Wait()
}
