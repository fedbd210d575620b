// Package projection keeps an in-memory snapshot of a collection, refreshed
// whenever the change feed signals a write. Readers always see a complete,
// immutable snapshot; a refresh swaps it atomically.
package projection

import (
	"context"
	"fmt"
	"sync"

	"log/slog"

	"github.com/gemora/store-manager/internal/dependency"
)

// Loader reads the full collection from the source of truth.
type Loader[T any] func(ctx context.Context) ([]T, error)

type Projection[T any] struct {
	collection string
	load       Loader[T]

	mu       sync.RWMutex
	snapshot []T

	unsubscribe func()
	stop        context.CancelFunc
	done        chan struct{}
}

// New loads the initial snapshot, subscribes to the collection's change feed
// and starts refreshing in the background. The projection must be released
// with Stop.
func New[T any](ctx context.Context, collection string, load Loader[T], feed dependency.ChangeFeed) (*Projection[T], error) {
	p := &Projection[T]{
		collection: collection,
		load:       load,
		done:       make(chan struct{}),
	}

	if err := p.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("initial load of [%s] failed: %w", collection, err)
	}

	ticks, unsubscribe, err := feed.Subscribe(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to [%s]: %w", collection, err)
	}
	p.unsubscribe = unsubscribe

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.stop = cancel

	go func() {
		defer close(p.done)
		for {
			select {
			case <-runCtx.Done():
				return
			case _, ok := <-ticks:
				if !ok {
					return
				}
				if err := p.Refresh(runCtx); err != nil {
					// keep serving the last good snapshot
					slog.Default().ErrorContext(runCtx, "projection refresh failed",
						slog.String("collection", p.collection),
						slog.String("err", err.Error()),
					)
				}
			}
		}
	}()

	return p, nil
}

// Refresh re-reads the collection and atomically replaces the snapshot.
func (p *Projection[T]) Refresh(ctx context.Context) error {
	items, err := p.load(ctx)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.snapshot = items
	p.mu.Unlock()
	return nil
}

// Snapshot returns the current snapshot. Callers must not mutate it.
func (p *Projection[T]) Snapshot() []T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot
}

// Stop unsubscribes from the feed and waits for the refresh loop to exit.
func (p *Projection[T]) Stop() {
	p.unsubscribe()
	p.stop()
	<-p.done
}
