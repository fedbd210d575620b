package projection

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFeed is an in-process change feed with a single subscriber per
// collection.
type stubFeed struct {
	mu   sync.Mutex
	subs map[string]chan struct{}
}

func newStubFeed() *stubFeed {
	return &stubFeed{subs: map[string]chan struct{}{}}
}

func (f *stubFeed) Publish(ctx context.Context, collection string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ch, ok := f.subs[collection]; ok {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return nil
}

func (f *stubFeed) Subscribe(ctx context.Context, collection string) (<-chan struct{}, func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{}, 1)
	f.subs[collection] = ch
	return ch, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.subs[collection] == ch {
			delete(f.subs, collection)
			close(ch)
		}
	}, nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestProjectionRefreshesOnPublish(t *testing.T) {
	ctx := context.Background()
	feed := newStubFeed()

	var mu sync.Mutex
	data := []string{"a"}
	load := func(ctx context.Context) ([]string, error) {
		mu.Lock()
		defer mu.Unlock()
		out := make([]string, len(data))
		copy(out, data)
		return out, nil
	}

	p, err := New(ctx, "products", load, feed)
	require.NoError(t, err)
	defer p.Stop()

	assert.Equal(t, []string{"a"}, p.Snapshot())

	mu.Lock()
	data = []string{"a", "b"}
	mu.Unlock()
	require.NoError(t, feed.Publish(ctx, "products"))

	waitFor(t, func() bool { return len(p.Snapshot()) == 2 })
	assert.Equal(t, []string{"a", "b"}, p.Snapshot())
}

func TestProjectionKeepsLastSnapshotOnLoadError(t *testing.T) {
	ctx := context.Background()
	feed := newStubFeed()

	var mu sync.Mutex
	fail := false
	calls := 0
	load := func(ctx context.Context) ([]int, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if fail {
			return nil, fmt.Errorf("source unavailable")
		}
		return []int{1, 2, 3}, nil
	}

	p, err := New(ctx, "order_receipts", load, feed)
	require.NoError(t, err)
	defer p.Stop()

	mu.Lock()
	fail = true
	mu.Unlock()
	require.NoError(t, feed.Publish(ctx, "order_receipts"))

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls >= 2
	})
	assert.Equal(t, []int{1, 2, 3}, p.Snapshot())
}

func TestProjectionInitialLoadErrorFails(t *testing.T) {
	feed := newStubFeed()
	load := func(ctx context.Context) ([]int, error) {
		return nil, fmt.Errorf("boom")
	}

	_, err := New(context.Background(), "banners", load, feed)
	assert.Error(t, err)
}

func TestProjectionStop(t *testing.T) {
	ctx := context.Background()
	feed := newStubFeed()
	load := func(ctx context.Context) ([]int, error) { return []int{1}, nil }

	p, err := New(ctx, "banners", load, feed)
	require.NoError(t, err)

	p.Stop()
	// publishing after stop must not panic or deadlock
	require.NoError(t, feed.Publish(ctx, "banners"))
}
