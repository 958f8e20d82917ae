package discovery

import (
	"context"
	"testing"
	"time"
)

// TestBrowseOnceReturnsImmediately checks that scheduling a browse
// never blocks the caller — the whole point of the discovery-prime
// workaround is that it runs in the background while the orchestrator
// moves on to the next start step.
func TestBrowseOnceReturnsImmediately(t *testing.T) {
	a := New("OSCQuery-Test", 9010)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		a.BrowseOnce(ctx, 0, 50*time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("BrowseOnce must return immediately, the work happens in its own goroutine")
	}
}

// TestBrowseOnceRespectsCancellation checks that scheduling a browse
// with an already-cancelled context and a long delay neither panics
// nor blocks the caller.
func TestBrowseOnceRespectsCancellation(t *testing.T) {
	a := New("OSCQuery-Test", 9011)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Should not panic or hang even though the context is already done.
	a.BrowseOnce(ctx, time.Hour, time.Second)
	time.Sleep(10 * time.Millisecond)
}

func TestUnpublishWithoutPublishIsNoOp(t *testing.T) {
	a := New("OSCQuery-Test", 9012)
	a.Unpublish() // must not panic when nothing was ever published
}
