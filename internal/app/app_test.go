package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ostromhub/venue-token-service/config"
	"github.com/ostromhub/venue-token-service/internal/dedup"
	"github.com/ostromhub/venue-token-service/internal/handlers"
	"github.com/ostromhub/venue-token-service/internal/models"
	"github.com/ostromhub/venue-token-service/internal/relay"
)

// slowProcessor blocks inside HandleRequest until released, so tests can
// cancel the run context while an operation is in flight.
type slowProcessor struct {
	started  chan struct{}
	release  chan struct{}
	finished atomic.Bool
}

func (p *slowProcessor) HandleRequest(ctx context.Context, relayURL string, ev *nostr.Event) error {
	close(p.started)
	<-p.release
	p.finished.Store(true)
	return nil
}

type noopReceipts struct{}

func (noopReceipts) HandleReceipt(ctx context.Context, relayURL string, ev *nostr.Event) error {
	return nil
}

func signedRequestEvent(t *testing.T) *nostr.Event {
	t.Helper()
	ev := &nostr.Event{
		Kind:      models.KindPaymentRequest,
		CreatedAt: nostr.Now(),
		Tags:      nostr.Tags{nostr.Tag{"method", "mint"}},
	}
	require.NoError(t, ev.Sign(nostr.GeneratePrivateKey()))
	return ev
}

func TestRun_WaitsForInFlightOperationBeforeShutdown(t *testing.T) {
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	requestSet, err := dedup.NewStore(dir, "requests", 100)
	require.NoError(t, err)
	receiptSet, err := dedup.NewStore(dir, "receipts", 100)
	require.NoError(t, err)

	backoff := relay.NewBackoff(relay.BackoffConfig{
		Base:          time.Second,
		RateLimitBase: time.Minute,
		Max:           time.Minute,
	})
	pool := relay.NewPool(relay.PoolConfig{PrivateKey: nostr.GeneratePrivateKey()}, backoff)

	events := make(chan relay.InboundEvent, 1)
	processor := &slowProcessor{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}

	application := &App{
		config:     &config.Config{APP: config.APP{PORT: "0"}},
		Router:     gin.New(),
		pool:       pool,
		handler:    handlers.NewEventHandler(processor, noopReceipts{}),
		requestSet: requestSet,
		receiptSet: receiptSet,
		events:     events,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		assert.NoError(t, application.Run(ctx))
		close(done)
	}()

	events <- relay.InboundEvent{Relay: "wss://relay.test", Event: signedRequestEvent(t)}
	<-processor.started

	// Cancel mid-operation. Run must not return until the handler finishes.
	cancel()
	select {
	case <-done:
		t.Fatal("run returned while an operation was still in flight")
	case <-time.After(100 * time.Millisecond):
	}

	close(processor.release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after the in-flight operation finished")
	}
	assert.True(t, processor.finished.Load())
}
