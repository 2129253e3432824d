package publisher

import (
	"context"
	"fmt"

	"github.com/nbd-wtf/go-nostr"
	"github.com/sirupsen/logrus"
)

// RelayPool is the slice of the connection pool the publisher needs.
type RelayPool interface {
	PublishAll(ctx context.Context, ev *nostr.Event) (accepted, failed int)
}

// RelayPublisher signs service-issued events and fans them out through the
// relay pool. Publication succeeds as soon as a single relay accepts.
type RelayPublisher struct {
	Pool       RelayPool
	PrivateKey string
}

func NewRelayPublisher(pool RelayPool, privateKey string) *RelayPublisher {
	return &RelayPublisher{
		Pool:       pool,
		PrivateKey: privateKey,
	}
}

func (p *RelayPublisher) Publish(ctx context.Context, ev *nostr.Event) error {
	if ev.Sig == "" {
		if err := ev.Sign(p.PrivateKey); err != nil {
			return fmt.Errorf("sign event: %w", err)
		}
	}

	accepted, failed := p.Pool.PublishAll(ctx, ev)
	if accepted == 0 {
		return fmt.Errorf("event %s rejected by all %d relays", ev.ID, failed)
	}
	if failed > 0 {
		logrus.Warnf("event %s accepted by %d relays, rejected by %d", ev.ID, accepted, failed)
	}
	return nil
}
