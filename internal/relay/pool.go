package relay

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nbd-wtf/go-nostr"
	"github.com/sirupsen/logrus"
)

// PoolConfig carries the connection knobs shared by every relay in the pool.
type PoolConfig struct {
	PrivateKey     string
	ConnectTimeout time.Duration
	PublishTimeout time.Duration
	AuthGrace      time.Duration
	ReconnectDelay time.Duration
	Lookback       time.Duration
}

// RelayStatus is a point-in-time view of one pooled connection.
type RelayStatus struct {
	URL       string `json:"url"`
	Connected bool   `json:"connected"`
	Attempts  int    `json:"backoff_attempts"`
}

// Pool owns a named set of relay connections and fans publish and subscribe
// operations out to all of them. Inbound events from every relay funnel into
// one channel; the pool performs no deduplication because only the consumer
// knows the right idempotence key and scope.
type Pool struct {
	cfg     PoolConfig
	backoff *Backoff

	events chan InboundEvent
	states chan StateChange

	mu    sync.Mutex
	conns map[string]*Connection
	subs  map[string]nostr.Filter
}

func NewPool(cfg PoolConfig, backoff *Backoff) *Pool {
	return &Pool{
		cfg:     cfg,
		backoff: backoff,
		events:  make(chan InboundEvent, 256),
		states:  make(chan StateChange, 64),
		conns:   make(map[string]*Connection),
		subs:    make(map[string]nostr.Filter),
	}
}

// Events is the merged stream of inbound events across all relays.
func (p *Pool) Events() <-chan InboundEvent { return p.events }

// States is the merged stream of connection lifecycle changes.
func (p *Pool) States() <-chan StateChange { return p.states }

// ConnectAll attempts every relay concurrently and independently. Partial
// success is not an error; the pool is usable with a single live relay.
// Failed relays keep retrying in the background.
func (p *Pool) ConnectAll(ctx context.Context, urls []string) (connected, failed int) {
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, url := range urls {
		conn := NewConnection(ConnectionConfig{
			URL:            url,
			PrivateKey:     p.cfg.PrivateKey,
			ConnectTimeout: p.cfg.ConnectTimeout,
			PublishTimeout: p.cfg.PublishTimeout,
			AuthGrace:      p.cfg.AuthGrace,
			ReconnectDelay: p.cfg.ReconnectDelay,
			Lookback:       p.cfg.Lookback,
			AutoReconnect:  true,
		}, p.backoff, p.events, p.states)

		p.mu.Lock()
		p.conns[url] = conn
		for id, filter := range p.subs {
			conn.Subscribe(id, filter)
		}
		p.mu.Unlock()

		wg.Add(1)
		go func(url string, conn *Connection) {
			defer wg.Done()
			if err := conn.Connect(ctx); err != nil {
				logrus.Warnf("connect %s: %v", url, err)
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			mu.Lock()
			connected++
			mu.Unlock()
		}(url, conn)
	}

	wg.Wait()
	return connected, failed
}

// SubscribeAll registers the same filter on every current and future
// connection and returns the generated subscription id.
func (p *Pool) SubscribeAll(filter nostr.Filter) string {
	subID := uuid.New().String()

	p.mu.Lock()
	p.subs[subID] = filter
	conns := make([]*Connection, 0, len(p.conns))
	for _, conn := range p.conns {
		conns = append(conns, conn)
	}
	p.mu.Unlock()

	for _, conn := range conns {
		conn.Subscribe(subID, filter)
	}
	return subID
}

// PublishAll fans the event out to every connection concurrently. The overall
// operation only counts as failed when no relay accepts.
func (p *Pool) PublishAll(ctx context.Context, ev *nostr.Event) (accepted, failed int) {
	p.mu.Lock()
	conns := make([]*Connection, 0, len(p.conns))
	for _, conn := range p.conns {
		conns = append(conns, conn)
	}
	p.mu.Unlock()

	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, conn := range conns {
		wg.Add(1)
		go func(conn *Connection) {
			defer wg.Done()
			ok, err := conn.Publish(ctx, ev)
			mu.Lock()
			defer mu.Unlock()
			if ok {
				accepted++
				return
			}
			failed++
			if err != nil {
				logrus.Debugf("publish %s to %s: %v", ev.ID, conn.URL(), err)
			}
		}(conn)
	}

	wg.Wait()
	return accepted, failed
}

// CloseAll tears down every connection without reconnect.
func (p *Pool) CloseAll() {
	p.mu.Lock()
	conns := make([]*Connection, 0, len(p.conns))
	for _, conn := range p.conns {
		conns = append(conns, conn)
	}
	p.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
}

// Status reports every pooled relay's connection state.
func (p *Pool) Status() []RelayStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	statuses := make([]RelayStatus, 0, len(p.conns))
	for url, conn := range p.conns {
		statuses = append(statuses, RelayStatus{
			URL:       url,
			Connected: conn.Connected(),
			Attempts:  p.backoff.Attempts(url),
		})
	}
	return statuses
}

// ConnectedCount returns how many relays currently hold a live session.
func (p *Pool) ConnectedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	count := 0
	for _, conn := range p.conns {
		if conn.Connected() {
			count++
		}
	}
	return count
}
