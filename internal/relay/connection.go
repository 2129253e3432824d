package relay

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip42"
	"github.com/sirupsen/logrus"
)

const writeTimeout = 10 * time.Second

// InboundEvent is a relay event attributed to the connection it arrived on.
type InboundEvent struct {
	Relay string
	Event *nostr.Event
}

type ConnState int

const (
	StateConnected ConnState = iota + 1
	StateDisconnected
	StateEndOfStored
	StateAuthRejected
)

// StateChange is pushed to the owner whenever a connection's lifecycle moves.
type StateChange struct {
	Relay string
	State ConnState
	Err   error
}

// ConnectionConfig carries the per-connection knobs. Lookback is the trailing
// window requested on every (re)subscribe so events missed during downtime
// are replayed by the relay.
type ConnectionConfig struct {
	URL            string
	PrivateKey     string
	ConnectTimeout time.Duration
	PublishTimeout time.Duration
	AuthGrace      time.Duration
	ReconnectDelay time.Duration
	Lookback       time.Duration
	AutoReconnect  bool
}

type okResult struct {
	accepted bool
	reason   string
}

// Connection owns a single relay session: connect, optional NIP-42 auth,
// subscribe, publish with OK acknowledgment, and reconnect on routine drops.
type Connection struct {
	cfg     ConnectionConfig
	backoff *Backoff
	events  chan<- InboundEvent
	states  chan<- StateChange
	dialer  *websocket.Dialer

	mu           sync.Mutex
	conn         *websocket.Conn
	connected    bool
	closed       bool
	reconnecting bool
	authPending  bool
	sessionSubs  bool
	subs         map[string]nostr.Filter

	writeMu sync.Mutex

	okMu      sync.Mutex
	okWaiters map[string]chan okResult
}

func NewConnection(cfg ConnectionConfig, backoff *Backoff, events chan<- InboundEvent, states chan<- StateChange) *Connection {
	return &Connection{
		cfg:     cfg,
		backoff: backoff,
		events:  events,
		states:  states,
		dialer: &websocket.Dialer{
			HandshakeTimeout: cfg.ConnectTimeout,
		},
		subs:      make(map[string]nostr.Filter),
		okWaiters: make(map[string]chan okResult),
	}
}

func (c *Connection) URL() string { return c.cfg.URL }

func (c *Connection) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Connect opens the relay session. If the relay is in backoff the attempt
// fails immediately without touching the socket.
func (c *Connection) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("connection to %s is closed", c.cfg.URL)
	}
	if c.connected {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	if waiting, remaining := c.backoff.InBackoff(c.cfg.URL); waiting {
		return fmt.Errorf("relay %s in backoff for %s", c.cfg.URL, remaining.Round(time.Second))
	}

	conn, _, err := c.dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		c.backoff.RecordFailure(c.cfg.URL, false)
		c.scheduleReconnect()
		return fmt.Errorf("dial %s: %w", c.cfg.URL, err)
	}

	c.backoff.RecordSuccess(c.cfg.URL)

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.authPending = false
	c.sessionSubs = false
	c.mu.Unlock()

	go c.readLoop(conn)

	// If the relay wants NIP-42 auth it challenges right after the
	// handshake; subscriptions wait out a short grace window so they ride
	// on the authenticated session.
	time.AfterFunc(c.cfg.AuthGrace, func() {
		c.mu.Lock()
		pending := c.authPending
		c.mu.Unlock()
		if !pending {
			c.sendSubscriptions()
		}
	})

	c.pushState(StateConnected, nil)
	return nil
}

// Subscribe registers a filter under the given subscription id. The filter is
// replayed with a fresh lookback window on every reconnect.
func (c *Connection) Subscribe(subID string, filter nostr.Filter) {
	c.mu.Lock()
	c.subs[subID] = filter
	sendNow := c.connected && c.sessionSubs
	c.mu.Unlock()

	if sendNow {
		c.sendReq(subID, filter)
	}
}

// Publish sends the event and waits for the relay's OK acknowledgment,
// returning acceptance. OK frames for unrelated in-flight events (such as an
// auth event) are matched by event id and never confuse the caller.
func (c *Connection) Publish(ctx context.Context, ev *nostr.Event) (bool, error) {
	c.mu.Lock()
	connected := c.connected
	c.mu.Unlock()
	if !connected {
		return false, fmt.Errorf("relay %s not connected", c.cfg.URL)
	}

	waiter := c.addOKWaiter(ev.ID)
	defer c.removeOKWaiter(ev.ID)

	if err := c.writeEnvelope(&nostr.EventEnvelope{Event: *ev}); err != nil {
		return false, err
	}

	timeout := c.cfg.PublishTimeout
	if timeout <= 0 {
		timeout = 7 * time.Second
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-waiter:
		if !res.accepted {
			if isRateLimitMessage(res.reason) {
				c.backoff.RecordFailure(c.cfg.URL, true)
			}
			return false, fmt.Errorf("relay %s rejected event: %s", c.cfg.URL, res.reason)
		}
		return true, nil
	case <-timer.C:
		return false, fmt.Errorf("relay %s: no acknowledgment within %s", c.cfg.URL, timeout)
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Close tears the session down and disables auto-reconnect. It is idempotent.
func (c *Connection) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.connected = false
	c.mu.Unlock()

	if conn != nil {
		c.writeMu.Lock()
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.writeMu.Unlock()
		_ = conn.Close()
	}
}

func (c *Connection) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.handleDisconnect(err)
			return
		}

		envelope := nostr.ParseMessage(data)
		if envelope == nil {
			logrus.Debugf("relay %s: unparseable frame", c.cfg.URL)
			continue
		}

		switch env := envelope.(type) {
		case *nostr.EventEnvelope:
			ev := env.Event
			c.events <- InboundEvent{Relay: c.cfg.URL, Event: &ev}
		case *nostr.OKEnvelope:
			c.deliverOK(env.EventID, okResult{accepted: env.OK, reason: env.Reason})
		case *nostr.AuthEnvelope:
			if env.Challenge != nil {
				c.handleAuthChallenge(*env.Challenge)
			}
		case *nostr.EOSEEnvelope:
			c.pushState(StateEndOfStored, nil)
		case *nostr.NoticeEnvelope:
			msg := string(*env)
			logrus.Warnf("relay %s notice: %s", c.cfg.URL, msg)
			if isRateLimitMessage(msg) {
				c.backoff.RecordFailure(c.cfg.URL, true)
			}
		case *nostr.ClosedEnvelope:
			logrus.Warnf("relay %s closed subscription %s: %s", c.cfg.URL, env.SubscriptionID, env.Reason)
		}
	}
}

func (c *Connection) handleAuthChallenge(challenge string) {
	c.mu.Lock()
	c.authPending = true
	c.mu.Unlock()

	pubkey, err := nostr.GetPublicKey(c.cfg.PrivateKey)
	if err != nil {
		logrus.Errorf("relay %s: cannot derive auth pubkey: %v", c.cfg.URL, err)
		return
	}
	authEvent := nip42.CreateUnsignedAuthEvent(challenge, pubkey, c.cfg.URL)
	if err := authEvent.Sign(c.cfg.PrivateKey); err != nil {
		logrus.Errorf("relay %s: signing auth event: %v", c.cfg.URL, err)
		return
	}

	waiter := c.addOKWaiter(authEvent.ID)
	if err := c.writeEnvelope(&nostr.AuthEnvelope{Event: authEvent}); err != nil {
		c.removeOKWaiter(authEvent.ID)
		logrus.Errorf("relay %s: sending auth event: %v", c.cfg.URL, err)
		return
	}

	go func() {
		defer c.removeOKWaiter(authEvent.ID)

		timeout := c.cfg.PublishTimeout
		if timeout <= 0 {
			timeout = 7 * time.Second
		}
		timer := time.NewTimer(timeout)
		defer timer.Stop()

		select {
		case res := <-waiter:
			c.mu.Lock()
			c.authPending = false
			c.mu.Unlock()
			if !res.accepted {
				logrus.Errorf("relay %s rejected auth: %s", c.cfg.URL, res.reason)
				c.backoff.RecordFailure(c.cfg.URL, false)
				c.pushState(StateAuthRejected, fmt.Errorf("auth rejected: %s", res.reason))
				c.dropTransport()
				return
			}
			c.sendSubscriptions()
		case <-timer.C:
			// No ack for the auth event; some relays accept silently.
			c.mu.Lock()
			c.authPending = false
			c.mu.Unlock()
			c.sendSubscriptions()
		}
	}()
}

// sendSubscriptions replays every registered filter with a fresh trailing
// window. The first call per session wins; later calls are no-ops.
func (c *Connection) sendSubscriptions() {
	c.mu.Lock()
	if !c.connected || c.sessionSubs {
		c.mu.Unlock()
		return
	}
	c.sessionSubs = true
	subs := make(map[string]nostr.Filter, len(c.subs))
	for id, f := range c.subs {
		subs[id] = f
	}
	c.mu.Unlock()

	for id, filter := range subs {
		c.sendReq(id, filter)
	}
}

func (c *Connection) sendReq(subID string, filter nostr.Filter) {
	if c.cfg.Lookback > 0 {
		since := nostr.Timestamp(time.Now().Add(-c.cfg.Lookback).Unix())
		filter.Since = &since
	}
	if err := c.writeEnvelope(&nostr.ReqEnvelope{SubscriptionID: subID, Filters: nostr.Filters{filter}}); err != nil {
		logrus.Errorf("relay %s: sending REQ %s: %v", c.cfg.URL, subID, err)
	}
}

func (c *Connection) handleDisconnect(cause error) {
	c.mu.Lock()
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.conn = nil
	wasConnected := c.connected
	c.connected = false
	closed := c.closed
	c.mu.Unlock()

	c.failPendingOKs()

	if !wasConnected {
		return
	}
	c.pushState(StateDisconnected, cause)

	if !closed {
		logrus.Warnf("relay %s disconnected: %v", c.cfg.URL, cause)
		c.scheduleReconnect()
	}
}

// dropTransport closes the socket without marking the connection closed, so
// the routine reconnect path takes over.
func (c *Connection) dropTransport() {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}

// scheduleReconnect retries the session after a fixed delay, distinct from
// the failure backoff which gates each individual attempt.
func (c *Connection) scheduleReconnect() {
	if !c.cfg.AutoReconnect {
		return
	}
	c.mu.Lock()
	if c.closed || c.reconnecting {
		c.mu.Unlock()
		return
	}
	c.reconnecting = true
	c.mu.Unlock()

	go func() {
		defer func() {
			c.mu.Lock()
			c.reconnecting = false
			c.mu.Unlock()
		}()

		for {
			time.Sleep(c.cfg.ReconnectDelay)

			c.mu.Lock()
			closed := c.closed
			c.mu.Unlock()
			if closed {
				return
			}
			if waiting, remaining := c.backoff.InBackoff(c.cfg.URL); waiting {
				time.Sleep(remaining)
				continue
			}
			if err := c.Connect(context.Background()); err == nil {
				return
			} else {
				logrus.Debugf("relay %s reconnect attempt failed: %v", c.cfg.URL, err)
			}
		}
	}()
}

func (c *Connection) writeEnvelope(envelope nostr.Envelope) error {
	data, err := envelope.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("relay %s not connected", c.cfg.URL)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (c *Connection) addOKWaiter(eventID string) chan okResult {
	waiter := make(chan okResult, 1)
	c.okMu.Lock()
	c.okWaiters[eventID] = waiter
	c.okMu.Unlock()
	return waiter
}

func (c *Connection) removeOKWaiter(eventID string) {
	c.okMu.Lock()
	delete(c.okWaiters, eventID)
	c.okMu.Unlock()
}

func (c *Connection) deliverOK(eventID string, res okResult) {
	c.okMu.Lock()
	waiter, ok := c.okWaiters[eventID]
	c.okMu.Unlock()
	if ok {
		select {
		case waiter <- res:
		default:
		}
	}
}

func (c *Connection) failPendingOKs() {
	c.okMu.Lock()
	defer c.okMu.Unlock()
	for id, waiter := range c.okWaiters {
		select {
		case waiter <- okResult{accepted: false, reason: "connection lost"}:
		default:
		}
		delete(c.okWaiters, id)
	}
}

func (c *Connection) pushState(state ConnState, err error) {
	select {
	case c.states <- StateChange{Relay: c.cfg.URL, State: state, Err: err}:
	default:
		// State observers are advisory; never block the read loop on them.
	}
}

func isRateLimitMessage(msg string) bool {
	lowered := strings.ToLower(msg)
	return strings.HasPrefix(lowered, "rate-limited") || strings.Contains(lowered, "rate limit")
}
