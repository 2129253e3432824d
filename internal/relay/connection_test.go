package relay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRelay is a minimal in-process relay: it answers REQ with EOSE (plus an
// optional stored event), EVENT with OK, and AUTH events with OK. Setting
// challenge makes it demand NIP-42 auth right after the handshake.
type fakeRelay struct {
	URL string

	challenge  string
	rejectWith string
	stored     *nostr.Event

	gotReq  chan nostr.ReqEnvelope
	gotAuth chan nostr.Event
}

func newFakeRelay(t *testing.T) *fakeRelay {
	f := &fakeRelay{
		gotReq:  make(chan nostr.ReqEnvelope, 8),
		gotAuth: make(chan nostr.Event, 2),
	}

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		write := func(env nostr.Envelope) {
			data, err := env.MarshalJSON()
			if err != nil {
				return
			}
			_ = conn.WriteMessage(websocket.TextMessage, data)
		}

		if f.challenge != "" {
			challenge := f.challenge
			write(&nostr.AuthEnvelope{Challenge: &challenge})
		}

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			switch env := nostr.ParseMessage(data).(type) {
			case *nostr.EventEnvelope:
				if f.rejectWith != "" {
					write(&nostr.OKEnvelope{EventID: env.Event.ID, OK: false, Reason: f.rejectWith})
				} else {
					write(&nostr.OKEnvelope{EventID: env.Event.ID, OK: true})
				}
			case *nostr.AuthEnvelope:
				f.gotAuth <- env.Event
				write(&nostr.OKEnvelope{EventID: env.Event.ID, OK: true})
			case *nostr.ReqEnvelope:
				f.gotReq <- *env
				if f.stored != nil {
					subID := env.SubscriptionID
					write(&nostr.EventEnvelope{SubscriptionID: &subID, Event: *f.stored})
				}
				eose := nostr.EOSEEnvelope(env.SubscriptionID)
				write(&eose)
			}
		}
	}))
	t.Cleanup(srv.Close)

	f.URL = "ws" + strings.TrimPrefix(srv.URL, "http")
	return f
}

func testConnConfig(t *testing.T, url string) ConnectionConfig {
	t.Helper()
	return ConnectionConfig{
		URL:            url,
		PrivateKey:     nostr.GeneratePrivateKey(),
		ConnectTimeout: 2 * time.Second,
		PublishTimeout: 2 * time.Second,
		AuthGrace:      30 * time.Millisecond,
		ReconnectDelay: 30 * time.Millisecond,
		Lookback:       time.Hour,
	}
}

func signedEvent(t *testing.T, sk string, kind int, content string) *nostr.Event {
	t.Helper()
	ev := &nostr.Event{
		Kind:      kind,
		CreatedAt: nostr.Now(),
		Tags:      nostr.Tags{},
		Content:   content,
	}
	require.NoError(t, ev.Sign(sk))
	return ev
}

func waitReq(t *testing.T, f *fakeRelay) nostr.ReqEnvelope {
	t.Helper()
	select {
	case req := <-f.gotReq:
		return req
	case <-time.After(2 * time.Second):
		t.Fatal("relay never received a REQ")
		return nostr.ReqEnvelope{}
	}
}

func TestConnection_SubscribeReplaysStoredEvents(t *testing.T) {
	sk := nostr.GeneratePrivateKey()
	stored := signedEvent(t, sk, 9901, "stored")

	f := newFakeRelay(t)
	f.stored = stored

	events := make(chan InboundEvent, 8)
	states := make(chan StateChange, 8)
	c := NewConnection(testConnConfig(t, f.URL), NewBackoff(BackoffConfig{}), events, states)
	defer c.Close()

	c.Subscribe("sub-1", nostr.Filter{Kinds: []int{9901}})
	require.NoError(t, c.Connect(context.Background()))

	req := waitReq(t, f)
	assert.Equal(t, "sub-1", req.SubscriptionID)
	require.Len(t, req.Filters, 1)
	require.NotNil(t, req.Filters[0].Since, "subscription must carry a lookback window")

	select {
	case inbound := <-events:
		assert.Equal(t, f.URL, inbound.Relay)
		assert.Equal(t, stored.ID, inbound.Event.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("stored event never arrived")
	}
}

func TestConnection_PublishAcknowledged(t *testing.T) {
	f := newFakeRelay(t)

	events := make(chan InboundEvent, 8)
	states := make(chan StateChange, 8)
	cfg := testConnConfig(t, f.URL)
	c := NewConnection(cfg, NewBackoff(BackoffConfig{}), events, states)
	defer c.Close()

	require.NoError(t, c.Connect(context.Background()))

	ev := signedEvent(t, cfg.PrivateKey, 9902, "receipt")
	accepted, err := c.Publish(context.Background(), ev)
	assert.NoError(t, err)
	assert.True(t, accepted)
}

func TestConnection_PublishRejectedRateLimitPenalizes(t *testing.T) {
	f := newFakeRelay(t)
	f.rejectWith = "rate-limited: slow down"

	events := make(chan InboundEvent, 8)
	states := make(chan StateChange, 8)
	cfg := testConnConfig(t, f.URL)
	backoff := NewBackoff(BackoffConfig{Base: time.Second, RateLimitBase: time.Minute, Max: 10 * time.Minute})
	c := NewConnection(cfg, backoff, events, states)
	defer c.Close()

	require.NoError(t, c.Connect(context.Background()))

	ev := signedEvent(t, cfg.PrivateKey, 9902, "receipt")
	accepted, err := c.Publish(context.Background(), ev)
	assert.False(t, accepted)
	assert.Error(t, err)
	assert.Equal(t, 1, backoff.Attempts(f.URL))
}

func TestConnection_ConnectGatedByBackoff(t *testing.T) {
	f := newFakeRelay(t)

	backoff := NewBackoff(BackoffConfig{Base: time.Hour, Max: time.Hour})
	backoff.RecordFailure(f.URL, false)

	events := make(chan InboundEvent, 8)
	states := make(chan StateChange, 8)
	c := NewConnection(testConnConfig(t, f.URL), backoff, events, states)
	defer c.Close()

	err := c.Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "in backoff")
	select {
	case req := <-f.gotReq:
		t.Fatalf("unexpected REQ %s while in backoff", req.SubscriptionID)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestConnection_AuthenticatesBeforeSubscribing(t *testing.T) {
	f := newFakeRelay(t)
	f.challenge = "challenge-xyz"

	events := make(chan InboundEvent, 8)
	states := make(chan StateChange, 8)
	cfg := testConnConfig(t, f.URL)
	c := NewConnection(cfg, NewBackoff(BackoffConfig{}), events, states)
	defer c.Close()

	c.Subscribe("sub-auth", nostr.Filter{Kinds: []int{9901}})
	require.NoError(t, c.Connect(context.Background()))

	var authEvent nostr.Event
	select {
	case authEvent = <-f.gotAuth:
	case <-time.After(2 * time.Second):
		t.Fatal("client never answered the auth challenge")
	}
	assert.Equal(t, 22242, authEvent.Kind)

	challengeTag := authEvent.Tags.GetFirst([]string{"challenge"})
	require.NotNil(t, challengeTag)
	assert.Equal(t, "challenge-xyz", challengeTag.Value())

	req := waitReq(t, f)
	assert.Equal(t, "sub-auth", req.SubscriptionID)
}
