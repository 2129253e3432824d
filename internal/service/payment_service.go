package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/nbd-wtf/go-nostr"
	"github.com/sirupsen/logrus"

	"github.com/ostromhub/venue-token-service/internal/models"
)

// ProcessedSet is the persisted idempotence set for one processing role.
type ProcessedSet interface {
	Contains(id string) bool
	Mark(id string) error
}

// TokenService executes token operations against the chain, keyed per
// (chainId, tokenAddress) through the operation payload.
type TokenService interface {
	Mint(ctx context.Context, op models.TokenOperation) (string, error)
	Burn(ctx context.Context, op models.TokenOperation) (string, error)
	Transfer(ctx context.Context, op models.TokenOperation) (string, error)
}

// EventPublisher publishes signed events back to the relay network.
type EventPublisher interface {
	Publish(ctx context.Context, ev *nostr.Event) error
}

// Mirror taps processed results into the analytics pipeline. Optional.
type Mirror interface {
	Publish(ctx context.Context, topic string, message interface{}) error
}

// PaymentService consumes payment-request events, authorizes them, executes
// the token operation at most once per request id, and publishes a receipt
// on success. A failed operation is recorded and stays silent: no receipt.
type PaymentService struct {
	Processed    ProcessedSet
	Token        TokenService
	Publisher    EventPublisher
	Mirror       Mirror
	MirrorTopic  string
	ServerPubkey string

	mu    sync.Mutex
	locks map[string]*eventLock
}

// eventLock serializes concurrent deliveries of the same event id. Entries
// are refcounted and dropped once the last holder releases, so the map only
// ever holds ids currently being processed.
type eventLock struct {
	mu   sync.Mutex
	refs int
}

func NewPaymentService(processed ProcessedSet, token TokenService, publisher EventPublisher, serverPubkey string) *PaymentService {
	return &PaymentService{
		Processed:    processed,
		Token:        token,
		Publisher:    publisher,
		ServerPubkey: serverPubkey,
		locks:        make(map[string]*eventLock),
	}
}

// WithMirror attaches the optional analytics mirror.
func (s *PaymentService) WithMirror(mirror Mirror, topic string) *PaymentService {
	s.Mirror = mirror
	s.MirrorTopic = topic
	return s
}

// HandleRequest processes one inbound payment-request event. Duplicate
// deliveries, from any relay and in any order, are absorbed here: the
// processed set is consulted before acting and written after, under a
// per-event lock so concurrent deliveries cannot race the side effect.
func (s *PaymentService) HandleRequest(ctx context.Context, relayURL string, ev *nostr.Event) error {
	lock := s.acquire(ev.ID)
	defer s.release(ev.ID, lock)

	if s.Processed.Contains(ev.ID) {
		return nil
	}

	req, err := models.ParsePaymentRequest(ev)
	if err != nil {
		// Malformed requests are never retried; the content cannot change.
		logrus.Warnf("malformed payment request %s from %s: %v", ev.ID, relayURL, err)
		return s.mark(ev.ID)
	}

	if err := s.authorize(req); err != nil {
		logrus.Warnf("payment request %s denied: %v", ev.ID, err)
		return s.mark(ev.ID)
	}

	txHash, opErr := s.execute(ctx, req)

	// The request is spent regardless of outcome; operator-level retries
	// happen through a fresh request event.
	if err := s.mark(ev.ID); err != nil {
		return err
	}

	if opErr != nil {
		logrus.Errorf("token %s for request %s failed: %v", req.Method, ev.ID, opErr)
		return nil
	}

	receipt, err := models.NewPaymentReceiptEvent(req, ev, txHash)
	if err != nil {
		return fmt.Errorf("build receipt for %s: %w", ev.ID, err)
	}
	if err := s.Publisher.Publish(ctx, receipt); err != nil {
		return fmt.Errorf("publish receipt for %s: %w", ev.ID, err)
	}

	logrus.Infof("request %s: %s of %s executed, tx %s", ev.ID, req.Method, req.Amount, txHash)

	if s.Mirror != nil {
		if err := s.Mirror.Publish(ctx, s.MirrorTopic, receipt); err != nil {
			logrus.Errorf("mirroring receipt for %s: %v", ev.ID, err)
		}
	}
	return nil
}

// authorize enforces the signer rules: minting only from the service's own
// key, transfers only from the declared sender, burns from the declared
// sender or the service key. Nobody burns on someone else's behalf.
func (s *PaymentService) authorize(req *models.PaymentRequest) error {
	switch req.Method {
	case models.MethodMint:
		if req.Signer != s.ServerPubkey {
			return fmt.Errorf("mint signed by %s, not the authorized server key", req.Signer)
		}
	case models.MethodBurn:
		if req.Signer != req.Sender && req.Signer != s.ServerPubkey {
			return fmt.Errorf("burn signed by %s but declares sender %s", req.Signer, req.Sender)
		}
	case models.MethodTransfer:
		if req.Signer != req.Sender {
			return fmt.Errorf("transfer signed by %s but declares sender %s", req.Signer, req.Sender)
		}
	}
	return nil
}

func (s *PaymentService) execute(ctx context.Context, req *models.PaymentRequest) (string, error) {
	op := req.Operation()
	switch req.Method {
	case models.MethodMint:
		return s.Token.Mint(ctx, op)
	case models.MethodBurn:
		return s.Token.Burn(ctx, op)
	case models.MethodTransfer:
		return s.Token.Transfer(ctx, op)
	default:
		return "", fmt.Errorf("unsupported method %s", req.Method)
	}
}

func (s *PaymentService) mark(id string) error {
	if err := s.Processed.Mark(id); err != nil {
		return fmt.Errorf("recording processed id %s: %w", id, err)
	}
	return nil
}

func (s *PaymentService) acquire(eventID string) *eventLock {
	s.mu.Lock()
	lock, ok := s.locks[eventID]
	if !ok {
		lock = &eventLock{}
		s.locks[eventID] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.mu.Lock()
	return lock
}

func (s *PaymentService) release(eventID string, lock *eventLock) {
	lock.mu.Unlock()

	s.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(s.locks, eventID)
	}
	s.mu.Unlock()
}
