package handlers_test

import (
	"context"
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ostromhub/venue-token-service/internal/handlers"
	"github.com/ostromhub/venue-token-service/internal/models"
)

type MockPaymentProcessor struct {
	mock.Mock
}

func (m *MockPaymentProcessor) HandleRequest(ctx context.Context, relayURL string, ev *nostr.Event) error {
	args := m.Called(ctx, relayURL, ev)
	return args.Error(0)
}

type MockReceiptProcessor struct {
	mock.Mock
}

func (m *MockReceiptProcessor) HandleReceipt(ctx context.Context, relayURL string, ev *nostr.Event) error {
	args := m.Called(ctx, relayURL, ev)
	return args.Error(0)
}

func signedTestEvent(t *testing.T, kind int) *nostr.Event {
	t.Helper()
	ev := &nostr.Event{
		Kind:      kind,
		CreatedAt: nostr.Now(),
		Tags:      nostr.Tags{},
	}
	require.NoError(t, ev.Sign(nostr.GeneratePrivateKey()))
	return ev
}

func TestHandle_DispatchesByKind(t *testing.T) {
	payments := &MockPaymentProcessor{}
	receipts := &MockReceiptProcessor{}
	handler := handlers.NewEventHandler(payments, receipts)

	ctx := context.Background()

	request := signedTestEvent(t, models.KindPaymentRequest)
	payments.On("HandleRequest", ctx, "wss://relay.one", request).Return(nil)
	assert.NoError(t, handler.Handle(ctx, "wss://relay.one", request))

	receipt := signedTestEvent(t, models.KindPaymentReceipt)
	receipts.On("HandleReceipt", ctx, "wss://relay.one", receipt).Return(nil)
	assert.NoError(t, handler.Handle(ctx, "wss://relay.one", receipt))

	payments.AssertExpectations(t)
	receipts.AssertExpectations(t)
}

func TestHandle_IgnoresUnknownKinds(t *testing.T) {
	payments := &MockPaymentProcessor{}
	receipts := &MockReceiptProcessor{}
	handler := handlers.NewEventHandler(payments, receipts)

	note := signedTestEvent(t, nostr.KindTextNote)
	assert.NoError(t, handler.Handle(context.Background(), "wss://relay.one", note))

	payments.AssertNotCalled(t, "HandleRequest", mock.Anything, mock.Anything, mock.Anything)
	receipts.AssertNotCalled(t, "HandleReceipt", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandle_RejectsForgedEvents(t *testing.T) {
	payments := &MockPaymentProcessor{}
	receipts := &MockReceiptProcessor{}
	handler := handlers.NewEventHandler(payments, receipts)

	forged := signedTestEvent(t, models.KindPaymentRequest)
	// Content changed after signing; the id no longer matches.
	forged.Content = "tampered"

	err := handler.Handle(context.Background(), "wss://relay.one", forged)
	assert.Error(t, err)
	payments.AssertNotCalled(t, "HandleRequest", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandle_RejectsForgedEventID(t *testing.T) {
	payments := &MockPaymentProcessor{}
	receipts := &MockReceiptProcessor{}
	handler := handlers.NewEventHandler(payments, receipts)

	ctx := context.Background()

	// A validly signed request replayed under a rewritten id must not reach
	// the processor: each forged id would land on a fresh dedup key and
	// re-execute the token operation.
	original := signedTestEvent(t, models.KindPaymentRequest)
	payments.On("HandleRequest", ctx, "wss://relay.one", original).Return(nil)
	require.NoError(t, handler.Handle(ctx, "wss://relay.one", original))

	forged := *original
	forged.ID = "0000000000000000000000000000000000000000000000000000000000000001"

	err := handler.Handle(ctx, "wss://relay.one", &forged)
	assert.Error(t, err)
	payments.AssertNumberOfCalls(t, "HandleRequest", 1)
}

func TestHandle_RejectsUnsignedEvents(t *testing.T) {
	payments := &MockPaymentProcessor{}
	receipts := &MockReceiptProcessor{}
	handler := handlers.NewEventHandler(payments, receipts)

	unsigned := &nostr.Event{
		Kind:      models.KindPaymentRequest,
		CreatedAt: nostr.Now(),
		Tags:      nostr.Tags{},
	}

	err := handler.Handle(context.Background(), "wss://relay.one", unsigned)
	assert.Error(t, err)
	payments.AssertNotCalled(t, "HandleRequest", mock.Anything, mock.Anything, mock.Anything)
}
