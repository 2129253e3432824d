package handlers

import (
	"context"
	"fmt"

	"github.com/nbd-wtf/go-nostr"
	"github.com/sirupsen/logrus"

	"github.com/ostromhub/venue-token-service/internal/models"
)

type PaymentProcessor interface {
	HandleRequest(ctx context.Context, relayURL string, ev *nostr.Event) error
}

type ReceiptProcessor interface {
	HandleReceipt(ctx context.Context, relayURL string, ev *nostr.Event) error
}

// EventHandler routes inbound relay events to the right processor. Events
// whose id or signature do not verify are rejected here, before any
// processing.
type EventHandler struct {
	Payments PaymentProcessor
	Receipts ReceiptProcessor
}

func NewEventHandler(payments PaymentProcessor, receipts ReceiptProcessor) *EventHandler {
	return &EventHandler{
		Payments: payments,
		Receipts: receipts,
	}
}

func (h *EventHandler) Handle(ctx context.Context, relayURL string, ev *nostr.Event) error {
	// The id is the dedup key, so it must be the canonical hash of the
	// event; the signature alone does not cover a forged id.
	if ev.ID != ev.GetID() {
		logrus.Warnf("dropping event %s from %s: id does not match event hash", ev.ID, relayURL)
		return fmt.Errorf("event %s failed verification", ev.ID)
	}
	ok, err := ev.CheckSignature()
	if err != nil || !ok {
		logrus.Warnf("dropping event %s from %s: bad signature (%v)", ev.ID, relayURL, err)
		return fmt.Errorf("event %s failed verification", ev.ID)
	}

	switch ev.Kind {
	case models.KindPaymentRequest:
		return h.Payments.HandleRequest(ctx, relayURL, ev)
	case models.KindPaymentReceipt:
		return h.Receipts.HandleReceipt(ctx, relayURL, ev)
	default:
		logrus.Debugf("ignoring event %s of kind %d", ev.ID, ev.Kind)
		return nil
	}
}
