package service

import (
	"context"
	"fmt"

	"github.com/nbd-wtf/go-nostr"
	"github.com/sirupsen/logrus"

	"github.com/ostromhub/venue-token-service/internal/models"
)

// OfferStore persists offers. Only status transitions happen here; creation
// and cancellation of workshop proposals belong to the web layer.
type OfferStore interface {
	Create(ctx context.Context, offer *models.Offer) error
	GetByID(ctx context.Context, id string) (*models.Offer, error)
	GetAll(ctx context.Context) (*[]models.Offer, error)
	Update(ctx context.Context, offer *models.Offer, id string) error
}

// ReceiptService consumes payment-receipt events. Successful receipts tied to
// a booking or workshop context drive the offer state machine and broadcast a
// calendar-status event. Its processed set is separate from the request
// processor's: the two roles dedup independently.
type ReceiptService struct {
	Processed   ProcessedSet
	Offers      OfferStore
	Publisher   EventPublisher
	Mirror      Mirror
	MirrorTopic string
}

func NewReceiptService(processed ProcessedSet, offers OfferStore, publisher EventPublisher) *ReceiptService {
	return &ReceiptService{
		Processed: processed,
		Offers:    offers,
		Publisher: publisher,
	}
}

// WithMirror attaches the optional analytics mirror.
func (s *ReceiptService) WithMirror(mirror Mirror, topic string) *ReceiptService {
	s.Mirror = mirror
	s.MirrorTopic = topic
	return s
}

// HandleReceipt processes one inbound payment-receipt event.
func (s *ReceiptService) HandleReceipt(ctx context.Context, relayURL string, ev *nostr.Event) error {
	if s.Processed.Contains(ev.ID) {
		return nil
	}

	receipt, err := models.ParsePaymentReceipt(ev)
	if err != nil {
		logrus.Warnf("malformed payment receipt %s from %s: %v", ev.ID, relayURL, err)
		return s.mark(ev.ID)
	}

	if !receipt.Success {
		logrus.Infof("receipt %s reports failure for request %s: %s", ev.ID, receipt.RequestID, receipt.ErrorMessage)
		return s.mark(ev.ID)
	}

	if receipt.RelatedEventID != "" {
		var offer *models.Offer
		var changed bool

		switch receipt.Context {
		case models.ContextBooking:
			offer, changed, err = s.confirmBooking(ctx, receipt)
		case models.ContextWorkshopProposal:
			offer, changed, err = s.markWorkshopTentative(ctx, receipt)
		}
		if err != nil {
			return err
		}

		if changed {
			if err := s.broadcast(ctx, offer); err != nil {
				logrus.Errorf("calendar broadcast for offer %s: %v", offer.ID, err)
			}
		}
	}

	return s.mark(ev.ID)
}

// broadcast publishes the calendar-status event for a transitioned offer and
// mirrors it when the analytics tap is configured.
func (s *ReceiptService) broadcast(ctx context.Context, offer *models.Offer) error {
	calendar := models.NewCalendarStatusEvent(offer)
	if err := s.Publisher.Publish(ctx, calendar); err != nil {
		return err
	}
	if s.Mirror != nil {
		if err := s.Mirror.Publish(ctx, s.MirrorTopic, offer); err != nil {
			logrus.Errorf("mirroring calendar update for %s: %v", offer.ID, err)
		}
	}
	return nil
}

func (s *ReceiptService) mark(id string) error {
	if err := s.Processed.Mark(id); err != nil {
		return fmt.Errorf("recording processed id %s: %w", id, err)
	}
	return nil
}
