package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/ostromhub/venue-token-service/internal/models"
)

// NextStatus is the pure transition table for offers. Bookings jump straight
// to confirmed since a private booking needs no RSVP quorum; workshops only
// advance to tentative, confirmation requires quorum outside this service.
// Cancelled is terminal and confirmed never regresses.
func NextStatus(current models.OfferStatus, context models.PaymentContext) (models.OfferStatus, bool) {
	if current == models.OfferStatusCancelled {
		return current, false
	}

	switch context {
	case models.ContextBooking:
		if current == models.OfferStatusConfirmed {
			return current, false
		}
		return models.OfferStatusConfirmed, true
	case models.ContextWorkshopProposal:
		if current == models.OfferStatusTentative || current == models.OfferStatusConfirmed {
			return current, false
		}
		return models.OfferStatusTentative, true
	default:
		return current, false
	}
}

// confirmBooking upserts the offer referenced by a booking receipt directly
// into confirmed status. Replays converge on the same single confirmed offer.
func (s *ReceiptService) confirmBooking(ctx context.Context, receipt *models.PaymentReceipt) (*models.Offer, bool, error) {
	offer, err := s.Offers.GetByID(ctx, receipt.RelatedEventID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("loading offer %s: %w", receipt.RelatedEventID, err)
	}

	if offer == nil || errors.Is(err, gorm.ErrRecordNotFound) {
		offer = &models.Offer{
			ID:     receipt.RelatedEventID,
			Type:   models.OfferTypePrivateBooking,
			Status: models.OfferStatusConfirmed,
		}
		if receipt.Sender != "" && receipt.Sender != models.SystemSender {
			offer.Authors = []string{receipt.Sender}
		}

		details, detailsErr := receipt.BookingDetails()
		if detailsErr != nil {
			logrus.Warnf("booking receipt %s has no parsable booking details: %v", receipt.EventID, detailsErr)
		} else {
			offer.Title = details.Title
			offer.Room = details.Room
			offer.MinRsvps = details.MinRsvps
			if start, err := models.ParseTime(details.StartTime); err == nil {
				offer.StartTime = start
			}
			if end, err := models.ParseTime(details.EndTime); err == nil {
				offer.EndTime = end
			}
		}

		if err := s.Offers.Create(ctx, offer); err != nil {
			return nil, false, fmt.Errorf("creating offer %s: %w", offer.ID, err)
		}
		return offer, true, nil
	}

	status, changed := NextStatus(offer.Status, models.ContextBooking)
	if !changed {
		return offer, false, nil
	}
	offer.Status = status
	if err := s.Offers.Update(ctx, offer, offer.ID); err != nil {
		return nil, false, fmt.Errorf("updating offer %s: %w", offer.ID, err)
	}
	return offer, true, nil
}

// markWorkshopTentative advances a proposed workshop to tentative. The offer
// must already exist; a receipt for an unknown workshop is a state conflict
// that is logged and ignored.
func (s *ReceiptService) markWorkshopTentative(ctx context.Context, receipt *models.PaymentReceipt) (*models.Offer, bool, error) {
	offer, err := s.Offers.GetByID(ctx, receipt.RelatedEventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.Errorf("workshop receipt %s references unknown offer %s", receipt.EventID, receipt.RelatedEventID)
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("loading offer %s: %w", receipt.RelatedEventID, err)
	}

	status, changed := NextStatus(offer.Status, models.ContextWorkshopProposal)
	if !changed {
		return offer, false, nil
	}
	offer.Status = status
	if err := s.Offers.Update(ctx, offer, offer.ID); err != nil {
		return nil, false, fmt.Errorf("updating offer %s: %w", offer.ID, err)
	}
	return offer, true, nil
}
