package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nbd-wtf/go-nostr"
	"gorm.io/gorm"
)

type OfferType string
type OfferStatus string

const (
	OfferTypeWorkshop       OfferType = "workshop"
	OfferTypePrivateBooking OfferType = "private-booking"

	OfferStatusPending   OfferStatus = "pending"
	OfferStatusTentative OfferStatus = "tentative"
	OfferStatusConfirmed OfferStatus = "confirmed"
	OfferStatusCancelled OfferStatus = "cancelled"
)

func (t OfferType) IsValid() bool {
	switch t {
	case OfferTypeWorkshop, OfferTypePrivateBooking:
		return true
	default:
		return false
	}
}

func (s OfferStatus) IsValid() bool {
	switch s {
	case OfferStatusPending, OfferStatusTentative, OfferStatusConfirmed, OfferStatusCancelled:
		return true
	default:
		return false
	}
}

// Offer is a bookable or proposable unit whose status is driven by receipt
// processing. Creation, cancellation and RSVP counting belong to the web
// layer; this service only moves the status forward.
type Offer struct {
	ID        string      `json:"id" gorm:"primaryKey"`
	Type      OfferType   `json:"type"`
	Status    OfferStatus `json:"status"`
	Title     string      `json:"title"`
	Room      string      `json:"room"`
	StartTime time.Time   `json:"start_time"`
	EndTime   time.Time   `json:"end_time"`
	MinRsvps  int         `json:"min_rsvps"`
	Authors   []string    `json:"authors" gorm:"serializer:json"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (o *Offer) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}

	return
}

func (o *Offer) Validate() error {
	if !o.Type.IsValid() {
		return fmt.Errorf("invalid offer type: %s", o.Type)
	}
	if !o.Status.IsValid() {
		return fmt.Errorf("invalid offer status: %s", o.Status)
	}

	return nil
}

// NewCalendarStatusEvent builds the unsigned calendar-status broadcast for an
// offer transition. The offer id rides in the "d" tag, making the event
// replaceable per offer for network observers.
func NewCalendarStatusEvent(offer *Offer) *nostr.Event {
	tags := nostr.Tags{
		nostr.Tag{"d", offer.ID},
		nostr.Tag{"title", offer.Title},
		nostr.Tag{"status", string(offer.Status)},
		nostr.Tag{"t", string(offer.Type)},
	}
	if offer.Room != "" {
		tags = append(tags, nostr.Tag{"location", offer.Room})
	}
	if !offer.StartTime.IsZero() {
		tags = append(tags, nostr.Tag{"start", fmt.Sprintf("%d", offer.StartTime.Unix())})
	}
	if !offer.EndTime.IsZero() {
		tags = append(tags, nostr.Tag{"end", fmt.Sprintf("%d", offer.EndTime.Unix())})
	}

	return &nostr.Event{
		Kind:      KindCalendarStatus,
		CreatedAt: nostr.Now(),
		Tags:      tags,
		Content:   fmt.Sprintf("%s is %s", offer.Title, offer.Status),
	}
}
