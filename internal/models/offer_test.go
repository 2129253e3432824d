package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ostromhub/venue-token-service/internal/models"
)

func TestOffer_Validate(t *testing.T) {
	offer := &models.Offer{Type: models.OfferTypeWorkshop, Status: models.OfferStatusPending}
	assert.NoError(t, offer.Validate())

	offer.Type = "concert"
	assert.Error(t, offer.Validate())

	offer.Type = models.OfferTypeWorkshop
	offer.Status = "maybe"
	assert.Error(t, offer.Validate())
}

func TestNewCalendarStatusEvent(t *testing.T) {
	offer := &models.Offer{
		ID:        "offer-bk1",
		Type:      models.OfferTypePrivateBooking,
		Status:    models.OfferStatusConfirmed,
		Title:     "Board retreat",
		Room:      "Ostrom Room",
		StartTime: time.Date(2025, 7, 1, 18, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 7, 1, 21, 0, 0, 0, time.UTC),
	}

	ev := models.NewCalendarStatusEvent(offer)
	assert.Equal(t, models.KindCalendarStatus, ev.Kind)

	identifier := ev.Tags.GetFirst([]string{"d"})
	require.NotNil(t, identifier)
	assert.Equal(t, "offer-bk1", identifier.Value())

	status := ev.Tags.GetFirst([]string{"status"})
	require.NotNil(t, status)
	assert.Equal(t, "confirmed", status.Value())

	location := ev.Tags.GetFirst([]string{"location"})
	require.NotNil(t, location)
	assert.Equal(t, "Ostrom Room", location.Value())

	start := ev.Tags.GetFirst([]string{"start"})
	require.NotNil(t, start)
	assert.Equal(t, "1751392800", start.Value())
}

func TestNewCalendarStatusEvent_OmitsUnknownSchedule(t *testing.T) {
	offer := &models.Offer{
		ID:     "offer-ws1",
		Type:   models.OfferTypeWorkshop,
		Status: models.OfferStatusTentative,
		Title:  "Fermentation basics",
	}

	ev := models.NewCalendarStatusEvent(offer)
	assert.Nil(t, ev.Tags.GetFirst([]string{"location"}))
	assert.Nil(t, ev.Tags.GetFirst([]string{"start"}))
	assert.Nil(t, ev.Tags.GetFirst([]string{"end"}))
}
