package models

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/nbd-wtf/go-nostr"
)

type PaymentMethod string
type PaymentContext string

const (
	MethodMint     PaymentMethod = "mint"
	MethodTransfer PaymentMethod = "transfer"
	MethodBurn     PaymentMethod = "burn"

	ContextRsvp             PaymentContext = "rsvp"
	ContextTip              PaymentContext = "tip"
	ContextTransfer         PaymentContext = "transfer"
	ContextOfferCreation    PaymentContext = "offer_creation"
	ContextBadgeClaim       PaymentContext = "badge_claim"
	ContextRefund           PaymentContext = "refund"
	ContextWorkshopProposal PaymentContext = "workshop_proposal"
	ContextBooking          PaymentContext = "booking"
	ContextNeed             PaymentContext = "need"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodMint, MethodTransfer, MethodBurn:
		return true
	default:
		return false
	}
}

func (c PaymentContext) IsValid() bool {
	switch c {
	case ContextRsvp, ContextTip, ContextTransfer, ContextOfferCreation,
		ContextBadgeClaim, ContextRefund, ContextWorkshopProposal,
		ContextBooking, ContextNeed:
		return true
	default:
		return false
	}
}

// PaymentRequest is the typed view over a payment-request event. Tags are
// decoded exactly once at the boundary; business logic never touches the raw
// tag arrays.
type PaymentRequest struct {
	EventID        string
	Signer         string // event pubkey, hex
	CreatedAt      time.Time
	Method         PaymentMethod
	Sender         string // "P" tag, hex or "system"
	Recipient      string // "p" tag, absent for burn
	Amount         string // integer string, smallest token unit
	TokenAddress   string
	ChainID        string
	Context        PaymentContext
	RelatedEventID string
	ToAddress      string
	FromAddress    string
	Symbol         string
	Description    string // event content
}

// TokenOperation is the call contract of the external token service.
type TokenOperation struct {
	ChainID      string `json:"chainId"`
	TokenAddress string `json:"tokenAddress"`
	Method       string `json:"method"`
	Amount       string `json:"amount"`
	From         string `json:"from,omitempty"`
	To           string `json:"to,omitempty"`
	Symbol       string `json:"symbol,omitempty"`
}

// Operation maps the request onto the token service call contract.
func (r *PaymentRequest) Operation() TokenOperation {
	return TokenOperation{
		ChainID:      r.ChainID,
		TokenAddress: r.TokenAddress,
		Method:       string(r.Method),
		Amount:       r.Amount,
		From:         r.FromAddress,
		To:           r.ToAddress,
		Symbol:       r.Symbol,
	}
}

// ParsePaymentRequest decodes a payment-request event into its typed view.
// A non-nil error means the request is malformed and must be recorded as
// processed without any side effect.
func ParsePaymentRequest(ev *nostr.Event) (*PaymentRequest, error) {
	if ev.Kind != KindPaymentRequest {
		return nil, fmt.Errorf("unexpected kind %d for payment request", ev.Kind)
	}

	req := &PaymentRequest{
		EventID:        ev.ID,
		Signer:         ev.PubKey,
		CreatedAt:      ev.CreatedAt.Time(),
		Method:         PaymentMethod(tagValue(ev, "method")),
		Amount:         tagValue(ev, "amount"),
		TokenAddress:   tagValue(ev, "token"),
		ChainID:        tagValue(ev, "chain"),
		Context:        PaymentContext(tagValue(ev, "context")),
		RelatedEventID: markedEventRef(ev, "related"),
		ToAddress:      tagValue(ev, "toAddress"),
		FromAddress:    tagValue(ev, "fromAddress"),
		Symbol:         tagValue(ev, "symbol"),
		Description:    ev.Content,
	}

	sender, err := NormalizePubkey(tagValue(ev, "P"))
	if err != nil {
		return nil, fmt.Errorf("sender: %w", err)
	}
	recipient, err := NormalizePubkey(tagValue(ev, "p"))
	if err != nil {
		return nil, fmt.Errorf("recipient: %w", err)
	}
	req.Sender = sender
	req.Recipient = recipient

	if !req.Method.IsValid() {
		return nil, fmt.Errorf("missing or invalid method %q", req.Method)
	}
	if !req.Context.IsValid() {
		return nil, fmt.Errorf("missing or invalid context %q", req.Context)
	}
	if req.Sender == "" {
		return nil, fmt.Errorf("missing sender tag")
	}
	if req.Recipient == "" && req.Method != MethodBurn {
		return nil, fmt.Errorf("missing recipient tag for %s", req.Method)
	}
	if req.TokenAddress == "" || req.ChainID == "" {
		return nil, fmt.Errorf("missing token or chain tag")
	}
	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		return nil, fmt.Errorf("invalid amount %q", req.Amount)
	}

	return req, nil
}

// PaymentReceipt is the typed view over a payment-receipt event. Receipts
// embed a full copy of the originating request so that a receipt alone is
// sufficient to act on, regardless of request delivery order.
type PaymentReceipt struct {
	EventID        string
	Signer         string
	RequestID      string
	TxHash         string
	Success        bool
	ErrorMessage   string
	Context        PaymentContext
	RelatedEventID string
	Sender         string
	Recipient      string
	Amount         string
	ChainID        string
	Method         PaymentMethod
	Symbol         string
	Message        string
	Request        *PaymentRequest
}

// receiptContent is the JSON body of a payment-receipt event.
type receiptContent struct {
	Message string       `json:"message"`
	Request *nostr.Event `json:"request"`
}

// BookingDetails is the structured payload carried in a booking payment
// request's content.
type BookingDetails struct {
	Type      string `json:"type"`
	Room      string `json:"room"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Title     string `json:"title"`
	MinRsvps  int    `json:"minRsvps,omitempty"`
}

// BookingDetails parses the embedded request content as booking fields.
func (r *PaymentReceipt) BookingDetails() (*BookingDetails, error) {
	if r.Request == nil {
		return nil, fmt.Errorf("receipt has no embedded request")
	}
	var details BookingDetails
	if err := json.Unmarshal([]byte(r.Request.Description), &details); err != nil {
		return nil, fmt.Errorf("booking details: %w", err)
	}
	return &details, nil
}

// ParseTime accepts RFC3339 or unix seconds, the two shapes clients emit.
func ParseTime(value string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}
	if secs, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unparseable time %q", value)
}

// ParsePaymentReceipt decodes a payment-receipt event, including the embedded
// request carried in the content JSON.
func ParsePaymentReceipt(ev *nostr.Event) (*PaymentReceipt, error) {
	if ev.Kind != KindPaymentReceipt {
		return nil, fmt.Errorf("unexpected kind %d for payment receipt", ev.Kind)
	}

	receipt := &PaymentReceipt{
		EventID:        ev.ID,
		Signer:         ev.PubKey,
		RequestID:      markedEventRef(ev, "request"),
		TxHash:         tagValue(ev, "txhash"),
		Success:        tagValue(ev, "status") == "success",
		ErrorMessage:   tagValue(ev, "error"),
		Context:        PaymentContext(tagValue(ev, "context")),
		RelatedEventID: markedEventRef(ev, "related"),
		Amount:         tagValue(ev, "amount"),
		ChainID:        tagValue(ev, "chain"),
		Method:         PaymentMethod(tagValue(ev, "method")),
		Symbol:         tagValue(ev, "symbol"),
	}

	sender, err := NormalizePubkey(tagValue(ev, "P"))
	if err != nil {
		return nil, fmt.Errorf("sender: %w", err)
	}
	recipient, err := NormalizePubkey(tagValue(ev, "p"))
	if err != nil {
		return nil, fmt.Errorf("recipient: %w", err)
	}
	receipt.Sender = sender
	receipt.Recipient = recipient

	if receipt.RequestID == "" {
		return nil, fmt.Errorf("missing request reference")
	}

	var content receiptContent
	if err := json.Unmarshal([]byte(ev.Content), &content); err != nil {
		return nil, fmt.Errorf("receipt content: %w", err)
	}
	receipt.Message = content.Message
	if content.Request != nil {
		embedded, err := ParsePaymentRequest(content.Request)
		if err != nil {
			return nil, fmt.Errorf("embedded request: %w", err)
		}
		receipt.Request = embedded
	}

	return receipt, nil
}

// NewPaymentReceiptEvent builds the unsigned success receipt for a processed
// request. The full request event is embedded in the content so downstream
// listeners never need to re-fetch it.
func NewPaymentReceiptEvent(req *PaymentRequest, reqEvent *nostr.Event, txHash string) (*nostr.Event, error) {
	content, err := json.Marshal(receiptContent{
		Message: fmt.Sprintf("%s of %s completed", req.Method, req.Amount),
		Request: reqEvent,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal receipt content: %w", err)
	}

	tags := nostr.Tags{
		nostr.Tag{"e", req.EventID, "", "request"},
		nostr.Tag{"txhash", txHash},
		nostr.Tag{"status", "success"},
		nostr.Tag{"P", req.Sender},
		nostr.Tag{"amount", req.Amount},
		nostr.Tag{"chain", req.ChainID},
		nostr.Tag{"method", string(req.Method)},
		nostr.Tag{"context", string(req.Context)},
	}
	if req.Recipient != "" {
		tags = append(tags, nostr.Tag{"p", req.Recipient})
	}
	if req.Symbol != "" {
		tags = append(tags, nostr.Tag{"symbol", req.Symbol})
	}
	if req.RelatedEventID != "" {
		tags = append(tags, nostr.Tag{"e", req.RelatedEventID, "", "related"})
	}

	return &nostr.Event{
		Kind:      KindPaymentReceipt,
		CreatedAt: nostr.Now(),
		Tags:      tags,
		Content:   string(content),
	}, nil
}
