package quote

import (
	"github.com/crm/backend/internal/domain/billing"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeQuoteRequest = "QuoteRequest"
	AggregateTypeOffer        = "Offer"
)

// Event type constants
const (
	EventTypeQuoteRequestCreated       = "QuoteRequestCreated"
	EventTypeQuoteRequestStatusChanged = "QuoteRequestStatusChanged"
	EventTypeOfferCreated              = "OfferCreated"
	EventTypeOfferQuotationAttached    = "OfferQuotationAttached"
	EventTypeOfferReconciled           = "OfferReconciled"
	EventTypeOfferLedgerCleared        = "OfferLedgerCleared"
	EventTypeOfferStatusChanged        = "OfferStatusChanged"
	EventTypeOfferBillingStatusChanged = "OfferBillingStatusChanged"
)

// QuoteRequestCreatedEvent is published when a quote request is stored
type QuoteRequestCreatedEvent struct {
	shared.BaseDomainEvent
	QuoteRequestID uuid.UUID `json:"quote_request_id"`
	ContactID      uuid.UUID `json:"contact_id"`
}

// NewQuoteRequestCreatedEvent creates a new QuoteRequestCreatedEvent
func NewQuoteRequestCreatedEvent(r *QuoteRequest) *QuoteRequestCreatedEvent {
	return &QuoteRequestCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteRequestCreated, AggregateTypeQuoteRequest, r.ID),
		QuoteRequestID:  r.ID,
		ContactID:       r.ContactID,
	}
}

// QuoteRequestStatusChangedEvent is published after a request status change
type QuoteRequestStatusChangedEvent struct {
	shared.BaseDomainEvent
	QuoteRequestID  uuid.UUID     `json:"quote_request_id"`
	OldStatus       RequestStatus `json:"old_status"`
	NewStatus       RequestStatus `json:"new_status"`
	SelectedOfferID *uuid.UUID    `json:"selected_offer_id,omitempty"`
}

// NewQuoteRequestStatusChangedEvent creates a new QuoteRequestStatusChangedEvent
func NewQuoteRequestStatusChangedEvent(r *QuoteRequest, old RequestStatus) *QuoteRequestStatusChangedEvent {
	return &QuoteRequestStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteRequestStatusChanged, AggregateTypeQuoteRequest, r.ID),
		QuoteRequestID:  r.ID,
		OldStatus:       old,
		NewStatus:       r.Status,
		SelectedOfferID: r.SelectedOfferID,
	}
}

// OfferCreatedEvent is published when a draft offer is stored
type OfferCreatedEvent struct {
	shared.BaseDomainEvent
	OfferID        uuid.UUID `json:"offer_id"`
	QuoteRequestID uuid.UUID `json:"quote_request_id"`
	Title          string    `json:"title"`
}

// NewOfferCreatedEvent creates a new OfferCreatedEvent
func NewOfferCreatedEvent(o *Offer) *OfferCreatedEvent {
	return &OfferCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOfferCreated, AggregateTypeOffer, o.ID),
		OfferID:         o.ID,
		QuoteRequestID:  o.QuoteRequestID,
		Title:           o.Title,
	}
}

// OfferLedgerEvent carries the remote quotation id an offer event refers to
type OfferLedgerEvent struct {
	shared.BaseDomainEvent
	OfferID       uuid.UUID   `json:"offer_id"`
	LedgerQuoteID string      `json:"ledger_quote_id"`
	OldStatus     OfferStatus `json:"old_status,omitempty"`
	NewStatus     OfferStatus `json:"new_status,omitempty"`
	VoucherStatus string      `json:"voucher_status,omitempty"`
}

// NewOfferQuotationAttachedEvent is raised when the remote quotation was created
func NewOfferQuotationAttachedEvent(o *Offer) *OfferLedgerEvent {
	return &OfferLedgerEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOfferQuotationAttached, AggregateTypeOffer, o.ID),
		OfferID:         o.ID,
		LedgerQuoteID:   o.Ledger.ID,
	}
}

// NewOfferReconciledEvent is raised after the offer was refreshed from the ledger
func NewOfferReconciledEvent(o *Offer, old OfferStatus) *OfferLedgerEvent {
	return &OfferLedgerEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOfferReconciled, AggregateTypeOffer, o.ID),
		OfferID:         o.ID,
		LedgerQuoteID:   o.Ledger.ID,
		OldStatus:       old,
		NewStatus:       o.Status,
		VoucherStatus:   o.Ledger.VoucherStatus,
	}
}

// NewOfferLedgerClearedEvent is raised when a deleted remote quotation was unlinked
func NewOfferLedgerClearedEvent(o *Offer, previous string) *OfferLedgerEvent {
	return &OfferLedgerEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOfferLedgerCleared, AggregateTypeOffer, o.ID),
		OfferID:         o.ID,
		LedgerQuoteID:   previous,
	}
}

// OfferStatusChangedEvent is published after a manual offer status change
type OfferStatusChangedEvent struct {
	shared.BaseDomainEvent
	OfferID   uuid.UUID   `json:"offer_id"`
	OldStatus OfferStatus `json:"old_status"`
	NewStatus OfferStatus `json:"new_status"`
}

// NewOfferStatusChangedEvent creates a new OfferStatusChangedEvent
func NewOfferStatusChangedEvent(o *Offer, old OfferStatus) *OfferStatusChangedEvent {
	return &OfferStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOfferStatusChanged, AggregateTypeOffer, o.ID),
		OfferID:         o.ID,
		OldStatus:       old,
		NewStatus:       o.Status,
	}
}

// OfferBillingStatusChangedEvent is published after a billing status change
type OfferBillingStatusChangedEvent struct {
	shared.BaseDomainEvent
	OfferID   uuid.UUID      `json:"offer_id"`
	OldStatus billing.Status `json:"old_status"`
	NewStatus billing.Status `json:"new_status"`
}

// NewOfferBillingStatusChangedEvent creates a new OfferBillingStatusChangedEvent
func NewOfferBillingStatusChangedEvent(o *Offer, old billing.Status) *OfferBillingStatusChangedEvent {
	return &OfferBillingStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOfferBillingStatusChanged, AggregateTypeOffer, o.ID),
		OfferID:         o.ID,
		OldStatus:       old,
		NewStatus:       o.BillingStatus,
	}
}
