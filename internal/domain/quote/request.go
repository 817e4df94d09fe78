package quote

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RequestStatus is the lifecycle status of a quote request
type RequestStatus string

const (
	RequestStatusNew          RequestStatus = "New"
	RequestStatusQuoteCreated RequestStatus = "QuoteCreated"
	RequestStatusRejected     RequestStatus = "Rejected"
)

// ParseRequestStatus parses a request status case-insensitively
func ParseRequestStatus(value string) (RequestStatus, error) {
	for _, s := range []RequestStatus{RequestStatusNew, RequestStatusQuoteCreated, RequestStatusRejected} {
		if strings.EqualFold(string(s), strings.TrimSpace(value)) {
			return s, nil
		}
	}
	return "", shared.NewInvalidOperationError("Invalid quote request status: " + value)
}

// QuoteRequest is a contact's ask for pricing
type QuoteRequest struct {
	shared.BaseAggregateRoot
	ContactID       uuid.UUID
	Requirements    string
	Status          RequestStatus
	SelectedOfferID *uuid.UUID
}

// NewQuoteRequest creates a request in status New
func NewQuoteRequest(contactID uuid.UUID, requirements string) (*QuoteRequest, error) {
	if contactID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Contact ID cannot be empty")
	}
	r := &QuoteRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ContactID:         contactID,
		Requirements:      strings.TrimSpace(requirements),
		Status:            RequestStatusNew,
	}
	r.AddDomainEvent(NewQuoteRequestCreatedEvent(r))
	return r, nil
}

// ChangeStatus moves the request to a different status.
// QuoteCreated needs the selected offer, which must belong to this request;
// every other target clears the selection.
func (r *QuoteRequest) ChangeStatus(status RequestStatus, selected *Offer) error {
	if status == r.Status {
		return shared.NewTransitionError("Quote request", string(r.Status), string(status), false)
	}

	switch status {
	case RequestStatusQuoteCreated:
		if selected == nil {
			return shared.NewInvalidOperationError("A selected offer is required to mark the quote request as QuoteCreated")
		}
		if selected.QuoteRequestID != r.ID {
			return shared.NewInvalidOperationError("The selected offer does not belong to this quote request")
		}
		id := selected.ID
		r.SelectedOfferID = &id
	case RequestStatusNew, RequestStatusRejected:
		r.SelectedOfferID = nil
	default:
		return shared.NewInvalidOperationError("Invalid quote request status: " + string(status))
	}

	old := r.Status
	r.Status = status
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	r.AddDomainEvent(NewQuoteRequestStatusChangedEvent(r, old))
	return nil
}

// MarkQuoteCreated advances a new request after an offer was created from it.
// The offer may be anchored on another request of the same batch, so ownership
// is not checked here. Requests past New are left untouched.
func (r *QuoteRequest) MarkQuoteCreated(offerID uuid.UUID) bool {
	if r.Status != RequestStatusNew {
		return false
	}
	old := r.Status
	r.Status = RequestStatusQuoteCreated
	r.SelectedOfferID = &offerID
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	r.AddDomainEvent(NewQuoteRequestStatusChangedEvent(r, old))
	return true
}

// HasSelection reports whether an offer was already selected
func (r *QuoteRequest) HasSelection() bool {
	return r.SelectedOfferID != nil
}

// NewPlaceholderQuoteRequest creates the request that anchors an offer
// materialized from a ledger quotation when the contact has no request yet.
// The caller marks it QuoteCreated once the offer exists.
func NewPlaceholderQuoteRequest(contactID uuid.UUID, quoteNumber string) (*QuoteRequest, error) {
	return NewQuoteRequest(contactID, "Automatically created from ledger quote "+quoteNumber)
}
