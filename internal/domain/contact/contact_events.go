package contact

import (
	"github.com/crm/backend/internal/domain/billing"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeContact = "Contact"

// Event type constants
const (
	EventTypeContactCreated              = "ContactCreated"
	EventTypeContactUpdated              = "ContactUpdated"
	EventTypeContactLedgerLinked         = "ContactLedgerLinked"
	EventTypeContactLedgerUnlinked       = "ContactLedgerUnlinked"
	EventTypeContactBillingStatusChanged = "ContactBillingStatusChanged"
)

// ContactCreatedEvent is published when a new contact is stored
type ContactCreatedEvent struct {
	shared.BaseDomainEvent
	ContactID   uuid.UUID `json:"contact_id"`
	Email       string    `json:"email"`
	PartnerCode string    `json:"partner_code,omitempty"`
}

// NewContactCreatedEvent creates a new ContactCreatedEvent
func NewContactCreatedEvent(c *Contact) *ContactCreatedEvent {
	e := &ContactCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContactCreated, AggregateTypeContact, c.ID),
		ContactID:       c.ID,
		Email:           c.Email,
	}
	if c.PartnerCode != nil {
		e.PartnerCode = *c.PartnerCode
	}
	return e
}

// ContactUpdatedEvent is published when contact fields are overwritten
type ContactUpdatedEvent struct {
	shared.BaseDomainEvent
	ContactID uuid.UUID `json:"contact_id"`
	Email     string    `json:"email"`
}

// NewContactUpdatedEvent creates a new ContactUpdatedEvent
func NewContactUpdatedEvent(c *Contact) *ContactUpdatedEvent {
	return &ContactUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContactUpdated, AggregateTypeContact, c.ID),
		ContactID:       c.ID,
		Email:           c.Email,
	}
}

// ContactLedgerLinkedEvent is published when a ledger contact id is assigned
type ContactLedgerLinkedEvent struct {
	shared.BaseDomainEvent
	ContactID       uuid.UUID `json:"contact_id"`
	LedgerContactID string    `json:"ledger_contact_id"`
}

// NewContactLedgerLinkedEvent creates a new ContactLedgerLinkedEvent
func NewContactLedgerLinkedEvent(c *Contact) *ContactLedgerLinkedEvent {
	return &ContactLedgerLinkedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContactLedgerLinked, AggregateTypeContact, c.ID),
		ContactID:       c.ID,
		LedgerContactID: *c.LedgerContactID,
	}
}

// ContactLedgerUnlinkedEvent is published when a stale ledger id is cleared
type ContactLedgerUnlinkedEvent struct {
	shared.BaseDomainEvent
	ContactID       uuid.UUID `json:"contact_id"`
	LedgerContactID string    `json:"ledger_contact_id"`
}

// NewContactLedgerUnlinkedEvent creates a new ContactLedgerUnlinkedEvent
func NewContactLedgerUnlinkedEvent(c *Contact, previous string) *ContactLedgerUnlinkedEvent {
	return &ContactLedgerUnlinkedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContactLedgerUnlinked, AggregateTypeContact, c.ID),
		ContactID:       c.ID,
		LedgerContactID: previous,
	}
}

// ContactBillingStatusChangedEvent is published after a billing status change
type ContactBillingStatusChangedEvent struct {
	shared.BaseDomainEvent
	ContactID uuid.UUID      `json:"contact_id"`
	OldStatus billing.Status `json:"old_status"`
	NewStatus billing.Status `json:"new_status"`
}

// NewContactBillingStatusChangedEvent creates a new ContactBillingStatusChangedEvent
func NewContactBillingStatusChangedEvent(c *Contact, old billing.Status) *ContactBillingStatusChangedEvent {
	return &ContactBillingStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContactBillingStatusChanged, AggregateTypeContact, c.ID),
		ContactID:       c.ID,
		OldStatus:       old,
		NewStatus:       c.BillingStatus,
	}
}
