package partner

import (
	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypePartner = "Partner"

// Event type constants
const (
	EventTypePartnerCreated = "PartnerCreated"
	EventTypePartnerUpdated = "PartnerUpdated"
)

// PartnerCreatedEvent is published when a partner is onboarded
type PartnerCreatedEvent struct {
	shared.BaseDomainEvent
	PartnerID uuid.UUID `json:"partner_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
}

// NewPartnerCreatedEvent creates a new PartnerCreatedEvent
func NewPartnerCreatedEvent(p *Partner) *PartnerCreatedEvent {
	return &PartnerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartnerCreated, AggregateTypePartner, p.ID),
		PartnerID:       p.ID,
		Code:            p.Code,
		Name:            p.Name,
	}
}

// PartnerUpdatedEvent is published when a partner changes
type PartnerUpdatedEvent struct {
	shared.BaseDomainEvent
	PartnerID uuid.UUID `json:"partner_id"`
	Code      string    `json:"code"`
	IsActive  bool      `json:"is_active"`
}

// NewPartnerUpdatedEvent creates a new PartnerUpdatedEvent
func NewPartnerUpdatedEvent(p *Partner) *PartnerUpdatedEvent {
	return &PartnerUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartnerUpdated, AggregateTypePartner, p.ID),
		PartnerID:       p.ID,
		Code:            p.Code,
		IsActive:        p.IsActive,
	}
}
