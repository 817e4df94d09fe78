package quote

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// QuoteRequestRepository defines the interface for quote request persistence
type QuoteRequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*QuoteRequest, error)
	FindByContactID(ctx context.Context, contactID uuid.UUID) ([]QuoteRequest, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]QuoteRequest, error)
	Save(ctx context.Context, request *QuoteRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// OfferRepository defines the interface for offer persistence
type OfferRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Offer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Offer, error)
	FindByQuoteRequestID(ctx context.Context, quoteRequestID uuid.UUID) ([]Offer, error)

	// FindByLedgerQuoteID finds the offer mirroring a remote quotation
	FindByLedgerQuoteID(ctx context.Context, ledgerQuoteID string) (*Offer, error)

	// FindWithLedgerQuote lists every offer that currently carries a remote quotation id
	FindWithLedgerQuote(ctx context.Context) ([]Offer, error)

	// CountByApplicationType counts offers referencing an application type
	CountByApplicationType(ctx context.Context, applicationTypeID uuid.UUID) (int64, error)

	Save(ctx context.Context, offer *Offer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ApplicationTypeRepository defines the interface for application type persistence
type ApplicationTypeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ApplicationType, error)
	// FindAll lists application types sorted by name
	FindAll(ctx context.Context) ([]ApplicationType, error)
	Save(ctx context.Context, applicationType *ApplicationType) error
	Delete(ctx context.Context, id uuid.UUID) error
}
