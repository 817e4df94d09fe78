package models

import (
	"time"

	"github.com/crm/backend/internal/domain/billing"
	"github.com/crm/backend/internal/domain/quote"
	"github.com/google/uuid"
)

// QuoteRequestModel is the persistence model for the QuoteRequest aggregate
type QuoteRequestModel struct {
	AggregateModel
	ContactID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	Requirements    string              `gorm:"type:text"`
	Status          quote.RequestStatus `gorm:"type:varchar(20);not null;default:'New'"`
	SelectedOfferID *uuid.UUID          `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (QuoteRequestModel) TableName() string {
	return "quote_requests"
}

// ToDomain converts the model to a domain QuoteRequest
func (m *QuoteRequestModel) ToDomain() *quote.QuoteRequest {
	return &quote.QuoteRequest{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ContactID:         m.ContactID,
		Requirements:      m.Requirements,
		Status:            m.Status,
		SelectedOfferID:   m.SelectedOfferID,
	}
}

// QuoteRequestModelFromDomain creates a persistence model from a domain QuoteRequest
func QuoteRequestModelFromDomain(r *quote.QuoteRequest) *QuoteRequestModel {
	m := &QuoteRequestModel{
		ContactID:       r.ContactID,
		Requirements:    r.Requirements,
		Status:          r.Status,
		SelectedOfferID: r.SelectedOfferID,
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	return m
}

// OfferModel is the persistence model for the Offer aggregate.
// The ledger_* columns cache the remote quotation.
type OfferModel struct {
	AggregateModel
	QuoteRequestID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	ApplicationTypeID   *uuid.UUID        `gorm:"type:uuid;index"`
	Title               string            `gorm:"type:varchar(300);not null"`
	Description         string            `gorm:"type:text"`
	Currency            string            `gorm:"type:varchar(3);not null;default:'EUR'"`
	ValidUntil          time.Time         `gorm:"not null"`
	Days                int               `gorm:"not null;default:0"`
	Status              quote.OfferStatus `gorm:"type:varchar(20);not null;default:'Created'"`
	BillingStatus       billing.Status    `gorm:"type:varchar(20);not null;default:'New'"`
	LedgerQuoteID       *string           `gorm:"type:varchar(100);uniqueIndex"`
	LedgerQuoteNumber   string            `gorm:"type:varchar(100)"`
	LedgerQuoteLink     string            `gorm:"type:text"`
	LedgerCreatedAt     *time.Time
	LedgerVoucherStatus string `gorm:"type:varchar(50)"`
	LedgerRemovedAt     *time.Time
	ClientAcceptedAt    *time.Time
	DaysUntilAcceptance *int
}

// TableName returns the table name for GORM
func (OfferModel) TableName() string {
	return "offers"
}

// ToDomain converts the model to a domain Offer
func (m *OfferModel) ToDomain() *quote.Offer {
	o := &quote.Offer{
		BaseAggregateRoot:   m.ToDomainAggregateRoot(),
		QuoteRequestID:      m.QuoteRequestID,
		ApplicationTypeID:   m.ApplicationTypeID,
		Title:               m.Title,
		Description:         m.Description,
		Currency:            m.Currency,
		ValidUntil:          m.ValidUntil,
		Days:                m.Days,
		Status:              m.Status,
		BillingStatus:       m.BillingStatus,
		ClientAcceptedAt:    m.ClientAcceptedAt,
		DaysUntilAcceptance: m.DaysUntilAcceptance,
		Ledger: quote.LedgerQuote{
			Number:        m.LedgerQuoteNumber,
			Link:          m.LedgerQuoteLink,
			CreatedAt:     m.LedgerCreatedAt,
			VoucherStatus: m.LedgerVoucherStatus,
			RemovedAt:     m.LedgerRemovedAt,
		},
	}
	if m.LedgerQuoteID != nil {
		o.Ledger.ID = *m.LedgerQuoteID
	}
	return o
}

// OfferModelFromDomain creates a persistence model from a domain Offer.
// An unlinked offer stores NULL so the unique index ignores it.
func OfferModelFromDomain(o *quote.Offer) *OfferModel {
	m := &OfferModel{
		QuoteRequestID:      o.QuoteRequestID,
		ApplicationTypeID:   o.ApplicationTypeID,
		Title:               o.Title,
		Description:         o.Description,
		Currency:            o.Currency,
		ValidUntil:          o.ValidUntil,
		Days:                o.Days,
		Status:              o.Status,
		BillingStatus:       o.BillingStatus,
		LedgerQuoteNumber:   o.Ledger.Number,
		LedgerQuoteLink:     o.Ledger.Link,
		LedgerCreatedAt:     o.Ledger.CreatedAt,
		LedgerVoucherStatus: o.Ledger.VoucherStatus,
		LedgerRemovedAt:     o.Ledger.RemovedAt,
		ClientAcceptedAt:    o.ClientAcceptedAt,
		DaysUntilAcceptance: o.DaysUntilAcceptance,
	}
	if o.Ledger.IsLinked() {
		id := o.Ledger.ID
		m.LedgerQuoteID = &id
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	return m
}

// ApplicationTypeModel is the persistence model for ApplicationType
type ApplicationTypeModel struct {
	AggregateModel
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ApplicationTypeModel) TableName() string {
	return "application_types"
}

// ToDomain converts the model to a domain ApplicationType
func (m *ApplicationTypeModel) ToDomain() *quote.ApplicationType {
	return &quote.ApplicationType{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
	}
}

// ApplicationTypeModelFromDomain creates a persistence model from a domain ApplicationType
func ApplicationTypeModelFromDomain(a *quote.ApplicationType) *ApplicationTypeModel {
	m := &ApplicationTypeModel{Name: a.Name, Description: a.Description}
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	return m
}
