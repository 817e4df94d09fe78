package quote

import (
	"time"

	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/integration"
	"github.com/crm/backend/internal/domain/quote"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Quote request DTOs
// =============================================================================

// CreateQuoteRequestRequest creates a quote request for a contact
type CreateQuoteRequestRequest struct {
	ContactID    uuid.UUID `json:"contact_id" binding:"required"`
	Requirements string    `json:"requirements"`
}

// UpdateRequestStatusRequest changes a quote request status
type UpdateRequestStatusRequest struct {
	Status          string     `json:"status" binding:"required"`
	SelectedOfferID *uuid.UUID `json:"selected_offer_id"`
}

// ContactSummary is the contact embedded in quote request projections
type ContactSummary struct {
	ID              uuid.UUID `json:"id"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	CompanyName     string    `json:"company_name,omitempty"`
	LedgerContactID *string   `json:"ledger_contact_id,omitempty"`
}

// QuoteRequestResponse represents a quote request with its contact and offers
type QuoteRequestResponse struct {
	ID              uuid.UUID       `json:"id"`
	ContactID       uuid.UUID       `json:"contact_id"`
	Contact         *ContactSummary `json:"contact,omitempty"`
	Requirements    string          `json:"requirements"`
	Status          string          `json:"status"`
	SelectedOfferID *uuid.UUID      `json:"selected_offer_id,omitempty"`
	Offers          []OfferResponse `json:"offers"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToQuoteRequestResponse converts a QuoteRequest, optionally with its contact and offers
func ToQuoteRequestResponse(r *quote.QuoteRequest, c *contact.Contact, offers []quote.Offer) QuoteRequestResponse {
	resp := QuoteRequestResponse{
		ID:              r.ID,
		ContactID:       r.ContactID,
		Requirements:    r.Requirements,
		Status:          string(r.Status),
		SelectedOfferID: r.SelectedOfferID,
		Offers:          make([]OfferResponse, 0, len(offers)),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if c != nil {
		resp.Contact = &ContactSummary{
			ID:              c.ID,
			FullName:        c.FullName(),
			Email:           c.Email,
			CompanyName:     c.Company.Name,
			LedgerContactID: c.LedgerContactID,
		}
	}
	now := time.Now()
	for i := range offers {
		resp.Offers = append(resp.Offers, ToOfferResponse(&offers[i], now))
	}
	return resp
}

// =============================================================================
// Offer DTOs
// =============================================================================

// LineItemRequest is one offer position
type LineItemRequest struct {
	ArticleID         string           `json:"article_id"`
	ArticleType       string           `json:"article_type"`
	Name              string           `json:"name" binding:"required,max=300"`
	Description       string           `json:"description"`
	Quantity          *decimal.Decimal `json:"quantity" binding:"omitempty,gt=0"`
	UnitName          string           `json:"unit_name" binding:"max=50"`
	UnitPrice         decimal.Decimal  `json:"unit_price" binding:"gte=0"`
	TaxRatePercentage *decimal.Decimal `json:"tax_rate_percentage" binding:"omitempty,gte=0,lte=100"`
	Days              int              `json:"days" binding:"min=0"`
}

func (r LineItemRequest) toLineItem() quote.LineItem {
	li := quote.LineItem{
		ArticleID:         r.ArticleID,
		Type:              r.ArticleType,
		Name:              r.Name,
		Description:       r.Description,
		Quantity:          decimal.NewFromInt(1),
		UnitName:          r.UnitName,
		UnitPrice:         r.UnitPrice,
		TaxRatePercentage: quote.DefaultTaxRate,
		Days:              r.Days,
	}
	if r.Quantity != nil {
		li.Quantity = *r.Quantity
	}
	if r.TaxRatePercentage != nil {
		li.TaxRatePercentage = *r.TaxRatePercentage
	}
	return li
}

// CreateOfferRequest creates an offer for one or more quote requests of the same contact
type CreateOfferRequest struct {
	QuoteRequestIDs   []uuid.UUID       `json:"quote_request_ids" binding:"required,min=1"`
	Title             string            `json:"title" binding:"max=300"`
	Description       string            `json:"description"`
	Currency          string            `json:"currency" binding:"omitempty,currency"`
	ValidUntil        *time.Time        `json:"valid_until"`
	ApplicationTypeID *uuid.UUID        `json:"application_type_id"`
	LineItems         []LineItemRequest `json:"line_items" binding:"dive"`
}

// UpdateOfferRequest edits an offer
type UpdateOfferRequest struct {
	Title       string    `json:"title" binding:"required,max=300"`
	Description string    `json:"description"`
	Currency    string    `json:"currency" binding:"omitempty,currency"`
	ValidUntil  time.Time `json:"valid_until" binding:"required"`
}

// UpdateOfferStatusRequest changes the local offer status
type UpdateOfferStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateBillingStatusRequest changes the offer billing status
type UpdateBillingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// LineItemResponse is a line item read from the ledger
type LineItemResponse struct {
	ID                string          `json:"id,omitempty"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitName          string          `json:"unit_name"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	TaxRatePercentage decimal.Decimal `json:"tax_rate_percentage"`
}

// OfferResponse represents an offer in API responses
type OfferResponse struct {
	ID                  uuid.UUID          `json:"id"`
	QuoteRequestID      uuid.UUID          `json:"quote_request_id"`
	ApplicationTypeID   *uuid.UUID         `json:"application_type_id,omitempty"`
	ApplicationTypeName string             `json:"application_type_name,omitempty"`
	Title               string             `json:"title"`
	Description         string             `json:"description,omitempty"`
	Currency            string             `json:"currency"`
	ValidUntil          time.Time          `json:"valid_until"`
	Days                int                `json:"days"`
	Status              string             `json:"status"`
	BillingStatus       string             `json:"billing_status"`
	LedgerQuoteID       string             `json:"ledger_quote_id,omitempty"`
	LedgerQuoteNumber   string             `json:"ledger_quote_number,omitempty"`
	LedgerQuoteLink     string             `json:"ledger_quote_link,omitempty"`
	LedgerCreatedAt     *time.Time         `json:"ledger_created_at,omitempty"`
	LedgerVoucherStatus string             `json:"ledger_voucher_status,omitempty"`
	ClientAcceptedAt    *time.Time         `json:"client_accepted_at,omitempty"`
	DaysUntilAcceptance *int               `json:"days_until_acceptance,omitempty"`
	LineItems           []LineItemResponse `json:"line_items,omitempty"`
	Version             int                `json:"version"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// ToOfferResponse converts an Offer; days until acceptance is evaluated at now
func ToOfferResponse(o *quote.Offer, now time.Time) OfferResponse {
	return OfferResponse{
		ID:                  o.ID,
		QuoteRequestID:      o.QuoteRequestID,
		ApplicationTypeID:   o.ApplicationTypeID,
		Title:               o.Title,
		Description:         o.Description,
		Currency:            o.Currency,
		ValidUntil:          o.ValidUntil,
		Days:                o.Days,
		Status:              string(o.Status),
		BillingStatus:       string(o.BillingStatus),
		LedgerQuoteID:       o.Ledger.ID,
		LedgerQuoteNumber:   o.Ledger.Number,
		LedgerQuoteLink:     o.Ledger.Link,
		LedgerCreatedAt:     o.Ledger.CreatedAt,
		LedgerVoucherStatus: o.Ledger.VoucherStatus,
		ClientAcceptedAt:    o.ClientAcceptedAt,
		DaysUntilAcceptance: o.DaysUntilAcceptanceAt(now),
		Version:             o.Version,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
}

func toLineItemResponses(items []integration.RemoteLineItem) []LineItemResponse {
	responses := make([]LineItemResponse, len(items))
	for i, item := range items {
		unitName := item.UnitName
		if unitName == "" {
			unitName = quote.DefaultUnitName
		}
		tax := item.TaxRatePercentage
		if tax.IsZero() {
			tax = quote.DefaultTaxRate
		}
		responses[i] = LineItemResponse{
			ID:                item.ID,
			Name:              item.Name,
			Description:       item.Description,
			Quantity:          item.Quantity,
			UnitName:          unitName,
			UnitPrice:         item.UnitPrice,
			TaxRatePercentage: tax,
		}
	}
	return responses
}

// SyncOfferResponse is the outcome of a single-offer reconciliation
type SyncOfferResponse struct {
	Offer              OfferResponse `json:"offer"`
	LedgerQuoteRemoved bool          `json:"ledger_quote_removed"`
}

// SyncFailure names an offer whose reconciliation failed
type SyncFailure struct {
	OfferID uuid.UUID `json:"offer_id"`
	Error   string    `json:"error"`
}

// BatchSyncResponse summarises a batch reconciliation run
type BatchSyncResponse struct {
	Total    int           `json:"total"`
	Synced   int           `json:"synced"`
	Deleted  int           `json:"deleted"`
	Failures []SyncFailure `json:"failures"`
}

// =============================================================================
// Application type and article DTOs
// =============================================================================

// ApplicationTypeRequest creates or updates an application type
type ApplicationTypeRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// ApplicationTypeResponse represents an application type
type ApplicationTypeResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToApplicationTypeResponse converts an ApplicationType
func ToApplicationTypeResponse(a *quote.ApplicationType) ApplicationTypeResponse {
	return ApplicationTypeResponse{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// ArticleResponse is a ledger catalogue entry
type ArticleResponse struct {
	ID                string           `json:"id"`
	Number            string           `json:"number,omitempty"`
	Name              string           `json:"name"`
	Description       string           `json:"description,omitempty"`
	UnitPrice         *decimal.Decimal `json:"unit_price,omitempty"`
	UnitName          string           `json:"unit_name,omitempty"`
	TaxRatePercentage *decimal.Decimal `json:"tax_rate_percentage,omitempty"`
}

func toArticleResponses(articles []integration.Article) []ArticleResponse {
	responses := make([]ArticleResponse, len(articles))
	for i, a := range articles {
		responses[i] = ArticleResponse(a)
	}
	return responses
}
