package integration

import (
	"context"
	"errors"
	"time"

	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Ledger errors
var (
	ErrLedgerNotConfigured   = errors.New("integration: ledger not configured")
	ErrLedgerUnavailable     = errors.New("integration: ledger temporarily unavailable")
	ErrLedgerRequestFailed   = errors.New("integration: ledger request failed")
	ErrLedgerNotFound        = errors.New("integration: ledger record not found")
	ErrLedgerInvalidResponse = errors.New("integration: invalid ledger response")
)

// IsLedgerError reports whether err came from the ledger adapter
func IsLedgerError(err error) bool {
	return errors.Is(err, ErrLedgerNotConfigured) ||
		errors.Is(err, ErrLedgerUnavailable) ||
		errors.Is(err, ErrLedgerRequestFailed) ||
		errors.Is(err, ErrLedgerNotFound) ||
		errors.Is(err, ErrLedgerInvalidResponse)
}

// LedgerContact is the contact data mirrored into the ledger
type LedgerContact struct {
	Salutation           string
	FirstName            string
	LastName             string
	Email                string
	Phone                string
	CompanyName          string
	TaxNumber            string
	VatRegistrationID    string
	AllowTaxFreeInvoices bool
	Billing              valueobject.PostalAddress
	Shipping             valueobject.PostalAddress
	EmailBusiness        string
	EmailOffice          string
	EmailPrivate         string
	EmailOther           string
	PhoneBusiness        string
	PhoneOffice          string
	PhoneMobile          string
	PhonePrivate         string
	PhoneFax             string
	PhoneOther           string
	Note                 string
}

// RemoteContact is what the ledger reports for a contact
type RemoteContact struct {
	ID       string
	Archived bool
}

// QuoteLineItem is one position of a quotation to create
type QuoteLineItem struct {
	ArticleID         string
	Type              string
	Name              string
	Description       string
	Quantity          decimal.Decimal
	UnitName          string
	UnitPrice         decimal.Decimal
	TaxRatePercentage decimal.Decimal
}

// QuoteDraft is the request to create a quotation for a remote contact
type QuoteDraft struct {
	ContactID  string
	Currency   string
	ValidUntil time.Time
	Title      string
	LineItems  []QuoteLineItem
}

// RemoteLineItem is a line item as stored on a remote quotation
type RemoteLineItem struct {
	ID                string
	Type              string
	Name              string
	Description       string
	Quantity          decimal.Decimal
	UnitName          string
	UnitPrice         decimal.Decimal
	TaxRatePercentage decimal.Decimal
}

// RemoteQuote is the current state of a remote quotation
type RemoteQuote struct {
	ID            string
	Number        string
	Link          string
	CreatedAt     *time.Time
	ValidUntil    *time.Time
	Status        string
	VoucherStatus string
	LineItems     []RemoteLineItem
}

// Article is a purchasable item of the ledger catalogue
type Article struct {
	ID                string
	Number            string
	Name              string
	Description       string
	UnitPrice         *decimal.Decimal
	UnitName          string
	TaxRatePercentage *decimal.Decimal
}

// LedgerClient is the capability contract of the ledger system.
//
// Lookups return (nil, nil) only when the ledger reports the record missing; without
// a usable API key they fail with ErrLedgerNotConfigured or ErrLedgerUnavailable.
// The other calls are no-ops returning empty results when no key is configured.
type LedgerClient interface {
	// APIKey returns the key in use, empty when unconfigured
	APIKey(ctx context.Context) string

	CreateContact(ctx context.Context, contact LedgerContact) (string, error)
	UpdateContact(ctx context.Context, ledgerContactID string, contact LedgerContact) (bool, error)
	ArchiveContact(ctx context.Context, ledgerContactID string) (bool, error)
	GetContact(ctx context.Context, ledgerContactID string) (*RemoteContact, error)

	CreateQuote(ctx context.Context, draft QuoteDraft) (string, error)
	GetQuote(ctx context.Context, ledgerQuoteID string) (*RemoteQuote, error)
	GetQuoteLink(ctx context.Context, ledgerQuoteID string) (string, error)
	GetQuotesByContactID(ctx context.Context, ledgerContactID string) ([]RemoteQuote, error)

	GetArticles(ctx context.Context) ([]Article, error)
}

// APIKeyProvider resolves the ledger API key and can be told to forget a cached value
type APIKeyProvider interface {
	APIKey(ctx context.Context) (string, error)
	Refresh(ctx context.Context) error
}
