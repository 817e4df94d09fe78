package quote

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/billing"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Texts used for offers and requests materialized from the ledger
const (
	ImportedOfferTitle       = "Offer from ledger"
	ImportedOfferDescription = "Offer loaded from the ledger system"
)

// OfferStatus is the local lifecycle status of an offer
type OfferStatus string

const (
	OfferStatusCreated    OfferStatus = "Created"
	OfferStatusRejected   OfferStatus = "Rejected"
	OfferStatusInProgress OfferStatus = "InProgress"
)

// ParseOfferStatus parses an offer status case-insensitively
func ParseOfferStatus(value string) (OfferStatus, error) {
	for _, s := range []OfferStatus{OfferStatusCreated, OfferStatusRejected, OfferStatusInProgress} {
		if strings.EqualFold(string(s), strings.TrimSpace(value)) {
			return s, nil
		}
	}
	return "", shared.NewInvalidOperationError("Invalid offer status: " + value)
}

// LedgerQuote is the cached copy of the remote quotation.
// An empty ID means the offer has no remote quotation. RemovedAt is set when
// reconciliation found the remote quotation deleted.
type LedgerQuote struct {
	ID            string
	Number        string
	Link          string
	CreatedAt     *time.Time
	VoucherStatus string
	RemovedAt     *time.Time
}

// IsLinked reports whether a remote quotation id is present
func (q LedgerQuote) IsLinked() bool {
	return q.ID != ""
}

// RemoteState is what the ledger currently reports for a quotation.
// Status is the lifecycle status the ledger derives (voucher status, or archived);
// it falls back to VoucherStatus when empty.
type RemoteState struct {
	ID            string
	Number        string
	Link          string
	Status        string
	VoucherStatus string
	CreatedAt     *time.Time
	ValidUntil    *time.Time
}

func (r RemoteState) outcome() VoucherOutcome {
	if r.Status != "" {
		return ClassifyVoucherStatus(r.Status)
	}
	return ClassifyVoucherStatus(r.VoucherStatus)
}

// Draft holds the fields needed to create an offer
type Draft struct {
	QuoteRequestID    uuid.UUID
	ApplicationTypeID *uuid.UUID
	Title             string
	Description       string
	Currency          string
	ValidUntil        time.Time
	Days              int
}

// Offer is a quotation created from one or more quote requests
type Offer struct {
	shared.BaseAggregateRoot
	QuoteRequestID      uuid.UUID
	ApplicationTypeID   *uuid.UUID
	Title               string
	Description         string
	Currency            string
	ValidUntil          time.Time
	Days                int
	Status              OfferStatus
	BillingStatus       billing.Status
	Ledger              LedgerQuote
	ClientAcceptedAt    *time.Time
	DaysUntilAcceptance *int
}

// NewOffer creates a draft offer in status Created and billing status New
func NewOffer(d Draft) (*Offer, error) {
	if d.QuoteRequestID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Quote request ID cannot be empty")
	}
	title, err := validateTitle(d.Title)
	if err != nil {
		return nil, err
	}
	currency, err := valueobject.NormalizeCurrency(d.Currency)
	if err != nil {
		return nil, err
	}
	if d.Days < 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Days cannot be negative")
	}

	o := &Offer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		QuoteRequestID:    d.QuoteRequestID,
		ApplicationTypeID: d.ApplicationTypeID,
		Title:             title,
		Description:       d.Description,
		Currency:          currency,
		ValidUntil:        d.ValidUntil,
		Days:              d.Days,
		Status:            OfferStatusCreated,
		BillingStatus:     billing.StatusNew,
	}
	o.AddDomainEvent(NewOfferCreatedEvent(o))
	return o, nil
}

// Update replaces the editable offer fields
func (o *Offer) Update(title, description, currency string, validUntil time.Time) error {
	t, err := validateTitle(title)
	if err != nil {
		return err
	}
	cur, err := valueobject.NormalizeCurrency(currency)
	if err != nil {
		return err
	}
	o.Title = t
	o.Description = description
	o.Currency = cur
	o.ValidUntil = validUntil
	o.touch()
	return nil
}

// SetApplicationType changes or clears the application type
func (o *Offer) SetApplicationType(id *uuid.UUID) {
	o.ApplicationTypeID = id
	o.touch()
}

// AttachQuotation stores the id of a freshly created remote quotation
func (o *Offer) AttachQuotation(ledgerQuoteID string, createdAt time.Time) error {
	ledgerQuoteID = strings.TrimSpace(ledgerQuoteID)
	if ledgerQuoteID == "" {
		return shared.NewInvalidOperationError("Ledger quotation id cannot be empty")
	}
	if o.Ledger.IsLinked() {
		return shared.NewInvalidOperationError("Offer already has a ledger quotation")
	}
	o.Ledger = LedgerQuote{ID: ledgerQuoteID, CreatedAt: &createdAt}
	o.ClientAcceptedAt = nil
	o.DaysUntilAcceptance = nil
	o.touch()
	o.AddDomainEvent(NewOfferQuotationAttachedEvent(o))
	return nil
}

// SetQuotationDetails caches number and document link of the remote quotation
func (o *Offer) SetQuotationDetails(number, link string) {
	if number != "" {
		o.Ledger.Number = number
	}
	if link != "" {
		o.Ledger.Link = link
	}
	o.touch()
}

// ApplyRemote reconciles the offer with the remote quotation state.
// Accepted (or archived) quotations move the offer to InProgress and stamp the
// acceptance; rejected ones move it to Rejected; others only refresh the cache.
// DaysUntilAcceptance is recomputed on every accepted sync as the quotation's
// age at now, while ClientAcceptedAt keeps the first acceptance.
func (o *Offer) ApplyRemote(remote RemoteState, now time.Time) {
	if remote.Number != "" {
		o.Ledger.Number = remote.Number
	}
	if remote.Link != "" {
		o.Ledger.Link = remote.Link
	}
	o.Ledger.VoucherStatus = remote.VoucherStatus
	if o.Ledger.CreatedAt == nil && remote.CreatedAt != nil {
		created := *remote.CreatedAt
		o.Ledger.CreatedAt = &created
	}
	if remote.ValidUntil != nil {
		o.ValidUntil = *remote.ValidUntil
	}

	old := o.Status
	switch remote.outcome() {
	case VoucherAccepted:
		o.Status = OfferStatusInProgress
		if o.ClientAcceptedAt == nil {
			accepted := now
			o.ClientAcceptedAt = &accepted
		}
		o.DaysUntilAcceptance = daysBetween(o.Ledger.CreatedAt, now)
	case VoucherRejected:
		o.Status = OfferStatusRejected
	}

	o.touch()
	o.AddDomainEvent(NewOfferReconciledEvent(o, old))
}

// ClearLedgerLink drops the cached remote quotation after it disappeared
// from the ledger. Running it again on a cleared offer changes nothing.
func (o *Offer) ClearLedgerLink() bool {
	if o.Ledger.ID == "" && o.Ledger.Number == "" && o.Ledger.Link == "" && o.Ledger.VoucherStatus == "" {
		return false
	}
	previous := o.Ledger.ID
	o.Ledger.ID = ""
	o.Ledger.Number = ""
	o.Ledger.Link = ""
	o.Ledger.VoucherStatus = ""
	if o.Ledger.RemovedAt == nil {
		removed := time.Now()
		o.Ledger.RemovedAt = &removed
	}
	o.touch()
	o.AddDomainEvent(NewOfferLedgerClearedEvent(o, previous))
	return true
}

// WasRemovedFromLedger reports whether the offer lost its quotation through reconciliation
func (o *Offer) WasRemovedFromLedger() bool {
	return !o.Ledger.IsLinked() && o.Ledger.RemovedAt != nil
}

// RefreshFromListing updates an offer from the ledger's quotation list.
// The list only reports archived or rejected as terminal states.
func (o *Offer) RefreshFromListing(remote RemoteState) {
	o.Ledger.Number = remote.Number
	if remote.Link != "" {
		o.Ledger.Link = remote.Link
	}
	if remote.VoucherStatus != "" {
		o.Ledger.VoucherStatus = remote.VoucherStatus
	}
	if remote.ValidUntil != nil {
		o.ValidUntil = *remote.ValidUntil
	}
	old := o.Status
	switch strings.ToLower(remote.Status) {
	case "archived":
		o.Status = OfferStatusInProgress
	case "rejected":
		o.Status = OfferStatusRejected
	}
	o.touch()
	o.AddDomainEvent(NewOfferReconciledEvent(o, old))
}

// NewOfferFromLedger materializes a local offer for a quotation that only exists remotely
func NewOfferFromLedger(quoteRequestID uuid.UUID, remote RemoteState) (*Offer, error) {
	if strings.TrimSpace(remote.ID) == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Ledger quotation id cannot be empty")
	}
	title := remote.Number
	if title == "" {
		title = ImportedOfferTitle
	}
	o, err := NewOffer(Draft{
		QuoteRequestID: quoteRequestID,
		Title:          title,
		Description:    ImportedOfferDescription,
		Currency:       valueobject.DefaultCurrency,
	})
	if err != nil {
		return nil, err
	}
	if remote.ValidUntil != nil {
		o.ValidUntil = *remote.ValidUntil
	}
	if remote.CreatedAt != nil {
		o.CreatedAt = *remote.CreatedAt
	}
	o.Ledger = LedgerQuote{
		ID:            remote.ID,
		Number:        remote.Number,
		Link:          remote.Link,
		CreatedAt:     remote.CreatedAt,
		VoucherStatus: remote.VoucherStatus,
	}
	if strings.EqualFold(remote.Status, "archived") {
		o.Status = OfferStatusInProgress
	}
	return o, nil
}

// ChangeStatus sets the local offer status
func (o *Offer) ChangeStatus(status OfferStatus) {
	if status == o.Status {
		return
	}
	old := o.Status
	o.Status = status
	o.touch()
	o.AddDomainEvent(NewOfferStatusChangedEvent(o, old))
}

// ChangeBillingStatus applies the offer billing rules.
// Billing requires the ledger to have recorded client acceptance.
func (o *Offer) ChangeBillingStatus(status billing.Status, isAdmin bool) error {
	if !billing.CanChangeOfferStatus(o.BillingStatus, status, isAdmin) {
		return shared.NewTransitionError("Offer billing", string(o.BillingStatus), string(status), isAdmin)
	}
	if status == billing.StatusBilled && !IsVoucherAccepted(o.Ledger.VoucherStatus) {
		return shared.NewTransitionError("Offer billing", string(o.BillingStatus), string(status), isAdmin)
	}
	old := o.BillingStatus
	o.BillingStatus = status
	o.touch()
	o.AddDomainEvent(NewOfferBillingStatusChangedEvent(o, old))
	return nil
}

// DaysUntilAcceptanceAt is the projection value: acceptance minus remote creation
// for accepted offers, otherwise the age of the remote quotation at now.
func (o *Offer) DaysUntilAcceptanceAt(now time.Time) *int {
	if o.Ledger.CreatedAt == nil {
		return nil
	}
	if o.Status == OfferStatusInProgress && o.ClientAcceptedAt != nil {
		return daysBetween(o.Ledger.CreatedAt, *o.ClientAcceptedAt)
	}
	return daysBetween(o.Ledger.CreatedAt, now)
}

func (o *Offer) touch() {
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// daysBetween counts whole days, truncated toward zero
func daysBetween(from *time.Time, to time.Time) *int {
	if from == nil {
		return nil
	}
	days := int(to.Sub(*from) / (24 * time.Hour))
	return &days
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "Offer title cannot be empty")
	}
	if len(title) > 300 {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "Offer title cannot exceed 300 characters")
	}
	return title, nil
}
