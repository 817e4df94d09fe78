package contact

import (
	"net/mail"
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/billing"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/shared/valueobject"
)

// Consent records one accepted legal document
type Consent struct {
	Accepted   bool
	AcceptedAt *time.Time
}

// apply sets the flag; a newly accepted consent is stamped with now
func (c Consent) apply(accepted bool, now time.Time) Consent {
	if !accepted {
		return Consent{}
	}
	if c.Accepted && c.AcceptedAt != nil {
		return c
	}
	return Consent{Accepted: true, AcceptedAt: &now}
}

// Company holds the optional company block of a contact
type Company struct {
	Name                 string
	TaxNumber            string
	VatRegistrationID    string
	AllowTaxFreeInvoices bool
}

// IsSet reports whether the contact represents a company
func (c Company) IsSet() bool {
	return strings.TrimSpace(c.Name) != ""
}

// EmailChannels are the categorized e-mail addresses
type EmailChannels struct {
	Business string
	Office   string
	Private  string
	Other    string
}

// PhoneChannels are the categorized phone numbers
type PhoneChannels struct {
	Business string
	Office   string
	Mobile   string
	Private  string
	Fax      string
	Other    string
}

// Consents bundles the three consent flags
type Consents struct {
	PrivacyPolicy  bool
	Terms          bool
	DataProcessing bool
}

// Details is the full set of mutable contact fields
type Details struct {
	Salutation  string
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	PartnerCode string
	Notes       string
	Company     Company
	Billing     valueobject.PostalAddress
	Shipping    valueobject.PostalAddress
	Emails      EmailChannels
	Phones      PhoneChannels
	Consents    Consents
}

// Contact is the aggregate root of the contact context
type Contact struct {
	shared.BaseAggregateRoot
	Salutation      string
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	PartnerCode     *string
	Notes           string
	Company         Company
	Billing         valueobject.PostalAddress
	Shipping        valueobject.PostalAddress
	Emails          EmailChannels
	Phones          PhoneChannels
	PrivacyPolicy   Consent
	Terms           Consent
	DataProcessing  Consent
	LedgerContactID *string
	BillingStatus   billing.Status
}

// NewContact creates a contact in billing status New
func NewContact(details Details) (*Contact, error) {
	c := &Contact{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BillingStatus:     billing.StatusNew,
	}
	if err := c.apply(details, c.CreatedAt); err != nil {
		return nil, err
	}
	c.AddDomainEvent(NewContactCreatedEvent(c))
	return c, nil
}

// Update overwrites all mutable fields
func (c *Contact) Update(details Details) error {
	now := time.Now()
	if err := c.apply(details, now); err != nil {
		return err
	}
	c.UpdatedAt = now
	c.IncrementVersion()
	c.AddDomainEvent(NewContactUpdatedEvent(c))
	return nil
}

func (c *Contact) apply(d Details, now time.Time) error {
	email := strings.TrimSpace(d.Email)
	if err := validateEmail(email); err != nil {
		return err
	}
	first, last := strings.TrimSpace(d.FirstName), strings.TrimSpace(d.LastName)
	if first == "" && last == "" && !d.Company.IsSet() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Contact needs a name or a company")
	}
	billingAddr, err := normalizeAddress(d.Billing)
	if err != nil {
		return err
	}
	shippingAddr, err := normalizeAddress(d.Shipping)
	if err != nil {
		return err
	}

	c.Salutation = strings.TrimSpace(d.Salutation)
	c.FirstName = first
	c.LastName = last
	c.Email = email
	c.Phone = strings.TrimSpace(d.Phone)
	c.PartnerCode = optional(d.PartnerCode)
	c.Notes = d.Notes
	c.Company = d.Company
	c.Billing = billingAddr
	c.Shipping = shippingAddr
	c.Emails = d.Emails
	c.Phones = d.Phones
	if c.Emails.Business == "" {
		c.Emails.Business = c.Email
	}
	if c.Phones.Business == "" {
		c.Phones.Business = c.Phone
	}
	c.PrivacyPolicy = c.PrivacyPolicy.apply(d.Consents.PrivacyPolicy, now)
	c.Terms = c.Terms.apply(d.Consents.Terms, now)
	c.DataProcessing = c.DataProcessing.apply(d.Consents.DataProcessing, now)
	return nil
}

// FullName joins first and last name
func (c *Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// HasLedgerLink reports whether the contact is mirrored in the ledger
func (c *Contact) HasLedgerLink() bool {
	return c.LedgerContactID != nil && *c.LedgerContactID != ""
}

// LinkLedger stores the remote contact id returned by a successful remote create.
// A contact holds at most one ledger id.
func (c *Contact) LinkLedger(ledgerID string) error {
	ledgerID = strings.TrimSpace(ledgerID)
	if ledgerID == "" {
		return shared.NewInvalidOperationError("Ledger contact id cannot be empty")
	}
	if c.HasLedgerLink() {
		if *c.LedgerContactID == ledgerID {
			return nil
		}
		return shared.NewInvalidOperationError("Contact is already linked to a ledger contact")
	}
	c.LedgerContactID = &ledgerID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	c.AddDomainEvent(NewContactLedgerLinkedEvent(c))
	return nil
}

// UnlinkLedger drops the ledger reference after the remote record disappeared
func (c *Contact) UnlinkLedger() {
	if c.LedgerContactID == nil {
		return
	}
	previous := *c.LedgerContactID
	c.LedgerContactID = nil
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	c.AddDomainEvent(NewContactLedgerUnlinkedEvent(c, previous))
}

// ChangeBillingStatus applies the contact billing rules
func (c *Contact) ChangeBillingStatus(status billing.Status, isAdmin bool) error {
	if !billing.CanChangeContactStatus(c.BillingStatus, status, isAdmin) {
		return shared.NewTransitionError("Contact billing", string(c.BillingStatus), string(status), isAdmin)
	}
	old := c.BillingStatus
	c.BillingStatus = status
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	c.AddDomainEvent(NewContactBillingStatusChangedEvent(c, old))
	return nil
}

// NormalizeEmail is the form used for deduplication lookups
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Email cannot exceed 200 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return shared.NewDomainError(shared.CodeInvalidInput, "Invalid email format")
	}
	return nil
}

func normalizeAddress(a valueobject.PostalAddress) (valueobject.PostalAddress, error) {
	return valueobject.NewPostalAddress(a.Street, a.Zip, a.City, a.CountryCode, a.Supplement)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
