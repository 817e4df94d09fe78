package contact

import (
	"time"

	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// AddressInput is an address block in requests
type AddressInput struct {
	Street      string `json:"street" binding:"max=200"`
	Zip         string `json:"zip" binding:"max=20"`
	City        string `json:"city" binding:"max=100"`
	CountryCode string `json:"country_code" binding:"omitempty,country"`
	Supplement  string `json:"supplement" binding:"max=200"`
}

func (a AddressInput) toValue() valueobject.PostalAddress {
	return valueobject.PostalAddress{
		Street:      a.Street,
		Zip:         a.Zip,
		City:        a.City,
		CountryCode: a.CountryCode,
		Supplement:  a.Supplement,
	}
}

// CompanyInput is the company block in requests
type CompanyInput struct {
	Name                 string `json:"name" binding:"max=200"`
	TaxNumber            string `json:"tax_number" binding:"max=50"`
	VatRegistrationID    string `json:"vat_registration_id" binding:"max=50"`
	AllowTaxFreeInvoices bool   `json:"allow_tax_free_invoices"`
}

// EmailChannelsInput are the categorized e-mails in requests
type EmailChannelsInput struct {
	Business string `json:"business" binding:"omitempty,email"`
	Office   string `json:"office" binding:"omitempty,email"`
	Private  string `json:"private" binding:"omitempty,email"`
	Other    string `json:"other" binding:"omitempty,email"`
}

// PhoneChannelsInput are the categorized phone numbers in requests
type PhoneChannelsInput struct {
	Business string `json:"business" binding:"max=50"`
	Office   string `json:"office" binding:"max=50"`
	Mobile   string `json:"mobile" binding:"max=50"`
	Private  string `json:"private" binding:"max=50"`
	Fax      string `json:"fax" binding:"max=50"`
	Other    string `json:"other" binding:"max=50"`
}

// ContactRequest creates or updates a contact. Update overwrites every field.
type ContactRequest struct {
	Salutation             string             `json:"salutation" binding:"max=50"`
	FirstName              string             `json:"first_name" binding:"max=100"`
	LastName               string             `json:"last_name" binding:"max=100"`
	Email                  string             `json:"email" binding:"required,email,max=200"`
	Phone                  string             `json:"phone" binding:"max=50"`
	PartnerCode            string             `json:"partner_code" binding:"max=50"`
	Notes                  string             `json:"notes"`
	Requirements           string             `json:"requirements"`
	Company                CompanyInput       `json:"company"`
	Billing                AddressInput       `json:"billing_address"`
	Shipping               AddressInput       `json:"shipping_address"`
	Emails                 EmailChannelsInput `json:"emails"`
	Phones                 PhoneChannelsInput `json:"phones"`
	PrivacyPolicyAccepted  bool               `json:"privacy_policy_accepted"`
	TermsAccepted          bool               `json:"terms_accepted"`
	DataProcessingAccepted bool               `json:"data_processing_accepted"`
}

func (r ContactRequest) toDetails() contact.Details {
	notes := r.Notes
	if notes == "" {
		notes = r.Requirements
	}
	return contact.Details{
		Salutation:  r.Salutation,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		Phone:       r.Phone,
		PartnerCode: r.PartnerCode,
		Notes:       notes,
		Company: contact.Company{
			Name:                 r.Company.Name,
			TaxNumber:            r.Company.TaxNumber,
			VatRegistrationID:    r.Company.VatRegistrationID,
			AllowTaxFreeInvoices: r.Company.AllowTaxFreeInvoices,
		},
		Billing:  r.Billing.toValue(),
		Shipping: r.Shipping.toValue(),
		Emails:   contact.EmailChannels(r.Emails),
		Phones:   contact.PhoneChannels(r.Phones),
		Consents: contact.Consents{
			PrivacyPolicy:  r.PrivacyPolicyAccepted,
			Terms:          r.TermsAccepted,
			DataProcessing: r.DataProcessingAccepted,
		},
	}
}

// WebhookLeadRequest is a lead submitted by the public intake form
type WebhookLeadRequest struct {
	FirstName             string `json:"first_name" binding:"max=100"`
	LastName              string `json:"last_name" binding:"max=100"`
	Email                 string `json:"email" binding:"required,email,max=200"`
	Phone                 string `json:"phone" binding:"max=50"`
	Company               string `json:"company" binding:"max=200"`
	PartnerCode           string `json:"partner_id" binding:"max=50"`
	Requirements          string `json:"requirements"`
	PrivacyPolicyAccepted bool   `json:"privacy_policy_accepted"`
}

// toContactRequest applies the privacy acceptance to all three consent flags
func (l WebhookLeadRequest) toContactRequest() ContactRequest {
	return ContactRequest{
		FirstName:              l.FirstName,
		LastName:               l.LastName,
		Email:                  l.Email,
		Phone:                  l.Phone,
		PartnerCode:            l.PartnerCode,
		Requirements:           l.Requirements,
		Company:                CompanyInput{Name: l.Company},
		PrivacyPolicyAccepted:  l.PrivacyPolicyAccepted,
		TermsAccepted:          l.PrivacyPolicyAccepted,
		DataProcessingAccepted: l.PrivacyPolicyAccepted,
	}
}

// UpdateBillingStatusRequest changes a billing status
type UpdateBillingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListContactsFilter holds list parameters
type ListContactsFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
}

// AddressResponse is an address block in responses
type AddressResponse struct {
	Street      string `json:"street,omitempty"`
	Zip         string `json:"zip,omitempty"`
	City        string `json:"city,omitempty"`
	CountryCode string `json:"country_code"`
	Supplement  string `json:"supplement,omitempty"`
}

// ConsentResponse is one consent flag in responses
type ConsentResponse struct {
	Accepted   bool       `json:"accepted"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
}

// ContactResponse represents a contact in API responses
type ContactResponse struct {
	ID              uuid.UUID          `json:"id"`
	Salutation      string             `json:"salutation,omitempty"`
	FirstName       string             `json:"first_name"`
	LastName        string             `json:"last_name"`
	FullName        string             `json:"full_name"`
	Email           string             `json:"email"`
	Phone           string             `json:"phone,omitempty"`
	PartnerCode     *string            `json:"partner_code,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	Company         CompanyInput       `json:"company"`
	Billing         AddressResponse    `json:"billing_address"`
	Shipping        AddressResponse    `json:"shipping_address"`
	Emails          EmailChannelsInput `json:"emails"`
	Phones          PhoneChannelsInput `json:"phones"`
	PrivacyPolicy   ConsentResponse    `json:"privacy_policy"`
	Terms           ConsentResponse    `json:"terms"`
	DataProcessing  ConsentResponse    `json:"data_processing"`
	LedgerContactID *string            `json:"ledger_contact_id,omitempty"`
	BillingStatus   string             `json:"billing_status"`
	Version         int                `json:"version"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// ContactListResponse is a page of contacts
type ContactListResponse struct {
	Items    []ContactResponse `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// ToContactResponse converts a domain Contact to ContactResponse
func ToContactResponse(c *contact.Contact) ContactResponse {
	return ContactResponse{
		ID:          c.ID,
		Salutation:  c.Salutation,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		FullName:    c.FullName(),
		Email:       c.Email,
		Phone:       c.Phone,
		PartnerCode: c.PartnerCode,
		Notes:       c.Notes,
		Company: CompanyInput{
			Name:                 c.Company.Name,
			TaxNumber:            c.Company.TaxNumber,
			VatRegistrationID:    c.Company.VatRegistrationID,
			AllowTaxFreeInvoices: c.Company.AllowTaxFreeInvoices,
		},
		Billing:         toAddressResponse(c.Billing),
		Shipping:        toAddressResponse(c.Shipping),
		Emails:          EmailChannelsInput(c.Emails),
		Phones:          PhoneChannelsInput(c.Phones),
		PrivacyPolicy:   ConsentResponse(c.PrivacyPolicy),
		Terms:           ConsentResponse(c.Terms),
		DataProcessing:  ConsentResponse(c.DataProcessing),
		LedgerContactID: c.LedgerContactID,
		BillingStatus:   string(c.BillingStatus),
		Version:         c.Version,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// ToContactResponses converts a slice of contacts
func ToContactResponses(contacts []contact.Contact) []ContactResponse {
	responses := make([]ContactResponse, len(contacts))
	for i := range contacts {
		responses[i] = ToContactResponse(&contacts[i])
	}
	return responses
}

func toAddressResponse(a valueobject.PostalAddress) AddressResponse {
	return AddressResponse{
		Street:      a.Street,
		Zip:         a.Zip,
		City:        a.City,
		CountryCode: a.CountryOrDefault(),
		Supplement:  a.Supplement,
	}
}
