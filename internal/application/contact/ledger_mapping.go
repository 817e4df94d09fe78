package contact

import (
	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/integration"
)

// toLedgerContact maps a contact onto the ledger's contact record.
// The partner code travels as the ledger note.
func toLedgerContact(c *contact.Contact) integration.LedgerContact {
	lc := integration.LedgerContact{
		Salutation:           c.Salutation,
		FirstName:            c.FirstName,
		LastName:             c.LastName,
		Email:                c.Email,
		Phone:                c.Phone,
		CompanyName:          c.Company.Name,
		TaxNumber:            c.Company.TaxNumber,
		VatRegistrationID:    c.Company.VatRegistrationID,
		AllowTaxFreeInvoices: c.Company.AllowTaxFreeInvoices,
		Billing:              c.Billing,
		Shipping:             c.Shipping,
		EmailBusiness:        c.Emails.Business,
		EmailOffice:          c.Emails.Office,
		EmailPrivate:         c.Emails.Private,
		EmailOther:           c.Emails.Other,
		PhoneBusiness:        c.Phones.Business,
		PhoneOffice:          c.Phones.Office,
		PhoneMobile:          c.Phones.Mobile,
		PhonePrivate:         c.Phones.Private,
		PhoneFax:             c.Phones.Fax,
		PhoneOther:           c.Phones.Other,
	}
	if c.PartnerCode != nil {
		lc.Note = *c.PartnerCode
	}
	return lc
}
