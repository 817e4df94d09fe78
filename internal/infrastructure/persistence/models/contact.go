package models

import (
	"time"

	"github.com/crm/backend/internal/domain/billing"
	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/shared/valueobject"
)

// AddressColumns is an embedded postal address
type AddressColumns struct {
	Street      string `gorm:"type:varchar(200)"`
	Zip         string `gorm:"type:varchar(20)"`
	City        string `gorm:"type:varchar(100)"`
	CountryCode string `gorm:"type:varchar(2)"`
	Supplement  string `gorm:"type:varchar(200)"`
}

func addressColumns(a valueobject.PostalAddress) AddressColumns {
	return AddressColumns(a)
}

func (c AddressColumns) toValue() valueobject.PostalAddress {
	return valueobject.PostalAddress(c)
}

// ConsentColumns is an embedded consent flag with its timestamp
type ConsentColumns struct {
	Accepted   bool `gorm:"not null;default:false"`
	AcceptedAt *time.Time
}

// ContactModel is the persistence model for the Contact aggregate
type ContactModel struct {
	AggregateModel
	Salutation           string         `gorm:"type:varchar(50)"`
	FirstName            string         `gorm:"type:varchar(100)"`
	LastName             string         `gorm:"type:varchar(100)"`
	Email                string         `gorm:"type:varchar(320);not null;index:idx_contacts_email,unique,expression:LOWER(email)"`
	Phone                string         `gorm:"type:varchar(50)"`
	PartnerCode          *string        `gorm:"type:varchar(50);index"`
	Notes                string         `gorm:"type:text"`
	CompanyName          string         `gorm:"type:varchar(200)"`
	TaxNumber            string         `gorm:"type:varchar(50)"`
	VatRegistrationID    string         `gorm:"type:varchar(50)"`
	AllowTaxFreeInvoices bool           `gorm:"not null;default:false"`
	Billing              AddressColumns `gorm:"embedded;embeddedPrefix:billing_"`
	Shipping             AddressColumns `gorm:"embedded;embeddedPrefix:shipping_"`
	EmailBusiness        string         `gorm:"type:varchar(320)"`
	EmailOffice          string         `gorm:"type:varchar(320)"`
	EmailPrivate         string         `gorm:"type:varchar(320)"`
	EmailOther           string         `gorm:"type:varchar(320)"`
	PhoneBusiness        string         `gorm:"type:varchar(50)"`
	PhoneOffice          string         `gorm:"type:varchar(50)"`
	PhoneMobile          string         `gorm:"type:varchar(50)"`
	PhonePrivate         string         `gorm:"type:varchar(50)"`
	PhoneFax             string         `gorm:"type:varchar(50)"`
	PhoneOther           string         `gorm:"type:varchar(50)"`
	PrivacyPolicy        ConsentColumns `gorm:"embedded;embeddedPrefix:privacy_policy_"`
	Terms                ConsentColumns `gorm:"embedded;embeddedPrefix:terms_"`
	DataProcessing       ConsentColumns `gorm:"embedded;embeddedPrefix:data_processing_"`
	LedgerContactID      *string        `gorm:"type:varchar(100);uniqueIndex"`
	BillingStatus        billing.Status `gorm:"type:varchar(20);not null;default:'New'"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the model to a domain Contact
func (m *ContactModel) ToDomain() *contact.Contact {
	return &contact.Contact{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Salutation:        m.Salutation,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		Email:             m.Email,
		Phone:             m.Phone,
		PartnerCode:       m.PartnerCode,
		Notes:             m.Notes,
		Company: contact.Company{
			Name:                 m.CompanyName,
			TaxNumber:            m.TaxNumber,
			VatRegistrationID:    m.VatRegistrationID,
			AllowTaxFreeInvoices: m.AllowTaxFreeInvoices,
		},
		Billing:  m.Billing.toValue(),
		Shipping: m.Shipping.toValue(),
		Emails: contact.EmailChannels{
			Business: m.EmailBusiness,
			Office:   m.EmailOffice,
			Private:  m.EmailPrivate,
			Other:    m.EmailOther,
		},
		Phones: contact.PhoneChannels{
			Business: m.PhoneBusiness,
			Office:   m.PhoneOffice,
			Mobile:   m.PhoneMobile,
			Private:  m.PhonePrivate,
			Fax:      m.PhoneFax,
			Other:    m.PhoneOther,
		},
		PrivacyPolicy:   contact.Consent(m.PrivacyPolicy),
		Terms:           contact.Consent(m.Terms),
		DataProcessing:  contact.Consent(m.DataProcessing),
		LedgerContactID: m.LedgerContactID,
		BillingStatus:   m.BillingStatus,
	}
}

// ContactModelFromDomain creates a persistence model from a domain Contact
func ContactModelFromDomain(c *contact.Contact) *ContactModel {
	m := &ContactModel{
		Salutation:           c.Salutation,
		FirstName:            c.FirstName,
		LastName:             c.LastName,
		Email:                c.Email,
		Phone:                c.Phone,
		PartnerCode:          c.PartnerCode,
		Notes:                c.Notes,
		CompanyName:          c.Company.Name,
		TaxNumber:            c.Company.TaxNumber,
		VatRegistrationID:    c.Company.VatRegistrationID,
		AllowTaxFreeInvoices: c.Company.AllowTaxFreeInvoices,
		Billing:              addressColumns(c.Billing),
		Shipping:             addressColumns(c.Shipping),
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
		PrivacyPolicy:        ConsentColumns(c.PrivacyPolicy),
		Terms:                ConsentColumns(c.Terms),
		DataProcessing:       ConsentColumns(c.DataProcessing),
		LedgerContactID:      c.LedgerContactID,
		BillingStatus:        c.BillingStatus,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}
