package ledger

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a decimal sent as a bare JSON number.
// Decoding also accepts quoted numbers, which the ledger uses for some tax rates.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps a decimal
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// MarshalJSON writes the decimal without quotes
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// UnmarshalJSON reads a JSON number or a numeric string
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		a.Decimal = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("ledger: invalid amount %q: %w", s, err)
	}
	a.Decimal = d
	return nil
}

func amountPtr(a *Amount) *decimal.Decimal {
	if a == nil {
		return nil
	}
	d := a.Decimal
	return &d
}

// ---------------------------------------------------------------------------
// Contacts
// ---------------------------------------------------------------------------

type contactRoles struct {
	Customer struct{} `json:"customer"`
}

type contactPayload struct {
	Version        int                 `json:"version"`
	Roles          contactRoles        `json:"roles"`
	Person         *personPayload      `json:"person,omitempty"`
	Company        *companyPayload     `json:"company,omitempty"`
	Addresses      *addressesPayload   `json:"addresses,omitempty"`
	EmailAddresses map[string][]string `json:"emailAddresses,omitempty"`
	PhoneNumbers   map[string][]string `json:"phoneNumbers,omitempty"`
	Note           string              `json:"note,omitempty"`
}

type personPayload struct {
	Salutation string `json:"salutation,omitempty"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
}

type companyPayload struct {
	Name                 string          `json:"name"`
	TaxNumber            string          `json:"taxNumber,omitempty"`
	VatRegistrationID    string          `json:"vatRegistrationId,omitempty"`
	AllowTaxFreeInvoices bool            `json:"allowTaxFreeInvoices,omitempty"`
	ContactPersons       []contactPerson `json:"contactPersons,omitempty"`
}

type contactPerson struct {
	Salutation   string `json:"salutation,omitempty"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Primary      bool   `json:"primary"`
	EmailAddress string `json:"emailAddress,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
}

type addressesPayload struct {
	Billing  []addressPayload `json:"billing,omitempty"`
	Shipping []addressPayload `json:"shipping,omitempty"`
}

type addressPayload struct {
	Supplement  string `json:"supplement,omitempty"`
	Street      string `json:"street"`
	Zip         string `json:"zip,omitempty"`
	City        string `json:"city"`
	CountryCode string `json:"countryCode"`
}

type contactResponse struct {
	ID       string `json:"id"`
	Version  int    `json:"version"`
	Archived bool   `json:"archived"`
}

type idResponse struct {
	ID string `json:"id"`
}

// ---------------------------------------------------------------------------
// Quotations
// ---------------------------------------------------------------------------

type quotationPayload struct {
	VoucherDate    string               `json:"voucherDate"`
	ExpirationDate string               `json:"expirationDate"`
	Address        quotationAddress     `json:"address"`
	LineItems      []lineItemPayload    `json:"lineItems"`
	TotalPrice     totalPricePayload    `json:"totalPrice"`
	TaxConditions  taxConditionsPayload `json:"taxConditions"`
	Title          string               `json:"title,omitempty"`
}

type quotationAddress struct {
	ContactID string `json:"contactId"`
}

type lineItemPayload struct {
	ID          string           `json:"id,omitempty"`
	Type        string           `json:"type"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Quantity    Amount           `json:"quantity"`
	UnitName    string           `json:"unitName"`
	UnitPrice   unitPricePayload `json:"unitPrice"`
}

type unitPricePayload struct {
	Currency          string `json:"currency"`
	NetAmount         Amount `json:"netAmount"`
	TaxRatePercentage Amount `json:"taxRatePercentage"`
}

type totalPricePayload struct {
	Currency string `json:"currency"`
}

type taxConditionsPayload struct {
	TaxType string `json:"taxType"`
}

type quotationResponse struct {
	ID                 string              `json:"id"`
	VoucherNumber      string              `json:"voucherNumber"`
	VoucherStatus      string              `json:"voucherStatus"`
	VoucherDate        string              `json:"voucherDate"`
	ExpirationDate     string              `json:"expirationDate"`
	Archived           bool                `json:"archived"`
	Files              json.RawMessage     `json:"files"`
	ShippingConditions *shippingConditions `json:"shippingConditions"`
	Address            quotationAddress    `json:"address"`
	LineItems          []lineItemResponse  `json:"lineItems"`
}

type shippingConditions struct {
	ShippingEndDate string `json:"shippingEndDate"`
}

type fileRef struct {
	Href string `json:"href"`
}

type lineItemResponse struct {
	ID          string             `json:"id"`
	Type        string             `json:"type"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Quantity    *Amount            `json:"quantity"`
	UnitName    string             `json:"unitName"`
	UnitPrice   *unitPriceResponse `json:"unitPrice"`
}

type unitPriceResponse struct {
	NetAmount         *Amount `json:"netAmount"`
	TaxRatePercentage *Amount `json:"taxRatePercentage"`
}

type quotationList struct {
	Content []quotationResponse `json:"content"`
}

// ---------------------------------------------------------------------------
// Articles
// ---------------------------------------------------------------------------

type articleResponse struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Name          string             `json:"name"`
	ArticleNumber string             `json:"articleNumber"`
	Number        string             `json:"number"`
	Description   string             `json:"description"`
	UnitName      string             `json:"unitName"`
	Price         *articlePrice      `json:"price"`
	UnitPrice     *unitPriceResponse `json:"unitPrice"`
}

type articlePrice struct {
	NetPrice *Amount `json:"netPrice"`
	TaxRate  *Amount `json:"taxRate"`
}

type articleList struct {
	Content []articleResponse `json:"content"`
}
