package ledger

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/integration"
	"github.com/crm/backend/internal/domain/shared/valueobject"
)

// voucherDateLayout is the date format the ledger expects on quotations
const voucherDateLayout = "2006-01-02T15:04:05.000-07:00"

// ledgerZone is the fixed +01:00 offset used for voucher dates
var ledgerZone = time.FixedZone("CET", 60*60)

func formatVoucherDate(t time.Time) string {
	return t.In(ledgerZone).Format(voucherDateLayout)
}

// parseLedgerTime accepts RFC 3339 timestamps and plain dates; anything else is nil
func parseLedgerTime(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.000", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

// toContactPayload builds the create/update body. A company name selects the
// company block with one contact person; otherwise a person block is sent.
func toContactPayload(c integration.LedgerContact, version int) contactPayload {
	p := contactPayload{Version: version}

	if strings.TrimSpace(c.CompanyName) != "" {
		company := &companyPayload{
			Name:                 c.CompanyName,
			TaxNumber:            c.TaxNumber,
			VatRegistrationID:    c.VatRegistrationID,
			AllowTaxFreeInvoices: c.AllowTaxFreeInvoices,
		}
		if c.FirstName != "" || c.LastName != "" {
			company.ContactPersons = []contactPerson{{
				Salutation:   c.Salutation,
				FirstName:    c.FirstName,
				LastName:     c.LastName,
				EmailAddress: c.Email,
				PhoneNumber:  firstNonEmpty(c.Phone, c.PhoneBusiness, c.PhoneMobile),
			}}
		}
		p.Company = company
	} else {
		p.Person = &personPayload{
			Salutation: c.Salutation,
			FirstName:  c.FirstName,
			LastName:   c.LastName,
		}
	}

	billing, billingOK := toAddress(c.Billing)
	shipping, shippingOK := toAddress(c.Shipping)
	if billingOK || shippingOK {
		p.Addresses = &addressesPayload{}
		if billingOK {
			p.Addresses.Billing = []addressPayload{billing}
		}
		if shippingOK {
			p.Addresses.Shipping = []addressPayload{shipping}
		}
	}

	p.EmailAddresses = channels(c.Email, map[string]string{
		"business": c.EmailBusiness,
		"office":   c.EmailOffice,
		"private":  c.EmailPrivate,
		"other":    c.EmailOther,
	})
	p.PhoneNumbers = channels(c.Phone, map[string]string{
		"business": c.PhoneBusiness,
		"office":   c.PhoneOffice,
		"mobile":   c.PhoneMobile,
		"private":  c.PhonePrivate,
		"fax":      c.PhoneFax,
		"other":    c.PhoneOther,
	})
	p.Note = c.Note
	return p
}

// toAddress maps an address that has at least street and city
func toAddress(a valueobject.PostalAddress) (addressPayload, bool) {
	if !a.IsComplete() {
		return addressPayload{}, false
	}
	return addressPayload{
		Supplement:  a.Supplement,
		Street:      a.Street,
		Zip:         a.Zip,
		City:        a.City,
		CountryCode: a.CountryOrDefault(),
	}, true
}

// channels keeps the set categories; without any, the main value is filed as business
func channels(main string, byCategory map[string]string) map[string][]string {
	out := make(map[string][]string)
	for category, value := range byCategory {
		if value != "" {
			out[category] = []string{value}
		}
	}
	if len(out) == 0 && main != "" {
		out["business"] = []string{main}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func toQuotationPayload(d integration.QuoteDraft, now time.Time) quotationPayload {
	items := make([]lineItemPayload, len(d.LineItems))
	for i, li := range d.LineItems {
		items[i] = lineItemPayload{
			ID:          li.ArticleID,
			Type:        li.Type,
			Name:        li.Name,
			Description: li.Description,
			Quantity:    NewAmount(li.Quantity),
			UnitName:    li.UnitName,
			UnitPrice: unitPricePayload{
				Currency:          d.Currency,
				NetAmount:         NewAmount(li.UnitPrice),
				TaxRatePercentage: NewAmount(li.TaxRatePercentage),
			},
		}
	}
	return quotationPayload{
		VoucherDate:    formatVoucherDate(now),
		ExpirationDate: formatVoucherDate(d.ValidUntil),
		Address:        quotationAddress{ContactID: d.ContactID},
		LineItems:      items,
		TotalPrice:     totalPricePayload{Currency: d.Currency},
		TaxConditions:  taxConditionsPayload{TaxType: "net"},
		Title:          d.Title,
	}
}

// toRemoteQuote maps a quotation. Status prefers the voucher status and falls
// back to archived/active; validity prefers expirationDate over the shipping end date.
func toRemoteQuote(q quotationResponse) integration.RemoteQuote {
	status := q.VoucherStatus
	if status == "" {
		status = "active"
		if q.Archived {
			status = "archived"
		}
	}

	validUntil := parseLedgerTime(q.ExpirationDate)
	if validUntil == nil && q.ShippingConditions != nil {
		validUntil = parseLedgerTime(q.ShippingConditions.ShippingEndDate)
	}

	items := make([]integration.RemoteLineItem, 0, len(q.LineItems))
	for _, li := range q.LineItems {
		item := integration.RemoteLineItem{
			ID:          li.ID,
			Type:        li.Type,
			Name:        li.Name,
			Description: li.Description,
			UnitName:    li.UnitName,
		}
		if li.Quantity != nil {
			item.Quantity = li.Quantity.Decimal
		}
		if li.UnitPrice != nil {
			if li.UnitPrice.NetAmount != nil {
				item.UnitPrice = li.UnitPrice.NetAmount.Decimal
			}
			if li.UnitPrice.TaxRatePercentage != nil {
				item.TaxRatePercentage = li.UnitPrice.TaxRatePercentage.Decimal
			}
		}
		items = append(items, item)
	}

	return integration.RemoteQuote{
		ID:            q.ID,
		Number:        q.VoucherNumber,
		Link:          fileLink(q.Files),
		CreatedAt:     parseLedgerTime(q.VoucherDate),
		ValidUntil:    validUntil,
		Status:        status,
		VoucherStatus: q.VoucherStatus,
		LineItems:     items,
	}
}

// fileLink reads href from either a files array or a single files object
func fileLink(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var list []fileRef
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) > 0 {
			return list[0].Href
		}
		return ""
	}
	var single fileRef
	if err := json.Unmarshal(raw, &single); err == nil {
		return single.Href
	}
	return ""
}

// toArticle maps a catalogue entry; ok is false for entries without id
func toArticle(a articleResponse) (integration.Article, bool) {
	if a.ID == "" {
		return integration.Article{}, false
	}
	name := firstNonEmpty(a.Title, a.Name)
	number := firstNonEmpty(a.ArticleNumber, a.Number)

	article := integration.Article{
		ID:          a.ID,
		Number:      number,
		Name:        firstNonEmpty(name, a.Description, number, a.ID),
		Description: a.Description,
		UnitName:    a.UnitName,
	}
	if a.Price != nil {
		article.UnitPrice = amountPtr(a.Price.NetPrice)
		article.TaxRatePercentage = amountPtr(a.Price.TaxRate)
	}
	if article.UnitPrice == nil && a.UnitPrice != nil {
		article.UnitPrice = amountPtr(a.UnitPrice.NetAmount)
	}
	if article.TaxRatePercentage == nil && a.UnitPrice != nil {
		article.TaxRatePercentage = amountPtr(a.UnitPrice.TaxRatePercentage)
	}
	return article, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
