package quote

import (
	"strings"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Line item defaults used when the caller leaves a field empty
const (
	DefaultLineItemType = "service"
	DefaultUnitName     = "Tage"
)

// DefaultTaxRate is the tax rate percentage applied when none is given
var DefaultTaxRate = decimal.NewFromInt(19)

// LineItem is one position of an offer as sent to the ledger
type LineItem struct {
	ArticleID         string
	Type              string
	Name              string
	Description       string
	Quantity          decimal.Decimal
	UnitName          string
	UnitPrice         decimal.Decimal
	TaxRatePercentage decimal.Decimal
	Days              int
}

// Normalize fills defaults and validates the item
func (li LineItem) Normalize() (LineItem, error) {
	li.Name = strings.TrimSpace(li.Name)
	if li.Name == "" {
		return li, shared.NewDomainError(shared.CodeInvalidInput, "Line item name cannot be empty")
	}
	if li.Type == "" {
		li.Type = DefaultLineItemType
	}
	if li.UnitName == "" {
		li.UnitName = DefaultUnitName
	}
	if li.Quantity.IsZero() {
		li.Quantity = decimal.NewFromInt(1)
	}
	if li.Quantity.IsNegative() {
		return li, shared.NewDomainError(shared.CodeInvalidInput, "Line item quantity cannot be negative")
	}
	if li.UnitPrice.IsNegative() {
		return li, shared.NewDomainError(shared.CodeInvalidInput, "Line item unit price cannot be negative")
	}
	if li.TaxRatePercentage.IsNegative() {
		return li, shared.NewDomainError(shared.CodeInvalidInput, "Line item tax rate cannot be negative")
	}
	if li.Days < 0 {
		return li, shared.NewDomainError(shared.CodeInvalidInput, "Line item days cannot be negative")
	}
	return li, nil
}

// NetAmount is quantity times unit price
func (li LineItem) NetAmount() decimal.Decimal {
	return li.Quantity.Mul(li.UnitPrice)
}

// TotalDays sums the day counts of the items
func TotalDays(items []LineItem) int {
	total := 0
	for _, item := range items {
		total += item.Days
	}
	return total
}

// DeriveTitle builds the offer title from the application type and the first line item.
// The fallback is only used when there are no line items.
func DeriveTitle(applicationTypeName string, items []LineItem, fallback string) string {
	if len(items) == 0 || strings.TrimSpace(items[0].Name) == "" {
		return strings.TrimSpace(fallback)
	}
	first := strings.TrimSpace(items[0].Name)
	if name := strings.TrimSpace(applicationTypeName); name != "" {
		return name + " - " + first
	}
	return first
}
